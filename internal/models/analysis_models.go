package models

// StageResult is the fixed output shape shared by all three analysis
// stages. Note is only set on fallback-path results.
type StageResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Note       string  `json:"note,omitempty"`
}

type AnalysisResult struct {
	Sentiment         StageResult `json:"sentiment"`
	FactCheckTrigger  StageResult `json:"fact_check_trigger"`
	FakeNewsDetection StageResult `json:"fake_news_detection"`
}

// TweetAnalysis is the combined record returned to API consumers and
// published to the results topic.
type TweetAnalysis struct {
	RequestID string `json:"request_id,omitempty"`
	Tweet
	AnalysisResult
}

type AnalysisRequest struct {
	RequestID string `json:"request_id"`
	URL       string `json:"url"`
}
