package models

type InferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters *ZeroShotParameters `json:"parameters,omitempty"`
}

type ZeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

// ClassificationCandidate is one label/score pair from a text
// classification model. Responses arrive as a nested list of these.
type ClassificationCandidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ZeroShotResponse holds parallel label/score slices sorted by score,
// highest first.
type ZeroShotResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// InferenceError is the error envelope the Inference API returns inside
// an HTTP 200 body when the model itself cannot serve the request.
type InferenceError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

type ModelStatus struct {
	Loaded      bool   `json:"loaded"`
	State       string `json:"state"`
	ComputeType string `json:"compute_type"`
	Framework   string `json:"framework"`
}
