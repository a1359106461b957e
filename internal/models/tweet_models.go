package models

type Tweet struct {
	TweetID  string      `json:"tweet_id"`
	Text     string      `json:"text"`
	Author   TweetAuthor `json:"author"`
	Date     string      `json:"date"`
	Likes    int         `json:"likes"`
	Retweets int         `json:"retweets"`
	Replies  int         `json:"replies"`
}

type TweetAuthor struct {
	Name         string `json:"name"`
	ScreenName   string `json:"screen_name"`
	Image        string `json:"image"`
	BlueVerified bool   `json:"blue_verified"`
}

type TweetLookupResponse struct {
	Data     TweetLookupData     `json:"data"`
	Includes TweetLookupIncludes `json:"includes"`
	Errors   []TweetLookupError  `json:"errors,omitempty"`
}

type TweetLookupData struct {
	ID            string             `json:"id"`
	Text          string             `json:"text"`
	AuthorID      string             `json:"author_id"`
	CreatedAt     string             `json:"created_at"`
	PublicMetrics TweetPublicMetrics `json:"public_metrics"`
}

type TweetPublicMetrics struct {
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
	LikeCount    int `json:"like_count"`
	QuoteCount   int `json:"quote_count"`
}

type TweetLookupIncludes struct {
	Users []TweetLookupUser `json:"users"`
}

type TweetLookupUser struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url"`
	VerifiedType    string `json:"verified_type"`
}

type TweetLookupError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}
