package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

func TestParseTweetID_ValidURLs(t *testing.T) {
	cases := map[string]string{
		"https://twitter.com/jack/status/20":               "20",
		"https://x.com/jack/status/20":                     "20",
		"http://www.twitter.com/NASA/statuses/1234567890":  "1234567890",
		"https://mobile.twitter.com/jack/status/20":        "20",
		"x.com/jack/status/20":                             "20",
		"https://x.com/jack/status/20?s=46&t=share":        "20",
		"  https://twitter.com/jack/status/20  ":           "20",
		"https://twitter.com/under_score/status/987654321": "987654321",
	}

	for rawURL, want := range cases {
		id, err := ParseTweetID(rawURL)
		require.NoError(t, err, "url: %s", rawURL)
		assert.Equal(t, want, id, "url: %s", rawURL)
	}
}

func TestParseTweetID_InvalidURLs(t *testing.T) {
	cases := []string{
		"",
		"not a url",
		"https://example.com/jack/status/20",
		"https://twitter.com/jack",
		"https://twitter.com/jack/status/abc",
		"https://twitter.com/jack/likes/20",
	}

	for _, rawURL := range cases {
		_, err := ParseTweetID(rawURL)
		assert.ErrorIs(t, err, ErrInvalidTweetURL, "url: %q", rawURL)
	}
}

// newTestTwitterClient points both the token endpoint and the lookup API
// at the test server so no real credentials are needed.
func newTestTwitterClient(baseURL string) *TwitterClient {
	conf := &clientcredentials.Config{
		ClientID:     "test-key",
		ClientSecret: "test-secret",
		TokenURL:     baseURL + "/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	return &TwitterClient{
		Config:  conf,
		Client:  conf.Client(context.Background()),
		BaseURL: baseURL + "/2",
	}
}

func serveToken(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"access_token":"test-bearer","token_type":"bearer","expires_in":3600}`))
}

func TestLookupTweet_MapsResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", serveToken)
	mux.HandleFunc("/2/tweets/1234567890", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-bearer", r.Header.Get("Authorization"))
		assert.Equal(t, "created_at,public_metrics", r.URL.Query().Get("tweet.fields"))
		assert.Equal(t, "author_id", r.URL.Query().Get("expansions"))
		assert.Equal(t, "name,username,profile_image_url,verified_type", r.URL.Query().Get("user.fields"))

		w.Write([]byte(`{
			"data": {
				"id": "1234567890",
				"text": "We are going to the Moon!",
				"author_id": "11348282",
				"created_at": "2026-01-15T18:30:00.000Z",
				"public_metrics": {"retweet_count": 42, "reply_count": 7, "like_count": 128, "quote_count": 3}
			},
			"includes": {
				"users": [
					{"id": "99", "name": "Someone Else", "username": "other", "profile_image_url": "https://pbs.twimg.com/other.jpg", "verified_type": "none"},
					{"id": "11348282", "name": "NASA", "username": "nasa", "profile_image_url": "https://pbs.twimg.com/nasa.jpg", "verified_type": "blue"}
				]
			}
		}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	tc := newTestTwitterClient(ts.URL)
	tweet, err := tc.LookupTweet(context.Background(), "1234567890")

	require.NoError(t, err)
	assert.Equal(t, "1234567890", tweet.TweetID)
	assert.Equal(t, "We are going to the Moon!", tweet.Text)
	assert.Equal(t, "2026-01-15T18:30:00.000Z", tweet.Date)
	assert.Equal(t, 128, tweet.Likes)
	assert.Equal(t, 42, tweet.Retweets)
	assert.Equal(t, 7, tweet.Replies)
	assert.Equal(t, "NASA", tweet.Author.Name)
	assert.Equal(t, "nasa", tweet.Author.ScreenName)
	assert.Equal(t, "https://pbs.twimg.com/nasa.jpg", tweet.Author.Image)
	assert.True(t, tweet.Author.BlueVerified)
}

func TestLookupTweet_NotFoundStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", serveToken)
	mux.HandleFunc("/2/tweets/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	tc := newTestTwitterClient(ts.URL)
	_, err := tc.LookupTweet(context.Background(), "1")

	assert.ErrorIs(t, err, ErrTweetNotFound)
}

func TestLookupTweet_ErrorEnvelopeInsideOK(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", serveToken)
	mux.HandleFunc("/2/tweets/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"title":"Not Found Error","detail":"Could not find tweet with id: [1]."}]}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	tc := newTestTwitterClient(ts.URL)
	_, err := tc.LookupTweet(context.Background(), "1")

	assert.ErrorIs(t, err, ErrTweetNotFound)
}

func TestLookupTweet_RateLimited(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", serveToken)
	mux.HandleFunc("/2/tweets/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	tc := newTestTwitterClient(ts.URL)
	_, err := tc.LookupTweet(context.Background(), "1")

	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestTweetFromURL_InvalidURLSkipsNetwork(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer ts.Close()

	tc := newTestTwitterClient(ts.URL)
	_, err := tc.TweetFromURL(context.Background(), "https://example.com/not/a/tweet")

	assert.ErrorIs(t, err, ErrInvalidTweetURL)
	assert.Equal(t, int32(0), requests.Load())
}
