package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/spacesedan/tweelyzer/internal/models"
)

const (
	TWITTER_AUTH_URL = "https://api.twitter.com/oauth2/token"
	TWITTER_API_URL  = "https://api.twitter.com/2"
)

var (
	twitterClientInstance *TwitterClient
	twitterClientOnce     sync.Once

	// accepts twitter.com, x.com and the mobile/statuses variants
	tweetURLPattern = regexp.MustCompile(`^(?:https?://)?(?:www\.|mobile\.)?(?:twitter\.com|x\.com)/[A-Za-z0-9_]+/status(?:es)?/(\d+)`)
)

type TwitterClient struct {
	Config  *clientcredentials.Config
	Client  *http.Client
	BaseURL string
	mu      sync.Mutex
}

func GetTwitterClient() *TwitterClient {
	twitterClientOnce.Do(func() {
		oauthConf := &clientcredentials.Config{
			ClientID:     os.Getenv("TWITTER_API_KEY"),
			ClientSecret: os.Getenv("TWITTER_API_SECRET"),
			TokenURL:     TWITTER_AUTH_URL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}

		twitterClientInstance = &TwitterClient{
			Config:  oauthConf,
			Client:  oauthConf.Client(context.Background()),
			BaseURL: TWITTER_API_URL,
		}
	})

	return twitterClientInstance
}

func (tc *TwitterClient) RefreshClient() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.Client = tc.Config.Client(context.Background())
}

// ParseTweetID extracts the numeric status ID from a tweet URL.
func ParseTweetID(rawURL string) (string, error) {
	m := tweetURLPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil {
		return "", fmt.Errorf("[TwitterClient] could not parse %q: %w", rawURL, ErrInvalidTweetURL)
	}
	return m[1], nil
}

// TweetFromURL resolves a tweet URL to its extracted record.
func (tc *TwitterClient) TweetFromURL(ctx context.Context, rawURL string) (models.Tweet, error) {
	tweetID, err := ParseTweetID(rawURL)
	if err != nil {
		return models.Tweet{}, err
	}
	return tc.LookupTweet(ctx, tweetID)
}

func (tc *TwitterClient) LookupTweet(ctx context.Context, tweetID string) (models.Tweet, error) {
	var tweet models.Tweet

	parsedUrl, err := url.Parse(fmt.Sprintf("%s/tweets/%s", tc.BaseURL, tweetID))
	if err != nil {
		return tweet, fmt.Errorf("[TwitterClient] Failed to parse URL: %w", err)
	}
	queryParams := parsedUrl.Query()
	queryParams.Add("tweet.fields", "created_at,public_metrics")
	queryParams.Add("expansions", "author_id")
	queryParams.Add("user.fields", "name,username,profile_image_url,verified_type")
	parsedUrl.RawQuery = queryParams.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedUrl.String(), nil)
	if err != nil {
		return tweet, err
	}

	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := tc.Client.Do(req)
	if err != nil {
		return tweet, fmt.Errorf("[TwitterClient] request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return tweet, err
		}
		var lookup models.TweetLookupResponse
		if err := json.Unmarshal(body, &lookup); err != nil {
			return tweet, fmt.Errorf("[TwitterClient] Failed to parse JSON response: %w", err)
		}
		if len(lookup.Errors) > 0 {
			slog.Warn("[TwitterClient] Tweet lookup returned errors",
				slog.String("tweet_id", tweetID),
				slog.String("detail", lookup.Errors[0].Detail))
			return tweet, fmt.Errorf("[TwitterClient] %s: %w", lookup.Errors[0].Title, ErrTweetNotFound)
		}
		return buildTweet(lookup), nil
	case http.StatusUnauthorized:
		slog.Warn("[TwitterClient] Token rejected - refreshing client for the next attempt")
		tc.RefreshClient()
		return tweet, fmt.Errorf("[TwitterClient] status %d: %w", resp.StatusCode, ErrUnauthorized)
	case http.StatusNotFound:
		return tweet, fmt.Errorf("[TwitterClient] tweet %s: %w", tweetID, ErrTweetNotFound)
	case http.StatusTooManyRequests:
		slog.Warn("[TwitterClient] 429 Too Many Requests")
		return tweet, fmt.Errorf("[TwitterClient] status %d: %w", resp.StatusCode, ErrRateLimited)
	default:
		return tweet, fmt.Errorf("[TwitterClient] unexpected status %d: %w", resp.StatusCode, ErrUpstream)
	}
}

func buildTweet(lookup models.TweetLookupResponse) models.Tweet {
	tweet := models.Tweet{
		TweetID:  lookup.Data.ID,
		Text:     lookup.Data.Text,
		Date:     lookup.Data.CreatedAt,
		Likes:    lookup.Data.PublicMetrics.LikeCount,
		Retweets: lookup.Data.PublicMetrics.RetweetCount,
		Replies:  lookup.Data.PublicMetrics.ReplyCount,
	}

	for _, user := range lookup.Includes.Users {
		if user.ID == lookup.Data.AuthorID {
			tweet.Author = models.TweetAuthor{
				Name:         user.Name,
				ScreenName:   user.Username,
				Image:        user.ProfileImageURL,
				BlueVerified: user.VerifiedType == "blue",
			}
			break
		}
	}

	return tweet
}
