package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

const twitterBaseURL = "https://api.twitter.com/2"

// TwitterClient posts to the X API v2 on behalf of the authorized user. The
// http.Client it is built with injects the current access token per request,
// so a re-authorization swaps credentials without rebuilding the client.
type TwitterClient struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewTwitterClient(httpClient *http.Client, tracer trace.Tracer) *TwitterClient {
	return &TwitterClient{
		client:  httpClient,
		baseURL: twitterBaseURL,
		tracer:  tracer,
	}
}

type replyRef struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type createPostRequest struct {
	Text  string    `json:"text"`
	Reply *replyRef `json:"reply,omitempty"`
}

// CreatePost publishes a post and returns its id. A non-empty inReplyTo makes
// the post a reply, extending the thread.
func (c *TwitterClient) CreatePost(ctx context.Context, text, inReplyTo string) (string, error) {
	_, span := c.tracer.Start(ctx, "twitter.create-post")
	defer span.End()

	payload := createPostRequest{Text: text}
	if inReplyTo != "" {
		payload.Reply = &replyRef{InReplyToTweetID: inReplyTo}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tweets", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("twitter API error %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("parse create post response: %w", err)
	}
	if out.Data.ID == "" {
		return "", fmt.Errorf("create post response missing id: %s", string(body))
	}
	return out.Data.ID, nil
}
