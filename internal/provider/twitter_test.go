package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func testTwitterClient(rt roundTripFunc) *TwitterClient {
	c := NewTwitterClient(&http.Client{Transport: rt}, trace.NewNoopTracerProvider().Tracer("test"))
	c.baseURL = "http://example/2"
	return c
}

func TestCreatePost(t *testing.T) {
	t.Parallel()

	c := testTwitterClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.Path != "/2/tweets" {
			t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		body, _ := io.ReadAll(req.Body)
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload["text"] != "hello" {
			t.Fatalf("unexpected text: %v", payload["text"])
		}
		if _, ok := payload["reply"]; ok {
			t.Fatal("standalone post must not carry a reply ref")
		}
		return jsonResponse(http.StatusCreated, `{"data":{"id":"111"}}`), nil
	})

	id, err := c.CreatePost(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "111" {
		t.Fatalf("expected id 111, got %s", id)
	}
}

func TestCreatePostReply(t *testing.T) {
	t.Parallel()

	c := testTwitterClient(func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		var payload struct {
			Reply *replyRef `json:"reply"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.Reply == nil || payload.Reply.InReplyToTweetID != "111" {
			t.Fatalf("expected reply ref to 111, got %+v", payload.Reply)
		}
		return jsonResponse(http.StatusCreated, `{"data":{"id":"222"}}`), nil
	})

	id, err := c.CreatePost(context.Background(), "follow-up", "111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "222" {
		t.Fatalf("expected id 222, got %s", id)
	}
}

func TestCreatePostAPIError(t *testing.T) {
	t.Parallel()

	c := testTwitterClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusForbidden, `{"title":"Forbidden"}`), nil
	})

	if _, err := c.CreatePost(context.Background(), "hello", ""); err == nil {
		t.Fatal("expected error on 403")
	}
}

func TestCreatePostMissingID(t *testing.T) {
	t.Parallel()

	c := testTwitterClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusCreated, `{"data":{}}`), nil
	})

	if _, err := c.CreatePost(context.Background(), "hello", ""); err == nil {
		t.Fatal("expected error when response lacks an id")
	}
}
