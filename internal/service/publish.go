package service

import (
	"context"
	"fmt"
	"time"

	"trend-herald/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// postSpacing is the minimum gap between consecutive posts of a thread.
const postSpacing = 2 * time.Second

type PostCreator interface {
	CreatePost(ctx context.Context, text, inReplyTo string) (string, error)
}

// PublishService posts a composed thread as a strictly linear reply chain.
type PublishService struct {
	tracer  trace.Tracer
	poster  PostCreator
	spacing time.Duration
}

func NewPublishService(tracer trace.Tracer, poster PostCreator) *PublishService {
	return &PublishService{
		tracer:  tracer,
		poster:  poster,
		spacing: postSpacing,
	}
}

// PublishThread posts element 0 standalone and each later element as a reply
// to the previous post. On the first failure it aborts immediately and
// returns the results for the posts that did go out; partial threads remain
// on the platform and are not rolled back.
func (s *PublishService) PublishThread(ctx context.Context, thread domain.Thread) ([]domain.PublishResult, error) {
	ctx, span := s.tracer.Start(ctx, "publish-service.publish-thread")
	defer span.End()

	results := make([]domain.PublishResult, 0, len(thread))
	lastID := ""
	for i, post := range thread {
		if i > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(s.spacing):
			}
		}

		id, err := s.poster.CreatePost(ctx, post, lastID)
		if err != nil {
			return results, fmt.Errorf("post %d of %d failed: %w", i+1, len(thread), err)
		}
		results = append(results, domain.PublishResult{PostID: id, InReplyTo: lastID})
		lastID = id
	}
	return results, nil
}
