package handler

import (
	"context"

	"trend-herald/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// Authorizer is the slice of the auth manager the HTTP surface needs.
type Authorizer interface {
	BeginAuthorization() (url, state string, err error)
	CompleteAuthorization(ctx context.Context, code, receivedState string) (*domain.Credential, error)
	Authenticated() bool
}

// ScheduleStarter is notified once authorization completes.
type ScheduleStarter interface {
	HandleAuthorized()
}

// TrendingLister returns the current trending set without enrichment.
type TrendingLister interface {
	FetchTrending(ctx context.Context) ([]*domain.CoinSnapshot, error)
}

// ThreadHistory lists recently published threads.
type ThreadHistory interface {
	RecentThreads(ctx context.Context, limit int) ([]*domain.PublishedThread, error)
}

type Handler struct {
	tracer   trace.Tracer
	auth     Authorizer
	starter  ScheduleStarter
	trending TrendingLister
	history  ThreadHistory
}

func New(tracer trace.Tracer, auth Authorizer, starter ScheduleStarter, trending TrendingLister, history ThreadHistory) *Handler {
	return &Handler{
		tracer:   tracer,
		auth:     auth,
		starter:  starter,
		trending: trending,
		history:  history,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/callback", h.Callback)
	r.GET("/health", h.Health)
	r.GET("/api/trending", h.GetTrending)
	r.GET("/api/threads", h.GetThreads)
}
