package bot

import (
	"context"
	"log"
	"sync"
)

type ScheduleRunner interface {
	Start(ctx context.Context)
}

// Orchestrator bridges the authorization flow and the publish schedule.
// The schedule starts on the first completed authorization; later re-auths
// refresh credentials without spawning a second loop.
type Orchestrator struct {
	runner ScheduleRunner
	ctx    context.Context
	once   sync.Once
}

func NewOrchestrator(ctx context.Context, runner ScheduleRunner) *Orchestrator {
	return &Orchestrator{runner: runner, ctx: ctx}
}

func (o *Orchestrator) HandleAuthorized() {
	o.once.Do(func() {
		log.Println("Authorization complete, starting publish schedule")
		go o.runner.Start(o.ctx)
	})
}
