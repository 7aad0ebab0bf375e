// Package mqtt defines how optimized plans are pushed to home-automation
// controllers.
package mqtt

import (
	"context"
	"time"

	"github.com/kilianp07/powerplan/core/model"
)

// Plan is the message published after a successful optimization.
type Plan struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Result      model.Result       `json:"result"`
	Status      model.BudgetStatus `json:"status"`
}

// Publisher delivers plans to subscribers.
type Publisher interface {
	PublishPlan(ctx context.Context, plan Plan) error
	Close()
}

// NopPublisher drops every plan.
type NopPublisher struct{}

func (NopPublisher) PublishPlan(context.Context, Plan) error { return nil }
func (NopPublisher) Close()                                  {}
