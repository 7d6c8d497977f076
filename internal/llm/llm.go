// Package llm defines the text completion collaborator used by advice and research.
package llm

import (
	"context"
	"time"

	"github.com/michela/coach/internal/metrics"
	"github.com/michela/coach/internal/model"
)

// Completer returns the model's text for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Instrumented wraps a Completer so failures surface as model.UpstreamError and
// every call is recorded in the upstream metrics.
type Instrumented struct {
	next Completer
}

func Instrument(c Completer) *Instrumented { return &Instrumented{next: c} }

func (i *Instrumented) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := i.next.Complete(ctx, prompt)
	metrics.ObserveUpstream("llm", start, err)
	if err != nil {
		return "", model.NewUpstreamError("llm", err)
	}
	return out, nil
}

// HealthPing forwards to the wrapped completer when it can be pinged.
func (i *Instrumented) HealthPing(ctx context.Context) error {
	if p, ok := i.next.(interface{ HealthPing(context.Context) error }); ok {
		return p.HealthPing(ctx)
	}
	return nil
}
