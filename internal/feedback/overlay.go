package feedback

import (
	"context"
	"errors"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/rs/zerolog/log"
	"sync"
	"time"
)

// DefaultDelay is how long input has to settle before a field is evaluated.
const DefaultDelay = time.Second

type Evaluator interface {
	Evaluate(ctx context.Context, password string) (strength.Verdict, error)
}

// OverlayState is what is rendered next to a password field. It never holds
// the password.
type OverlayState struct {
	Field     string        `json:"field"`
	Pending   bool          `json:"pending"`
	Tier      strength.Tier `json:"tier"`
	Reason    string        `json:"reason,omitempty"`
	Label     string        `json:"label,omitempty"`
	Color     string        `json:"color"`
	Error     string        `json:"error,omitempty"`
	UpdatedAt time.Time     `json:"updatedAt"`
	evaluated bool
}

// Evaluated reports if the field has a verdict or an error to show.
func (s OverlayState) Evaluated() bool {
	return s.evaluated
}

type overlay struct {
	state  OverlayState
	seq    uint64
	cancel func()
}

// Overlays keeps the feedback of every watched password field. New input for a
// field cancels the evaluation still pending or running for it, so only the
// latest input is ever rendered.
type Overlays struct {
	eval    Evaluator
	delay   time.Duration
	timeout time.Duration

	mu     sync.Mutex
	fields map[string]*overlay
	closed bool
	wg     sync.WaitGroup
}

func NewOverlays(eval Evaluator, delay time.Duration, timeout time.Duration) *Overlays {
	if delay < 0 {
		delay = DefaultDelay
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Overlays{
		eval:    eval,
		delay:   delay,
		timeout: timeout,
		fields:  make(map[string]*overlay),
	}
}

// Input schedules the evaluation of the field's current text.
func (o *Overlays) Input(field string, password string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return errors.New("overlays are closed")
	}

	ov, ok := o.fields[field]
	if !ok {
		ov = &overlay{state: OverlayState{Field: field, Color: "gray"}}
		o.fields[field] = ov
	}
	if ov.cancel != nil {
		ov.cancel()
	}

	ov.seq++
	seq := ov.seq
	ov.state.Pending = true

	ctx, cancel := context.WithCancel(context.Background())
	o.wg.Add(1)
	timer := time.AfterFunc(o.delay, func() {
		defer o.wg.Done()
		o.evaluate(ctx, field, seq, password)
	})
	ov.cancel = func() {
		cancel()
		if timer.Stop() {
			// Never started, evaluate will not call Done.
			o.wg.Done()
		}
	}

	return nil
}

func (o *Overlays) evaluate(ctx context.Context, field string, seq uint64, password string) {
	if ctx.Err() != nil {
		return
	}

	ectx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	verdict, err := o.eval.Evaluate(ectx, password)
	if ctx.Err() != nil {
		log.Debug().Str("field", field).Msg("discarding superseded evaluation")
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	ov, ok := o.fields[field]
	if !ok || ov.seq != seq {
		return
	}

	ov.cancel = nil
	ov.state.Pending = false
	ov.state.evaluated = true
	ov.state.UpdatedAt = time.Now()
	if err != nil {
		log.Warn().Err(err).Str("field", field).Msg("error evaluating field")
		ov.state.Error = err.Error()
		ov.state.Tier = strength.Unknown
		ov.state.Reason = ""
		ov.state.Label = ""
		ov.state.Color = "gray"
		return
	}

	ov.state.Error = ""
	ov.state.Tier = verdict.Tier
	ov.state.Reason = verdict.Reason
	ov.state.Label = verdict.Tier.Label()
	ov.state.Color = verdict.Tier.Color()
}

// Get returns the last rendered state of a field.
func (o *Overlays) Get(field string) (OverlayState, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ov, ok := o.fields[field]
	if !ok {
		return OverlayState{}, false
	}
	return ov.state, true
}

// Remove forgets a field, cancelling its pending evaluation.
func (o *Overlays) Remove(field string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	ov, ok := o.fields[field]
	if !ok {
		return false
	}
	if ov.cancel != nil {
		ov.cancel()
	}
	delete(o.fields, field)
	return true
}

// Len is the number of watched fields.
func (o *Overlays) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.fields)
}

// Close cancels every pending evaluation and waits for running ones to finish.
func (o *Overlays) Close() {
	o.mu.Lock()
	o.closed = true
	for field, ov := range o.fields {
		if ov.cancel != nil {
			ov.cancel()
		}
		delete(o.fields, field)
	}
	o.mu.Unlock()

	o.wg.Wait()
}
