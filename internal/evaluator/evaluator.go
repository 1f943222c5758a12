package evaluator

import (
	"context"
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/alvinbaena/pwd-analyzer/pkg/suggest"
)

// ErrEvaluation is the only error a caller has to handle: the password could
// not be evaluated and the user should retry.
var ErrEvaluation = errors.New("could not evaluate password, please retry")

type BreachChecker interface {
	IsBreached(ctx context.Context, password string) (bool, error)
}

type Suggester interface {
	Generate() string
}

// Report is everything a front-end renders for one password.
type Report struct {
	strength.Verdict
	Estimation strength.Estimation `json:"strength"`
	// Suggestion is empty when the password is strong.
	Suggestion string `json:"suggestion,omitempty"`
}

type Evaluator struct {
	breach    BreachChecker
	suggester Suggester
}

func New(breach BreachChecker) *Evaluator {
	return &Evaluator{breach: breach, suggester: suggest.New()}
}

// WithSuggester replaces the generator used by Report.
func (e *Evaluator) WithSuggester(s Suggester) *Evaluator {
	e.suggester = s
	return e
}

// Evaluate checks the breach corpus first; a breached password is reported as
// such no matter how it is composed. Otherwise the composition rules decide.
func (e *Evaluator) Evaluate(ctx context.Context, password string) (strength.Verdict, error) {
	breached, err := e.breach.IsBreached(ctx, password)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return strength.Verdict{}, ctxErr
		}
		return strength.Verdict{}, fmt.Errorf("%w: %w", ErrEvaluation, err)
	}

	if breached {
		return strength.BreachedVerdict(), nil
	}

	return strength.Classify(password), nil
}

// Report evaluates the password and adds a replacement suggestion when the
// password is not strong.
func (e *Evaluator) Report(ctx context.Context, password string, userInputs ...string) (Report, error) {
	verdict, err := e.Evaluate(ctx, password)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Verdict:    verdict,
		Estimation: strength.Estimate(password, userInputs...),
	}
	if verdict.Tier != strength.Strong {
		report.Suggestion = e.suggester.Generate()
	}

	return report, nil
}
