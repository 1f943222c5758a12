package evaluator

import (
	"context"
	"errors"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeChecker struct {
	breached map[string]bool
	err      error
	calls    int
}

func (f *fakeChecker) IsBreached(ctx context.Context, password string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.breached[password], nil
}

type fixedSuggester string

func (s fixedSuggester) Generate() string {
	return string(s)
}

func TestEvaluate(t *testing.T) {
	checker := &fakeChecker{breached: map[string]bool{"P@ssw0rd123": true}}
	e := New(checker)

	cases := []struct {
		password string
		tier     strength.Tier
		reason   string
	}{
		{"P@ssw0rd123", strength.Breached, strength.ReasonBreached},
		{"abc", strength.Weak, strength.ReasonTooShort},
		{"Abcdefgh", strength.Moderate, strength.ReasonNoDigits},
		{"Abcdefg1", strength.Moderate, strength.ReasonNoSpecial},
		{"Abcdefg1!", strength.Strong, strength.ReasonSecure},
	}

	for _, tc := range cases {
		v, err := e.Evaluate(context.Background(), tc.password)
		if err != nil {
			t.Errorf("Evaluate(%q) should not fail: %s", tc.password, err)
		}
		if v.Tier != tc.tier || v.Reason != tc.reason {
			t.Errorf("Evaluate(%q): %s/%q, want: %s/%q", tc.password, v.Tier, v.Reason, tc.tier, tc.reason)
		}
	}

	if checker.calls != len(cases) {
		t.Errorf("Every evaluation should check the breach corpus first, got %d calls", checker.calls)
	}
}

func TestEvaluate_BreachOverridesStrength(t *testing.T) {
	pwd := "Tr0ub4dor&3-Very-Long-And-Complex!"
	if strength.Classify(pwd).Tier != strength.Strong {
		t.Fatalf("Test password should be strong by composition")
	}

	e := New(&fakeChecker{breached: map[string]bool{pwd: true}})
	v, err := e.Evaluate(context.Background(), pwd)
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if v.Tier != strength.Breached {
		t.Errorf("Breached password should never be strong, got %s", v.Tier)
	}
}

func TestEvaluate_Error(t *testing.T) {
	e := New(&fakeChecker{err: hibp.ErrNetwork})
	if _, err := e.Evaluate(context.Background(), "Abcdefg1!"); !errors.Is(err, ErrEvaluation) {
		t.Errorf("Checker failures should surface as ErrEvaluation, got %v", err)
	}
}

func TestEvaluate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(&fakeChecker{err: context.Canceled})
	_, err := e.Evaluate(ctx, "Abcdefg1!")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Should return the context error, got %v", err)
	}
	if errors.Is(err, ErrEvaluation) {
		t.Errorf("Cancellation is not an evaluation failure")
	}
}

func TestEvaluate_FailOpenChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := hibp.NewRangeClient(hibp.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("Should not fail creating client: %s", err)
	}
	defer client.Close()

	open := New(hibp.NewChecker(client))
	v, err := open.Evaluate(context.Background(), "Abcdefg1!")
	if err != nil {
		t.Errorf("Fail open evaluation should not fail: %s", err)
	}
	if v.Tier != strength.Strong {
		t.Errorf("Fail open evaluation should fall back to the classifier, got %s", v.Tier)
	}

	closed := New(hibp.NewChecker(client, hibp.FailClosed(true)))
	if _, err = closed.Evaluate(context.Background(), "Abcdefg1!"); !errors.Is(err, ErrEvaluation) {
		t.Errorf("Fail closed evaluation should fail with ErrEvaluation, got %v", err)
	}
}

func TestReport(t *testing.T) {
	e := New(&fakeChecker{breached: map[string]bool{"password123": true}}).WithSuggester(fixedSuggester("Xy7!abcdEFGH"))

	r, err := e.Report(context.Background(), "password123")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if r.Tier != strength.Breached || r.Suggestion != "Xy7!abcdEFGH" {
		t.Errorf("Breached password should get a suggestion, got %+v", r)
	}

	r, err = e.Report(context.Background(), "Abcdefg1!")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if r.Tier != strength.Strong || r.Suggestion != "" {
		t.Errorf("Strong password should not get a suggestion, got %+v", r)
	}
}
