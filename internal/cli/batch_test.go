package cli

import (
	"bytes"
	"context"
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/internal/evaluator"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testEvaluator(t *testing.T, breached ...string) *evaluator.Evaluator {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := strings.TrimPrefix(r.URL.Path, "/range/")
		for _, pwd := range breached {
			d := hibp.Fingerprint(pwd)
			if d.Prefix() == prefix {
				_, _ = fmt.Fprintf(w, "%s:7\r\n", d.Suffix())
			}
		}
	}))
	t.Cleanup(srv.Close)

	client, err := hibp.NewRangeClient(hibp.Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("Should not fail creating client: %s", err)
	}
	t.Cleanup(client.Close)

	return evaluator.New(hibp.NewChecker(client, hibp.FailClosed(true)))
}

func TestRunBatch(t *testing.T) {
	input := strings.Join([]string{
		"password",
		"",
		"Abcdefg1!",
		"abc",
		"abcdefgh",
		"Abcdefgh1",
		"Xy7$kLm2@qR",
	}, "\n")

	summary, err := runBatch(context.Background(), strings.NewReader(input), testEvaluator(t, "password"), 2, 0)
	if err != nil {
		t.Fatalf("Batch should not fail: %s", err)
	}

	want := map[strength.Tier]uint64{
		strength.Breached: 1,
		strength.Weak:     2,
		strength.Moderate: 1,
		strength.Strong:   2,
	}
	for tier, n := range want {
		if got := summary.count(tier); got != n {
			t.Errorf("%s: got %d, want %d", tier, got, n)
		}
	}

	if summary.total != 6 {
		t.Errorf("Blank lines should be skipped, got %d evaluations", summary.total)
	}

	var out bytes.Buffer
	summary.print(&out)
	if !strings.Contains(out.String(), "Evaluated 6 passwords") {
		t.Errorf("Unexpected summary: %s", out.String())
	}
	if strings.Contains(out.String(), "password\n") || strings.Contains(out.String(), "Abcdefg1!") {
		t.Errorf("Summary should never print passwords: %s", out.String())
	}
}

func TestRunBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runBatch(ctx, strings.NewReader("password\nAbcdefg1!\n"), testEvaluator(t), 1, 0)
	if err != context.Canceled {
		t.Errorf("Canceled batch should return context.Canceled, got: %v", err)
	}
}
