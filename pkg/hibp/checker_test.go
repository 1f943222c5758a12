// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// rangeServer answers range requests with the suffixes of the given passwords
// plus some noise records.
func rangeServer(t *testing.T, breached ...string) (*httptest.Server, *int32) {
	t.Helper()
	var requests int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		prefix := r.URL.Path[len("/range/"):]

		_, _ = fmt.Fprint(w, "0018A45C4D1DEF81644B54AB7F969B88D65:1\r\n")
		for _, pwd := range breached {
			d := Fingerprint(pwd)
			if d.Prefix() == prefix {
				_, _ = fmt.Fprintf(w, "%s:42\r\n", d.Suffix())
			}
		}
		_, _ = fmt.Fprint(w, "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF:3\r\n")
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

func newTestClient(t *testing.T, baseURL string, cacheTTL time.Duration) *RangeClient {
	t.Helper()
	client, err := NewRangeClient(Options{
		BaseURL:  baseURL,
		Timeout:  2 * time.Second,
		RetryMax: 0,
		CacheTTL: cacheTTL,
	})
	if err != nil {
		t.Fatalf("Should not fail creating client: %s", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestChecker_Breached(t *testing.T) {
	srv, _ := rangeServer(t, "password", "Abcdefg1!")
	checker := NewChecker(newTestClient(t, srv.URL, 0))

	for _, pwd := range []string{"password", "Abcdefg1!"} {
		breached, err := checker.IsBreached(context.Background(), pwd)
		if err != nil {
			t.Errorf("Should not fail: %s", err)
		}
		if !breached {
			t.Errorf("%q should be breached", pwd)
		}
	}
}

func TestChecker_NotBreached(t *testing.T) {
	srv, requests := rangeServer(t, "password")
	checker := NewChecker(newTestClient(t, srv.URL, 0))

	breached, err := checker.IsBreached(context.Background(), "1mag@saG(@31*sasd.")
	if err != nil {
		t.Errorf("Should not fail: %s", err)
	}
	if breached {
		t.Errorf("Password should not be breached")
	}
	if atomic.LoadInt32(requests) != 1 {
		t.Errorf("Should make exactly one request, made %d", atomic.LoadInt32(requests))
	}
}

func TestChecker_ShortPasswordSkipsLookup(t *testing.T) {
	srv, requests := rangeServer(t, "ab")
	checker := NewChecker(newTestClient(t, srv.URL, 0))

	for _, pwd := range []string{"", "a", "ab", "ñú"} {
		breached, err := checker.IsBreached(context.Background(), pwd)
		if err != nil || breached {
			t.Errorf("IsBreached(%q): %v %v, want: false <nil>", pwd, breached, err)
		}
	}

	if atomic.LoadInt32(requests) != 0 {
		t.Errorf("Short passwords should not be looked up")
	}
}

func TestChecker_FailOpen(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"not found": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = fmt.Fprint(w, "<html>maintenance</html>")
		},
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			checker := NewChecker(newTestClient(t, srv.URL, 0))
			breached, err := checker.IsBreached(context.Background(), "password")
			if err != nil {
				t.Errorf("Lookup errors should not be returned when failing open: %s", err)
			}
			if breached {
				t.Errorf("Lookup errors should be treated as not breached")
			}
		})
	}
}

func TestChecker_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	checker := NewChecker(newTestClient(t, url, 0))
	breached, err := checker.IsBreached(context.Background(), "password")
	if err != nil || breached {
		t.Errorf("IsBreached: %v %v, want: false <nil>", breached, err)
	}

	closed := NewChecker(newTestClient(t, url, 0), FailClosed(true))
	if _, err = closed.IsBreached(context.Background(), "password"); !errors.Is(err, ErrNetwork) {
		t.Errorf("Fail closed checker should return ErrNetwork, got %v", err)
	}
}

func TestChecker_FailClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "not a range")
	}))
	defer srv.Close()

	checker := NewChecker(newTestClient(t, srv.URL, 0), FailClosed(true))
	if _, err := checker.IsBreached(context.Background(), "password"); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("Should fail with ErrMalformedResponse, got %v", err)
	}
}

func TestChecker_Canceled(t *testing.T) {
	srv, _ := rangeServer(t, "password")
	checker := NewChecker(newTestClient(t, srv.URL, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := checker.IsBreached(ctx, "password"); !errors.Is(err, context.Canceled) {
		t.Errorf("Canceled lookups should return the context error, got %v", err)
	}
}

func TestChecker_IsDigestBreached(t *testing.T) {
	srv, _ := rangeServer(t, "password")
	checker := NewChecker(newTestClient(t, srv.URL, 0))

	d, err := ParseDigest("5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8")
	if err != nil {
		t.Fatalf("Should not fail parsing digest: %s", err)
	}

	breached, err := checker.IsDigestBreached(context.Background(), d)
	if err != nil {
		t.Errorf("Should not fail: %s", err)
	}
	if !breached {
		t.Errorf("Digest should be breached")
	}
}
