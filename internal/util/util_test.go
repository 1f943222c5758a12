package util

import (
	"bytes"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"strings"
	"testing"
)

func TestToScreamingSnakeCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Port", "PORT"},
		{"TLSCert", "TLS_CERT"},
		{"SelfTLS", "SELF_TLS"},
		{"CacheTTL", "CACHE_TTL"},
		{"RedisURL", "REDIS_URL"},
		{"UserAgent", "USER_AGENT"},
		{"TLSCert TLSKey", "TLS_CERT TLS_KEY"},
		{"SelfTLS false", "SELF_TLS FALSE"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := ToScreamingSnakeCase(tc.in); got != tc.want {
			t.Errorf("ToScreamingSnakeCase(%q): %s, want: %s", tc.in, got, tc.want)
		}
	}
}

func TestMemory(t *testing.T) {
	m := Memory()
	if m.Goroutines == 0 {
		t.Errorf("There should be at least one goroutine")
	}
}

func TestStats(t *testing.T) {
	var buf bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	}()

	done := Stats("batch")
	done()

	out := buf.String()
	if !strings.Contains(out, `"task":"batch"`) || !strings.Contains(out, `"elapsed"`) {
		t.Errorf("Stats should log the task and its duration, got %s", out)
	}
}
