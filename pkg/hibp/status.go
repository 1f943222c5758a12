package hibp

import (
	"github.com/jfcg/sorty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// latencyWindow is how many request durations are kept for the percentiles.
const latencyWindow = 1024

// Stats is a point in time copy of the lookup counters.
type Stats struct {
	Lookups          uint64        `json:"lookups"`
	CacheHits        uint64        `json:"cacheHits"`
	Requests         uint64        `json:"requests"`
	CloudflareHits   uint64        `json:"cloudflareHits"`
	CloudflareMisses uint64        `json:"cloudflareMisses"`
	Failures         uint64        `json:"failures"`
	LatencyP50       int64         `json:"latencyP50Ms"`
	LatencyP95       int64         `json:"latencyP95Ms"`
	Uptime           time.Duration `json:"uptime"`
}

type status struct {
	lookups                    uint64
	cacheHits                  uint64
	failures                   uint64
	cloudflareRequests         uint64
	cloudflareHits             uint64
	cloudflareMisses           uint64
	cloudflareRequestTimeTotal uint64
	start                      time.Time

	lm        sync.Mutex
	latencies []int64
	next      int
}

func newStatus() *status {
	return &status{
		start:     time.Now(),
		latencies: make([]int64, 0, latencyWindow),
	}
}

func (s *status) Lookup() {
	atomic.AddUint64(&s.lookups, 1)
}

func (s *status) CacheHit() {
	atomic.AddUint64(&s.cacheHits, 1)
}

func (s *status) Failure() {
	atomic.AddUint64(&s.failures, 1)
}

func (s *status) RequestComplete(res *http.Response, millis int64) {
	atomic.AddUint64(&s.cloudflareRequestTimeTotal, uint64(millis))
	atomic.AddUint64(&s.cloudflareRequests, 1)

	if cacheHit := res.Header.Get("CF-Cache-Status"); cacheHit == "HIT" {
		atomic.AddUint64(&s.cloudflareHits, 1)
	} else {
		atomic.AddUint64(&s.cloudflareMisses, 1)
	}

	s.lm.Lock()
	if len(s.latencies) < latencyWindow {
		s.latencies = append(s.latencies, millis)
	} else {
		s.latencies[s.next] = millis
	}
	s.next = (s.next + 1) % latencyWindow
	s.lm.Unlock()
}

func (s *status) percentiles() (p50 int64, p95 int64) {
	s.lm.Lock()
	sorted := make([]int64, len(s.latencies))
	copy(sorted, s.latencies)
	s.lm.Unlock()

	if len(sorted) == 0 {
		return 0, 0
	}

	sorty.SortSlice(sorted)
	return sorted[(len(sorted)-1)*50/100], sorted[(len(sorted)-1)*95/100]
}

func (s *status) Snapshot() Stats {
	p50, p95 := s.percentiles()
	return Stats{
		Lookups:          atomic.LoadUint64(&s.lookups),
		CacheHits:        atomic.LoadUint64(&s.cacheHits),
		Requests:         atomic.LoadUint64(&s.cloudflareRequests),
		CloudflareHits:   atomic.LoadUint64(&s.cloudflareHits),
		CloudflareMisses: atomic.LoadUint64(&s.cloudflareMisses),
		Failures:         atomic.LoadUint64(&s.failures),
		LatencyP50:       p50,
		LatencyP95:       p95,
		Uptime:           time.Since(s.start),
	}
}

// Summary logs the counters, the same way the download progress used to be reported.
func (s *status) Summary() {
	st := s.Snapshot()

	var requestAverage float64
	if st.Requests > 0 {
		requestAverage = float64(atomic.LoadUint64(&s.cloudflareRequestTimeTotal)) / float64(st.Requests)
	}

	p := message.NewPrinter(language.English)
	log.Info().Msgf("made %s range lookups (%s served from cache, %s failed)",
		p.Sprintf("%d", st.Lookups), p.Sprintf("%d", st.CacheHits), p.Sprintf("%d", st.Failures))
	log.Debug().Msgf("made %s Cloudflare requests. Average response time %.2f ms, p50 %d ms, p95 %d ms",
		p.Sprintf("%d", st.Requests), requestAverage, st.LatencyP50, st.LatencyP95)
	if st.Requests > 0 {
		log.Debug().Msgf("cloudflare cache hits: %s (%.2f%%), misses: %s (%.2f%%)",
			p.Sprintf("%d", st.CloudflareHits), float64(st.CloudflareHits*100)/float64(st.Requests),
			p.Sprintf("%d", st.CloudflareMisses), float64(st.CloudflareMisses*100)/float64(st.Requests))
	}
}
