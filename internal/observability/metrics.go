package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for requests, errors,
// upstream round-trips and cart operations.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	upstreamCount map[string]int64
	cartOpCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		upstreamCount: make(map[string]int64),
		cartOpCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordUpstream counts a round-trip to a remote collaborator.
func (m *Metrics) RecordUpstream(service, op string, failed bool) {
	if m == nil {
		return
	}
	key := service + "|" + op + "|" + strconv.FormatBool(failed)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upstreamCount[key]++
}

// RecordCartOp counts a cart mutation by mode (remote or local).
func (m *Metrics) RecordCartOp(op, mode string) {
	if m == nil {
		return
	}
	key := op + "|" + mode
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cartOpCount[key]++
}

// Snapshot returns copies of the counters for the debug endpoint.
func (m *Metrics) Snapshot() (requests, errors, upstream, cartOps map[string]int64) {
	if m == nil {
		return nil, nil, nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyCounts(m.requestCount), copyCounts(m.errorCount), copyCounts(m.upstreamCount), copyCounts(m.cartOpCount)
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
