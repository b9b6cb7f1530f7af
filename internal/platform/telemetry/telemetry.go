// Package telemetry records request counters and latency histograms and
// exposes them in Prometheus text format, without pulling in a metrics SDK.
package telemetry

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

var defaultLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

type histogram struct {
	mu         sync.Mutex
	boundaries []float64
	counts     []int64
	sum        float64
	total      int64
}

func newHistogram(boundaries []float64) *histogram {
	return &histogram{
		boundaries: boundaries,
		counts:     make([]int64, len(boundaries)+1),
	}
}

func (h *histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := len(h.boundaries)
	for i, b := range h.boundaries {
		if v <= b {
			idx = i
			break
		}
	}
	h.counts[idx]++
	h.sum += v
	h.total++
}

func (h *histogram) snapshot() (cumulative []int64, sum float64, total int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cumulative = make([]int64, len(h.counts))
	var running int64
	for i, c := range h.counts {
		running += c
		cumulative[i] = running
	}
	return cumulative, h.sum, h.total
}

type routeKey struct {
	Method string
	Path   string
}

// Provider aggregates the service's metrics.
type Provider struct {
	serviceName string

	mu        sync.RWMutex
	requests  map[string]int64 // method|path|status -> count
	latencies map[routeKey]*histogram
}

func NewProvider(serviceName string) *Provider {
	return &Provider{
		serviceName: serviceName,
		requests:    make(map[string]int64),
		latencies:   make(map[routeKey]*histogram),
	}
}

func requestKey(method, path string, status int) string {
	return method + "|" + path + "|" + strconv.Itoa(status)
}

// RecordRequest increments the request counter for a method/path/status triple.
func (p *Provider) RecordRequest(method, path string, status int) {
	p.mu.Lock()
	p.requests[requestKey(method, path, status)]++
	p.mu.Unlock()
}

// RequestCount returns the recorded count for a method/path/status triple.
func (p *Provider) RequestCount(method, path string, status int) int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.requests[requestKey(method, path, status)]
}

func (p *Provider) observeLatency(method, path string, seconds float64) {
	k := routeKey{Method: method, Path: path}
	p.mu.Lock()
	h, ok := p.latencies[k]
	if !ok {
		h = newHistogram(defaultLatencyBuckets)
		p.latencies[k] = h
	}
	p.mu.Unlock()
	h.Observe(seconds)
}

// Middleware records a counter and latency observation per request.
func (p *Provider) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			p.RecordRequest(c.Request().Method, path, status)
			p.observeLatency(c.Request().Method, path, time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the metrics in Prometheus text exposition format.
func (p *Provider) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		p.mu.RLock()
		requests := make(map[string]int64, len(p.requests))
		for k, v := range p.requests {
			requests[k] = v
		}
		routes := make([]routeKey, 0, len(p.latencies))
		hists := make(map[routeKey]*histogram, len(p.latencies))
		for k, h := range p.latencies {
			routes = append(routes, k)
			hists[k] = h
		}
		p.mu.RUnlock()

		requestKeys := make([]string, 0, len(requests))
		for k := range requests {
			requestKeys = append(requestKeys, k)
		}
		sort.Strings(requestKeys)
		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Method != routes[j].Method {
				return routes[i].Method < routes[j].Method
			}
			return routes[i].Path < routes[j].Path
		})

		var out string
		out += "# TYPE http_requests_total counter\n"
		for _, k := range requestKeys {
			parts := strings.SplitN(k, "|", 3)
			out += fmt.Sprintf("http_requests_total{method=%q,path=%q,status=%q} %d\n",
				parts[0], parts[1], parts[2], requests[k])
		}

		out += "# TYPE http_request_duration_seconds histogram\n"
		for _, rk := range routes {
			cumulative, sum, total := hists[rk].snapshot()
			labels := fmt.Sprintf("method=%q,path=%q", rk.Method, rk.Path)
			for i, b := range defaultLatencyBuckets {
				out += fmt.Sprintf("http_request_duration_seconds_bucket{%s,le=\"%g\"} %d\n",
					labels, b, cumulative[i])
			}
			out += fmt.Sprintf("http_request_duration_seconds_bucket{%s,le=\"+Inf\"} %d\n",
				labels, cumulative[len(cumulative)-1])
			out += fmt.Sprintf("http_request_duration_seconds_sum{%s} %g\n", labels, sum)
			out += fmt.Sprintf("http_request_duration_seconds_count{%s} %d\n", labels, total)
		}

		return c.Blob(http.StatusOK, "text/plain; version=0.0.4", []byte(out))
	}
}
