// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package hdbconnect

import (
	"sync"
	"sync/atomic"
	"time"

	p "github.com/hdbconnect-go/hdbconnect/internal/protocol"
)

// StatsHistogram is a cumulative latency histogram, shaped to feed
// prometheus.MustNewConstHistogram directly (see prometheus/collectors).
type StatsHistogram struct {
	Count   uint64
	Sum     float64
	Buckets map[float64]uint64 // cumulative count per upper bound, milliseconds
}

// Stats is a point-in-time snapshot of this driver's process-wide activity,
// returned by Driver.Stats and DB.ExStats and exported by
// prometheus/collectors.
type Stats struct {
	OpenConnections  int
	OpenTransactions int
	OpenStatements   int
	ReadBytes        uint64
	WrittenBytes     uint64
	ReadTime         *StatsHistogram // no observations are recorded: always empty
	WriteTime        *StatsHistogram // no observations are recorded: always empty
	AuthTime         *StatsHistogram
	SQLTimes         map[string]*StatsHistogram
}

var defaultTimeBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// histogram accumulates observations (in milliseconds) into the fixed
// defaultTimeBuckets boundaries.
type histogram struct {
	mu      sync.Mutex
	count   uint64
	sum     float64
	buckets map[float64]uint64
}

func newHistogram() *histogram {
	h := &histogram{buckets: make(map[float64]uint64, len(defaultTimeBuckets))}
	for _, b := range defaultTimeBuckets {
		h.buckets[b] = 0
	}
	return h
}

func (h *histogram) observe(d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += ms
	for _, b := range defaultTimeBuckets {
		if ms <= b {
			h.buckets[b]++
		}
	}
}

func (h *histogram) snapshot() *StatsHistogram {
	h.mu.Lock()
	defer h.mu.Unlock()
	buckets := make(map[float64]uint64, len(h.buckets))
	for k, v := range h.buckets {
		buckets[k] = v
	}
	return &StatsHistogram{Count: h.count, Sum: h.sum, Buckets: buckets}
}

// driverStats is the process-wide counters behind Stats. One instance
// (globalStats) is shared by every Conn this process opens.
type driverStats struct {
	openConnections  atomic.Int64
	openTransactions atomic.Int64
	openStatements   atomic.Int64

	readTime  *histogram
	writeTime *histogram
	authTime  *histogram

	sqlMu    sync.Mutex
	sqlTimes map[string]*histogram
}

var globalStats = newDriverStats()

func newDriverStats() *driverStats {
	return &driverStats{
		readTime:  newHistogram(),
		writeTime: newHistogram(),
		authTime:  newHistogram(),
		sqlTimes:  map[string]*histogram{},
	}
}

func (d *driverStats) newConn() *connMetrics {
	d.openConnections.Add(1)
	return &connMetrics{}
}

// observeSQL records how long one exec/query/call round trip took, bucketed
// by a coarse operation label rather than by literal SQL text - per-text
// histograms would grow unbounded under ad-hoc query generation.
func (d *driverStats) observeSQL(label string, elapsed time.Duration) {
	d.sqlMu.Lock()
	h, ok := d.sqlTimes[label]
	if !ok {
		h = newHistogram()
		d.sqlTimes[label] = h
	}
	d.sqlMu.Unlock()
	h.observe(elapsed)
}

func (d *driverStats) snapshot() *Stats {
	d.sqlMu.Lock()
	sqlTimes := make(map[string]*StatsHistogram, len(d.sqlTimes))
	for k, h := range d.sqlTimes {
		sqlTimes[k] = h.snapshot()
	}
	d.sqlMu.Unlock()

	readBytes, writtenBytes := p.ByteCounters()

	return &Stats{
		OpenConnections:  int(d.openConnections.Load()),
		OpenTransactions: int(d.openTransactions.Load()),
		OpenStatements:   int(d.openStatements.Load()),
		ReadBytes:        readBytes,
		WrittenBytes:     writtenBytes,
		ReadTime:         d.readTime.snapshot(),
		WriteTime:        d.writeTime.snapshot(),
		AuthTime:         d.authTime.snapshot(),
		SQLTimes:         sqlTimes,
	}
}

// Driver is the database/sql/driver.Driver registered under "hdb". Its
// Stats method is the hook prometheus/collectors.NewDriverStatsCollector
// polls for process-wide counters.
type Driver struct{}

// Stats returns a snapshot of this process's cumulative driver activity.
func (Driver) Stats() *Stats { return globalStats.snapshot() }
