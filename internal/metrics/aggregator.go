package metrics

import (
	"math"
	"time"

	"ovab-go/internal/geometry"
)

// TrialRecord captures one stimulus-response cycle. A record exists only
// once its stimulus has been drawn. Response stays nil for trials that
// captured no response.
type TrialRecord struct {
	Index    int            `json:"index"`
	Onset    time.Duration  `json:"onset"`
	Response *time.Duration `json:"response,omitempty"`
	Target   geometry.Point `json:"target"`
	Previous geometry.Point `json:"previous"`
}

// Latency returns stimulus-to-response time in milliseconds, 0 when the
// trial has no response.
func (t TrialRecord) Latency() float64 {
	if t.Response == nil {
		return 0
	}
	return (*t.Response - t.Onset).Seconds() * 1000
}

// MetricResult pairs a derived value with whether enough samples existed
// to compute it.
type MetricResult struct {
	Value      float64 `json:"value"`
	Calculated bool    `json:"calculated"`
	SampleSize int     `json:"sampleSize,omitempty"`
}

// Aggregator accumulates per-trial measurements for one session. Derived
// values are computed from the stored sums on demand and never cached.
// Not safe for concurrent use; the session loop owns it.
type Aggregator struct {
	sumLatency   float64
	count        int
	sumAbsDeltaX float64
	sumAbsDeltaY float64
	hits         int
	misses       int

	records []TrialRecord
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record folds a completed trial into the running sums: its latency and
// the absolute displacement from the previous target to this one.
func (a *Aggregator) Record(t TrialRecord) {
	a.sumLatency += t.Latency()
	a.count++
	a.sumAbsDeltaX += math.Abs(t.Target.X - t.Previous.X)
	a.sumAbsDeltaY += math.Abs(t.Target.Y - t.Previous.Y)
	a.records = append(a.records, t)
}

func (a *Aggregator) RecordHit() {
	a.hits++
}

func (a *Aggregator) RecordMiss() {
	a.misses++
}

func (a *Aggregator) AverageLatency() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sumLatency / float64(a.count)
}

func (a *Aggregator) AverageDeltaX() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sumAbsDeltaX / float64(a.count)
}

func (a *Aggregator) AverageDeltaY() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sumAbsDeltaY / float64(a.count)
}

// AccuracyPercent is 100·hits/(hits+misses), 0 before any hit or miss.
func (a *Aggregator) AccuracyPercent() float64 {
	total := a.hits + a.misses
	if total == 0 {
		return 0
	}
	return 100 * float64(a.hits) / float64(total)
}

func (a *Aggregator) Count() int {
	return a.count
}

func (a *Aggregator) Hits() int {
	return a.hits
}

func (a *Aggregator) Misses() int {
	return a.misses
}

// Records returns the completed trials in completion order.
func (a *Aggregator) Records() []TrialRecord {
	out := make([]TrialRecord, len(a.records))
	copy(out, a.records)
	return out
}

// Reset discards everything; called when a session starts or restarts.
func (a *Aggregator) Reset() {
	*a = Aggregator{}
}

// Snapshot captures every derived value at once for the results view.
type Snapshot struct {
	AverageLatency MetricResult `json:"averageLatency"`
	AverageDeltaX  MetricResult `json:"averageDeltaX"`
	AverageDeltaY  MetricResult `json:"averageDeltaY"`
	Accuracy       MetricResult `json:"accuracy"`
	Hits           int          `json:"hits"`
	Misses         int          `json:"misses"`
}

func (a *Aggregator) Snapshot() Snapshot {
	responses := a.hits + a.misses
	return Snapshot{
		AverageLatency: MetricResult{Value: a.AverageLatency(), Calculated: a.count > 0, SampleSize: a.count},
		AverageDeltaX:  MetricResult{Value: a.AverageDeltaX(), Calculated: a.count > 0, SampleSize: a.count},
		AverageDeltaY:  MetricResult{Value: a.AverageDeltaY(), Calculated: a.count > 0, SampleSize: a.count},
		Accuracy:       MetricResult{Value: a.AccuracyPercent(), Calculated: responses > 0, SampleSize: responses},
		Hits:           a.hits,
		Misses:         a.misses,
	}
}
