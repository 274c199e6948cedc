package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ovab-go/internal/geometry"
)

func respondedTrial(index int, onset, response time.Duration, target, previous geometry.Point) TrialRecord {
	return TrialRecord{
		Index:    index,
		Onset:    onset,
		Response: &response,
		Target:   target,
		Previous: previous,
	}
}

func TestAverageLatencyMatchesSumOverCount(t *testing.T) {
	a := NewAggregator()

	latencies := []time.Duration{320 * time.Millisecond, 450 * time.Millisecond, 275 * time.Millisecond}
	var sum float64
	for i, l := range latencies {
		onset := time.Duration(i) * time.Second
		a.Record(respondedTrial(i, onset, onset+l, geometry.Point{}, geometry.Point{}))
		sum += l.Seconds() * 1000
	}

	assert.InDelta(t, sum/float64(len(latencies)), a.AverageLatency(), 1e-9)
	assert.Equal(t, len(latencies), a.Count())
}

func TestAverageLatencyZeroWhenEmpty(t *testing.T) {
	a := NewAggregator()
	assert.Zero(t, a.AverageLatency())
	assert.Zero(t, a.AverageDeltaX())
	assert.Zero(t, a.AverageDeltaY())
}

func TestAccuracyPercent(t *testing.T) {
	a := NewAggregator()
	for i := 0; i < 7; i++ {
		a.RecordHit()
	}
	for i := 0; i < 3; i++ {
		a.RecordMiss()
	}
	assert.InDelta(t, 70.0, a.AccuracyPercent(), 1e-9)
}

func TestAccuracyPercentZeroWhenNoResponses(t *testing.T) {
	a := NewAggregator()
	assert.Zero(t, a.AccuracyPercent())
}

func TestDisplacementSums(t *testing.T) {
	a := NewAggregator()

	a.Record(respondedTrial(0, 0, 300*time.Millisecond,
		geometry.Point{X: 100, Y: 200}, geometry.Point{X: 40, Y: 260}))
	a.Record(respondedTrial(1, time.Second, time.Second+300*time.Millisecond,
		geometry.Point{X: 10, Y: 220}, geometry.Point{X: 100, Y: 200}))

	// |100-40|=60, |10-100|=90 -> avg 75; |200-260|=60, |220-200|=20 -> avg 40.
	assert.InDelta(t, 75.0, a.AverageDeltaX(), 1e-9)
	assert.InDelta(t, 40.0, a.AverageDeltaY(), 1e-9)
}

func TestLatencyWithoutResponseIsZero(t *testing.T) {
	rec := TrialRecord{Index: 0, Onset: 2 * time.Second}
	assert.Zero(t, rec.Latency())
}

func TestResetClearsEverything(t *testing.T) {
	a := NewAggregator()
	a.Record(respondedTrial(0, 0, 400*time.Millisecond, geometry.Point{X: 5}, geometry.Point{}))
	a.RecordHit()
	a.RecordMiss()

	a.Reset()

	assert.Zero(t, a.Count())
	assert.Zero(t, a.Hits())
	assert.Zero(t, a.Misses())
	assert.Zero(t, a.AverageLatency())
	assert.Zero(t, a.AccuracyPercent())
	assert.Empty(t, a.Records())
}

func TestSnapshotGuardsUncomputedMetrics(t *testing.T) {
	a := NewAggregator()

	snap := a.Snapshot()
	assert.False(t, snap.AverageLatency.Calculated)
	assert.False(t, snap.Accuracy.Calculated)

	a.Record(respondedTrial(0, 0, 350*time.Millisecond, geometry.Point{X: 90}, geometry.Point{}))
	a.RecordHit()

	snap = a.Snapshot()
	assert.True(t, snap.AverageLatency.Calculated)
	assert.Equal(t, 1, snap.AverageLatency.SampleSize)
	assert.True(t, snap.Accuracy.Calculated)
	assert.InDelta(t, 100.0, snap.Accuracy.Value, 1e-9)
}
