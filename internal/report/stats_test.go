package report

import (
	"math"
	"testing"
)

func TestDescribe(t *testing.T) {
	dist, err := Describe("video_topics", []float64{0.2, 0.4, 0.6, 0.8, 1.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dist.Count != 5 {
		t.Errorf("count = %d, want 5", dist.Count)
	}
	if math.Abs(dist.Mean-0.6) > 1e-9 {
		t.Errorf("mean = %v, want 0.6", dist.Mean)
	}
	if math.Abs(dist.Median-0.6) > 1e-9 {
		t.Errorf("median = %v, want 0.6", dist.Median)
	}
	if dist.Min != 0.2 || dist.Max != 1.0 {
		t.Errorf("min/max = %v/%v, want 0.2/1.0", dist.Min, dist.Max)
	}
	if dist.P10 < dist.Min || dist.P90 > dist.Max || dist.P10 > dist.P90 {
		t.Errorf("quantiles out of order: p10=%v p90=%v", dist.P10, dist.P90)
	}
}

func TestDescribeEmpty(t *testing.T) {
	dist, err := Describe("video_difficulty", nil)
	if err != nil {
		t.Fatalf("empty input should not error: %v", err)
	}
	if dist.Count != 0 || dist.Mean != 0 {
		t.Errorf("empty distribution should be zero-valued: %+v", dist)
	}
}
