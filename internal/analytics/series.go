package analytics

import (
	"time"

	"NewsPulse/internal/domain"
)

const minuteMs = int64(60_000)

// BuildSeries bins dated articles into fixed-width buckets and computes
// the calculus signal over arrival rate: count V per bin, cumulative
// trapezoidal exposure, first derivative (central difference) and second
// derivative (three-point). Internal rate units are per-minute.
//
// Articles with unparseable times are discarded first. Fewer than two
// dated articles yield an empty series; the derivative needs neighbors.
// The computation is wholesale per snapshot — nothing is mutated across
// batches.
func BuildSeries(articles []domain.Article, binWidth time.Duration) []domain.TimeSeriesPoint {
	binMs := binWidth.Milliseconds()
	if binMs <= 0 {
		binMs = minuteMs
	}

	stamps := make([]int64, 0, len(articles))
	for _, a := range articles {
		ts, err := time.Parse(time.RFC3339, a.Time)
		if err != nil {
			continue
		}
		stamps = append(stamps, floorToMinute(ts.UnixMilli()))
	}
	if len(stamps) < 2 {
		return nil
	}

	// Bins anchor at the minute-floored earliest instant.
	t0 := stamps[0]
	for _, s := range stamps[1:] {
		if s < t0 {
			t0 = s
		}
	}

	counts := make(map[int64]int)
	maxIdx := int64(0)
	for _, s := range stamps {
		idx := (s - t0) / binMs
		counts[idx]++
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	// Dense, gap-filled timeline: empty bins carry V = 0 so the
	// derivative stays well-defined across silent periods.
	series := make([]domain.TimeSeriesPoint, maxIdx+1)
	for i := int64(0); i <= maxIdx; i++ {
		t := t0 + i*binMs
		series[i] = domain.TimeSeriesPoint{
			BucketStartMs: t,
			Count:         counts[i],
			ISOTime:       time.UnixMilli(t).UTC().Format(time.RFC3339),
		}
	}

	dtMin := float64(binMs) / float64(minuteMs)
	exposure := 0.0
	n := len(series)
	for i := 0; i < n; i++ {
		cur := float64(series[i].Count)

		if i > 0 {
			prev := float64(series[i-1].Count)
			exposure += (prev + cur) / 2 * dtMin
		}
		series[i].Exposure = exposure

		hasLeft := i > 0
		hasRight := i < n-1
		switch {
		case hasLeft && hasRight:
			series[i].Slope = (float64(series[i+1].Count) - float64(series[i-1].Count)) / (2 * dtMin)
			series[i].Accel = (float64(series[i+1].Count) - 2*cur + float64(series[i-1].Count)) / (dtMin * dtMin)
		case hasRight:
			series[i].Slope = (float64(series[i+1].Count) - cur) / dtMin
		case hasLeft:
			series[i].Slope = (cur - float64(series[i-1].Count)) / dtMin
		}
	}

	return series
}

// RepresentativeIndex picks the derivative reporting point: the last
// interior bin whose neighborhood is not flat, so a quiet tail does not
// mask the most recent movement. Falls back to the last interior bin.
func RepresentativeIndex(series []domain.TimeSeriesPoint) int {
	n := len(series)
	switch n {
	case 0:
		return -1
	case 1:
		return 0
	case 2:
		return 1
	}

	for i := n - 2; i >= 1; i-- {
		left, cur, right := series[i-1].Count, series[i].Count, series[i+1].Count
		if left != cur || right != cur {
			return i
		}
	}
	return n - 2
}

// Summary carries headline metrics with display-unit conversions
// (per-minute internals scaled to per-hour and per-hour squared).
type Summary struct {
	Exposure      float64 `json:"exposure"`
	SlopePerHour  float64 `json:"slopePerHour"`
	AccelPerHour2 float64 `json:"accelPerHour2"`
	AvgSlope      float64 `json:"avgSlopePerHour"`
	AvgAccel      float64 `json:"avgAccelPerHour2"`
}

// Summarize reduces a series to its headline metrics.
func Summarize(series []domain.TimeSeriesPoint) Summary {
	var s Summary
	if len(series) == 0 {
		return s
	}

	s.Exposure = series[len(series)-1].Exposure

	if idx := RepresentativeIndex(series); idx >= 0 {
		s.SlopePerHour = series[idx].Slope * 60
		s.AccelPerHour2 = series[idx].Accel * 3600
	}

	var slopeSum, accelSum float64
	for _, p := range series {
		slopeSum += p.Slope
		accelSum += p.Accel
	}
	s.AvgSlope = slopeSum / float64(len(series)) * 60
	s.AvgAccel = accelSum / float64(len(series)) * 3600

	return s
}

func floorToMinute(ms int64) int64 {
	return ms - ms%minuteMs
}
