package scoring

import "math"

// Band maps one half-open interval of raw magnitudes onto an output range.
// A sequence of bands covers [0, +Inf); the last band has Upper = +Inf.
type Band struct {
	Upper float64 // exclusive upper bound of the input interval
	Lo    float64 // output at the interval's lower edge
	Hi    float64 // output approached at the interval's upper edge
}

// PlayCountBands scale raw play counts onto [0,1]. Sub-10K plays fill the
// bottom 30% of the scale so that small accounts still differentiate.
var PlayCountBands = []Band{
	{Upper: 10_000, Lo: 0, Hi: 0.3},
	{Upper: 100_000, Lo: 0.3, Hi: 0.6},
	{Upper: 1_000_000, Lo: 0.6, Hi: 0.8},
	{Upper: 10_000_000, Lo: 0.8, Hi: 0.95},
	{Upper: math.Inf(1), Lo: 0.95, Hi: 1.0},
}

// ShareCountBands scale raw share counts onto [0,1].
var ShareCountBands = []Band{
	{Upper: 100, Lo: 0, Hi: 0.3},
	{Upper: 1_000, Lo: 0.3, Hi: 0.6},
	{Upper: 10_000, Lo: 0.6, Hi: 0.85},
	{Upper: 100_000, Lo: 0.85, Hi: 0.95},
	{Upper: math.Inf(1), Lo: 0.95, Hi: 1.0},
}

// NormalizeMagnitude maps value onto [0,1] by linear interpolation inside
// the band containing it. Values below zero clamp to the first band's Lo.
// Inside the unbounded final band the output saturates toward Hi at ten
// times the band's lower edge.
func NormalizeMagnitude(value float64, bands []Band) float64 {
	if len(bands) == 0 {
		return 0
	}
	if value <= 0 || math.IsNaN(value) {
		return bands[0].Lo
	}

	lower := 0.0
	for _, b := range bands {
		if value < b.Upper {
			if math.IsInf(b.Upper, 1) {
				span := lower * 10
				if span <= 0 {
					return b.Hi
				}
				return b.Lo + math.Min(b.Hi-b.Lo, (value-lower)/span*(b.Hi-b.Lo))
			}
			return b.Lo + (value-lower)/(b.Upper-lower)*(b.Hi-b.Lo)
		}
		lower = b.Upper
	}
	return bands[len(bands)-1].Hi
}

// NormalizePlayCount is NormalizeMagnitude over the play-count bands.
func NormalizePlayCount(plays int64) float64 {
	return NormalizeMagnitude(float64(plays), PlayCountBands)
}

// Engagement-rate labels, used for telemetry only. The numeric virality
// score uses the raw capped ratio, not these buckets.
const (
	EngagementPoor      = "poor"
	EngagementGood      = "good"
	EngagementExcellent = "excellent"
	EngagementViral     = "viral"
)

// EngagementRateLabel buckets an engagement rate for logging and metrics.
func EngagementRateLabel(rate float64) string {
	switch {
	case rate < 0.01:
		return EngagementPoor
	case rate < 0.05:
		return EngagementGood
	case rate < 0.10:
		return EngagementExcellent
	default:
		return EngagementViral
	}
}

// TimeDecay returns the recency factor for a video of the given age. Total
// over all inputs; ages below one day (including negative clock skew) decay
// nothing.
func TimeDecay(ageDays float64) float64 {
	switch {
	case ageDays < 1:
		return 1.0
	case ageDays < 7:
		return 0.9
	case ageDays < 30:
		return 0.7
	case ageDays < 90:
		return 0.5
	case ageDays < 180:
		return 0.3
	default:
		return 0.1
	}
}
