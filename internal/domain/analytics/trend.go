package analytics

// trendThresholds is the per-metric delta a series must move by before its
// direction flips from stable. Metrics not listed use 0.
var trendThresholds = map[string]float64{
	"heart-rate":     5,   // bpm
	"blood-pressure": 5,   // mmHg systolic
	"weight":         2,   // kg
	"glucose":        10,  // mg/dL
	"sleep":          30,  // minutes
	"mood":           1,   // score points
	"steps":          500, // steps
}

// TrendSummary aggregates one metric series.
type TrendSummary struct {
	Count     int      `json:"count"`
	Average   *float64 `json:"average,omitempty"`
	Direction string   `json:"direction"`
}

// trendDirection compares the means of the first and last k samples,
// k = min(5, n). The windows overlap for short series; with fewer than two
// samples the direction is always stable.
func trendDirection(vals []float64, threshold float64) string {
	n := len(vals)
	if n < 2 {
		return "stable"
	}
	k := 5
	if n < k {
		k = n
	}
	firstMean, _ := mean(vals[:k])
	lastMean, _ := mean(vals[n-k:])
	delta := lastMean - firstMean
	switch {
	case delta > threshold:
		return "increasing"
	case delta < -threshold:
		return "decreasing"
	default:
		return "stable"
	}
}

// Summarize computes count, average and direction for a named metric
// series.
func Summarize(metric string, series []Point) TrendSummary {
	vals := values(series)
	s := TrendSummary{Count: len(vals)}
	if avg, ok := mean(vals); ok {
		s.Average = &avg
	}
	s.Direction = trendDirection(vals, trendThresholds[metric])
	return s
}

// SummarizeBP summarizes a blood pressure series on its systolic values.
func SummarizeBP(series []BPPoint) (systolicAvg, diastolicAvg *float64, direction string) {
	sys := make([]float64, len(series))
	dia := make([]float64, len(series))
	for i, p := range series {
		sys[i] = p.Systolic
		dia[i] = p.Diastolic
	}
	if avg, ok := mean(sys); ok {
		systolicAvg = &avg
	}
	if avg, ok := mean(dia); ok {
		diastolicAvg = &avg
	}
	return systolicAvg, diastolicAvg, trendDirection(sys, trendThresholds["blood-pressure"])
}
