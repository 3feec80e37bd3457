package analytics

import (
	"math"
	"time"

	"github.com/healthbridge/api/internal/domain/observation"
)

// Point is one scalar sample in a metric series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// BPPoint is one blood pressure reading; both values are required for the
// sample to count.
type BPPoint struct {
	Date      time.Time `json:"date"`
	Systolic  float64   `json:"systolic"`
	Diastolic float64   `json:"diastolic"`
}

// Metrics holds the typed series extracted from one window of
// observations. Series preserve the chronological order of the input and
// same-instant samples are kept.
type Metrics struct {
	HeartRate     []Point
	BloodPressure []BPPoint
	Weight        []Point
	Glucose       []Point
	Sleep         []Point // minutes
	Mood          []Point // 1-10
	Steps         []Point
	TotalCalories float64
	Observations  int
	DaysWithData  int
}

func finite(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

// ExtractMetrics scans a window's observations, ordered by recorded_at
// ascending, and pulls out each metric family. An observation missing a
// sub-field is skipped for that family but still scanned for the others.
func ExtractMetrics(obs []*observation.Observation) *Metrics {
	m := &Metrics{Observations: len(obs)}
	days := map[string]bool{}

	for _, o := range obs {
		days[o.RecordedAt.Format("2006-01-02")] = true

		if v, ok := finite(o.HeartRate); ok {
			m.HeartRate = append(m.HeartRate, Point{o.RecordedAt, v})
		}
		if sys, ok := finite(o.SystolicBP); ok {
			if dia, ok := finite(o.DiastolicBP); ok {
				m.BloodPressure = append(m.BloodPressure, BPPoint{o.RecordedAt, sys, dia})
			}
		}
		if v, ok := finite(o.Weight); ok {
			m.Weight = append(m.Weight, Point{o.RecordedAt, v})
		}
		if v, ok := finite(o.Glucose); ok {
			m.Glucose = append(m.Glucose, Point{o.RecordedAt, v})
		}
		if v, ok := finite(o.SleepDuration); ok {
			m.Sleep = append(m.Sleep, Point{o.RecordedAt, v})
		}
		if v, ok := finite(o.MoodScore); ok {
			m.Mood = append(m.Mood, Point{o.RecordedAt, v})
		}
		if o.Steps != nil {
			m.Steps = append(m.Steps, Point{o.RecordedAt, float64(*o.Steps)})
		}
		if v, ok := finite(o.CaloriesBurned); ok {
			m.TotalCalories += v
		}
	}
	m.DaysWithData = len(days)
	return m
}

func values(series []Point) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Value
	}
	return out
}

func mean(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals)), true
}
