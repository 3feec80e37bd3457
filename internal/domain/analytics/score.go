package analytics

import (
	"math"

	"github.com/healthbridge/api/internal/domain/medication"
)

// Component weights of the composite score.
const (
	weightVitals       = 0.30
	weightMedication   = 0.25
	weightActivity     = 0.20
	weightConsultation = 0.15
	weightMental       = 0.10
)

// Factor is a named deduction applied to the composite score.
type Factor struct {
	Factor string  `json:"factor"`
	Impact float64 `json:"impact"`
}

// HealthScore is the composite wellness result.
type HealthScore struct {
	Score           int      `json:"score"`
	Level           string   `json:"level"`
	Factors         []Factor `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

func clampComponent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ComputeScore combines five weighted components. Each starts at its
// neutral baseline of 100 and is only penalized when the window actually
// carries data for it; an empty window scores a perfect 100.
func ComputeScore(m *Metrics, courses []*medication.CourseDetail, completedConsultations int) *HealthScore {
	var factors []Factor

	vitals := 100.0
	if avg, ok := mean(values(m.HeartRate)); ok {
		if avg < 60 || avg > 100 {
			vitals -= 20
			factors = append(factors, Factor{"Irregular heart rate", -20})
		}
	}
	if avg, ok := mean(values(m.Sleep)); ok {
		if avg < 7*60 {
			vitals -= 15
			factors = append(factors, Factor{"Insufficient sleep", -15})
		}
	}
	vitals = clampComponent(vitals)

	meds := 100.0
	if len(courses) > 0 {
		sum := 0.0
		for _, c := range courses {
			sum += float64(c.AdherenceRate)
		}
		avg := sum / float64(len(courses))
		if avg < 80 {
			meds = clampComponent(avg)
			factors = append(factors, Factor{"Poor medication adherence", -(100 - avg) * weightMedication})
		}
	}

	activity := 100.0
	if avg, ok := mean(values(m.Steps)); ok {
		if avg < 5000 {
			activity = clampComponent(avg / 5000 * 100)
			factors = append(factors, Factor{"Low activity level", -(100 - activity) * weightActivity})
		}
	}

	engagement := 100.0
	if completedConsultations == 0 && m.Observations >= 20 {
		engagement = 70
		factors = append(factors, Factor{"No recent consultations despite data", -30})
	}

	mental := 100.0
	if avg, ok := mean(values(m.Mood)); ok {
		if avg < 6 {
			mental = clampComponent(avg / 10 * 100)
			factors = append(factors, Factor{"Low mood scores", -(100 - mental) * weightMental})
		}
	}

	score := int(math.Round(
		vitals*weightVitals +
			meds*weightMedication +
			activity*weightActivity +
			engagement*weightConsultation +
			mental*weightMental))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &HealthScore{
		Score:           score,
		Level:           scoreLevel(score),
		Factors:         factors,
		Recommendations: scoreRecommendations(score, factors),
	}
}

func scoreLevel(score int) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "poor"
	}
}

func scoreRecommendations(score int, factors []Factor) []string {
	recs := []string{}
	if score < 60 {
		recs = append(recs, "Consider consulting with your healthcare provider")
	}
	for _, f := range factors {
		switch f.Factor {
		case "Insufficient sleep":
			recs = append(recs, "Focus on improving sleep quality and duration")
		case "Low activity level":
			recs = append(recs, "Increase daily physical activity")
		}
	}
	return recs
}
