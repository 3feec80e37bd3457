package analytics

import (
	"fmt"
	"math"
)

// Insight is a threshold-triggered observation about recent metric
// behavior. No insight is ever inferred from missing data.
type Insight struct {
	Type     string                 `json:"type"`
	Severity string                 `json:"severity"`
	Message  string                 `json:"message"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// GenerateInsights runs the fixed rule set over a window's metrics.
func GenerateInsights(m *Metrics) []Insight {
	insights := []Insight{}

	if avg, ok := mean(values(m.HeartRate)); ok && avg > 100 {
		insights = append(insights, Insight{
			Type:     "heart-rate",
			Severity: "warning",
			Message:  "Your resting heart rate has been elevated recently. Consider consulting your doctor.",
			Data:     map[string]interface{}{"average": math.Round(avg)},
		})
	}

	if avg, ok := mean(values(m.Sleep)); ok && avg < 7*60 {
		insights = append(insights, Insight{
			Type:     "sleep",
			Severity: "info",
			Message:  "Your average sleep duration is below the recommended 7-9 hours.",
			Data:     map[string]interface{}{"average_hours": math.Round(avg/60*10) / 10},
		})
	}

	if len(m.Weight) >= 2 {
		change := m.Weight[len(m.Weight)-1].Value - m.Weight[0].Value
		if math.Abs(change) > 5 {
			severity := "info"
			if math.Abs(change) > 10 {
				severity = "warning"
			}
			direction := "lost"
			if change > 0 {
				direction = "gained"
			}
			insights = append(insights, Insight{
				Type:     "weight",
				Severity: severity,
				Message: fmt.Sprintf("Your weight has changed significantly (%s %dkg) over the past month.",
					direction, int(math.Abs(math.Round(change)))),
				Data: map[string]interface{}{"change": math.Round(change)},
			})
		}
	}

	return insights
}
