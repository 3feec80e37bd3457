package analytics

import "github.com/healthbridge/api/internal/domain/medication"

// Recommendation is a prioritized action card.
type Recommendation struct {
	Type        string   `json:"type"`
	Priority    string   `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

// BuildRecommendations derives cards from the recent metrics and active
// courses. The general check-up card is always included.
func BuildRecommendations(m *Metrics, courses []*medication.CourseDetail) []Recommendation {
	var recs []Recommendation

	if avg, ok := mean(values(m.Sleep)); ok && avg < 7*60 {
		recs = append(recs, Recommendation{
			Type:        "sleep",
			Priority:    "high",
			Title:       "Improve Sleep Duration",
			Description: "Your average sleep duration is below the recommended 7-9 hours.",
			Actions: []string{
				"Establish a consistent bedtime routine",
				"Avoid screens 1 hour before bed",
				"Keep bedroom cool and dark",
				"Consider relaxation techniques",
			},
		})
	}

	if avg, ok := mean(values(m.Steps)); ok && avg < 10000 {
		recs = append(recs, Recommendation{
			Type:        "activity",
			Priority:    "medium",
			Title:       "Increase Daily Activity",
			Description: "Try to reach 10,000 steps per day for better cardiovascular health.",
			Actions: []string{
				"Take short walks throughout the day",
				"Use stairs instead of elevators",
				"Schedule exercise time",
				"Track progress with your wearable device",
			},
		})
	}

	poorAdherence := 0
	for _, c := range courses {
		tier := medication.ComplianceStatus(c.AdherenceRate)
		if tier == "poor" || tier == "critical" {
			poorAdherence++
		}
	}
	if poorAdherence > 0 {
		recs = append(recs, Recommendation{
			Type:        "medication",
			Priority:    "high",
			Title:       "Improve Medication Adherence",
			Description: "Several medications show poor adherence rates.",
			Actions: []string{
				"Set up medication reminders",
				"Use pill organizers",
				"Understand the importance of each medication",
				"Talk to your doctor about any concerns",
			},
		})
	}

	if avg, ok := mean(values(m.Mood)); ok && avg < 6 {
		recs = append(recs, Recommendation{
			Type:        "mental-health",
			Priority:    "medium",
			Title:       "Support Mental Well-being",
			Description: "Your mood scores suggest room for improvement.",
			Actions: []string{
				"Practice mindfulness or meditation",
				"Maintain social connections",
				"Consider speaking with a mental health professional",
				"Engage in activities you enjoy",
			},
		})
	}

	recs = append(recs, Recommendation{
		Type:        "general",
		Priority:    "low",
		Title:       "Maintain Regular Check-ups",
		Description: "Regular health screenings help catch issues early.",
		Actions: []string{
			"Schedule annual physical examinations",
			"Stay up-to-date with vaccinations",
			"Keep health records organized",
			"Monitor key health metrics regularly",
		},
	})

	return recs
}
