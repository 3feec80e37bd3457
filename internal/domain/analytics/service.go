package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/healthbridge/api/internal/domain/consultation"
	"github.com/healthbridge/api/internal/domain/medication"
	"github.com/healthbridge/api/internal/domain/observation"
)

// ObservationSource provides the window queries the engine aggregates
// over. Results must be ordered by recorded_at ascending.
type ObservationSource interface {
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*observation.Observation, error)
	ListRange(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*observation.Observation, error)
}

type CourseSource interface {
	ListActiveCourses(ctx context.Context, userID uuid.UUID) ([]*medication.CourseDetail, error)
	AllCourses(ctx context.Context, userID uuid.UUID) ([]*medication.CourseDetail, error)
}

type ConsultationSource interface {
	CountCompletedSince(ctx context.Context, patientID uuid.UUID, since time.Time) (int, error)
	ListByPatientRange(ctx context.Context, patientID uuid.UUID, from, to *time.Time) ([]*consultation.Consultation, error)
}

type Service struct {
	observations  ObservationSource
	courses       CourseSource
	consultations ConsultationSource
	now           func() time.Time
}

func NewService(observations ObservationSource, courses CourseSource, consultations ConsultationSource) *Service {
	return &Service{
		observations:  observations,
		courses:       courses,
		consultations: consultations,
		now:           time.Now,
	}
}

func (s *Service) windowMetrics(ctx context.Context, userID uuid.UUID, period string) (*Metrics, Window, error) {
	w := ResolveWindow(period, s.now().UTC())
	obs, err := s.observations.ListSince(ctx, userID, w.Start)
	if err != nil {
		return nil, w, err
	}
	return ExtractMetrics(obs), w, nil
}

// =========== Trends ===========

type TrendSeries struct {
	HeartRate     []Point   `json:"heart_rate"`
	BloodPressure []BPPoint `json:"blood_pressure"`
	Weight        []Point   `json:"weight"`
	Glucose       []Point   `json:"glucose"`
	Sleep         []Point   `json:"sleep"`
	Mood          []Point   `json:"mood"`
}

type TrendsResponse struct {
	Trends     TrendSeries `json:"trends"`
	Period     string      `json:"period"`
	DataPoints int         `json:"data_points"`
}

var trendMetrics = map[string]bool{
	"heart-rate": true, "blood-pressure": true, "weight": true,
	"glucose": true, "sleep": true, "mood": true,
}

// Trends returns per-metric series over the resolved window. A metric
// filter narrows the response to that family; unknown periods default to
// 30 days.
func (s *Service) Trends(ctx context.Context, userID uuid.UUID, metric, period string) (*TrendsResponse, error) {
	if metric != "" && !trendMetrics[metric] {
		return nil, fmt.Errorf("unknown metric: %s", metric)
	}
	m, w, err := s.windowMetrics(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	series := TrendSeries{
		HeartRate:     m.HeartRate,
		BloodPressure: m.BloodPressure,
		Weight:        m.Weight,
		Glucose:       m.Glucose,
		Sleep:         m.Sleep,
		Mood:          m.Mood,
	}
	if metric != "" {
		filtered := TrendSeries{}
		switch metric {
		case "heart-rate":
			filtered.HeartRate = series.HeartRate
		case "blood-pressure":
			filtered.BloodPressure = series.BloodPressure
		case "weight":
			filtered.Weight = series.Weight
		case "glucose":
			filtered.Glucose = series.Glucose
		case "sleep":
			filtered.Sleep = series.Sleep
		case "mood":
			filtered.Mood = series.Mood
		}
		series = filtered
	}
	return &TrendsResponse{
		Trends:     series,
		Period:     w.Period,
		DataPoints: m.Observations,
	}, nil
}

// =========== Insights ===========

type InsightsResponse struct {
	Insights    []Insight `json:"insights"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Insights runs the rule set over a fixed trailing 30-day window.
func (s *Service) Insights(ctx context.Context, userID uuid.UUID) (*InsightsResponse, error) {
	m, _, err := s.windowMetrics(ctx, userID, "30d")
	if err != nil {
		return nil, err
	}
	return &InsightsResponse{
		Insights:    GenerateInsights(m),
		GeneratedAt: s.now().UTC(),
	}, nil
}

// =========== Health score ===========

// HealthScore computes the composite wellness score over a fixed trailing
// 30-day window.
func (s *Service) HealthScore(ctx context.Context, userID uuid.UUID) (*HealthScore, error) {
	m, w, err := s.windowMetrics(ctx, userID, "30d")
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.ListActiveCourses(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.consultations.CountCompletedSince(ctx, userID, w.Start)
	if err != nil {
		return nil, err
	}
	return ComputeScore(m, courses, completed), nil
}

// =========== Overview ===========

type VitalSummary struct {
	DataPoints int      `json:"data_points"`
	Average    *float64 `json:"average,omitempty"`
	Trend      string   `json:"trend"`
}

type BPSummary struct {
	DataPoints       int      `json:"data_points"`
	AverageSystolic  *float64 `json:"average_systolic,omitempty"`
	AverageDiastolic *float64 `json:"average_diastolic,omitempty"`
	Trend            string   `json:"trend"`
}

type ActivitySummary struct {
	DataPoints    int     `json:"data_points"`
	TotalSteps    int     `json:"total_steps"`
	AverageSteps  int     `json:"average_steps"`
	TotalCalories float64 `json:"total_calories"`
	ActiveDays    int     `json:"active_days"`
}

type SleepSummary struct {
	DataPoints      int `json:"data_points"`
	TotalDuration   int `json:"total_duration"`
	AverageDuration int `json:"average_duration"`
}

type MentalHealthSummary struct {
	DataPoints  int     `json:"data_points"`
	AverageMood float64 `json:"average_mood"`
	MoodTrend   string  `json:"mood_trend"`
}

type OverviewTotals struct {
	TotalDataPoints   int     `json:"total_data_points"`
	DaysWithData      int     `json:"days_with_data"`
	AverageDataPerDay float64 `json:"average_data_per_day"`
}

type OverviewAnalytics struct {
	Period     string         `json:"period"`
	DataPoints int            `json:"data_points"`
	Overview   OverviewTotals `json:"overview"`
	VitalSigns struct {
		HeartRate     VitalSummary `json:"heart_rate"`
		BloodPressure BPSummary    `json:"blood_pressure"`
		Weight        VitalSummary `json:"weight"`
		Glucose       VitalSummary `json:"glucose"`
	} `json:"vital_signs"`
	Activity     ActivitySummary     `json:"activity"`
	Sleep        SleepSummary        `json:"sleep"`
	MentalHealth MentalHealthSummary `json:"mental_health"`
	Insights     []Insight           `json:"insights"`
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func vitalSummary(metric string, series []Point, decimals int) VitalSummary {
	s := Summarize(metric, series)
	if s.Average != nil {
		var rounded float64
		if decimals == 0 {
			rounded = math.Round(*s.Average)
		} else {
			rounded = round1(*s.Average)
		}
		s.Average = &rounded
	}
	return VitalSummary{DataPoints: s.Count, Average: s.Average, Trend: s.Direction}
}

// Overview assembles the period dashboard: totals, per-family summaries
// with trends, and the overview insight rules.
func (s *Service) Overview(ctx context.Context, userID uuid.UUID, period string) (*OverviewAnalytics, error) {
	m, w, err := s.windowMetrics(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	out := &OverviewAnalytics{
		Period:     w.Period,
		DataPoints: m.Observations,
		Overview: OverviewTotals{
			TotalDataPoints:   m.Observations,
			DaysWithData:      m.DaysWithData,
			AverageDataPerDay: round1(float64(m.Observations) / float64(w.Days())),
		},
	}

	out.VitalSigns.HeartRate = vitalSummary("heart-rate", m.HeartRate, 0)
	out.VitalSigns.Weight = vitalSummary("weight", m.Weight, 1)
	out.VitalSigns.Glucose = vitalSummary("glucose", m.Glucose, 0)

	sysAvg, diaAvg, bpTrend := SummarizeBP(m.BloodPressure)
	if sysAvg != nil {
		v := math.Round(*sysAvg)
		sysAvg = &v
	}
	if diaAvg != nil {
		v := math.Round(*diaAvg)
		diaAvg = &v
	}
	out.VitalSigns.BloodPressure = BPSummary{
		DataPoints:       len(m.BloodPressure),
		AverageSystolic:  sysAvg,
		AverageDiastolic: diaAvg,
		Trend:            bpTrend,
	}

	totalSteps := 0.0
	activeDays := 0
	for _, p := range m.Steps {
		totalSteps += p.Value
		if p.Value > 5000 {
			activeDays++
		}
	}
	out.Activity = ActivitySummary{
		DataPoints:    len(m.Steps),
		TotalSteps:    int(totalSteps),
		TotalCalories: m.TotalCalories,
		ActiveDays:    activeDays,
	}
	if avg, ok := mean(values(m.Steps)); ok {
		out.Activity.AverageSteps = int(math.Round(avg))
	}

	totalSleep := 0.0
	for _, p := range m.Sleep {
		totalSleep += p.Value
	}
	out.Sleep = SleepSummary{DataPoints: len(m.Sleep), TotalDuration: int(totalSleep)}
	if avg, ok := mean(values(m.Sleep)); ok {
		out.Sleep.AverageDuration = int(math.Round(avg))
	}

	out.MentalHealth = MentalHealthSummary{
		DataPoints: len(m.Mood),
		MoodTrend:  trendDirection(values(m.Mood), trendThresholds["mood"]),
	}
	if avg, ok := mean(values(m.Mood)); ok {
		out.MentalHealth.AverageMood = round1(avg)
	}

	out.Insights = s.overviewInsights(m)
	return out, nil
}

func (s *Service) overviewInsights(m *Metrics) []Insight {
	insights := []Insight{}
	if avg, ok := mean(values(m.HeartRate)); ok && avg > 100 {
		insights = append(insights, Insight{
			Type:     "heart-rate",
			Severity: "warning",
			Message:  "Your resting heart rate has been elevated. Consider consulting your doctor.",
		})
	}
	if avg, ok := mean(values(m.Sleep)); ok && avg < 7*60 {
		insights = append(insights, Insight{
			Type:     "sleep",
			Severity: "info",
			Message:  "You are getting less than the recommended 7-9 hours of sleep.",
		})
	}
	if avg, ok := mean(values(m.Steps)); ok && avg < 5000 {
		insights = append(insights, Insight{
			Type:     "activity",
			Severity: "recommendation",
			Message:  "Try to increase your daily steps. Aim for at least 10,000 steps per day.",
		})
	}
	return insights
}

// =========== Medication analytics ===========

type MedicationAnalytics struct {
	TotalMedications  int            `json:"total_medications"`
	ActiveMedications int            `json:"active_medications"`
	Adherence         map[string]int `json:"adherence"`
	ByClass           map[string]int `json:"by_class"`
	Insights          []Insight      `json:"insights"`
}

func (s *Service) MedicationAnalytics(ctx context.Context, userID uuid.UUID) (*MedicationAnalytics, error) {
	courses, err := s.courses.AllCourses(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &MedicationAnalytics{
		TotalMedications: len(courses),
		Adherence:        map[string]int{"excellent": 0, "good": 0, "fair": 0, "poor": 0, "critical": 0},
		ByClass:          map[string]int{},
		Insights:         []Insight{},
	}

	poor := 0
	for _, c := range courses {
		if c.Status == "active" {
			out.ActiveMedications++
		}
		tier := medication.ComplianceStatus(c.AdherenceRate)
		out.Adherence[tier]++
		if tier == "poor" || tier == "critical" {
			poor++
		}
		if c.DrugClass != nil && *c.DrugClass != "" {
			out.ByClass[*c.DrugClass]++
		}
	}

	if poor > 0 {
		out.Insights = append(out.Insights, Insight{
			Type:     "adherence",
			Severity: "warning",
			Message:  fmt.Sprintf("%d medication(s) have poor adherence rates. Consider setting up reminders.", poor),
		})
	}
	return out, nil
}

// =========== Consultation analytics ===========

type ConsultationAnalytics struct {
	TotalConsultations int            `json:"total_consultations"`
	ByStatus           map[string]int `json:"by_status"`
	ByType             map[string]int `json:"by_type"`
	AverageRating      float64        `json:"average_rating"`
	Insights           []Insight      `json:"insights"`
}

func (s *Service) ConsultationAnalytics(ctx context.Context, userID uuid.UUID) (*ConsultationAnalytics, error) {
	consultations, err := s.consultations.ListByPatientRange(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}

	out := &ConsultationAnalytics{
		TotalConsultations: len(consultations),
		ByStatus:           map[string]int{"scheduled": 0, "completed": 0, "cancelled": 0, "no-show": 0},
		ByType:             map[string]int{"video": 0, "audio": 0, "chat": 0, "in-person": 0},
		Insights:           []Insight{},
	}

	ratingSum := 0.0
	rated := 0
	for _, c := range consultations {
		out.ByStatus[c.Status]++
		out.ByType[c.Type]++
		if c.Rating != nil {
			ratingSum += float64(*c.Rating)
			rated++
		}
	}
	if rated > 0 {
		out.AverageRating = round1(ratingSum / float64(rated))
	}

	if len(consultations) > 0 {
		rate := float64(out.ByStatus["completed"]) / float64(len(consultations)) * 100
		out.Insights = append(out.Insights, Insight{
			Type:     "consultations",
			Severity: "info",
			Message:  fmt.Sprintf("Completion rate: %.1f%%", rate),
		})
	}
	if out.AverageRating >= 4.5 {
		out.Insights = append(out.Insights, Insight{
			Type:     "satisfaction",
			Severity: "success",
			Message:  fmt.Sprintf("Excellent average rating: %.1f/5", out.AverageRating),
		})
	}
	return out, nil
}

// =========== Recommendations ===========

type RecommendationsResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

func (s *Service) Recommendations(ctx context.Context, userID uuid.UUID) (*RecommendationsResponse, error) {
	m, _, err := s.windowMetrics(ctx, userID, "30d")
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.ListActiveCourses(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &RecommendationsResponse{
		Recommendations: BuildRecommendations(m, courses),
		GeneratedAt:     s.now().UTC(),
	}, nil
}

// =========== Export ===========

type Export struct {
	HealthData    []*observation.Observation   `json:"health_data,omitempty"`
	Medications   []*medication.CourseDetail   `json:"medications,omitempty"`
	Consultations []*consultation.Consultation `json:"consultations,omitempty"`
	ExportedAt    time.Time                    `json:"exported_at"`
	Format        string                       `json:"format"`
}

var exportTypes = map[string]bool{
	"health-data": true, "medications": true, "consultations": true, "all": true,
}

// ExportData snapshots the user's records as JSON. Date bounds apply to
// observations and consultations; the medication course list is always
// complete.
func (s *Service) ExportData(ctx context.Context, userID uuid.UUID, exportType string, start, end *time.Time) (*Export, error) {
	if exportType == "" {
		exportType = "health-data"
	}
	if !exportTypes[exportType] {
		return nil, fmt.Errorf("unknown export type: %s", exportType)
	}

	out := &Export{ExportedAt: s.now().UTC(), Format: "json"}

	if exportType == "health-data" || exportType == "all" {
		obs, err := s.observations.ListRange(ctx, userID, start, end)
		if err != nil {
			return nil, err
		}
		out.HealthData = obs
	}
	if exportType == "medications" || exportType == "all" {
		courses, err := s.courses.AllCourses(ctx, userID)
		if err != nil {
			return nil, err
		}
		out.Medications = courses
	}
	if exportType == "consultations" || exportType == "all" {
		consultations, err := s.consultations.ListByPatientRange(ctx, userID, start, end)
		if err != nil {
			return nil, err
		}
		out.Consultations = consultations
	}
	return out, nil
}
