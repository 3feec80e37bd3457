package analytics

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthbridge/api/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	health := api.Group("/health", auth.RequireRole("patient", "doctor"))
	health.GET("/trends", h.Trends)
	health.GET("/insights", h.Insights)

	g := api.Group("/analytics", auth.RequireRole("patient", "doctor"))
	g.GET("/health", h.Overview)
	g.GET("/health-score", h.HealthScore)
	g.GET("/medications", h.Medications)
	g.GET("/consultations", h.Consultations)
	g.GET("/recommendations", h.Recommendations)
	g.GET("/export", h.Export)
}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	uid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid user identity")
	}
	return uid, nil
}

func (h *Handler) Trends(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	resp, err := h.svc.Trends(c.Request().Context(), uid, c.QueryParam("metric"), c.QueryParam("period"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Insights(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	resp, err := h.svc.Insights(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate insights")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Overview(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	resp, err := h.svc.Overview(c.Request().Context(), uid, c.QueryParam("period"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute analytics")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) HealthScore(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	score, err := h.svc.HealthScore(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute health score")
	}
	return c.JSON(http.StatusOK, score)
}

func (h *Handler) Medications(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	resp, err := h.svc.MedicationAnalytics(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute medication analytics")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Consultations(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	resp, err := h.svc.ConsultationAnalytics(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute consultation analytics")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Recommendations(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	resp, err := h.svc.Recommendations(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to build recommendations")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Export(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	var start, end *time.Time
	if v := c.QueryParam("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid start timestamp")
		}
		start = &t
	}
	if v := c.QueryParam("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid end timestamp")
		}
		end = &t
	}
	resp, err := h.svc.ExportData(c.Request().Context(), uid, c.QueryParam("type"), start, end)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}
