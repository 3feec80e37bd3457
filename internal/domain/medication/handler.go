package medication

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthbridge/api/internal/platform/auth"
	"github.com/healthbridge/api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/medications", auth.RequireRole("patient", "doctor"))
	g.GET("/search", h.SearchMedications)
	g.GET("/courses", h.ListCourses)
	g.POST("/courses", h.CreateCourse)
	g.GET("/courses/:id", h.GetCourse)
	g.PUT("/courses/:id", h.UpdateCourse)
	g.DELETE("/courses/:id", h.DeleteCourse)
	g.POST("/courses/:id/intake", h.RecordIntake)
	g.GET("/courses/:id/adherence", h.Adherence)
	g.GET("/:id", h.GetMedication)
}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	uid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid user identity")
	}
	return uid, nil
}

func mapServiceError(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

// =========== Catalog ===========

func (h *Handler) SearchMedications(c echo.Context) error {
	pg := pagination.FromContext(c)
	meds, total, err := h.svc.SearchMedications(c.Request().Context(), c.QueryParam("q"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(meds, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetMedication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.GetMedication(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	return c.JSON(http.StatusOK, m)
}

// =========== Courses ===========

func (h *Handler) CreateCourse(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	var course Course
	if err := c.Bind(&course); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.CreateCourse(c.Request().Context(), uid, &course)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetCourse(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetCourse(c.Request().Context(), uid, id)
	if err != nil {
		return mapServiceError(err, "medication course not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListCourses(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	filter := CourseListFilter{Status: c.QueryParam("status")}
	courses, total, err := h.svc.ListCourses(c.Request().Context(), uid, filter, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(courses, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateCourse(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in Course
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.UpdateCourse(c.Request().Context(), uid, id, &in)
	if err != nil {
		return mapServiceError(err, "medication course not found")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteCourse(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteCourse(c.Request().Context(), uid, id); err != nil {
		return mapServiceError(err, "medication course not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// =========== Intake ===========

func (h *Handler) RecordIntake(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req IntakeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.RecordIntake(c.Request().Context(), uid, id, req)
	if err != nil {
		return mapServiceError(err, "medication course not found")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Adherence(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	report, err := h.svc.AdherenceReport(c.Request().Context(), uid, id)
	if err != nil {
		return mapServiceError(err, "medication course not found")
	}
	return c.JSON(http.StatusOK, report)
}
