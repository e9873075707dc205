package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/rpingest/models"
)

// Cycles returns the most recent ingestion summaries, newest first.
func (h *Handler) Cycles(c echo.Context) error {
	var cycles []models.Cycle
	err := h.db.NewSelect().
		Model(&cycles).
		OrderExpr("started_at DESC").
		Limit(30).
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, cycles)
}

// Dates returns all distinct race dates, optionally filtered by course ID.
func (h *Handler) Dates(c echo.Context) error {
	courseID := c.QueryParam("courseID")

	var dates []string
	q := h.db.NewSelect().
		TableExpr("races").
		ColumnExpr("DISTINCT date::text").
		OrderExpr("date DESC")

	if courseID != "" {
		q = q.Where("course_id = ?", courseID)
	}

	if err := q.Scan(c.Request().Context(), &dates); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dates)
}
