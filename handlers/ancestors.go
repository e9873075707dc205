package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/rpingest/models"
)

// Ancestors returns ancestor statistics ranked by progeny win rate.
// minRuns filters out small samples; limit caps the page size.
func (h *Handler) Ancestors(c echo.Context) error {
	minRuns := 0
	if v := c.QueryParam("minRuns"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "minRuns must be a non-negative integer")
		}
		minRuns = n
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be 1-500")
		}
		limit = n
	}

	var stats []models.AncestorStats
	err := h.db.NewSelect().
		Model(&stats).
		Where("progeny_runs >= ?", minRuns).
		OrderExpr("progeny_win_rate DESC, progeny_runs DESC").
		Limit(limit).
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, stats)
}

// Ancestor returns one ancestor's statistics by identifier.
func (h *Handler) Ancestor(c echo.Context) error {
	id := c.Param("id")

	stats := &models.AncestorStats{}
	err := h.db.NewSelect().Model(stats).
		Where("ancestor_id = ?", id).
		Scan(c.Request().Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "unknown ancestor")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, stats)
}
