package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/rpingest/models"
)

type horseDetail struct {
	models.Horse
	Lineage []models.Lineage `json:"lineage"`
}

// Horse returns one horse with its lineage edges.
func (h *Handler) Horse(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	horse := &models.Horse{}
	err := h.db.NewSelect().Model(horse).
		Where("horse_id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "unknown horse")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var lineage []models.Lineage
	err = h.db.NewSelect().Model(&lineage).
		Where("horse_id = ?", id).
		OrderExpr("generation, relation").
		Scan(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, horseDetail{Horse: *horse, Lineage: lineage})
}

// HorseSearch searches horses by name pattern.
func (h *Handler) HorseSearch(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name param not set")
	}

	var horses []models.Horse
	err := h.db.NewSelect().Model(&horses).
		Where("name ILIKE ?", "%"+name+"%").
		OrderExpr("name ASC").
		Limit(50).
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, horses)
}
