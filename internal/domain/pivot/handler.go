package pivot

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/owners/:ownerId/pivot", h.GetPivotByOwner)
	api.POST("/owners/:ownerId/pivot/rebuild", h.RebuildForOwner)
	api.GET("/documents/:id/pivot", h.GetPivotByDocument)
}

func (h *Handler) GetPivotByOwner(c echo.Context) error {
	ownerID, err := uuid.Parse(c.Param("ownerId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid owner id")
	}
	table, err := h.svc.PivotByOwner(c.Request().Context(), ownerID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "pivot table not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, table)
}

func (h *Handler) GetPivotByDocument(c echo.Context) error {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid document id")
	}
	table, err := h.svc.PivotByDocument(c.Request().Context(), documentID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "pivot table not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, table)
}

func (h *Handler) RebuildForOwner(c echo.Context) error {
	ownerID, err := uuid.Parse(c.Param("ownerId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid owner id")
	}
	if err := h.svc.RebuildForOwner(c.Request().Context(), ownerID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
