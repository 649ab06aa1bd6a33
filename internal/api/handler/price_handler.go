package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vanchuyen/logistics-api/internal/core/ports"
)

type PriceHandler struct {
	service ports.PriceService
}

func NewPriceHandler(service ports.PriceService) *PriceHandler {
	return &PriceHandler{service: service}
}

// Current handles GET /api/prices.
//
// @Summary      Current tariff
// @Tags         prices
// @Produce      json
// @Success      200  {object}  domain.PriceTable
// @Router       /api/prices [get]
func (h *PriceHandler) Current(c echo.Context) error {
	p, err := h.service.Current(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Latest handles GET /api/prices/latest.
//
// @Summary      Most recent tariff snapshot
// @Tags         prices
// @Produce      json
// @Success      200  {object}  domain.PriceHistoryEntry
// @Router       /api/prices/latest [get]
func (h *PriceHandler) Latest(c echo.Context) error {
	e, err := h.service.Latest(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// Timeline handles GET /api/prices/timeline.
//
// @Summary      Tariff history, oldest first
// @Tags         prices
// @Produce      json
// @Success      200  {array}  domain.PriceHistoryEntry
// @Router       /api/prices/timeline [get]
func (h *PriceHandler) Timeline(c echo.Context) error {
	entries, err := h.service.Timeline(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// Update handles PUT /api/prices (admin).
//
// @Summary      Update the tariff
// @Description  Omitted fields keep their value. Every update is recorded in the history.
// @Tags         prices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePriceRequest  true  "Fields to change"
// @Success      200   {object}  domain.PriceTable
// @Failure      400   {object}  errorResponse
// @Router       /api/prices [put]
func (h *PriceHandler) Update(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	var req updatePriceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), ports.UpdatePriceInput{
		BasePrice:     req.BasePrice,
		PerKmPrice:    req.PerKmPrice,
		OverweightFee: req.OverweightFee,
		ExpressFee:    req.ExpressFee,
		Note:          req.Note,
		UpdatedBy:     caller.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
