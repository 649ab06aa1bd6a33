package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vanchuyen/logistics-api/internal/core/ports"
)

// StatsHandler serves the administrator dashboard figures. Every endpoint
// accepts ?date=YYYY-MM-DD (a UTC+7 civil day) or ?type=day|week|month.
type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

func bindStatsQuery(c echo.Context) (ports.StatsQuery, error) {
	var q statsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return ports.StatsQuery{}, echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	return ports.StatsQuery{Date: q.Date, Type: q.Type}, nil
}

// Revenue handles GET /api/orders/stats/revenue.
//
// @Summary      Revenue over a civil day or the current period
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  false  "Civil date YYYY-MM-DD"
// @Param        type  query     string  false  "day, week or month"  default(day)
// @Success      200   {object}  ports.RevenueStats
// @Failure      400   {object}  errorResponse
// @Router       /api/orders/stats/revenue [get]
func (h *StatsHandler) Revenue(c echo.Context) error {
	q, err := bindStatsQuery(c)
	if err != nil {
		return err
	}
	out, err := h.service.Revenue(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Orders handles GET /api/orders/stats/orders.
//
// @Summary      Order count over a civil day or the current period
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  false  "Civil date YYYY-MM-DD"
// @Param        type  query     string  false  "day, week or month"  default(day)
// @Success      200   {object}  ports.OrderCountStats
// @Failure      400   {object}  errorResponse
// @Router       /api/orders/stats/orders [get]
func (h *StatsHandler) Orders(c echo.Context) error {
	q, err := bindStatsQuery(c)
	if err != nil {
		return err
	}
	out, err := h.service.Orders(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// DayParts handles GET /api/orders/stats/all. The date is mandatory.
//
// @Summary      Morning, noon and evening split of one civil day
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  true  "Civil date YYYY-MM-DD"
// @Success      200   {object}  ports.DayPartStats
// @Failure      400   {object}  errorResponse
// @Router       /api/orders/stats/all [get]
func (h *StatsHandler) DayParts(c echo.Context) error {
	out, err := h.service.DayParts(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// RevenueBuckets handles GET /api/orders/stats/revenue-buckets.
//
// @Summary      Orders grouped by price band
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  false  "Civil date YYYY-MM-DD"
// @Param        type  query     string  false  "day, week or month"  default(day)
// @Success      200   {object}  ports.RevenueBucketStats
// @Failure      400   {object}  errorResponse
// @Router       /api/orders/stats/revenue-buckets [get]
func (h *StatsHandler) RevenueBuckets(c echo.Context) error {
	q, err := bindStatsQuery(c)
	if err != nil {
		return err
	}
	out, err := h.service.RevenueBuckets(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// OrderCountBuckets handles GET /api/orders/stats/order-buckets.
//
// @Summary      Order volume band with per-status breakdown
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  false  "Civil date YYYY-MM-DD"
// @Param        type  query     string  false  "day, week or month"  default(day)
// @Success      200   {object}  ports.OrderCountBucketStats
// @Failure      400   {object}  errorResponse
// @Router       /api/orders/stats/order-buckets [get]
func (h *StatsHandler) OrderCountBuckets(c echo.Context) error {
	q, err := bindStatsQuery(c)
	if err != nil {
		return err
	}
	out, err := h.service.OrderCountBuckets(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
