package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/ports"
	"github.com/vanchuyen/logistics-api/internal/core/pricing"
)

// OrderHandler handles HTTP requests for customer orders.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Estimate handles POST /api/orders/estimate.
//
// @Summary      Quick price estimate
// @Description  Fixed-formula estimate with the 22:00-05:00 surcharge applied from the server clock.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      estimateRequest  true  "Estimate input"
// @Success      200   {object}  pricing.Quote
// @Failure      400   {object}  errorResponse
// @Router       /api/orders/estimate [post]
func (h *OrderHandler) Estimate(c echo.Context) error {
	var req estimateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	weight := 1.0
	if req.WeightKg != nil {
		weight = *req.WeightKg
	}
	quote := h.service.Estimate(c.Request().Context(), pricing.QuoteInput{
		DistanceMeters: req.DistanceMeters,
		WeightKg:       weight,
		Floors:         req.Floors,
		Workers:        req.Workers,
		VehicleType:    req.VehicleType,
		ServiceType:    req.ServiceType,
		PackageType:    req.PackageType,
	})
	return c.JSON(http.StatusOK, quote)
}

// Create handles POST /api/orders.
//
// @Summary      Create an order
// @Description  Stores the order for the caller. The declared price is kept; only the night surcharge is re-applied.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createOrderRequest  true   "Order details"
// @Success      201              {object}  createOrderResponse
// @Success      200              {object}  createOrderResponse  "Replayed by Idempotency-Key"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse  "Same Idempotency-Key still in progress"
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Create(c.Request().Context(), ports.CreateOrderInput{
		SenderName:      req.SenderName,
		SenderPhone:     req.SenderPhone,
		ReceiverName:    req.ReceiverName,
		ReceiverPhone:   req.ReceiverPhone,
		PickupAddress:   req.PickupAddress,
		DeliveryAddress: req.DeliveryAddress,
		PackageType:     req.PackageType,
		Description:     req.Description,
		WeightKg:        req.WeightKg,
		DeclaredValue:   req.DeclaredValue,
		VehicleType:     req.VehicleType,
		ServiceType:     req.ServiceType,
		Floors:          req.Floors,
		Workers:         req.Workers,
		DistanceToTruck: req.DistanceToTruck,
		DistanceKm:      req.DistanceKm,
		Price:           req.Price,
		Note:            req.Note,
		UserID:          caller.UserID,
		IdempotencyKey:  c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	if res.AlreadyExisted {
		return c.JSON(http.StatusOK, createOrderResponse{Message: "order already created", Order: res.Order})
	}
	return c.JSON(http.StatusCreated, createOrderResponse{Message: "order created, invoice will be emailed", Order: res.Order})
}

// ListMine handles GET /api/orders.
//
// @Summary      List the caller's orders, newest first
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Router       /api/orders [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListMine(c.Request().Context(), caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// ListAll handles GET /api/orders/all (admin).
//
// @Summary      List every order, newest first
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      403  {object}  errorResponse
// @Router       /api/orders/all [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	orders, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Get handles GET /api/orders/:id.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.owned(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Pay handles PUT /api/orders/:id/pay.
//
// @Summary      Mark an order as paid
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      400  {object}  errorResponse  "Already paid"
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id}/pay [put]
func (h *OrderHandler) Pay(c echo.Context) error {
	if _, err := h.owned(c); err != nil {
		return err
	}
	order, err := h.service.Pay(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Message: "payment recorded", Order: order})
}

// Cancel handles PUT /api/orders/:id/cancel.
//
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id}/cancel [put]
func (h *OrderHandler) Cancel(c echo.Context) error {
	if _, err := h.owned(c); err != nil {
		return err
	}
	order, err := h.service.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Message: "order cancelled", Order: order})
}

// UpdateStatus handles PUT /api/orders/:id/status (admin).
//
// @Summary      Set an order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Order id"
// @Param        body  body      updateOrderStatusRequest  true  "New status"
// @Success      200   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Message: "status updated", Order: order})
}

// QR handles GET /api/orders/:id/qr.
//
// @Summary      Tracking QR code
// @Description  300x300 PNG encoding APP_URL/order/{id}.
// @Tags         orders
// @Produce      png
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {file}    binary
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id}/qr [get]
func (h *OrderHandler) QR(c echo.Context) error {
	order, err := h.owned(c)
	if err != nil {
		return err
	}
	png, err := h.service.TrackingQR(c.Request().Context(), order)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// Invoice handles GET /api/orders/:id/invoice.
//
// @Summary      Download the PDF invoice
// @Tags         orders
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {file}    binary
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id}/invoice [get]
func (h *OrderHandler) Invoice(c echo.Context) error {
	order, err := h.owned(c)
	if err != nil {
		return err
	}
	pdf, err := h.service.InvoicePDF(c.Request().Context(), order)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=hoadon_"+order.ID+".pdf")
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// SendInvoice handles POST /api/orders/:id/send-invoice (admin).
//
// @Summary      Re-send the invoice mail
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      202  {object}  messageResponse
// @Failure      400  {object}  errorResponse  "Owner has no email"
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id}/send-invoice [post]
func (h *OrderHandler) SendInvoice(c echo.Context) error {
	if err := h.service.ResendInvoice(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "invoice queued"})
}

// Delete handles DELETE /api/orders/:id (admin).
//
// @Summary      Delete an order
// @Tags         orders
// @Security     BearerAuth
// @Param        id   path  string  true  "Order id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// owned loads the order and hides it from callers who neither own it nor are admins.
func (h *OrderHandler) owned(c echo.Context) (*domain.Order, error) {
	caller, err := identity(c)
	if err != nil {
		return nil, err
	}
	order, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && order.UserID != caller.UserID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}
