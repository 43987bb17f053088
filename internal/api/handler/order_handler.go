package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

// OrderHandler handles order placement and administration.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(svc ports.OrderService) *OrderHandler {
	return &OrderHandler{service: svc}
}

// Create handles POST /api/orders. It runs behind the buy guard.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	buyer, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.Create(c.Request().Context(), buyer, ports.CreateOrderInput{
		ProductID:     req.ProductID,
		SerialNo:      strings.TrimSpace(req.SerialNo),
		TotalAmount:   req.TotalAmount,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Status:        domain.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status))),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, orderResponse{
		Success: true,
		Message: "Order created successfully",
		Order:   order,
	})
}

// ListMine handles GET /api/orders. It runs behind the buy guard.
//
// @Summary      The caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderListResponse
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/orders [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	buyer, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListMine(c.Request().Context(), buyer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderListResponse{Success: true, Count: len(orders), Orders: orders})
}

// ListAll handles GET /api/orders/all.
//
// @Summary      All orders with buyer details
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderListResponse
// @Failure      403  {object}  map[string]interface{}
// @Router       /api/orders/all [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	orders, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderListResponse{Success: true, Count: len(orders), Orders: orders})
}

// UpdateStatus handles PUT /api/orders/:id.
//
// @Summary      Change an order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Order ID"
// @Param        body  body      updateOrderRequest  true  "Status"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	status := domain.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if err := h.service.UpdateStatus(c.Request().Context(), caller, id, status); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Order updated successfully"})
}

// Delete handles DELETE /api/orders/:id.
//
// @Summary      Delete an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Order deleted successfully"})
}
