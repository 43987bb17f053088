package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

// CartHandler handles the caller's cart.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(svc ports.CartService) *CartHandler {
	return &CartHandler{service: svc}
}

// Add handles POST /api/cart. It runs behind the buy guard.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addToCartRequest  true  "Cart line"
// @Success      201   {object}  cartItemResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /api/cart [post]
func (h *CartHandler) Add(c echo.Context) error {
	buyer, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req addToCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.Add(c.Request().Context(), buyer, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cartItemResponse{
		Success: true,
		Message: "Product added to cart successfully",
		Item:    item,
	})
}

// List handles GET /api/cart. It runs behind the buy guard.
//
// @Summary      Cart contents
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartListResponse
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/cart [get]
func (h *CartHandler) List(c echo.Context) error {
	buyer, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	lines, err := h.service.List(c.Request().Context(), buyer)
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total)
	}
	return c.JSON(http.StatusOK, cartListResponse{
		Success: true,
		Count:   len(lines),
		Items:   lines,
		Total:   total,
	})
}

// UpdateQuantity handles PUT /api/cart/:id.
//
// @Summary      Change a cart line quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Cart item ID"
// @Param        body  body      updateCartRequest  true  "Quantity"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /api/cart/{id} [put]
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.UpdateQuantity(c.Request().Context(), caller, id, req.Quantity); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Cart item updated successfully"})
}

// Remove handles DELETE /api/cart/:id.
//
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Cart item ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/cart/{id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Remove(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Item removed from cart successfully"})
}
