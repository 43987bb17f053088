package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

// ProductHandler handles the product catalogue.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(svc ports.ProductService) *ProductHandler {
	return &ProductHandler{service: svc}
}

// List handles GET /api/products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {object}  productListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context(), domain.ProductFilter{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{Success: true, Count: len(products), Products: products})
}

// Filter handles GET /api/products/filter.
//
// @Summary      Filter products
// @Tags         products
// @Produce      json
// @Param        product_name     query     string  false  "Product name"
// @Param        product_variant  query     string  false  "Variant"
// @Param        min_price        query     number  false  "Minimum price"
// @Param        max_price        query     number  false  "Maximum price"
// @Param        in_stock         query     bool    false  "Only products with stock"
// @Success      200              {object}  productListResponse
// @Failure      400              {object}  map[string]interface{}
// @Router       /api/products/filter [get]
func (h *ProductHandler) Filter(c echo.Context) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return err
	}
	products, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{Success: true, Count: len(products), Products: products})
}

func parseProductFilter(c echo.Context) (domain.ProductFilter, error) {
	f := domain.ProductFilter{
		Name:    domain.ProductName(strings.TrimSpace(c.QueryParam("product_name"))),
		Variant: strings.TrimSpace(c.QueryParam("product_variant")),
	}

	for _, p := range []struct {
		name string
		dst  **decimal.Decimal
	}{
		{"min_price", &f.MinPrice},
		{"max_price", &f.MaxPrice},
	} {
		raw := strings.TrimSpace(c.QueryParam(p.name))
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil || v.IsNegative() {
			return f, domain.Invalid(p.name, p.name+" must be a non-negative number")
		}
		*p.dst = &v
	}

	if raw := strings.TrimSpace(c.QueryParam("in_stock")); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return f, domain.Invalid("in_stock", "in_stock must be true or false")
		}
		f.InStock = inStock
	}
	return f, nil
}

// Get handles GET /api/products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Success: true, Product: product})
}

// Create handles POST /api/products. It runs behind the sell guard.
//
// @Summary      List a product for sale
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	seller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := ports.CreateProductInput{
		Name:    domain.ProductName(strings.TrimSpace(req.Name)),
		Variant: strings.TrimSpace(req.Variant),
		Code:    req.Code,
		Price:   req.Price,
		Images:  req.Images,
	}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}

	product, err := h.service.Create(c.Request().Context(), seller, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, productResponse{
		Success: true,
		Message: "Product created successfully",
		Product: product,
	})
}

// Update handles PUT /api/products/:id. It runs behind the sell guard.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Product ID"
// @Param        body  body      updateProductRequest  true  "Changed fields"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.service.Update(c.Request().Context(), caller, id, req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{
		Success: true,
		Message: "Product updated successfully",
		Product: product,
	})
}

// Delete handles DELETE /api/products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.service.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{
		Success: true,
		Message: "Product deleted successfully",
		Product: product,
	})
}
