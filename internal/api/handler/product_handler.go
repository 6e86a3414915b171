package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stockmanager/inventory-system/internal/core/domain"
	"github.com/stockmanager/inventory-system/internal/core/ports"
)

// ProductHandler handles HTTP requests for inventory operations. Domain
// errors are returned as-is and mapped by the central error handler.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/products?q=&status=.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        q       query     string  false  "Substring match on description"
// @Param        status  query     string  false  "ACTIVE (default), DELETED or ALL"
// @Success      200     {array}   productResponse
// @Failure      400     {object}  errorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context(), ports.ListProductsInput{
		Search: c.QueryParam("q"),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProductListResponse(products))
}

// Get handles GET /api/products/:id. Soft-deleted products resolve too;
// deletion only hides them from the default list view.
//
// @Summary      Get a product by id
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Create handles POST /api/products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.service.Create(c.Request().Context(), ports.CreateProductInput{
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toProductResponse(product))
}

// Update handles PUT /api/products/:id. Description and quantity are
// overwritten unconditionally, including on soft-deleted products.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Product id"
// @Param        body  body      updateProductRequest  true  "Replacement values"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateProductInput{
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProductResponse(product))
}

// SoftDelete handles DELETE /api/products/:id. Idempotent.
//
// @Summary      Soft-delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id   path  string  true  "Product id"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) SoftDelete(c echo.Context) error {
	if err := h.service.SoftDelete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// Restore handles POST /api/products/:id/restore. Idempotent.
//
// @Summary      Restore a soft-deleted product
// @Tags         products
// @Security     BearerAuth
// @Param        id   path  string  true  "Product id"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id}/restore [post]
func (h *ProductHandler) Restore(c echo.Context) error {
	if err := h.service.Restore(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// StockOut handles POST /api/products/:id/stock-out.
//
// @Summary      Remove stock from a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string            false  "Idempotency key to prevent duplicate moves"
// @Param        id               path      string            true   "Product id"
// @Param        body             body      stockMoveRequest  true   "Amount to remove"
// @Success      200              {object}  productResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /api/products/{id}/stock-out [post]
func (h *ProductHandler) StockOut(c echo.Context) error {
	return h.stockMove(c, h.service.StockOut)
}

// StockIn handles POST /api/products/:id/stock-in.
//
// @Summary      Add stock to a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string            false  "Idempotency key to prevent duplicate moves"
// @Param        id               path      string            true   "Product id"
// @Param        body             body      stockMoveRequest  true   "Amount to add"
// @Success      200              {object}  productResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /api/products/{id}/stock-in [post]
func (h *ProductHandler) StockIn(c echo.Context) error {
	return h.stockMove(c, h.service.StockIn)
}

func (h *ProductHandler) stockMove(c echo.Context, apply func(ctx context.Context, input ports.StockMoveInput) (*domain.Product, error)) error {
	var req stockMoveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := apply(c.Request().Context(), ports.StockMoveInput{
		ProductID:      c.Param("id"),
		Quantity:       req.Quantity,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProductResponse(product))
}
