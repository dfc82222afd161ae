package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/images"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/logging"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/middleware"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/services"

	"github.com/labstack/echo/v4"
)

const imageTypeMessage = "File type not allowed. Please use PNG, JPG, JPEG, or GIF."

type ProductHandler struct {
	productService   *services.ProductService
	watchlistService *services.WatchlistService
	imageStore       *images.Store
}

func NewProductHandler(productService *services.ProductService, watchlistService *services.WatchlistService, imageStore *images.Store) *ProductHandler {
	return &ProductHandler{
		productService:   productService,
		watchlistService: watchlistService,
		imageStore:       imageStore,
	}
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	inventory, err := h.productService.Inventory(ctx)
	if err != nil {
		return domainError(err, "failed to list products")
	}

	return c.JSON(http.StatusOK, inventory)
}

func (h *ProductHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := services.ParseProductID(c.Param("id"))
	if err != nil {
		return domainError(err, "")
	}

	product, err := h.productService.Get(ctx, id)
	if err != nil {
		return domainError(err, "failed to get product")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"product": product.ToResponse(),
	})
}

// Create accepts either a JSON body or a multipart form. A multipart
// image_file upload takes precedence over an image_url / image_url_online
// value.
func (h *ProductHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, ok := middleware.GetOperatorID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	fields, err := requestFields(c, "name", "price", "stock", "threshold", "image_url", "image_url_online")
	if err != nil {
		return err
	}

	form := services.ProductForm{
		Name:      fields["name"],
		Price:     fields["price"],
		Stock:     fields["stock"],
		Threshold: fields["threshold"],
		ImageURL:  fields["image_url"],
	}
	if form.ImageURL == "" {
		form.ImageURL = fields["image_url_online"]
	}

	input, err := form.Parse()
	if err != nil {
		return domainError(err, "")
	}
	if err := checkUploadType(c); err != nil {
		return err
	}
	if err := input.Validate(); err != nil {
		return domainError(err, "")
	}

	stored, err := h.saveUpload(c)
	if err != nil {
		return err
	}
	if stored != "" {
		input.ImageURL = stored
	}

	product, err := h.productService.Create(ctx, operatorID, input)
	if err != nil {
		h.discardUpload(ctx, stored)
		if errors.Is(err, services.ErrDuplicateName) {
			return echo.NewHTTPError(http.StatusConflict, fmt.Sprintf("Product name %q already exists.", input.Name))
		}
		return domainError(err, "failed to create product")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"product": product.ToResponse(),
		"message": fmt.Sprintf("Product %q added successfully!", product.Name),
	})
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, ok := middleware.GetOperatorID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := services.ParseProductID(c.Param("id"))
	if err != nil {
		return domainError(err, "")
	}

	if err := h.productService.Delete(ctx, id, operatorID); err != nil {
		return domainError(err, "failed to delete product")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":      id,
		"message": "Product deleted successfully!",
	})
}

type watchResponse struct {
	Success   bool   `json:"success"`
	NewStatus bool   `json:"new_status"`
	Message   string `json:"message"`
}

// ToggleWatch always answers with a watchResponse body so that scripts can
// read the outcome without inspecting the status code.
func (h *ProductHandler) ToggleWatch(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := services.ParseProductID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, watchResponse{Message: "Invalid product ID"})
	}

	watched, err := h.watchlistService.Toggle(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, watchResponse{Message: "Product not found"})
		}
		logging.Error(ctx).Err(err).Uint("product_id", id).Msg("watchlist toggle failed")
		return c.JSON(http.StatusInternalServerError, watchResponse{Message: "Failed to update watchlist status."})
	}

	return c.JSON(http.StatusOK, watchResponse{
		Success:   true,
		NewStatus: watched,
		Message:   "Watchlist status updated.",
	})
}

// checkUploadType rejects a disallowed image_file before the other fields
// are validated.
func checkUploadType(c echo.Context) error {
	file, err := c.FormFile("image_file")
	if err != nil || file.Filename == "" {
		return nil
	}
	if !images.Allowed(file.Filename) {
		return imageTypeError()
	}
	return nil
}

func (h *ProductHandler) saveUpload(c echo.Context) (string, error) {
	file, err := c.FormFile("image_file")
	if err != nil {
		// no multipart body or no file part
		return "", nil
	}
	if file.Filename == "" {
		return "", nil
	}
	if !images.Allowed(file.Filename) {
		return "", imageTypeError()
	}

	src, err := file.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "unable to read uploaded file")
	}
	defer src.Close()

	stored, err := h.imageStore.Save(c.Request().Context(), file.Filename, src)
	switch {
	case errors.Is(err, images.ErrFileTypeNotAllowed):
		return "", imageTypeError()
	case errors.Is(err, images.ErrFileTooLarge):
		return "", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "uploaded file is too large")
	case err != nil:
		return "", echo.NewHTTPError(http.StatusInternalServerError, "failed to store uploaded file").SetInternal(err)
	}
	return stored, nil
}

func (h *ProductHandler) discardUpload(ctx context.Context, stored string) {
	if stored == "" {
		return
	}
	if err := h.imageStore.Remove(stored); err != nil {
		logging.Warn(ctx).Err(err).Str("stored", stored).Msg("failed to remove orphaned upload")
	}
}

func imageTypeError() error {
	return domainError(&services.ValidationError{Field: "image_file", Message: imageTypeMessage}, "")
}
