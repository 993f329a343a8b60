package controllers

import (
	"log/slog"
	"net/http"

	"ourdays/internal/delivery/http/helpers"
	"ourdays/internal/domain"
)

// PlaceCategorySuccessResponse is the success response envelope for a single place category.
type PlaceCategorySuccessResponse struct {
	Data  *domain.PlaceCategory `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListPlaceCategoriesSuccessResponse is the success response envelope for GET /places/categories (200).
type ListPlaceCategoriesSuccessResponse struct {
	Data  []*domain.PlaceCategory `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type PlaceCategoryController struct {
	Logger  *slog.Logger
	Service domain.PlaceCategoryService
}

func NewPlaceCategoryController(logger *slog.Logger, svc domain.PlaceCategoryService) *PlaceCategoryController {
	return &PlaceCategoryController{Logger: logger, Service: svc}
}

// List godoc
// @Summary List place categories
// @Description System categories come first, then the rest by name.
// @Tags places
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListPlaceCategoriesSuccessResponse "data contains categories"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /places/categories [get]
func (c *PlaceCategoryController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := c.Service.List(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// Create godoc
// @Summary Create a place category
// @Description Name (1 to 32 characters) and color (#RRGGBB) are required.
// @Tags places
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.PlaceCategoryInput true "Category"
// @Success 201 {object} controllers.PlaceCategorySuccessResponse "data contains the category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /places/categories [post]
func (c *PlaceCategoryController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.PlaceCategoryInput
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	pc, err := c.Service.Create(r.Context(), userID, req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, pc)
}

// Update godoc
// @Summary Update a place category
// @Description A system category can be recolored but not renamed.
// @Tags places
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param body body domain.PlaceCategoryInput true "Fields to change"
// @Success 200 {object} controllers.PlaceCategorySuccessResponse "data contains the category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /places/categories/{id} [patch]
func (c *PlaceCategoryController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.PlaceCategoryInput
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	pc, err := c.Service.Update(r.Context(), userID, r.PathValue("id"), req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, pc)
}

// Delete godoc
// @Summary Delete a place category
// @Tags places
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204 "deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (system category)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /places/categories/{id} [delete]
func (c *PlaceCategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
