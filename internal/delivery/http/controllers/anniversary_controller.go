package controllers

import (
	"log/slog"
	"net/http"

	"ourdays/internal/delivery/http/helpers"
	"ourdays/internal/domain"
)

// AnniversarySuccessResponse is the success response envelope for a single anniversary.
type AnniversarySuccessResponse struct {
	Data  *domain.Anniversary `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ListAnniversariesSuccessResponse is the success response envelope for GET /couple/anniversaries (200).
type ListAnniversariesSuccessResponse struct {
	Data  []*domain.Anniversary `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type AnniversaryController struct {
	Logger  *slog.Logger
	Service domain.AnniversaryService
}

func NewAnniversaryController(logger *slog.Logger, svc domain.AnniversaryService) *AnniversaryController {
	return &AnniversaryController{Logger: logger, Service: svc}
}

// List godoc
// @Summary List anniversaries
// @Tags anniversaries
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListAnniversariesSuccessResponse "data contains anniversaries ordered by date"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /couple/anniversaries [get]
func (c *AnniversaryController) List(w http.ResponseWriter, r *http.Request) {
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
// @Summary Create an anniversary
// @Description Title and date are required. Type defaults to RELATIONSHIP; birthdays recur yearly unless is_recurring is false. The earliest RELATIONSHIP anniversary becomes the couple's start date.
// @Tags anniversaries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.AnniversaryInput true "Anniversary"
// @Success 201 {object} controllers.AnniversarySuccessResponse "data contains the anniversary"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /couple/anniversaries [post]
func (c *AnniversaryController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.AnniversaryInput
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	a, err := c.Service.Create(r.Context(), userID, req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, a)
}

// Update godoc
// @Summary Update an anniversary
// @Tags anniversaries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Anniversary ID"
// @Param body body domain.AnniversaryInput true "Fields to change"
// @Success 200 {object} controllers.AnniversarySuccessResponse "data contains the anniversary"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /couple/anniversaries/{id} [patch]
func (c *AnniversaryController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.AnniversaryInput
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	a, err := c.Service.Update(r.Context(), userID, r.PathValue("id"), req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, a)
}

// Delete godoc
// @Summary Delete an anniversary
// @Tags anniversaries
// @Security BearerAuth
// @Param id path string true "Anniversary ID"
// @Success 204 "deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /couple/anniversaries/{id} [delete]
func (c *AnniversaryController) Delete(w http.ResponseWriter, r *http.Request) {
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
