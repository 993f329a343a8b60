package controllers

import (
	"log/slog"
	"net/http"

	"ourdays/internal/delivery/http/helpers"
	"ourdays/internal/domain"
)

// DiarySuccessResponse is the success response envelope for a single diary.
type DiarySuccessResponse struct {
	Data  *domain.Diary     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DiaryListResponse is the data payload for GET /diaries.
type DiaryListResponse struct {
	Items      []*domain.Diary        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// DiaryListSuccessResponse is the success response envelope for GET /diaries (200).
type DiaryListSuccessResponse struct {
	Data  DiaryListResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type DiaryController struct {
	Logger  *slog.Logger
	Service domain.DiaryService
}

func NewDiaryController(logger *slog.Logger, svc domain.DiaryService) *DiaryController {
	return &DiaryController{Logger: logger, Service: svc}
}

// List godoc
// @Summary List diaries
// @Description Entries the caller can read, newest record date first. Partners never see PRIVATE entries or entries scheduled for later.
// @Tags diaries
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 10, max 50)"
// @Success 200 {object} controllers.DiaryListSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /diaries [get]
func (c *DiaryController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	p := helpers.ParsePageRequest(r)
	items, total, err := c.Service.List(r.Context(), userID, p)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if items == nil {
		items = []*domain.Diary{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DiaryListResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(p, total),
	})
}

// Get godoc
// @Summary Get a diary
// @Tags diaries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Diary ID"
// @Success 200 {object} controllers.DiarySuccessResponse "data contains the diary with its images"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /diaries/{id} [get]
func (c *DiaryController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	d, err := c.Service.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, d)
}

// Create godoc
// @Summary Write a diary
// @Description Title, content and record_date are required. Visibility defaults to BOTH; the partner is notified once the entry is visible to them.
// @Tags diaries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.DiaryInput true "Diary"
// @Success 201 {object} controllers.DiarySuccessResponse "data contains the diary"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /diaries [post]
func (c *DiaryController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.DiaryInput
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	d, err := c.Service.Create(r.Context(), userID, req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, d)
}

// Update godoc
// @Summary Update a diary
// @Description Only the author can update an entry. A non-null images list replaces every image.
// @Tags diaries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Diary ID"
// @Param body body domain.DiaryInput true "Fields to change"
// @Success 200 {object} controllers.DiarySuccessResponse "data contains the diary"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /diaries/{id} [patch]
func (c *DiaryController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.DiaryInput
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	d, err := c.Service.Update(r.Context(), userID, r.PathValue("id"), req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, d)
}

// Delete godoc
// @Summary Delete a diary
// @Description Only the author can delete an entry.
// @Tags diaries
// @Security BearerAuth
// @Param id path string true "Diary ID"
// @Success 204 "deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /diaries/{id} [delete]
func (c *DiaryController) Delete(w http.ResponseWriter, r *http.Request) {
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
