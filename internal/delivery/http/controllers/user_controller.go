package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"ourdays/internal/delivery/http/helpers"
	"ourdays/internal/domain"
)

// UpdateProfileRequest is the request body for PATCH /me/profile.
type UpdateProfileRequest struct {
	Nickname string `json:"nickname"`
}

// UpdateThemeRequest is the request body for PATCH /me/theme.
type UpdateThemeRequest struct {
	ThemeColor string `json:"theme_color"`
}

func (u UpdateThemeRequest) Check() error {
	if u.ThemeColor == "" {
		return errors.New("theme_color is required")
	}
	return nil
}

// UserSuccessResponse is the success response envelope for the /me endpoints (200).
type UserSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UserController handles the caller's profile settings.
type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

// NewUserController creates a UserController with the given logger and service.
func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// GetMe godoc
// @Summary Get current user
// @Description Returns the authenticated user's profile. Requires Bearer token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserSuccessResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update nickname
// @Description Sets the caller's nickname (1 to 20 characters, trimmed).
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Nickname"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/profile [patch]
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	user, err := c.Service.UpdateNickname(r.Context(), userID, req.Nickname)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateTheme godoc
// @Summary Update theme color
// @Description Sets the caller's theme color. Accepts #RRGGBB; stored upper-case.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateThemeRequest true "Theme color"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/theme [patch]
func (c *UserController) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req UpdateThemeRequest
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	user, err := c.Service.UpdateTheme(r.Context(), userID, req.ThemeColor)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}
