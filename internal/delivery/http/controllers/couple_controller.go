package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ourdays/internal/delivery/http/helpers"
	"ourdays/internal/delivery/http/middleware"
	"ourdays/internal/domain"
)

// currentUser returns the authenticated user ID or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return userID, ok
}

// JoinCoupleRequest is the request body for POST /couple/join.
type JoinCoupleRequest struct {
	Code string `json:"code"`
}

func (j JoinCoupleRequest) Check() error {
	if strings.TrimSpace(j.Code) == "" {
		return errors.New("code is required")
	}
	return nil
}

// CreateCoupleSuccessResponse is the success response envelope for POST /couple (201).
type CreateCoupleSuccessResponse struct {
	Data  *domain.CoupleWithInvite `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// JoinCoupleSuccessResponse is the success response envelope for POST /couple/join (200).
type JoinCoupleSuccessResponse struct {
	Data  *domain.Couple    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ReissueInviteSuccessResponse is the success response envelope for POST /couple/invite (201).
type ReissueInviteSuccessResponse struct {
	Data  *domain.CoupleInvite `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// CancelCoupleSuccessResponse is the success response envelope for POST /couple/cancel (200).
type CancelCoupleSuccessResponse struct {
	Data  *domain.CancelResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// LeaveCoupleSuccessResponse is the success response envelope for DELETE /couple (200).
type LeaveCoupleSuccessResponse struct {
	Data  *domain.LeaveResult `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// CoupleStatusSuccessResponse is the success response envelope for GET /couple/status (200).
type CoupleStatusSuccessResponse struct {
	Data  *domain.CoupleStatusView `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// DashboardSuccessResponse is the success response envelope for GET /couple/dashboard (200).
type DashboardSuccessResponse struct {
	Data  *domain.Dashboard `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CoupleController handles the couple lifecycle and the home dashboard.
type CoupleController struct {
	Logger    *slog.Logger
	Service   domain.CoupleService
	Dashboard domain.DashboardService
}

func NewCoupleController(logger *slog.Logger, svc domain.CoupleService, dashboard domain.DashboardService) *CoupleController {
	return &CoupleController{
		Logger:    logger,
		Service:   svc,
		Dashboard: dashboard,
	}
}

// Create godoc
// @Summary Create a couple
// @Description Creates a PENDING couple owned by the caller and returns a fresh invite code to share.
// @Tags couple
// @Produce json
// @Security BearerAuth
// @Success 201 {object} controllers.CreateCoupleSuccessResponse "data contains the couple and invite code"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /couple [post]
func (c *CoupleController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	out, err := c.Service.CreateCouple(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, out)
}

// Join godoc
// @Summary Join a couple
// @Description Joins the couple behind an invite code. A disconnected couple can only be rejoined by a former member.
// @Tags couple
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body JoinCoupleRequest true "Invite code"
// @Success 200 {object} controllers.JoinCoupleSuccessResponse "data contains the joined couple"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /couple/join [post]
func (c *CoupleController) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req JoinCoupleRequest
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	couple, err := c.Service.JoinCouple(r.Context(), userID, req.Code)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, couple)
}

// ReissueInvite godoc
// @Summary Reissue the invite code
// @Description Revokes the active invite of the caller's pending couple and issues a new one.
// @Tags couple
// @Produce json
// @Security BearerAuth
// @Success 201 {object} controllers.ReissueInviteSuccessResponse "data contains the new invite"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /couple/invite [post]
func (c *CoupleController) ReissueInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	invite, err := c.Service.ReissueInvite(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, invite)
}

// Cancel godoc
// @Summary Cancel a pending couple
// @Description Dissolves the caller's pending couple. Calling it again after the couple is gone reports cancelled=false.
// @Tags couple
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.CancelCoupleSuccessResponse "data contains the cancel result"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /couple/cancel [post]
func (c *CoupleController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	res, err := c.Service.CancelPending(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

// Leave godoc
// @Summary Leave the couple
// @Description Leaves the caller's couple. The couple becomes DISCONNECTED, or is dissolved when nobody is left.
// @Tags couple
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.LeaveCoupleSuccessResponse "data contains the leave result"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /couple [delete]
func (c *CoupleController) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	res, err := c.Service.LeaveCouple(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

// Status godoc
// @Summary Get couple status
// @Description Returns the caller's couple, its members and the active invite code while pending. Status is NONE for users without a couple.
// @Tags couple
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.CoupleStatusSuccessResponse "data contains the status view"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /couple/status [get]
func (c *CoupleController) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	view, err := c.Service.GetStatus(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// GetDashboard godoc
// @Summary Get the home dashboard
// @Description Day count, upcoming anniversaries, the next special event, current messages, due to-dos and recent diaries.
// @Tags couple
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.DashboardSuccessResponse "data contains the dashboard"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /couple/dashboard [get]
func (c *CoupleController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	dashboard, err := c.Dashboard.GetDashboard(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, dashboard)
}
