package controllers

import (
	"log/slog"
	"net/http"

	"ourdays/internal/delivery/http/helpers"
	"ourdays/internal/domain"
)

// UpdateMessageRequest is the request body for PUT /messages/me.
type UpdateMessageRequest struct {
	Content string `json:"content"`
}

// MessageSuccessResponse is the success response envelope for PUT /messages/me (200).
type MessageSuccessResponse struct {
	Data  *domain.Message   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// MessageHistoryResponse is the data payload for GET /messages/history.
type MessageHistoryResponse struct {
	Items      []*domain.Message      `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// MessageHistorySuccessResponse is the success response envelope for GET /messages/history (200).
type MessageHistorySuccessResponse struct {
	Data  MessageHistoryResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type MessageController struct {
	Logger  *slog.Logger
	Service domain.MessageService
}

func NewMessageController(logger *slog.Logger, svc domain.MessageService) *MessageController {
	return &MessageController{Logger: logger, Service: svc}
}

// UpdateMine godoc
// @Summary Update my message
// @Description Replaces the caller's current message for their partner (1 to 100 characters) and records it in the history.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateMessageRequest true "Message"
// @Success 200 {object} controllers.MessageSuccessResponse "data contains the current message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /messages/me [put]
func (c *MessageController) UpdateMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req UpdateMessageRequest
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	m, err := c.Service.UpdateMyMessage(r.Context(), userID, req.Content)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, m)
}

// History godoc
// @Summary List message history
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param scope query string false "received (default) or sent"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 10, max 50)"
// @Success 200 {object} controllers.MessageHistorySuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /messages/history [get]
func (c *MessageController) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	p := helpers.ParsePageRequest(r)
	scope := domain.MessageScope(r.URL.Query().Get("scope"))
	items, total, err := c.Service.History(r.Context(), userID, scope, p)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if items == nil {
		items = []*domain.Message{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, MessageHistoryResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(p, total),
	})
}
