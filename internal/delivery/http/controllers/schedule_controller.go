package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"ourdays/internal/delivery/http/helpers"
	"ourdays/internal/domain"
	"ourdays/internal/projection"
)

// LabelSuccessResponse is the success response envelope for a single label.
type LabelSuccessResponse struct {
	Data  *domain.ScheduleLabel `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListLabelsSuccessResponse is the success response envelope for GET /schedule/labels (200).
type ListLabelsSuccessResponse struct {
	Data  []*domain.ScheduleLabel `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// EventSuccessResponse is the success response envelope for a single event.
type EventSuccessResponse struct {
	Data  *domain.ScheduleEvent `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListEventsSuccessResponse is the success response envelope for GET /schedule/events (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.ScheduleEvent `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// CalendarSuccessResponse is the success response envelope for GET /schedule/calendar (200).
type CalendarSuccessResponse struct {
	Data  *domain.Calendar  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ScheduleController handles labels, events and the merged calendar.
type ScheduleController struct {
	Logger  *slog.Logger
	Service domain.CalendarService
}

func NewScheduleController(logger *slog.Logger, svc domain.CalendarService) *ScheduleController {
	return &ScheduleController{Logger: logger, Service: svc}
}

// parseRange reads the from and to query parameters. Both are required.
func parseRange(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "from and to are required")
		return from, to, false
	}
	var err error
	if from, err = projection.ParseTimestamp(q.Get("from")); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return from, to, false
	}
	if to, err = projection.ParseTimestamp(q.Get("to")); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return from, to, false
	}
	return from, to, true
}

// ListLabels godoc
// @Summary List schedule labels
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListLabelsSuccessResponse "data contains the labels"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/labels [get]
func (c *ScheduleController) ListLabels(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	labels, err := c.Service.ListLabels(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, labels)
}

// CreateLabel godoc
// @Summary Create a schedule label
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.LabelInput true "Label name and #RRGGBB color"
// @Success 201 {object} controllers.LabelSuccessResponse "data contains the label"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/labels [post]
func (c *ScheduleController) CreateLabel(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.LabelInput
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	label, err := c.Service.CreateLabel(r.Context(), userID, req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, label)
}

// UpdateLabel godoc
// @Summary Update a schedule label
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Label ID"
// @Param body body domain.LabelInput true "Fields to change"
// @Success 200 {object} controllers.LabelSuccessResponse "data contains the label"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/labels/{id} [patch]
func (c *ScheduleController) UpdateLabel(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.LabelInput
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	label, err := c.Service.UpdateLabel(r.Context(), userID, r.PathValue("id"), req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, label)
}

// DeleteLabel godoc
// @Summary Delete a schedule label
// @Description Events that used the label keep existing without one.
// @Tags schedule
// @Security BearerAuth
// @Param id path string true "Label ID"
// @Success 204 "deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/labels/{id} [delete]
func (c *ScheduleController) DeleteLabel(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteLabel(r.Context(), userID, r.PathValue("id")); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEvents godoc
// @Summary List schedule events in a range
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param from query string true "Range start (RFC 3339)"
// @Param to query string true "Range end (RFC 3339)"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains events ordered by date"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/events [get]
func (c *ScheduleController) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}
	events, err := c.Service.ListEvents(r.Context(), userID, from, to)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// CreateEvent godoc
// @Summary Create a schedule event
// @Description Title and date are required. All-day events (the default) are stored at noon UTC of the given date.
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.ScheduleEventInput true "Event"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/events [post]
func (c *ScheduleController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.ScheduleEventInput
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), userID, req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update a schedule event
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body domain.ScheduleEventInput true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/events/{id} [patch]
func (c *ScheduleController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req domain.ScheduleEventInput
	if !helpers.DecodeBody(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), userID, r.PathValue("id"), req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete a schedule event
// @Tags schedule
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204 "deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/events/{id} [delete]
func (c *ScheduleController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), userID, r.PathValue("id")); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCalendar godoc
// @Summary Get the merged calendar
// @Description Schedule events and projected anniversaries in the range, with the couple's labels.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param from query string true "Range start (RFC 3339)"
// @Param to query string true "Range end (RFC 3339)"
// @Success 200 {object} controllers.CalendarSuccessResponse "data contains labels and entries"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /schedule/calendar [get]
func (c *ScheduleController) GetCalendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}
	cal, err := c.Service.GetCalendar(r.Context(), userID, from, to)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, cal)
}
