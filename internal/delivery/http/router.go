package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"ourdays/internal/delivery/http/controllers"
	"ourdays/internal/delivery/http/middleware"
	"ourdays/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Couple        *controllers.CoupleController
	Anniversary   *controllers.AnniversaryController
	Schedule      *controllers.ScheduleController
	Message       *controllers.MessageController
	Diary         *controllers.DiaryController
	PlaceCategory *controllers.PlaceCategoryController
	User          *controllers.UserController
}

// NewRouter initializes the HTTP router with all application routes. Every API route requires
// a Bearer token.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Couple lifecycle
	mux.HandleFunc("POST /couple", auth(c.Couple.Create))
	mux.HandleFunc("POST /couple/join", auth(c.Couple.Join))
	mux.HandleFunc("POST /couple/invite", auth(c.Couple.ReissueInvite))
	mux.HandleFunc("POST /couple/cancel", auth(c.Couple.Cancel))
	mux.HandleFunc("DELETE /couple", auth(c.Couple.Leave))
	mux.HandleFunc("GET /couple/status", auth(c.Couple.Status))
	mux.HandleFunc("GET /couple/dashboard", auth(c.Couple.GetDashboard))

	// Anniversaries
	mux.HandleFunc("GET /couple/anniversaries", auth(c.Anniversary.List))
	mux.HandleFunc("POST /couple/anniversaries", auth(c.Anniversary.Create))
	mux.HandleFunc("PATCH /couple/anniversaries/{id}", auth(c.Anniversary.Update))
	mux.HandleFunc("DELETE /couple/anniversaries/{id}", auth(c.Anniversary.Delete))

	// Schedule
	mux.HandleFunc("GET /schedule/labels", auth(c.Schedule.ListLabels))
	mux.HandleFunc("POST /schedule/labels", auth(c.Schedule.CreateLabel))
	mux.HandleFunc("PATCH /schedule/labels/{id}", auth(c.Schedule.UpdateLabel))
	mux.HandleFunc("DELETE /schedule/labels/{id}", auth(c.Schedule.DeleteLabel))
	mux.HandleFunc("GET /schedule/events", auth(c.Schedule.ListEvents))
	mux.HandleFunc("POST /schedule/events", auth(c.Schedule.CreateEvent))
	mux.HandleFunc("PATCH /schedule/events/{id}", auth(c.Schedule.UpdateEvent))
	mux.HandleFunc("DELETE /schedule/events/{id}", auth(c.Schedule.DeleteEvent))
	mux.HandleFunc("GET /schedule/calendar", auth(c.Schedule.GetCalendar))

	// Messages
	mux.HandleFunc("PUT /messages/me", auth(c.Message.UpdateMine))
	mux.HandleFunc("GET /messages/history", auth(c.Message.History))

	// Diaries
	mux.HandleFunc("GET /diaries", auth(c.Diary.List))
	mux.HandleFunc("POST /diaries", auth(c.Diary.Create))
	mux.HandleFunc("GET /diaries/{id}", auth(c.Diary.Get))
	mux.HandleFunc("PATCH /diaries/{id}", auth(c.Diary.Update))
	mux.HandleFunc("DELETE /diaries/{id}", auth(c.Diary.Delete))

	// Places
	mux.HandleFunc("GET /places/categories", auth(c.PlaceCategory.List))
	mux.HandleFunc("POST /places/categories", auth(c.PlaceCategory.Create))
	mux.HandleFunc("PATCH /places/categories/{id}", auth(c.PlaceCategory.Update))
	mux.HandleFunc("DELETE /places/categories/{id}", auth(c.PlaceCategory.Delete))

	// Profile
	mux.HandleFunc("GET /me", auth(c.User.GetMe))
	mux.HandleFunc("PATCH /me/profile", auth(c.User.UpdateProfile))
	mux.HandleFunc("PATCH /me/theme", auth(c.User.UpdateTheme))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with access logging and CORS.
func NewHandler(mux *http.ServeMux, allowedOrigins []string, logger *slog.Logger) http.Handler {
	return middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux))
}
