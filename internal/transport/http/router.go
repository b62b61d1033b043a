package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"safety-training-service/internal/app"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Auth         *app.AuthService
	Courses      *app.CourseService
	Quizzes      *app.QuizService
	Certificates *app.CertificateService
}

// NewRouter registers every route of the API.
func NewRouter(svc Services, logger *zap.Logger) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handlers{svc: svc, log: logger}
	ws := NewWSHandler(svc.Quizzes, logger)

	router := mux.NewRouter()
	router.Use(requestLogger(logger), cors)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/auth/signup", h.signup).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/api/auth/login", h.login).Methods(http.MethodPost, http.MethodOptions)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(requireAuth(svc.Auth, logger))
	api.HandleFunc("/courses", h.listCourses).Methods(http.MethodGet)
	api.HandleFunc("/courses/{courseID}", h.coursePage).Methods(http.MethodGet)
	api.HandleFunc("/quizzes/{quizID}/attempt", h.attempt).Methods(http.MethodGet)
	api.HandleFunc("/quizzes/{quizID}/certificate", h.certificate).Methods(http.MethodGet)

	wsRoutes := router.PathPrefix("/ws").Subrouter()
	wsRoutes.Use(requireAuth(svc.Auth, logger))
	wsRoutes.HandleFunc("/quizzes/{quizID}", ws.ServeWS)

	return router
}
