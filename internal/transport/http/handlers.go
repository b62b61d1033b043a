package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"safety-training-service/internal/app"
	"safety-training-service/internal/domain"
)

type handlers struct {
	svc Services
	log *zap.Logger
}

func (h *handlers) signup(w http.ResponseWriter, r *http.Request) {
	var in app.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, h.log, fmt.Errorf("%w: malformed body", domain.ErrValidation))
		return
	}
	session, err := h.svc.Auth.Signup(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	setTokenCookie(w, session)
	writeJSON(w, http.StatusCreated, session)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var in app.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, h.log, fmt.Errorf("%w: malformed body", domain.ErrValidation))
		return
	}
	session, err := h.svc.Auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	setTokenCookie(w, session)
	writeJSON(w, http.StatusOK, session)
}

func setTokenCookie(w http.ResponseWriter, session app.AuthSession) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *handlers) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.Courses.ListCourses(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *handlers) coursePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Courses.CoursePage(r.Context(), mux.Vars(r)["courseID"], r.URL.Query().Get("lessonId"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handlers) attempt(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	snap, err := h.svc.Quizzes.Snapshot(r.Context(), userID, mux.Vars(r)["quizID"])
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *handlers) certificate(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	quizID := mux.Vars(r)["quizID"]

	var buf bytes.Buffer
	if err := h.svc.Certificates.Render(r.Context(), &buf, userID, quizID); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="certificate-%s.pdf"`, quizID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
