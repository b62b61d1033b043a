package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"safety-training-service/internal/app"
	"safety-training-service/internal/auth"
	"safety-training-service/internal/certificate"
	"safety-training-service/internal/infra/memory"
)

type testEnv struct {
	server *httptest.Server
	log    *memory.AttemptLog
	users  *memory.UserStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	users := memory.NewUserStore()
	catalog := memory.NewCatalog(memory.SampleCourses()...)
	attemptLog := memory.NewAttemptLog()
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(memory.SampleQuizzes()), time.Minute)

	quizzes := app.NewQuizService(memory.NewAttemptRegistry(), questions, attemptLog, app.QuizOptions{})
	router := NewRouter(Services{
		Auth:    app.NewAuthService(users, tokens, nil),
		Courses: app.NewCourseService(catalog),
		Quizzes: quizzes,
		Certificates: app.NewCertificateService(quizzes, users, catalog, certificate.NewRenderer(time.UTC), app.CertificateOptions{
			DefaultStudentName: "Student",
			DefaultCourseTitle: "Safety Training",
			Workload:           "40 hours",
			Issuer:             "Safety Training",
		}),
	}, nil)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testEnv{server: server, log: attemptLog, users: users}
}

func (e *testEnv) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	resp, err := http.Post(e.server.URL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	return resp
}

func (e *testEnv) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, e.server.URL+path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	return resp
}

// signup registers a user and returns its access token.
func (e *testEnv) signup(t *testing.T, email string) string {
	t.Helper()
	resp := e.post(t, "/api/auth/signup", map[string]string{
		"email": email, "password": "secret1", "confirmPassword": "secret1", "fullName": "Maria Silva",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status %d", resp.StatusCode)
	}
	var session app.AuthSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected token")
	}
	return session.Token
}
