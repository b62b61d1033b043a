package http

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"safety-training-service/internal/domain"
)

type wsState struct {
	Type    string                 `json:"type"`
	Payload domain.AttemptSnapshot `json:"payload"`
}

func dialQuiz(t *testing.T, env *testEnv, quizID, token string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/quizzes/" + quizID + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until one matches, skipping countdown updates.
func readUntil(t *testing.T, conn *websocket.Conn, match func(wsState) bool) wsState {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		_ = conn.SetReadDeadline(deadline)
		var msg wsState
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func inPhase(phase domain.Phase) func(wsState) bool {
	return func(m wsState) bool { return m.Type == "state" && m.Payload.Phase == phase }
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": msgType, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func TestWebSocketRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	u := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/quizzes/quiz-fire-safety"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 response, got %+v", resp)
	}
}

func TestWebSocketQuizFlowAndCertificate(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "player@example.com")
	conn := dialQuiz(t, env, "quiz-fire-safety", token)

	intro := readUntil(t, conn, inPhase(domain.PhaseIntro))
	if intro.Payload.QuestionCount != 2 {
		t.Fatalf("expected 2 questions, got %d", intro.Payload.QuestionCount)
	}

	// selecting before the quiz starts is ignored
	send(t, conn, "answer", map[string]string{"answerId": "a-evacuate"})
	send(t, conn, "start", nil)
	playing := readUntil(t, conn, inPhase(domain.PhasePlaying))
	if playing.Payload.Question == nil || playing.Payload.Question.ID != "q-alarm" {
		t.Fatalf("expected first question, got %+v", playing.Payload.Question)
	}
	if playing.Payload.Score != 0 {
		t.Fatalf("expected score untouched before start, got %d", playing.Payload.Score)
	}

	send(t, conn, "answer", map[string]string{"answerId": "a-evacuate"})
	feedback := readUntil(t, conn, inPhase(domain.PhaseFeedback))
	if feedback.Payload.Score < 10 {
		t.Fatalf("expected points plus time bonus, got %d", feedback.Payload.Score)
	}
	if feedback.Payload.SelectedAnswerID != "a-evacuate" {
		t.Fatalf("expected selection recorded, got %q", feedback.Payload.SelectedAnswerID)
	}

	send(t, conn, "next", nil)
	second := readUntil(t, conn, inPhase(domain.PhasePlaying))
	if second.Payload.QuestionIndex != 1 {
		t.Fatalf("expected second question, got index %d", second.Payload.QuestionIndex)
	}

	send(t, conn, "answer", map[string]string{"answerId": "a-water"})
	wrong := readUntil(t, conn, inPhase(domain.PhaseFeedback))
	if wrong.Payload.Score != feedback.Payload.Score {
		t.Fatalf("wrong answer must not score: %d vs %d", wrong.Payload.Score, feedback.Payload.Score)
	}

	send(t, conn, "next", nil)
	finished := readUntil(t, conn, inPhase(domain.PhaseFinished))
	if finished.Payload.Result == nil || finished.Payload.Result.Score != feedback.Payload.Score {
		t.Fatalf("expected result with final score, got %+v", finished.Payload.Result)
	}

	// the submission runs right after the Finished broadcast
	var records []domain.AttemptRecord
	for wait := time.Now().Add(2 * time.Second); time.Now().Before(wait); time.Sleep(10 * time.Millisecond) {
		if records = env.log.Records(); len(records) > 0 {
			break
		}
	}
	if len(records) != 1 || records[0].Score != feedback.Payload.Score {
		t.Fatalf("expected exactly one submission, got %+v", records)
	}

	send(t, conn, "bogus", nil)
	if msg := readUntil(t, conn, func(m wsState) bool { return m.Type == "error" }); msg.Type != "error" {
		t.Fatalf("expected error message")
	}

	resp := env.get(t, "/api/quizzes/quiz-fire-safety/certificate", token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected certificate, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "%PDF") {
		t.Fatalf("expected a pdf document")
	}
}

func TestWebSocketUnknownQuizReportsError(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "lost@example.com")
	conn := dialQuiz(t, env, "missing-quiz", token)

	msg := readUntil(t, conn, func(m wsState) bool { return m.Type == "error" })
	if msg.Type != "error" {
		t.Fatalf("expected error, got %s", msg.Type)
	}
}
