package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"safety-training-service/internal/app"
	"safety-training-service/internal/domain"
)

const writeWait = 10 * time.Second

// WSHandler drives a quiz attempt over a websocket: commands come in, state snapshots go out.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: logger,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	AnswerID string `json:"answerId"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func stateMessage(snap domain.AttemptSnapshot) outboundMessage {
	return outboundMessage{Type: "state", Payload: snap}
}

func errorMessage(msg string) outboundMessage {
	return outboundMessage{Type: "error", Payload: errorPayload{Message: msg}}
}

// ServeWS opens a fresh attempt for the authenticated user and streams its state.
// Inbound messages: start, answer {answerId}, next, restart.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	quizID := mux.Vars(r)["quizID"]
	log := h.log.With(zap.String("user_id", userID), zap.String("quiz_id", quizID))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Submissions must outlive the socket.
	ctx := context.WithoutCancel(r.Context())

	opened, err := h.service.Open(ctx, userID, quizID)
	if err != nil {
		writeNow(conn, stateMessage(opened))
		writeNow(conn, errorMessage(err.Error()))
		h.service.Leave(ctx, userID, quizID, opened.AttemptID)
		return
	}
	defer h.service.Leave(ctx, userID, quizID, opened.AttemptID)

	updates, cancel, err := h.service.Subscribe(ctx, userID, quizID)
	if err != nil {
		writeNow(conn, errorMessage(err.Error()))
		return
	}
	defer cancel()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections allow one concurrent writer
	go func() {
		defer close(writerDone)
		for msg := range send {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					// the attempt was replaced or closed; unblock the reader
					select {
					case send <- errorMessage(domain.ErrAttemptClosed.Error()):
					case <-closeSignals:
					}
					_ = conn.SetReadDeadline(time.Now())
					return
				}
				select {
				case send <- stateMessage(snap):
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(ctx, userID, quizID, inbound); err != nil {
			select {
			case send <- errorMessage(err.Error()):
			case <-writerDone:
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// dispatch applies one inbound command. State changes reach the client through the subscription.
func (h *WSHandler) dispatch(ctx context.Context, userID, quizID string, msg inboundMessage) error {
	var err error
	switch msg.Type {
	case "start":
		_, err = h.service.Start(ctx, userID, quizID)
	case "answer":
		var payload answerPayload
		if jerr := json.Unmarshal(msg.Payload, &payload); jerr != nil || payload.AnswerID == "" {
			return errInvalidAnswerPayload
		}
		_, err = h.service.Answer(ctx, userID, quizID, payload.AnswerID)
	case "next":
		_, err = h.service.Advance(ctx, userID, quizID)
	case "restart":
		_, err = h.service.Restart(ctx, userID, quizID)
	default:
		return errUnsupportedMessage
	}
	return err
}

type wsError string

func (e wsError) Error() string { return string(e) }

const (
	errInvalidAnswerPayload wsError = "invalid answer payload"
	errUnsupportedMessage   wsError = "unsupported message type"
)

func writeNow(conn *websocket.Conn, msg outboundMessage) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteJSON(msg)
}
