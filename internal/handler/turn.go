package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"movierec/internal/config"
	"movierec/internal/domain"
	"movierec/internal/domain/models"
	"movierec/internal/domain/services"
	"movierec/internal/handler/sse"
	"movierec/internal/httputil"
)

// NewChatID is the path value that starts a chat whose id is assigned by the server.
const NewChatID = "new"

// TurnHandler runs conversational turns and streams them as SSE
type TurnHandler struct {
	turns     services.TurnProcessor
	refine    services.RefineService
	chats     services.ChatService
	sseConfig *sse.Config
	timeout   time.Duration
	logger    *slog.Logger
}

// NewTurnHandler creates a new turn handler
func NewTurnHandler(
	turns services.TurnProcessor,
	refine services.RefineService,
	chats services.ChatService,
	sseConfig *sse.Config,
	logger *slog.Logger,
) *TurnHandler {
	if sseConfig == nil {
		sseConfig = sse.DefaultConfig()
	}
	return &TurnHandler{
		turns:     turns,
		refine:    refine,
		chats:     chats,
		sseConfig: sseConfig,
		timeout:   config.TurnTimeout,
		logger:    logger,
	}
}

// MessageRequest is the body of POST /api/chats/{id}/messages.
// Messages is only read for anonymous sessions, whose state lives on the client.
type MessageRequest struct {
	Content    string            `json:"content"`
	ForceCards bool              `json:"force_cards"`
	Messages   models.Transcript `json:"messages,omitempty"`
}

func (r MessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.RuneLength(1, config.MaxMessageLength)),
	)
}

// RefineRequest is the body of POST /api/chats/{id}/refine
type RefineRequest struct {
	Query    models.RefineSearchQuery `json:"query"`
	Messages models.Transcript        `json:"messages,omitempty"`
}

// SubmitMessage runs one user turn
// POST /api/chats/{id}/messages
func (h *TurnHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, h.logger, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	h.stream(w, r, req.Messages, func(ctx context.Context, session *models.Session, state models.AIState, display services.Display) (*services.TurnResult, error) {
		return h.turns.SubmitUserMessage(ctx, session, state, req.Content, req.ForceCards, display)
	})
}

// Refine turns a structured filter into a movie-card turn
// POST /api/chats/{id}/refine
func (h *TurnHandler) Refine(w http.ResponseWriter, r *http.Request) {
	var req RefineRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.stream(w, r, req.Messages, func(ctx context.Context, session *models.Session, state models.AIState, display services.Display) (*services.TurnResult, error) {
		return h.refine.Refine(ctx, session, state, req.Query, display)
	})
}

type turnFunc func(ctx context.Context, session *models.Session, state models.AIState, display services.Display) (*services.TurnResult, error)

// stream loads the chat state, opens the SSE response and runs fn on a
// context detached from the request, so a client disconnect stops event
// delivery but not the turn or its persistence.
func (h *TurnHandler) stream(w http.ResponseWriter, r *http.Request, clientMessages models.Transcript, fn turnFunc) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}
	if chatID == NewChatID {
		chatID = ""
	}

	session := httputil.GetSession(r)
	logger := h.logger.With("chat_id", chatID, "client_id", uuid.NewString())
	if session.Authenticated() {
		logger = logger.With("user_id", session.User.ID)
	}

	state := models.AIState{ChatID: chatID}
	if session.Authenticated() {
		if chatID != "" {
			loaded, err := h.chats.LoadState(r.Context(), session, chatID)
			if err != nil {
				handleError(w, logger, err)
				return
			}
			state = loaded
		}
	} else {
		state.Messages = clientTranscript(clientMessages)
	}

	stream, err := sse.NewWriter(w, h.sseConfig)
	if err != nil {
		logger.Error("cannot open event stream", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	keepAlive := sse.NewTickerKeepAlive(h.sseConfig.KeepAliveInterval)
	keepAlive.Start(stream, logger)
	defer keepAlive.Stop()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.timeout)
	defer cancel()

	display := newSSEDisplay(stream, logger)
	result, err := fn(ctx, session, state, display)
	if err != nil {
		status, detail := errorStatus(err)
		if status >= http.StatusInternalServerError {
			logger.Error("turn failed", "status", status, "error", err)
		} else {
			logger.Info("turn rejected", "status", status, "error", err)
		}
		display.fail(status, detail)
		return
	}

	display.send(EventDone, result)
	logger.Debug("turn streamed", "message_id", result.ID, "messages", len(result.State.Messages))
}

// clientTranscript drops roles a client may not author. System notes are
// only ever added server-side.
func clientTranscript(messages models.Transcript) models.Transcript {
	out := make(models.Transcript, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case models.RoleUser, models.RoleAssistant, models.RoleFunction:
			out = append(out, m)
		}
	}
	return out
}
