package handler

import (
	"context"
	"log/slog"
	"net/http"

	"movierec/internal/domain/models"
	"movierec/internal/domain/services"
	"movierec/internal/httputil"
)

// ChatRenderer projects a stored chat into hydrated UI entries
type ChatRenderer interface {
	Render(ctx context.Context, chat *models.Chat) []models.UIEntry
}

// ChatHandler handles chat HTTP requests
// Handlers only communicate with services, never repositories
type ChatHandler struct {
	chatService services.ChatService
	renderer    ChatRenderer
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService services.ChatService, renderer ChatRenderer, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		renderer:    renderer,
		logger:      logger,
	}
}

// ChatResponse is a chat together with its rendered UI
type ChatResponse struct {
	*models.Chat
	UI []models.UIEntry `json:"ui"`
}

// ListChats retrieves the user's chats, newest first
// GET /api/chats
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chatService.List(r.Context(), httputil.GetSession(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if chats == nil {
		chats = []models.ChatSummary{}
	}

	httputil.RespondJSON(w, http.StatusOK, chats)
}

// GetChat retrieves a single chat with its UI
// GET /api/chats/{id}
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	chat, err := h.chatService.Get(r.Context(), httputil.GetSession(r), chatID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, ChatResponse{Chat: chat, UI: h.renderer.Render(r.Context(), chat)})
}

// DeleteChat removes one chat
// DELETE /api/chats/{id}
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	if err := h.chatService.Delete(r.Context(), httputil.GetSession(r), chatID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearChats removes all of the user's chats
// DELETE /api/chats
func (h *ChatHandler) ClearChats(w http.ResponseWriter, r *http.Request) {
	if err := h.chatService.Clear(r.Context(), httputil.GetSession(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ShareChat makes a chat publicly readable
// POST /api/chats/{id}/share
func (h *ChatHandler) ShareChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	chat, err := h.chatService.Share(r.Context(), httputil.GetSession(r), chatID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chat.Summary())
}

// GetSharedChat returns a shared chat's UI. No session required.
// GET /api/share/{id}
func (h *ChatHandler) GetSharedChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	chat, err := h.chatService.GetShared(r.Context(), chatID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	ui := h.renderer.Render(r.Context(), chat)
	// The owner and transcript stay private.
	summary := chat.Summary()
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"chat": summary,
		"ui":   ui,
	})
}
