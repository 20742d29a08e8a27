package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/devdocs-ai/devchat"
	"github.com/devdocs-ai/devchat/chat"
)

// Handler holds the service dependencies for all HTTP endpoints.
type Handler struct {
	store     devchat.Store
	windower  *chat.Windower
	generator *chat.Generator
	logger    zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(store devchat.Store, windower *chat.Windower, generator *chat.Generator, logger zerolog.Logger) *Handler {
	return &Handler{store: store, windower: windower, generator: generator, logger: logger}
}

// Chat handles POST /api/chat for both streaming and non-streaming turns.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "messages must not be empty"})
		return
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = h.store.NewID()
	}

	newMsgs := make([]devchat.Message, len(req.Messages))
	for i, m := range req.Messages {
		newMsgs[i] = m.Message()
	}

	processed, err := h.windower.Process(r.Context(), newMsgs, conversationID, req.Language)
	if err != nil {
		h.logger.Error().Err(err).Str("conversation_id", conversationID).Msg("context windowing failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	// The last user-visible message of the request is what gets persisted
	// with the assistant's reply.
	lastUser := newMsgs[len(newMsgs)-1]

	if req.Stream {
		h.streamChat(w, r, processed, req.Language, conversationID, lastUser)
		return
	}

	comp, err := h.generator.Generate(r.Context(), processed, req.Language)
	if err != nil {
		h.logger.Error().Err(err).Str("conversation_id", conversationID).Msg("generation failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	now := time.Now().UTC()
	if err := h.store.Append(r.Context(), conversationID,
		devchat.Message{Role: lastUser.Role, Content: lastUser.Content, Timestamp: now},
		devchat.Message{Role: devchat.RoleAssistant, Content: comp.Content, Timestamp: now},
	); err != nil {
		h.logger.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to store turn")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Message: ResponseMessage{
			Role:      string(devchat.RoleAssistant),
			Content:   comp.Content,
			Timestamp: now,
		},
		ConversationID: conversationID,
		Usage:          comp.Usage,
	})
}

// streamChat writes the response as line-delimited SSE events. The
// conversation id travels in a response header so clients can resume, and
// intermediary buffering is disabled so fragments arrive with minimal delay.
func (h *Handler) streamChat(w http.ResponseWriter, r *http.Request, processed []devchat.Message, language, conversationID string, lastUser devchat.Message) {
	stream, err := h.generator.Stream(r.Context(), processed, language)
	if err != nil {
		h.logger.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to open stream")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Conversation-Id", conversationID)
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	enc := NewStreamEncoder(w, NewEventID())
	enc.Encode(stream, func(full string) {
		// Clients routinely hang up as soon as text-end arrives, which
		// cancels the request context. The turn is complete at this point
		// and must still reach the store.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 10*time.Second)
		defer cancel()

		now := time.Now().UTC()
		if err := h.store.Append(ctx, conversationID,
			devchat.Message{Role: lastUser.Role, Content: lastUser.Content, Timestamp: now},
			devchat.Message{Role: devchat.RoleAssistant, Content: full, Timestamp: now},
		); err != nil {
			h.logger.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to store streamed turn")
		}
	})
}

// GetConversation handles GET /api/chat/conversations/{id}. Unknown ids are
// empty conversations, not errors.
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	msgs, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if msgs == nil {
		msgs = []devchat.Message{}
	}
	writeJSON(w, http.StatusOK, ConversationResponse{ConversationID: id, Messages: msgs})
}

// DeleteConversation handles DELETE /api/chat/conversations/{id}.
// Idempotent: deleting an unknown id still acknowledges.
func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "conversation_id": id})
}

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "DevDocs AI API",
		"version": "1.0.0",
		"status":  "running",
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready handles GET /health/ready by pinging the conversation store.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
