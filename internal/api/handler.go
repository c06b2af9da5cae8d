package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	app_errors "vpaura/backend/internal/errors"
	"vpaura/backend/internal/interfaces"
	"vpaura/backend/internal/model"
)

type ChatHandler struct {
	chat interfaces.ChatService
}

func NewChatHandler(chat interfaces.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// HandleChat godoc
// @Summary      Chat
// @Description  Runs one chat turn: stores the query, routes it to a workflow and stores the answer. Omitting session_id starts a new session.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        user_id  query  int                true  "User ID"
// @Param        request  body   model.ChatRequest  true  "Chat request"
// @Success      200      {object}  model.ChatResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /v1/chat [post]
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Query(r, "user_id")
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req model.ChatRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	resp, err := h.chat.Chat(r.Context(), &req, userID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// HandleChatStream godoc
// @Summary      Streaming chat
// @Description  Runs one chat turn and streams it as Server-Sent Events. Each frame is `data: {"type","content","metadata"}`; the stream ends with exactly one `done` or `error` frame.
// @Tags         Chat
// @Accept       json
// @Produce      text/event-stream
// @Param        user_id  query  int                true  "User ID"
// @Param        request  body   model.ChatRequest  true  "Chat request"
// @Success      200      {object}  model.StreamEvent
// @Failure      400      {object}  ErrorResponse
// @Router       /v1/chat/stream [post]
func (h *ChatHandler) HandleChatStream(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Query(r, "user_id")
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req model.ChatRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	setStreamHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events := make(chan model.StreamEvent)
	go h.chat.ChatStream(ctx, &req, userID, events)

	for ev := range events {
		if err := writeStreamEvent(w, ev); err != nil {
			slog.Warn("Client disconnected during stream", "user_id", userID, "error", err)
			cancel()
			// Let the producer observe cancellation and close the channel.
			for range events {
			}
			return
		}
	}
	slog.Debug("Finished streaming response", "user_id", userID)
}

// HandleCompletion godoc
// @Summary      Raw completion
// @Description  Sends the query straight to the model through the guardrails, without routing or persistence.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      model.CompletionRequest  true  "Completion request"
// @Success      200      {object}  model.CompletionResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      502      {object}  ErrorResponse
// @Router       /v1/chat/completion [post]
func (h *ChatHandler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	var req model.CompletionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	resp, err := h.chat.Completion(r.Context(), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func int64Query(r *http.Request, key string) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, fmt.Errorf("%w: query parameter %q is required", app_errors.ErrValidation, key)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: query parameter %q must be a positive integer", app_errors.ErrValidation, key)
	}
	return v, nil
}

func int64Param(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", app_errors.ErrNotFound, key, raw)
	}
	return v, nil
}

// intQuery reads an optional non-negative integer query parameter.
func intQuery(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: query parameter %q must be a non-negative integer", app_errors.ErrValidation, key)
	}
	return v, nil
}
