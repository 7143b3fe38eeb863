package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	apiContext "brandgate/internal/api/context"
	"brandgate/internal/engine/chat"
	"brandgate/internal/pkg/errors"
	"brandgate/internal/platform/auth"
	"brandgate/internal/platform/brand"
)

// ChatHandler relays conversations to the completion provider. Stateless:
// no caching, no rate limiting, no conversation persistence.
type ChatHandler struct {
	client     *chat.Client
	registry   *brand.Registry
	configured bool
}

func NewChatHandler(client *chat.Client, registry *brand.Registry, configured bool) *ChatHandler {
	return &ChatHandler{
		client:     client,
		registry:   registry,
		configured: configured,
	}
}

type ChatRequest struct {
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
}

type ChatResponse struct {
	Output string `json:"output"`
}

// Complete handles the non-streaming variant: a single prompt in, a single
// completed reply out.
func (h *ChatHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.Prompt == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Missing prompt", nil)
		return
	}

	if !h.configured {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeConfig, "Chat relay is not configured", nil)
		return
	}

	messages := []chat.Message{{Role: "user", Content: req.Prompt}}
	output, err := h.client.Complete(r.Context(), messages, h.systemPrompt(r, req.System))
	if err != nil {
		log.Error().Err(err).Msg("completion request failed")
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeUpstream, "Failed to generate response", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChatResponse{Output: output})
}

type ChatStreamRequest struct {
	Messages []chat.Message `json:"messages"`
	System   string         `json:"system,omitempty"`
}

// Stream handles the streaming variant: incremental text chunks flushed as
// they arrive from upstream. Client abort cancels the upstream request via
// the request context.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var req ChatStreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if len(req.Messages) == 0 {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Missing messages", nil)
		return
	}

	if !h.configured {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeConfig, "Chat relay is not configured", nil)
		return
	}

	ctx := r.Context()
	chunks, errs, err := h.client.Stream(ctx, req.Messages, h.systemPrompt(r, req.System))
	if err != nil {
		log.Error().Err(err).Msg("completion stream setup failed")
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeUpstream, "Failed to generate response", nil)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)

	for {
		select {
		case <-ctx.Done():
			// Client went away; the shared context has already cancelled the
			// upstream request.
			return
		case chunk, ok := <-chunks:
			if !ok {
				return
			}
			if _, err := fmt.Fprint(w, chunk); err != nil {
				return
			}
			if canFlush {
				flusher.Flush()
			}
		case streamErr, ok := <-errs:
			if ok && streamErr != nil {
				log.Error().Err(streamErr).Msg("completion stream failed")
				return
			}
			// Closed without an error: keep draining buffered chunks until
			// the chunk channel closes too.
			errs = nil
		}
	}
}

// systemPrompt prefers the request's instruction; otherwise the signed-in
// user's brand names the assistant, and anonymous requests get the neutral
// default.
func (h *ChatHandler) systemPrompt(r *http.Request, requested string) string {
	if requested != "" {
		return requested
	}

	if claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims); ok {
		if cfg := h.registry.Get(claims.Brand); cfg != nil {
			return fmt.Sprintf("You are a helpful assistant for %s.", cfg.DisplayName)
		}
	}

	return chat.DefaultSystemPrompt
}
