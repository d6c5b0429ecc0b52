package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
	"github.com/rentpulse/rentpulse-assistant-go/internal/engine"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/observability"
	"github.com/rentpulse/rentpulse-assistant-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Chat — POST /chat and POST /v1/chat
// ============================================================

func chatHandler(eng *engine.Engine, sessions *service.SessionManager, maxQueryLen int, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /chat")
		defer span.End()

		var req domain.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			metrics.IncrRequest("error")
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if strings.TrimSpace(req.Message) == "" {
			metrics.IncrRequest("error")
			writeError(w, http.StatusBadRequest, "message cannot be empty")
			return
		}
		if len(req.Message) > maxQueryLen {
			metrics.IncrRequest("error")
			writeError(w, http.StatusBadRequest, "message too long")
			return
		}

		sessionID, state, release := sessions.Acquire(req.SessionID)
		defer release()
		span.SetAttributes(attribute.String("chat.session_id", sessionID))

		start := time.Now()
		resp := eng.Chat(ctx, state, req.Message)
		metrics.RecordRequestDuration("chat", time.Since(start))
		if resp.Degraded {
			metrics.IncrRequest("error")
		} else {
			metrics.IncrRequest("success")
		}

		resp.SessionID = sessionID

		logger.Debug("chat turn",
			zap.String("session_id", sessionID),
			zap.String("intent", resp.Intent),
			zap.Float64("confidence", resp.Confidence),
		)

		writeJSON(w, http.StatusOK, resp)
	}
}
