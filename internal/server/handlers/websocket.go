// internal/server/handlers/websocket.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"fedscope/internal/adapter/storage"
	"fedscope/internal/domain/status"
	"fedscope/internal/llm"
)

// AnalyzeGateway streams an LLM classification of a flagged status
type AnalyzeGateway interface {
	Analyze(ctx context.Context, snap status.ToCheck, provider llm.Provider) (<-chan llm.Chunk, error)
}

// VerdictStore loads flagged statuses and records classification verdicts
type VerdictStore interface {
	GetToCheck(ctx context.Context, id string) (*status.ToCheck, error)
	SaveVerdict(ctx context.Context, id string, provider llm.Provider, response string, confidence float64, isSuspicious bool) error
}

// WebSocketUpgrader is used to upgrade HTTP connections to WebSocket
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

type analyzeRequest struct {
	StatusID string `json:"status_id"`
	Model    string `json:"model"`
}

// AnalyzeWebSocketHandler serves interactive classification sessions. Each
// client message names a flagged status and a model; the response is streamed
// back as events on the same connection. A failed request emits an error
// event and leaves the connection open for the next request.
func AnalyzeWebSocketHandler(gateway AnalyzeGateway, store VerdictStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		connID := uuid.New().String()
		logger.Info("analyze session opened", "connection_id", connID)

		// Classification work is scoped to the connection, not the upgrade
		// request: router middleware caps the request context at 60s, which
		// would cut down long-lived sessions and truncate in-flight streams.
		ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
		defer cancel()

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				logger.Info("analyze session closed", "connection_id", connID)
				return
			}

			req := parseAnalyzeRequest(payload)
			serveAnalyzeRequest(ctx, conn, gateway, store, req, logger)
		}
	}
}

// parseAnalyzeRequest tolerates bare status IDs: anything that is not a JSON
// request object is treated as a status ID for the default model.
func parseAnalyzeRequest(payload []byte) analyzeRequest {
	var req analyzeRequest
	if err := json.Unmarshal(payload, &req); err != nil || req.StatusID == "" {
		return analyzeRequest{StatusID: string(payload), Model: string(llm.ProviderOpenAI)}
	}
	if req.Model == "" {
		req.Model = string(llm.ProviderOpenAI)
	}
	return req
}

func serveAnalyzeRequest(
	ctx context.Context,
	conn *websocket.Conn,
	gateway AnalyzeGateway,
	store VerdictStore,
	req analyzeRequest,
	logger *slog.Logger,
) {
	provider, err := llm.ParseProvider(req.Model)
	if err != nil {
		writeEvent(conn, map[string]any{
			"type":  "error",
			"error": "unknown model: " + req.Model,
		})
		return
	}

	snap, err := store.GetToCheck(ctx, req.StatusID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeEvent(conn, map[string]any{
				"type":      "error",
				"error":     "status not found",
				"status_id": req.StatusID,
			})
		} else {
			logger.Error("loading status", "status_id", req.StatusID, "error", err)
			writeEvent(conn, map[string]any{
				"type":  "error",
				"error": "failed to load status",
			})
		}
		return
	}

	chunks, err := gateway.Analyze(ctx, *snap, provider)
	if err != nil {
		writeEvent(conn, map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	writeEvent(conn, map[string]any{
		"type":      "start",
		"model":     string(provider),
		"status_id": snap.ID,
	})

	var final string
	for chunk := range chunks {
		if chunk.Err != nil {
			logger.Error("streaming classification", "model", string(provider), "error", chunk.Err)
			writeEvent(conn, map[string]any{
				"type":  "error",
				"error": "model stream failed",
			})
			return
		}
		final = chunk.Text
		writeEvent(conn, map[string]any{
			"type":    "stream",
			"content": chunk.Text,
		})
	}

	_, confidence, suspicious := llm.Interpret(final)

	if err := store.SaveVerdict(ctx, snap.ID, provider, final, confidence, suspicious); err != nil {
		logger.Error("saving verdict", "status_id", snap.ID, "error", err)
		writeEvent(conn, map[string]any{
			"type":  "error",
			"error": "failed to save verdict",
		})
	}

	writeEvent(conn, map[string]any{
		"type":          "complete",
		"model":         string(provider),
		"confidence":    confidence,
		"is_suspicious": suspicious,
	})
}

func writeEvent(conn *websocket.Conn, event map[string]any) {
	// Write failures surface on the next read as a closed connection.
	_ = conn.WriteJSON(event)
}
