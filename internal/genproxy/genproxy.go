// Package genproxy exposes the content generation endpoint that fronts
// the upstream AI provider. It keeps the provider credential server-side
// so browser and desktop clients never see it.
package genproxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/planloop/content-planner/internal/ratelimit"
	"github.com/planloop/content-planner/pkg/config"
	"github.com/planloop/content-planner/pkg/logger"
)

const upstreamTimeout = 30 * time.Second

type generateRequest struct {
	VideoReference string `json:"videoReference"`
}

type generateResponse struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type Handler struct {
	upstreamURL string
	upstreamKey string
	httpClient  *http.Client
	limiter     ratelimit.Limiter
	logger      logger.Logger
}

func New(cfg *config.Config, log logger.Logger) *Handler {
	return &Handler{
		upstreamURL: cfg.Generator.UpstreamURL,
		upstreamKey: cfg.Generator.UpstreamKey,
		httpClient:  &http.Client{Timeout: upstreamTimeout},
		limiter:     ratelimit.NewInMemoryLimiter(10, time.Minute, 5),
		logger:      log,
	}
}

// Register mounts the handler on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/generate-content", h.handleGenerate)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	if !h.limiter.Allow(clientKey(r)) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many requests, slow down"})
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.VideoReference) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "videoReference is required"})
		return
	}

	result, err := h.callUpstream(r, req)
	if err != nil {
		h.logger.Error("Upstream generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Failed to generate content",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) callUpstream(r *http.Request, req generateRequest) (*generateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode upstream request: %w", err)
	}

	upReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.upstreamURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	upReq.Header.Set("Content-Type", "application/json")
	if h.upstreamKey != "" {
		upReq.Header.Set("Authorization", "Bearer "+h.upstreamKey)
	}

	resp, err := h.httpClient.Do(upReq)
	if err != nil {
		return nil, fmt.Errorf("call upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}
	if result.Hashtags == nil {
		result.Hashtags = []string{}
	}
	return &result, nil
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
