package generatorimpl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/planloop/content-planner/internal/domain"
	"github.com/planloop/content-planner/internal/generator"
	"github.com/planloop/content-planner/pkg/config"
	apperrors "github.com/planloop/content-planner/pkg/errors"
	"github.com/planloop/content-planner/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// GeneratorImpl asks the generation endpoint for content and, when the
// endpoint cannot be reached, substitutes a simulated result after a short
// delay. With the fallback disabled the remote failure is surfaced instead.
type GeneratorImpl struct {
	httpClient      *http.Client
	endpoint        string
	timeout         time.Duration
	fallbackEnabled bool
	simulatedDelay  time.Duration
	logger          logger.Logger
}

func New(opts Opts) *GeneratorImpl {
	return &GeneratorImpl{
		httpClient:      &http.Client{},
		endpoint:        opts.Config.Generator.Endpoint,
		timeout:         opts.Config.Generator.Timeout,
		fallbackEnabled: opts.Config.Generator.FallbackEnabled,
		simulatedDelay:  opts.Config.Generator.SimulatedDelay,
		logger:          opts.Logger,
	}
}

var _ generator.Client = (*GeneratorImpl)(nil)

type generateRequest struct {
	VideoReference string `json:"videoReference"`
}

type generateResponse struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

func (g *GeneratorImpl) Generate(ctx context.Context, topic string) (*domain.GeneratedContent, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("topic must not be empty: %w", apperrors.ErrInvalidInput)
	}

	result, err := g.attemptRemote(ctx, topic)
	if err == nil {
		return result, nil
	}

	if !g.fallbackEnabled {
		return nil, err
	}

	g.logger.Warn("Generation backend unreachable, using simulated result", "error", err)
	return g.simulate(ctx, topic)
}

// attemptRemote issues the generation request under the bounded timeout.
// Every failure mode, network error, timeout, non-2xx status or an
// unparseable body, collapses to ErrRemoteUnavailable.
func (g *GeneratorImpl) attemptRemote(ctx context.Context, topic string) (*domain.GeneratedContent, error) {
	reqCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{VideoReference: topic})
	if err != nil {
		return nil, fmt.Errorf("encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", errors.Join(apperrors.ErrRemoteUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("generation endpoint returned status %d: %w", resp.StatusCode, apperrors.ErrRemoteUnavailable)
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode generation response: %w", errors.Join(apperrors.ErrRemoteUnavailable, err))
	}

	// The server is trusted on hashtag count; only missing fields are
	// coerced to their zero values.
	if payload.Hashtags == nil {
		payload.Hashtags = []string{}
	}

	return &domain.GeneratedContent{
		Caption:  payload.Caption,
		Hashtags: payload.Hashtags,
	}, nil
}
