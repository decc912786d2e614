package generator

import (
	"context"

	"github.com/planloop/content-planner/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=generator.go -destination=mocks/mock.go -package=mocks

// Client produces caption and hashtag suggestions for a topic string.
//
// The product guarantee is that the generate action always yields usable
// text: in the default configuration a remote failure is recovered with a
// locally simulated result, and only a genuinely invalid topic surfaces an
// error to the caller.
type Client interface {
	Generate(ctx context.Context, topic string) (*domain.GeneratedContent, error)
}
