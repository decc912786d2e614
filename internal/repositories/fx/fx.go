package fx

import (
	"github.com/planloop/content-planner/internal/repositories/content"
	"go.uber.org/fx"
)

var Module = fx.Options(
	content.Module,
)
