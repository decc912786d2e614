package blobstore

import (
	"go.uber.org/fx"
)

var Module = fx.Provide(
	fx.Annotate(
		NewBadgerStore,
		fx.As(new(Store)),
	),
)
