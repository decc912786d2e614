package content

import (
	"go.uber.org/fx"
)

// Both backends are always constructed; the session coordinator selects
// which one is active for the current scope. The named interface bindings
// keep consumers off the concrete types.
var Module = fx.Provide(
	NewLocalRepository,
	NewPgxRepository,
	fx.Annotate(
		func(r *LocalRepository) Repository { return r },
		fx.ResultTags(`name:"local"`),
	),
	fx.Annotate(
		func(r *PgxRepository) Repository { return r },
		fx.ResultTags(`name:"remote"`),
	),
)
