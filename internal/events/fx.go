package events

import (
	"context"

	"go.uber.org/fx"
)

func registerHooks(lc fx.Lifecycle, p *Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return p.Close()
		},
	})
}

var Module = fx.Module("events",
	fx.Provide(NewPublisher),
	fx.Invoke(registerHooks),
)
