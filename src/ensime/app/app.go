// Package app assembles the ensime-client application out of its Fx modules.
package app

import (
	"context"
	"fmt"
	"time"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/ensime-client/src/ensime/controller/debugger"
	"github.com/uber/ensime-client/src/ensime/controller/engine"
	"github.com/uber/ensime-client/src/ensime/controller/refactor"
	"github.com/uber/ensime-client/src/ensime/controller/typecheck"
	"github.com/uber/ensime-client/src/ensime/gateway/editor"
	"github.com/uber/ensime-client/src/ensime/internal/clock"
	"github.com/uber/ensime-client/src/ensime/internal/core"
	"github.com/uber/ensime-client/src/ensime/internal/executor"
	"github.com/uber/ensime-client/src/ensime/internal/fs"
	"github.com/uber/ensime-client/src/ensime/internal/serverinfo"
	"github.com/uber/ensime-client/src/ensime/internal/socket"
	"github.com/uber/ensime-client/src/ensime/repository/calls"
	"github.com/uber/ensime-client/src/ensime/repository/refactors"
	uberconfig "go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module defines the ensime-client application module.
var Module = fx.Options(
	editor.Module, // outbounds
	engine.Module,
	typecheck.Module,
	debugger.Module,
	refactor.Module,
	calls.Module,
	refactors.Module,
	clock.Module,
	socket.Module,
	serverinfo.Module,
	fs.Module,
	executor.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(func(e engine.Engine) engine.Sender { return e }),
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "ensime-client",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Invoke(wireSession),
)

// wireSession attaches the feature coordinators to the engine and binds the
// session to the application lifecycle.
func wireSession(
	lc fx.Lifecycle,
	e engine.Engine,
	t typecheck.Controller,
	d debugger.Controller,
	r refactor.Controller,
	locator serverinfo.Locator,
	provider uberconfig.Provider,
	logger *zap.SugaredLogger,
) error {
	e.RegisterHandlers(t, d, r)

	var cfg engine.Config
	if err := provider.Get("ensime").Populate(&cfg); err != nil {
		return fmt.Errorf("getting cache dir from config: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.CacheDir == "" {
				logger.Info("no cache dir configured, session starts disconnected")
				return nil
			}
			e.Connect(ctx, locator.Locate(cfg.CacheDir), false)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			e.Teardown(ctx)
			return nil
		},
	})
	return nil
}
