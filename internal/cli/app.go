package cli

import (
	"context"
	"errors"

	"github.com/toyz/routedecor/internal/config"
	"github.com/toyz/routedecor/pkg/routedecor"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Module provides the server, mounts the controllers and ties the server to
// the fx lifecycle.
func Module(cfg *config.Config, logger *zap.Logger) fx.Option {
	return fx.Options(
		fx.Supply(cfg, logger),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Provide(NewServer, Mount),
		fx.Invoke(registerLifecycle),
	)
}

func registerLifecycle(lc fx.Lifecycle, server routedecor.WebServer, app *Application, cfg *config.Config, logger *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			addr := cfg.Server.Addr()
			logger.Info("starting server",
				zap.String("adapter", server.Name()),
				zap.String("addr", addr),
				zap.Int("routes", len(app.Routes.GetAllRoutes())))
			go func() {
				if err := server.Start(addr); err != nil {
					logger.Error("server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server", zap.String("adapter", server.Name()))
			return errors.Join(server.Stop(ctx), app.Root.Dispose())
		},
	})
}
