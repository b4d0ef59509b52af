// Package cli implements the routedecor command line: serve, routes and check.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/toyz/routedecor/internal/config"
	"github.com/toyz/routedecor/internal/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI is the root command configuration with subcommands.
type CLI struct {
	Config   string           `kong:"short='c',help='Config file (default ./routedecor.yaml)'"`
	LogLevel string           `kong:"short='l',help='Override log.level (debug, info, warn, error)'"`
	NoColor  bool             `kong:"help='Disable coloured output'"`
	Serve    ServeCmd         `kong:"cmd,help='Mount the configured controllers and serve them'"`
	Routes   RoutesCmd        `kong:"cmd,help='List the routes the configured controllers produce'"`
	Check    CheckCmd         `kong:"cmd,help='Validate the configuration and register every controller'"`
	Version  kong.VersionFlag `kong:"short='v',help='Show version and exit.'"`
}

// env carries the output streams to the commands
type env struct {
	stdout io.Writer
	stderr io.Writer
}

func (c *CLI) diagnostics(e *env) *Diagnostics {
	return NewDiagnostics(e.stdout, e.stderr, !c.NoColor)
}

// load reads the configuration and applies the flag overrides
func (c *CLI) load(overrides ...func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ServeCmd starts the server until interrupted.
type ServeCmd struct {
	Adapter string        `kong:"short='a',help='Override server.adapter (echo, gin, fiber)'"`
	Port    int           `kong:"short='p',help='Override server.port'"`
	Grace   time.Duration `kong:"default='30s',help='Shutdown timeout'"`
}

// Run executes the serve command.
func (s *ServeCmd) Run(cli *CLI, e *env) error {
	cfg, err := cli.load(func(cfg *config.Config) {
		if s.Adapter != "" {
			cfg.Server.Adapter = s.Adapter
		}
		if s.Port != 0 {
			cfg.Server.Port = s.Port
		}
	})
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	diag := cli.diagnostics(e)
	diag.Header("serving %s controllers on %s (%s)", cfg.Controllers.Strategy, cfg.Server.Addr(), cfg.Server.Adapter)

	app := fx.New(Module(cfg, logger))
	if err := app.Err(); err != nil {
		diag.ReportError(err)
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	sig := <-app.Wait()
	logger.Info("shutting down", zap.String("signal", sig.String()))

	stopCtx, stopCancel := context.WithTimeout(context.Background(), s.Grace)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		return err
	}
	if sig.ExitCode != 0 {
		return fmt.Errorf("server exited with code %d", sig.ExitCode)
	}
	return nil
}

// RoutesCmd lists the mounted routes without serving them.
type RoutesCmd struct {
	Method string `kong:"short='m',help='Only list routes with this method'"`
}

// Run executes the routes command.
func (r *RoutesCmd) Run(cli *CLI, e *env) error {
	cfg, err := cli.load()
	if err != nil {
		return err
	}
	server, err := NewServer(cfg)
	if err != nil {
		return err
	}
	app, err := Mount(server, cfg, zap.NewNop())
	if err != nil {
		cli.diagnostics(e).ReportError(err)
		return err
	}

	routes := app.Routes.GetAllRoutes()
	if r.Method != "" {
		routes = app.Routes.GetRoutesByMethod(strings.ToUpper(r.Method))
	}
	for i := range routes {
		routes[i].Path = cfg.Server.Prefix + routes[i].Path
	}
	cli.diagnostics(e).Routes(routes)
	return app.Root.Dispose()
}

// CheckCmd validates configuration and registration and reports problems.
type CheckCmd struct{}

// Run executes the check command.
func (c *CheckCmd) Run(cli *CLI, e *env) error {
	diag := cli.diagnostics(e)
	diag.Header("checking configuration")

	diag.Phase("Configuration")
	cfg, err := cli.load()
	if err != nil {
		diag.ReportError(err)
		return err
	}
	diag.Item("adapter %s on %s", cfg.Server.Adapter, cfg.Server.Addr())
	diag.Item("%s strategy over %q", cfg.Controllers.Strategy, cfg.Controllers.ControllerExpression())

	diag.Phase("Registration")
	server, err := NewServer(cfg)
	if err != nil {
		diag.ReportError(err)
		return err
	}
	app, err := Mount(server, cfg, zap.NewNop())
	if err != nil {
		diag.ReportError(err)
		return err
	}
	defer func() { _ = app.Root.Dispose() }()

	routes := app.Routes.GetAllRoutes()
	if len(routes) == 0 {
		diag.Warning("controllers.expression %q matched no controller", cfg.Controllers.ControllerExpression())
	}
	controllers := make(map[string]bool)
	for _, r := range routes {
		controllers[r.Module] = true
	}
	diag.Item("%d routes from %d controllers", len(routes), len(controllers))
	diag.Summary("Summary", map[string]any{
		"adapter":     server.Name(),
		"controllers": len(controllers),
		"routes":      len(routes),
		"services":    len(app.Root.Names()),
	})
	return nil
}

// Run parses args and executes the selected command.
func Run(args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("routedecor"),
		kong.Description("Declarative controllers mounted on echo, gin or fiber"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s) released on %s", version, commit, date),
		},
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kongCtx.Run(&cli, &env{stdout: stdout, stderr: stderr})
}
