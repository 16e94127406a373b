// pattern: Imperative Shell
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	flag "github.com/spf13/pflag"

	"devframe/internal/cli"
	"devframe/internal/config"
	"devframe/internal/dom"
	"devframe/internal/events"
	"devframe/internal/instance"
	"devframe/internal/logging"
	"devframe/internal/preview"
	"devframe/internal/web"
)

var version = "dev"

// initialViewport is used until the terminal reports its size.
var initialViewport = dom.Size{Width: 1024, Height: 800}

func main() {
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	flag.CommandLine.SetInterspersed(false)

	configDir := flag.StringP("config-dir", "c", "", "config directory (default: ~/.config/devframe)")
	userAgent := flag.String("user-agent", "", "override device.user_agent for this run")
	pointer := flag.String("pointer", "", "override device.pointer (coarse or fine)")

	flag.Usage = func() {
		app := cli.BuildApp(version, *configDir)
		app.PrintHelp(os.Stderr)
		flag.PrintDefaults()
	}

	flag.Parse()

	app := cli.BuildApp(version, *configDir)
	if app.Execute(flag.Args()) {
		runPreview(*configDir, deviceOverrides{UserAgent: *userAgent, Pointer: *pointer})
	}
}

// deviceOverrides are per-run flag values layered over the config file.
type deviceOverrides struct {
	UserAgent string
	Pointer   string
}

func (o deviceOverrides) apply(cfg *config.Config) {
	if o.UserAgent != "" {
		cfg.Device.UserAgent = o.UserAgent
	}
	if o.Pointer != "" {
		cfg.Device.Pointer = o.Pointer
	}
}

func configPath(configDir string) string {
	if configDir != "" {
		return filepath.Join(configDir, "config.yaml")
	}
	return config.Path()
}

// loadConfig loads the configuration and applies flag overrides.
func loadConfig(configDir string, overrides deviceOverrides) (config.Config, error) {
	cfg, err := config.LoadFrom(configPath(configDir))
	overrides.apply(&cfg)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func logConfig(dataDir string, cfg config.Config, sessionID string) logging.Config {
	return logging.Config{
		FilePath:       filepath.Join(dataDir, "devframe.log"),
		MaxSizeMB:      10,
		MaxBackups:     3,
		MaxAgeDays:     7,
		ChannelBufSize: 1000,
		Level:          cfg.LogLevel,
		SessionID:      sessionID,
	}
}

// runPreview launches the terminal preview and its inspector.
func runPreview(configDir string, overrides deviceOverrides) {
	cfg, err := loadConfig(configDir, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: config: %v\n", err)
		os.Exit(1)
	}

	dataDir := cli.ResolveDataDir(configDir)

	fl, err := instance.Lock(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer instance.Cleanup(dataDir, fl)

	sessionID := uuid.NewString()

	logManager, err := logging.NewManager(logConfig(dataDir, cfg, sessionID))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logManager.Close() }()

	appLogger := logManager.For("app")
	appLogger.Info("application starting", "version", version, "config", configPath(configDir))

	engine := preview.NewEngine(cfg, initialViewport, logManager)
	engine.Init()

	model := preview.NewModel(&cfg, engine, logManager, logManager.Entries())
	p := tea.NewProgram(model, tea.WithAltScreen())

	// The inspector always starts (ephemeral port if not configured).
	webServer := web.New(
		web.Config{Bind: cfg.Web.Bind, Port: cfg.Web.Port, SessionID: sessionID},
		web.NewStore(),
		func(msg any) { p.Send(msg) },
		logManager,
	)
	engine.Fit.OnFit(webServer.Publish)

	ln, err := webServer.Listen()
	if err != nil {
		appLogger.Error("web server listen error", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := instance.WritePort(dataDir, webServer.Addr()); err != nil {
		appLogger.Error("failed to write port file", "error", err)
	}

	webURL := fmt.Sprintf("http://%s", webServer.Addr())
	go func() {
		p.Send(events.WebListenURLMsg{URL: webURL})
	}()

	go func() {
		if err := webServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("web server error", "error", err)
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := webServer.Shutdown(ctx); err != nil {
			appLogger.Error("web server shutdown error", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startConfigWatcher(ctx, configPath(configDir), overrides, p, logManager.For("config"))

	if _, err := p.Run(); err != nil {
		appLogger.Error("application exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}

	appLogger.Info("application stopped")
}

// startConfigWatcher forwards every valid config change to the preview.
func startConfigWatcher(ctx context.Context, path string, overrides deviceOverrides, p *tea.Program, logger *logging.ScopedLogger) {
	w, err := config.NewWatcher(path,
		func(cfg config.Config) {
			overrides.apply(&cfg)
			logger.Info("config reloaded", "path", path)
			p.Send(events.ConfigReloadedMsg{Config: cfg})
		},
		func(err error) {
			logger.Warn("config reload failed", "error", err)
		},
	)
	if err != nil {
		logger.Warn("config watcher unavailable", "error", err)
		return
	}
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("config watcher stopped", "error", err)
		}
	}()
}
