package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/dealscout/internal/core/config"
	"github.com/hay-kot/dealscout/internal/core/dispatch"
	"github.com/hay-kot/dealscout/internal/core/history"
	"github.com/hay-kot/dealscout/internal/core/host"
	"github.com/hay-kot/dealscout/internal/core/permission"
	"github.com/hay-kot/dealscout/internal/core/prefs"
	"github.com/hay-kot/dealscout/internal/integration/browser"
	"github.com/hay-kot/dealscout/internal/scout"
	"github.com/hay-kot/dealscout/internal/store/jsonfile"
	"github.com/hay-kot/dealscout/pkg/executil"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Service orchestrates searches against the system browser
	Service *scout.Service

	// Host is the browser host behind Service
	Host *browser.SystemHost

	// Executor runs the browser command
	Executor executil.Executor

	// State is the backing store of favorites, history and preferences
	State *jsonfile.KVStore

	// NewService builds a service that opens URLs through h instead of the
	// system browser. It shares State with Service.
	NewService func(h host.Host) *scout.Service
}

// Setup loads the config from ConfigPath and DataDir and builds the service
// graph. theme is used until the user picks one.
func (f *Flags) Setup(exec executil.Executor, theme prefs.Theme) error {
	cfg, err := config.Load(f.ConfigPath, f.DataDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	f.Config = cfg

	registry, err := cfg.Registry()
	if err != nil {
		return fmt.Errorf("build provider registry: %w", err)
	}

	var (
		state     = jsonfile.NewKVStore(cfg.StateFile(), component("store"))
		recent    = jsonfile.NewRecentStore(state, history.MaxRecent, component("recent"))
		favorites = jsonfile.NewFavoriteStore(state, component("favorites"))
		userPrefs = prefs.New(state, component("prefs"))
		system    = browser.NewSystemHost(exec, cfg.Browser.Command, component("browser"))
		scheduler = dispatch.NewTimerScheduler()
	)

	f.Executor = exec
	f.State = state
	f.Host = system
	f.NewService = func(h host.Host) *scout.Service {
		return scout.New(scout.Options{
			Registry:     registry,
			Sequencer:    dispatch.NewSequencer(registry, h, scheduler, cfg.Dispatch.Stagger, component("dispatch")),
			Probe:        permission.New(h, component("permission")),
			Recent:       recent,
			Favorites:    favorites,
			Prefs:        userPrefs,
			Family:       system.Family(),
			DefaultTheme: theme,
		}, component("scout"))
	}
	f.Service = f.NewService(system)

	return nil
}

func component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "dealscout", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "dealscout")
}
