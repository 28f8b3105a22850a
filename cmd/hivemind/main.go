package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hivemind/internal/config"
	"hivemind/internal/engine"
	"hivemind/internal/llm"
	"hivemind/internal/logging"
	"hivemind/internal/persona"
	"hivemind/internal/server"
	"hivemind/internal/store"
)

var (
	// Global flags
	verbose    bool
	configPath string
	dataDir    string

	// serve/loop flags
	addr     string
	interval time.Duration

	// turn flags
	agentID string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hivemind",
	Short: "hivemind - autonomous persona society orchestrator",
	Long: `hivemind runs "The Anonymous": a society of AI personas taking turns in a
shared environment - chatting in channels, posting simulated social-media
content, sharing insights, and pursuing a collectively generated goal.

Run "hivemind serve" for the HTTP control surface, or drive turns directly
with "hivemind turn".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if err := logging.Initialize(dataDir); err != nil {
			logger.Warn("category logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// runtime bundles everything a subcommand needs.
type runtime struct {
	cfg     *config.Config
	store   *store.LocalStore
	catalog *persona.Catalog
	engine  *engine.Engine
	watcher *persona.Watcher
}

func (rt *runtime) close() {
	if rt.watcher != nil {
		rt.watcher.Stop()
	}
	if rt.store != nil {
		rt.store.Close()
	}
}

func setup(ctx context.Context, watchPersonas bool) (*runtime, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath(dataDir)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if interval > 0 {
		cfg.Loop.Interval = interval.String()
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	catalog := persona.DefaultCatalog()
	roster := make([]store.Agent, 0, 4)
	for _, id := range catalog.IDs() {
		p, _ := catalog.Get(id)
		roster = append(roster, store.Agent{ID: p.ID, Name: p.Name, Color: p.Color, Role: p.Role})
	}
	if err := st.SeedAgents(roster); err != nil {
		st.Close()
		return nil, err
	}

	rt := &runtime{
		cfg:     cfg,
		store:   st,
		catalog: catalog,
		engine:  engine.New(st, catalog, llm.NewGateway(catalog, cfg)),
	}

	if watchPersonas && cfg.PersonasPath != "" {
		w, err := persona.NewWatcher(catalog, cfg.PersonasPath)
		if err != nil {
			logger.Warn("persona watcher unavailable", zap.Error(err))
		} else if err := w.Start(ctx); err != nil {
			logger.Warn("persona watcher failed to start", zap.Error(err))
		} else {
			rt.watcher = w
		}
	}
	return rt, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the experiment control API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := setup(ctx, true)
		if err != nil {
			return err
		}
		defer rt.close()

		srv := server.New(rt.cfg.Server.Addr, rt.engine, rt.store)
		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()
		logger.Info("hivemind serving", zap.String("addr", rt.cfg.Server.Addr))

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var loopCmd = &cobra.Command{
	Use:   "loop",
	Short: "Run turns on a fixed interval until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := setup(ctx, true)
		if err != nil {
			return err
		}
		defer rt.close()

		tick := rt.cfg.LoopInterval()
		logger.Info("loop running", zap.Duration("interval", tick))

		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info("loop stopped")
				return nil
			case <-ticker.C:
				result, err := rt.engine.RunTurn(ctx, "")
				if err != nil {
					logger.Warn("turn failed", zap.String("agent", result.Agent), zap.Error(err))
					continue
				}
				logger.Info("turn complete",
					zap.String("agent", result.Agent),
					zap.String("action", string(result.Action)))
			}
		}
	},
}

var turnCmd = &cobra.Command{
	Use:   "turn",
	Short: "Run a single turn",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.close()

		result, err := rt.engine.RunTurn(cmd.Context(), agentID)
		if err != nil {
			_ = printJSON(result)
			return err
		}
		return printJSON(result)
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the experiment (generates the initial goal if unset)",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.close()

		if err := rt.engine.StartExperiment(cmd.Context()); err != nil {
			return err
		}
		exp, err := rt.store.Experiment()
		if err != nil {
			return err
		}
		return printJSON(exp)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the experiment",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.close()
		return rt.engine.StopExperiment()
	},
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Generate and persist a new shared goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.close()

		goal, err := rt.engine.GenerateGoal(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(goal)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show experiment state and agent counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.close()

		exp, err := rt.store.Experiment()
		if err != nil {
			return err
		}
		agents, err := rt.store.Agents()
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"experiment": exp, "agents": agents})
	},
}

func init() {
	home, _ := os.UserHomeDir()
	defaultData := filepath.Join(home, ".hivemind")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: <data-dir>/hivemind.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultData, "Data directory")

	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	loopCmd.Flags().DurationVar(&interval, "interval", 0, "Turn interval (overrides config)")
	turnCmd.Flags().StringVar(&agentID, "agent", "", "Persona id (default: random)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loopCmd)
	rootCmd.AddCommand(turnCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
