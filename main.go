package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/nstehr/gridwars/gridwars-core/agent"
	"github.com/nstehr/gridwars/gridwars-core/config"
	"github.com/nstehr/gridwars/gridwars-core/ipc"
	"github.com/nstehr/gridwars/gridwars-core/journal"
	"github.com/nstehr/gridwars/gridwars-core/model"
	"github.com/nstehr/gridwars/gridwars-core/planner"
	"github.com/nstehr/gridwars/gridwars-core/rules"
)

const banner = `
 ██████╗ ██████╗ ██╗██████╗ ██╗    ██╗ █████╗ ██████╗ ███████╗
██╔════╝ ██╔══██╗██║██╔══██╗██║    ██║██╔══██╗██╔══██╗██╔════╝
██║  ███╗██████╔╝██║██║  ██║██║ █╗ ██║███████║██████╔╝███████╗
██║   ██║██╔══██╗██║██║  ██║██║███╗██║██╔══██║██╔══██╗╚════██║
╚██████╔╝██║  ██║██║██████╔╝╚███╔███╔╝██║  ██║██║  ██║███████║
 ╚═════╝ ╚═╝  ╚═╝╚═╝╚═════╝  ╚══╝╚══╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝

Turn-Based Tactics Engine`

func main() {
	configDir := flag.String("config", ".", "directory holding gridwars.yaml and .env")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	slog.Info("starting gridwars", "sides", cfg.Game.Sides, "aiSides", cfg.AI.Sides)

	settings, err := matchSettings(cfg)
	if err != nil {
		slog.Error("failed to prepare match settings", "error", err)
		os.Exit(1)
	}

	p, err := newPlanner(cfg.AI)
	if err != nil {
		slog.Error("failed to build planner", "error", err)
		os.Exit(1)
	}

	var j agent.Journal
	if cfg.Journal.Enabled {
		rec, err := journal.Open(cfg.Journal.Driver, cfg.Journal.DSN)
		if err != nil {
			slog.Error("failed to open journal", "driver", cfg.Journal.Driver, "error", err)
			os.Exit(1)
		}
		defer rec.Close()
		j = rec
		slog.Info("journal enabled", "driver", cfg.Journal.Driver)
	}

	socketPath := cfg.SocketPath

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		slog.Error("failed to clean up socket", "path", socketPath, "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		slog.Error("failed to listen on socket", "path", socketPath, "error", err)
		os.Exit(1)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	slog.Info("listening on domain socket", "path", socketPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go handleConn(ctx, conn, settings, p, j)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
}

func matchSettings(cfg config.Config) (agent.Settings, error) {
	catalog := model.DefaultCatalog()
	if cfg.Game.CatalogFile != "" {
		extra, err := model.LoadCatalogFile(cfg.Game.CatalogFile)
		if err != nil {
			return agent.Settings{}, err
		}
		catalog = catalog.Merge(extra)
	}

	layout := model.PlainLayout(cfg.Game.Width, cfg.Game.Height)
	if cfg.Game.LayoutFile != "" {
		l, err := model.LoadLayoutFile(cfg.Game.LayoutFile)
		if err != nil {
			return agent.Settings{}, err
		}
		layout = l
	}
	// Fail at startup rather than on the first hello.
	if _, err := layout.Build(catalog); err != nil {
		return agent.Settings{}, fmt.Errorf("layout: %w", err)
	}

	var reach []rules.ReachOption
	if cfg.Rules.PassThroughAllies {
		reach = append(reach, rules.PassThroughAllies())
	}

	return agent.Settings{
		Sides:               cfg.Game.Sides,
		AISides:             cfg.AI.Sides,
		Seed:                cfg.Game.Seed,
		Layout:              layout,
		Catalog:             catalog,
		ReachOptions:        reach,
		ActionDelay:         cfg.AI.ActionDelay,
		TurnEndDelay:        cfg.AI.TurnEndDelay,
		MaxConsecutiveTurns: cfg.AI.MaxConsecutiveTurns,
	}, nil
}

func newPlanner(ai config.AIConfig) (*planner.Planner, error) {
	difficulty, err := planner.ParseDifficulty(ai.Difficulty)
	if err != nil {
		return nil, err
	}
	personality := planner.DefaultPersonality()
	personality.Aggressiveness = ai.Aggressiveness
	personality.Explore = ai.Explore
	personality.Difficulty = difficulty
	return planner.New(personality)
}

func handleConn(ctx context.Context, conn net.Conn, settings agent.Settings, p *planner.Planner, j agent.Journal) {
	c := ipc.NewConnection(conn, nil)
	agent.New(c, settings, p, j).Serve(ctx)
	slog.Info("connection closed", "player", c.Player)
}
