package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/l1jgo/navigator/internal/config"
	coresys "github.com/l1jgo/navigator/internal/core/system"
	"github.com/l1jgo/navigator/internal/data"
	"github.com/l1jgo/navigator/internal/nav"
	"github.com/l1jgo/navigator/internal/persist"
	"github.com/l1jgo/navigator/internal/system"
	"github.com/l1jgo/navigator/internal/world"
)

func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the live world and log registry events",
		Long: `Watch reads world objects from PostgreSQL every tick, keeps the registry in
sync with them and logs every Added, Removed and Changed event.

Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), rootOpts)
		},
	}
}

func runWatch(parent context.Context, opts *RootOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Database
	dialCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	db, err := persist.NewDB(dialCtx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	version, err := persist.RunMigrations(dialCtx, db.Pool)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("schema ready", zap.Int64("version", version))

	// 2. Static portals
	var static []world.Object
	if cfg.World.PortalList != "" {
		portals, err := data.LoadPortalTable(cfg.World.PortalList)
		if err != nil {
			return fmt.Errorf("load portal table: %w", err)
		}
		static = world.PortalObjects(portals, cfg.World.PortalBaseID)
		log.Info("portals loaded", zap.Int("count", len(static)))
	}

	// 3. Strategies and registry
	set, err := buildStrategies(cfg.Grouping, log)
	if err != nil {
		return err
	}
	defer set.Close()

	ws := world.NewState()
	cls := world.NewClassifier(ws)
	reg := nav.New(ws, cls, registryOptions(cfg.Registry, log, set.enabled)...)
	for _, s := range set.all {
		log.Info("strategy", zap.String("name", s.Name()), zap.Bool("enabled", reg.Enabled(s.Name())))
	}

	// 4. Systems
	announce := system.NewAnnounceSystem(reg, func(evs []nav.Event) { logEvents(log, evs) })
	defer announce.Close()

	runner := coresys.NewRunner()
	runner.Register(system.NewWorldSyncSystem(ctx,
		system.WithStatic(persist.NewObjectRepo(db), static), ws, cfg.World.TickRate, log))
	runner.Register(system.NewPositionSystem(cls, reg))
	runner.Register(system.NewScanSystem(ctx, reg, log))
	runner.Register(announce)

	// 5. Tick loop and database health check
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(cfg.World.TickRate)
		defer ticker.Stop()
		log.Info("watching", zap.Duration("tick", cfg.World.TickRate), zap.Duration("scan", cfg.Registry.ScanInterval))
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				runner.Tick(cfg.World.TickRate)
			}
		}
	})
	g.Go(func() error {
		return db.Monitor(ctx, dbHealthInterval)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutting down")

	v := reg.View()
	log.Info("stopped",
		zap.Int("handles", v.HandleCount()),
		zap.Int("groups", v.GroupCount()),
		zap.Int("targets", v.Len()),
	)
	return nil
}

const dbHealthInterval = 30 * time.Second

func registryOptions(cfg config.RegistryConfig, log *zap.Logger, strategies []nav.Strategy) []nav.Option {
	opts := []nav.Option{
		nav.WithLogger(log.Named("registry")),
		nav.WithScanInterval(cfg.ScanInterval),
		nav.WithStrategies(strategies...),
	}
	if cfg.MembershipEvents {
		opts = append(opts, nav.WithMembershipEvents())
	}
	if cfg.DebugChecks {
		opts = append(opts, nav.WithDebugChecks())
	}
	return opts
}

func logEvents(log *zap.Logger, evs []nav.Event) {
	for _, ev := range evs {
		fields := []zap.Field{
			zap.Stringer("kind", ev.Kind),
			zap.String("target", ev.Ref.Label()),
			zap.Stringer("category", ev.Ref.Category()),
		}
		if g := ev.Ref.Group; g != nil {
			fields = append(fields, zap.Int("members", g.Len()))
		} else if e := ev.Ref.Entity; e != nil {
			fields = append(fields, zap.Stringer("pos", e.Pos))
		}
		log.Info("target", fields...)
	}
}
