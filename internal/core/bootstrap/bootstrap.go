package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"netplan-parser/internal/codec"
	"netplan-parser/internal/domain"
	"netplan-parser/internal/errs"
	"netplan-parser/internal/handler"
	"netplan-parser/internal/hub"
	"netplan-parser/internal/logging"
	"netplan-parser/internal/metrics"
	"netplan-parser/internal/repository"
	"netplan-parser/internal/repository/sqlite"
	"netplan-parser/internal/service"
	"netplan-parser/internal/watcher"

	"github.com/robfig/cron/v3"
)

// Query parses the documents once and writes one query result to w.
func Query(ctx context.Context, s *Settings, kind service.QueryKind, names []string, w io.Writer) error {
	exporter, err := codec.ForFormat(s.FormatFor(kind))
	if err != nil {
		return err
	}

	np, err := s.Parser().Parse(ctx)
	if err != nil {
		return err
	}

	result, err := np.Query(kind, names, s.Strict)
	if err != nil {
		return err
	}
	return exporter.Export(result, w)
}

// Export writes a snapshot of the registry into the SQLite database at
// s.DBPath. With names, only those interfaces (or, with related, their
// whole closure) are written.
func Export(ctx context.Context, s *Settings, names []string, related bool) (*repository.SnapshotInfo, error) {
	np, err := s.Parser().Parse(ctx)
	if err != nil {
		return nil, err
	}

	kind := service.QueryShow
	if related && len(names) > 0 {
		kind = service.QueryRelated
	}
	result, err := np.Query(kind, names, s.Strict)
	if err != nil {
		return nil, err
	}
	return writeSnapshot(ctx, s.DBPath, np.Registry().Filter(result.Names()))
}

func writeSnapshot(ctx context.Context, dbPath string, reg *domain.Registry) (*repository.SnapshotInfo, error) {
	repo, err := sqlite.New(dbPath)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	if err := repo.ImportRegistry(ctx, reg); err != nil {
		return nil, err
	}
	info, err := repo.GetSnapshotInfo(ctx)
	if err != nil {
		return nil, err
	}
	logging.WithComponent("export").Info("Snapshot written", "db", dbPath, "id", info.ID, "interfaces", info.Interfaces)
	return info, nil
}

// Watch prints the query result, then prints it again every time the
// documents change, until ctx is cancelled. A change that breaks the
// configuration is logged and the previous result stays valid.
func Watch(ctx context.Context, s *Settings, kind service.QueryKind, names []string, w io.Writer) error {
	log := logging.WithComponent("watch")

	exporter, err := codec.ForFormat(s.FormatFor(kind))
	if err != nil {
		return err
	}

	reloader := service.NewReloader(s.Parser(), service.NewEventBus())
	if err := reloader.Reload(ctx); err != nil {
		return err
	}

	var mu sync.Mutex
	emit := func() error {
		mu.Lock()
		defer mu.Unlock()
		result, err := reloader.Current().Query(kind, names, s.Strict)
		if err != nil {
			return err
		}
		return exporter.Export(result, w)
	}
	if err := emit(); err != nil {
		return err
	}

	wt := watcher.New(reloader.Parser().WatchDirs(), func(path string) {
		if err := reloader.Reload(ctx); err != nil {
			return
		}
		if err := emit(); err != nil {
			log.Warn("Query failed after reload", "path", path, "error", err)
		}
	}).WithDebounce(s.Debounce)

	if err := wt.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Serve runs the HTTP API on s.Addr until ctx is cancelled.
func Serve(ctx context.Context, s *Settings) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}
	return ServeListener(ctx, s, ln)
}

// ServeListener runs the HTTP API on ln until ctx is cancelled. The
// documents are watched and reloaded in the background; reload results
// are streamed on /events and counted on /metrics. With a schedule the
// current registry is also written to s.DBPath periodically.
func ServeListener(ctx context.Context, s *Settings, ln net.Listener) error {
	log := logging.WithComponent("server")
	m := metrics.New()

	bus := service.NewEventBus()
	events := make(chan service.Event, 16)
	bus.Subscribe(events)

	reloader := service.NewReloader(s.Parser(), bus)
	if err := reloader.Reload(ctx); err != nil {
		ln.Close()
		return err
	}

	scheduler, err := scheduleSnapshots(ctx, s, reloader, m)
	if err != nil {
		ln.Close()
		return err
	}
	if scheduler != nil {
		scheduler.Start()
		defer scheduler.Stop()
	}

	sseHub := hub.New()
	go sseHub.Run(ctx)

	go func() {
		for {
			select {
			case ev := <-events:
				observeReload(m, reloader, ev)
				sseHub.Broadcast(hub.Message{Event: string(ev.Type), Data: ev.Payload})
			case <-ctx.Done():
				return
			}
		}
	}()

	wt := watcher.New(reloader.Parser().WatchDirs(), func(string) {
		reloader.Reload(ctx)
	}).WithDebounce(s.Debounce)
	go func() {
		if err := wt.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("Not watching for changes", "error", err)
		}
	}()

	mux := http.NewServeMux()
	handler.NewNetplanHandler(reloader, s.Strict).Register(mux)
	mux.Handle("GET /events", sseHub)
	mux.Handle("GET /metrics", m.Handler())

	server := &http.Server{
		Handler:     handler.Chain(mux, handler.Recover, handler.Metrics(m), handler.Logger),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
		// requests end with ctx, which also closes /events streams
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("Server shutdown error", "error", err)
		}
	}()

	log.Info("Serving netplan API", "addr", ln.Addr().String())
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("Server stopped")
	return nil
}

func observeReload(m *metrics.Metrics, reloader *service.Reloader, ev service.Event) {
	if ev.Type != service.EventNetplanReloaded {
		m.ObserveReload(false, 0, 0, 0)
		return
	}
	reg := reloader.Current().Registry()
	m.ObserveReload(true, reg.Len(), len(reg.Relations()), float64(time.Now().Unix()))
}

// scheduleSnapshots prepares a cron scheduler writing the current
// registry to s.DBPath, or returns nil without a schedule.
func scheduleSnapshots(ctx context.Context, s *Settings, reloader *service.Reloader, m *metrics.Metrics) (*cron.Cron, error) {
	if s.Schedule == "" {
		return nil, nil
	}

	log := logging.WithComponent("snapshot")
	c := cron.New()
	_, err := c.AddFunc(s.Schedule, func() {
		_, err := writeSnapshot(ctx, s.DBPath, reloader.Current().Registry())
		if err != nil {
			log.Warn("Scheduled snapshot failed", "db", s.DBPath, "error", err)
		}
		m.ObserveSnapshot(err == nil)
	})
	if err != nil {
		return nil, errs.New(errs.KindInvalid, fmt.Errorf("invalid snapshot schedule %q: %w", s.Schedule, err))
	}
	log.Info("Snapshots scheduled", "schedule", s.Schedule, "db", s.DBPath)
	return c, nil
}
