package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"netplan-parser/internal/domain"
	"netplan-parser/internal/loader"
	"netplan-parser/internal/logging"
)

// Source describes where the documents come from. When Files is set the
// directories are not scanned.
type Source struct {
	Dirs    []string
	Exclude []string
	Files   []string
}

// Parser reads and merges the documents of a Source.
type Parser struct {
	store *loader.Store
	files []string
	log   *logging.Logger
}

// NewParser creates a parser for src.
func NewParser(src Source) *Parser {
	return &Parser{
		store: loader.NewStore(src.Dirs, src.Exclude),
		files: append([]string(nil), src.Files...),
		log:   logging.WithComponent("parser"),
	}
}

// Parse loads every document and builds a NetPlan from them.
func (p *Parser) Parse(ctx context.Context) (*NetPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		docs []domain.RawDocument
		err  error
	)
	if len(p.files) > 0 {
		docs, err = p.store.LoadFiles(p.files)
	} else {
		docs, err = p.store.Load()
	}
	if err != nil {
		return nil, err
	}

	reg, err := domain.Build(docs)
	if err != nil {
		return nil, err
	}

	p.log.Debug("Parsed netplan configuration", "files", len(docs), "interfaces", reg.Len())
	return New(reg), nil
}

// WatchDirs returns the directories whose changes affect the result:
// the scanned directories, or the directories holding the explicit files.
func (p *Parser) WatchDirs() []string {
	if len(p.files) == 0 {
		return p.store.Dirs()
	}

	seen := make(map[string]bool)
	var dirs []string
	for _, f := range p.files {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// Reloader holds the current NetPlan and replaces it on reload.
type Reloader struct {
	parser *Parser
	bus    *EventBus
	log    *logging.Logger

	mu      sync.RWMutex
	current *NetPlan
}

// NewReloader creates a reloader. Call Reload once before Current.
func NewReloader(parser *Parser, bus *EventBus) *Reloader {
	return &Reloader{
		parser: parser,
		bus:    bus,
		log:    logging.WithComponent("reloader"),
	}
}

// Parser returns the parser used for reloading.
func (r *Reloader) Parser() *Parser {
	return r.parser
}

// Reload parses the documents again. On failure the previous NetPlan
// stays current and the error is returned.
func (r *Reloader) Reload(ctx context.Context) error {
	np, err := r.parser.Parse(ctx)
	if err != nil {
		r.log.Warn("Reload failed, keeping previous configuration", "error", err)
		r.bus.Publish(Event{
			Type:    EventNetplanReloadFailed,
			Payload: map[string]string{"error": err.Error()},
		})
		return fmt.Errorf("failed to reload netplan configuration: %w", err)
	}

	r.mu.Lock()
	r.current = np
	r.mu.Unlock()

	r.log.Info("Netplan configuration loaded", "interfaces", np.Registry().Len())
	r.bus.Publish(Event{
		Type:    EventNetplanReloaded,
		Payload: map[string]int{"interfaces": np.Registry().Len()},
	})
	return nil
}

// Current returns the most recently loaded NetPlan, or nil if nothing
// has loaded successfully yet.
func (r *Reloader) Current() *NetPlan {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}
