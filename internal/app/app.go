// Package app wires one session: storage backend, snapshot adapter and the
// task and category stores. A session is opened once per process and closed
// on exit.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Joseda-hg/lazytodo/internal/config"
	"github.com/Joseda-hg/lazytodo/internal/db"
	"github.com/Joseda-hg/lazytodo/internal/snapshot"
	"github.com/Joseda-hg/lazytodo/internal/store"
)

type App struct {
	Config     config.Config
	Logger     *log.Logger
	Tasks      *store.TaskStore
	Categories *store.CategoryStore

	sqlite  *db.SnapshotStore
	closers []io.Closer
}

func Open(ctx context.Context, cfg config.Config, logger *log.Logger, opts ...store.Option) (*App, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "lazytodo: ", log.LstdFlags)
	}
	a := &App{Config: cfg, Logger: logger}

	backend, err := a.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	adapter := snapshot.NewAdapter(backend, logger)

	tasks, err := store.NewTaskStore(ctx, adapter, opts...)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	categories, err := store.NewCategoryStore(ctx, adapter, opts...)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Tasks = tasks
	a.Categories = categories
	return a, nil
}

func (a *App) openBackend(ctx context.Context) (snapshot.Backend, error) {
	switch a.Config.Storage {
	case config.StorageMemory:
		return snapshot.NewMemoryBackend(), nil
	case config.StorageFile:
		backend, err := snapshot.NewFileBackend(a.Config.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open data dir: %w", err)
		}
		return backend, nil
	case config.StorageSQLite, "":
		if a.Config.DBPath != ":memory:" {
			if err := config.EnsureDir(a.Config.DBPath); err != nil {
				return nil, err
			}
		}
		snapshots, err := db.OpenSnapshotStore(ctx, a.Config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		a.sqlite = snapshots
		a.closers = append(a.closers, a.sqlite)
		return a.sqlite, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", a.Config.Storage)
	}
}

// Location describes where snapshots are kept.
func (a *App) Location() string {
	switch a.Config.Storage {
	case config.StorageMemory:
		return "memory (not persisted)"
	case config.StorageFile:
		return a.Config.DataDir
	default:
		return a.Config.DBPath
	}
}

// SnapshotNames lists the snapshots present in the backend.
func (a *App) SnapshotNames(ctx context.Context) ([]string, error) {
	switch a.Config.Storage {
	case config.StorageMemory:
		return nil, nil
	case config.StorageFile:
		entries, err := os.ReadDir(a.Config.DataDir)
		if err != nil {
			return nil, err
		}
		names := []string{}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
				continue
			}
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
		sort.Strings(names)
		return names, nil
	default:
		if a.sqlite == nil {
			return nil, nil
		}
		return a.sqlite.Names(ctx)
	}
}

// PersistErr joins the last save errors of both stores.
func (a *App) PersistErr() error {
	var errs []error
	if a.Tasks != nil {
		errs = append(errs, a.Tasks.PersistErr())
	}
	if a.Categories != nil {
		errs = append(errs, a.Categories.PersistErr())
	}
	return errors.Join(errs...)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}
