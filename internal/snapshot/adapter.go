package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	goerrors "github.com/go-errors/errors"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

const (
	TaskSnapshot     = "task-storage"
	CategorySnapshot = "category-storage"
)

// Adapter converts store collections to and from named snapshots. Storage
// failures are logged here and returned; they never abort the session.
type Adapter struct {
	backend Backend
	logger  *log.Logger
}

func NewAdapter(backend Backend, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.Default()
	}
	return &Adapter{backend: backend, logger: logger}
}

func (a *Adapter) LoadTasks(ctx context.Context) ([]model.Task, error) {
	records, err := loadRecords[TaskRecord](ctx, a, TaskSnapshot)
	if err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(records))
	for _, record := range records {
		task, err := TaskFromRecord(record)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", TaskSnapshot, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (a *Adapter) SaveTasks(ctx context.Context, tasks []model.Task) error {
	records := make([]TaskRecord, 0, len(tasks))
	for _, task := range tasks {
		records = append(records, TaskToRecord(task))
	}
	return saveRecords(ctx, a, TaskSnapshot, records)
}

func (a *Adapter) LoadCategories(ctx context.Context) ([]model.Category, error) {
	records, err := loadRecords[CategoryRecord](ctx, a, CategorySnapshot)
	if err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(records))
	for _, record := range records {
		category, err := CategoryFromRecord(record)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", CategorySnapshot, err)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (a *Adapter) SaveCategories(ctx context.Context, categories []model.Category) error {
	records := make([]CategoryRecord, 0, len(categories))
	for _, category := range categories {
		records = append(records, CategoryToRecord(category))
	}
	return saveRecords(ctx, a, CategorySnapshot, records)
}

// loadRecords treats an unreadable backend as an empty snapshot. A payload that
// exists but does not decode is an error.
func loadRecords[R any](ctx context.Context, a *Adapter, name string) ([]R, error) {
	payload, ok, err := a.backend.Read(ctx, name)
	if err != nil {
		wrapped := goerrors.Wrap(err, 1)
		a.logger.Printf("warning: load %s failed, starting empty: %v\n%s", name, err, wrapped.ErrorStack())
		return nil, nil
	}
	if !ok || len(payload) == 0 {
		return nil, nil
	}

	var records []R
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return records, nil
}

func saveRecords[R any](ctx context.Context, a *Adapter, name string, records []R) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	if err := a.backend.Write(ctx, name, payload); err != nil {
		wrapped := goerrors.Wrap(err, 1)
		a.logger.Printf("warning: save %s failed, keeping in-memory state: %v\n%s", name, err, wrapped.ErrorStack())
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}
