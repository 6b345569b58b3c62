package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

type TaskSnapshots interface {
	LoadTasks(ctx context.Context) ([]model.Task, error)
	SaveTasks(ctx context.Context, tasks []model.Task) error
}

type Option func(*options)

type options struct {
	clock func() time.Time
	newID func() string
}

func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SearchEvent is broadcast to search listeners. Nil Results means the search
// was cleared and views should show their default set.
type SearchEvent struct {
	Results []model.Task
}

func (e SearchEvent) Cleared() bool {
	return e.Results == nil
}

// TaskStore owns the task collection for one session. Every mutation saves the
// full collection before returning and then notifies subscribers.
type TaskStore struct {
	mu         sync.Mutex
	snapshots  TaskSnapshots
	tasks      []model.Task
	persistErr error
	opts       options

	changes listeners[[]model.Task]
	search  listeners[SearchEvent]
}

func NewTaskStore(ctx context.Context, snapshots TaskSnapshots, opts ...Option) (*TaskStore, error) {
	loaded, err := snapshots.LoadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	seen := make(map[string]struct{}, len(loaded))
	tasks := make([]model.Task, 0, len(loaded))
	for _, task := range loaded {
		if _, ok := seen[task.ID]; ok {
			continue
		}
		seen[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}

	return &TaskStore{snapshots: snapshots, tasks: tasks, opts: buildOptions(opts)}, nil
}

// AddTask appends a new pending task. The title must already be validated.
func (s *TaskStore) AddTask(input model.TaskInput) model.Task {
	categoryID := input.CategoryID
	if categoryID == "" {
		categoryID = model.UncategorizedID
	}

	var created model.Task
	s.mutate(func() bool {
		created = model.Task{
			ID:          s.opts.newID(),
			Title:       input.Title,
			Description: input.Description,
			CategoryID:  categoryID,
			Color:       input.Color,
			Completed:   false,
			DueDate:     input.DueDate,
			CreatedAt:   s.opts.clock(),
		}
		s.tasks = append(s.tasks, created)
		return true
	})
	return created
}

func (s *TaskStore) ToggleTask(id string) {
	s.mutate(func() bool {
		index := s.indexOf(id)
		if index < 0 {
			return false
		}
		s.tasks[index].Completed = !s.tasks[index].Completed
		return true
	})
}

func (s *TaskStore) DeleteTask(id string) {
	s.mutate(func() bool {
		index := s.indexOf(id)
		if index < 0 {
			return false
		}
		s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
		return true
	})
}

// UpdateTask merges the non-nil patch fields. An empty category id falls back
// to uncategorized, as in AddTask.
func (s *TaskStore) UpdateTask(id string, patch model.TaskPatch) {
	s.mutate(func() bool {
		index := s.indexOf(id)
		if index < 0 {
			return false
		}
		task := &s.tasks[index]
		if patch.Title != nil {
			task.Title = *patch.Title
		}
		if patch.Description != nil {
			task.Description = *patch.Description
		}
		if patch.CategoryID != nil {
			task.CategoryID = *patch.CategoryID
			if task.CategoryID == "" {
				task.CategoryID = model.UncategorizedID
			}
		}
		if patch.Color != nil {
			task.Color = *patch.Color
		}
		if patch.Completed != nil {
			task.Completed = *patch.Completed
		}
		if patch.DueDate != nil {
			task.DueDate = *patch.DueDate
		}
		return true
	})
}

func (s *TaskStore) Task(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		return model.Task{}, false
	}
	return s.tasks[index], true
}

func (s *TaskStore) AllTasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

func (s *TaskStore) PendingTasks() []model.Task {
	return Pending(s.AllTasks())
}

func (s *TaskStore) CompletedTasks() []model.Task {
	return Completed(s.AllTasks())
}

func (s *TaskStore) OverdueTasks() []model.Task {
	return Overdue(s.AllTasks(), s.Now())
}

func (s *TaskStore) TodayTasks() []model.Task {
	return Today(s.AllTasks(), s.Now())
}

func (s *TaskStore) UpcomingTasks() []model.Task {
	return Upcoming(s.AllTasks(), s.Now())
}

func (s *TaskStore) FilterByDate(isoDate string) []model.Task {
	return ByDate(s.AllTasks(), isoDate)
}

func (s *TaskStore) FilterByColor(color string) []model.Task {
	return ByColor(s.AllTasks(), color)
}

func (s *TaskStore) FilterByCategory(categoryID string) []model.Task {
	return ByCategory(s.AllTasks(), categoryID)
}

func (s *TaskStore) FilterByTitle(query string) []model.Task {
	return ByTitle(s.AllTasks(), query)
}

func (s *TaskStore) Query(filter model.Filter) []model.Task {
	return Apply(s.AllTasks(), filter, s.Now())
}

func (s *TaskStore) Now() time.Time {
	return s.opts.clock()
}

// PersistErr reports the outcome of the most recent save.
func (s *TaskStore) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// Subscribe registers fn to receive the collection after each change. The
// slice is shared between listeners and must not be modified.
func (s *TaskStore) Subscribe(fn func([]model.Task)) func() {
	return s.changes.add(fn)
}

func (s *TaskStore) SubscribeSearch(fn func(SearchEvent)) func() {
	return s.search.add(fn)
}

// PublishSearch broadcasts a result set. An empty result is delivered as an
// empty, non-nil slice so it is not mistaken for a cleared search.
func (s *TaskStore) PublishSearch(results []model.Task) {
	if s.search.len() == 0 {
		return
	}
	s.search.notify(SearchEvent{Results: cloneTasks(results)})
}

func (s *TaskStore) ClearSearch() {
	s.search.notify(SearchEvent{})
}

func (s *TaskStore) mutate(apply func() bool) {
	s.mu.Lock()
	if !apply() {
		s.mu.Unlock()
		return
	}
	snapshot := cloneTasks(s.tasks)
	s.persistErr = s.snapshots.SaveTasks(context.Background(), snapshot)
	s.mu.Unlock()

	s.changes.notify(snapshot)
}

func (s *TaskStore) indexOf(id string) int {
	for i, task := range s.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []model.Task) []model.Task {
	return append(make([]model.Task, 0, len(tasks)), tasks...)
}
