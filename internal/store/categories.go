package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

type CategorySnapshots interface {
	LoadCategories(ctx context.Context) ([]model.Category, error)
	SaveCategories(ctx context.Context, categories []model.Category) error
}

// CategoryStore always holds exactly one uncategorized entry, which cannot be
// deleted.
type CategoryStore struct {
	mu         sync.Mutex
	snapshots  CategorySnapshots
	categories []model.Category
	persistErr error
	opts       options

	changes listeners[[]model.Category]
}

func NewCategoryStore(ctx context.Context, snapshots CategorySnapshots, opts ...Option) (*CategoryStore, error) {
	loaded, err := snapshots.LoadCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	s := &CategoryStore{snapshots: snapshots, opts: buildOptions(opts)}

	seen := make(map[string]struct{}, len(loaded))
	for _, category := range loaded {
		if _, ok := seen[category.ID]; ok {
			continue
		}
		seen[category.ID] = struct{}{}
		s.categories = append(s.categories, category)
	}

	if _, ok := seen[model.UncategorizedID]; !ok {
		builtin := model.Category{
			ID:        model.UncategorizedID,
			Name:      model.UncategorizedName,
			CreatedAt: s.opts.clock(),
		}
		s.categories = append([]model.Category{builtin}, s.categories...)
		s.persistErr = snapshots.SaveCategories(ctx, cloneCategories(s.categories))
	}

	return s, nil
}

func (s *CategoryStore) AddCategory(name, color string) model.Category {
	var created model.Category
	s.mutate(func() bool {
		created = model.Category{
			ID:        s.opts.newID(),
			Name:      name,
			Color:     color,
			CreatedAt: s.opts.clock(),
		}
		s.categories = append(s.categories, created)
		return true
	})
	return created
}

func (s *CategoryStore) UpdateCategory(id string, patch model.CategoryPatch) {
	s.mutate(func() bool {
		index := s.indexOf(id)
		if index < 0 {
			return false
		}
		if patch.Name != nil {
			s.categories[index].Name = *patch.Name
		}
		if patch.Color != nil {
			s.categories[index].Color = *patch.Color
		}
		return true
	})
}

// DeleteCategory ignores the uncategorized id. Tasks that reference a deleted
// category keep the id; ResolveCategory maps them back to uncategorized.
func (s *CategoryStore) DeleteCategory(id string) {
	if id == model.UncategorizedID {
		return
	}
	s.mutate(func() bool {
		index := s.indexOf(id)
		if index < 0 {
			return false
		}
		s.categories = append(s.categories[:index], s.categories[index+1:]...)
		return true
	})
}

func (s *CategoryStore) CategoryByID(id string) (model.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		return model.Category{}, false
	}
	return s.categories[index], true
}

// ResolveCategory returns the category for id, or the uncategorized entry when
// id is empty or dangling.
func (s *CategoryStore) ResolveCategory(id string) model.Category {
	if category, ok := s.CategoryByID(id); ok {
		return category
	}
	category, _ := s.CategoryByID(model.UncategorizedID)
	return category
}

func (s *CategoryStore) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCategories(s.categories)
}

func (s *CategoryStore) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

func (s *CategoryStore) Subscribe(fn func([]model.Category)) func() {
	return s.changes.add(fn)
}

func (s *CategoryStore) mutate(apply func() bool) {
	s.mu.Lock()
	if !apply() {
		s.mu.Unlock()
		return
	}
	snapshot := cloneCategories(s.categories)
	s.persistErr = s.snapshots.SaveCategories(context.Background(), snapshot)
	s.mu.Unlock()

	s.changes.notify(snapshot)
}

func (s *CategoryStore) indexOf(id string) int {
	for i, category := range s.categories {
		if category.ID == id {
			return i
		}
	}
	return -1
}

func cloneCategories(categories []model.Category) []model.Category {
	return append(make([]model.Category, 0, len(categories)), categories...)
}
