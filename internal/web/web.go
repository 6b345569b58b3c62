package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Joseda-hg/lazytodo/internal/insight"
	"github.com/Joseda-hg/lazytodo/internal/model"
	"github.com/Joseda-hg/lazytodo/internal/snapshot"
	"github.com/Joseda-hg/lazytodo/internal/store"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	templateFuncs = template.FuncMap{"due": model.FormatDue, "relative": humanize.Time}
	indexTemplate = template.Must(template.New("index.tmpl").Funcs(templateFuncs).ParseFS(templateFS, "templates/index.tmpl"))
	taskTemplate  = template.Must(template.New("task.tmpl").Funcs(templateFuncs).ParseFS(templateFS, "templates/task.tmpl"))
)

type Server struct {
	tasks      *store.TaskStore
	categories *store.CategoryStore
}

type taskRow struct {
	Task     model.Task
	Category model.Category
	Overdue  bool
}

type viewLink struct {
	View   model.View
	Label  string
	Count  int
	Active bool
}

type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CategoryID  *string `json:"categoryId"`
	Color       *string `json:"color"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"dueDate"`
}

type categoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func NewServer(tasks *store.TaskStore, categories *store.CategoryStore) *Server {
	return &Server{tasks: tasks, categories: categories}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/tasks/", s.taskHandler)
	mux.HandleFunc("/api/tasks", s.apiTasksHandler)
	mux.HandleFunc("/api/tasks/", s.apiTaskHandler)
	mux.HandleFunc("/api/categories", s.apiCategoriesHandler)
	mux.HandleFunc("/api/categories/", s.apiCategoryHandler)
	mux.HandleFunc("/api/stats", s.apiStatsHandler)
	return mux
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	filter, err := filterFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	all := s.tasks.AllTasks()
	now := s.tasks.Now()
	tasks := store.Apply(all, filter, now)

	views := make([]viewLink, 0, len(model.Views))
	for _, view := range model.Views {
		views = append(views, viewLink{
			View:   view,
			Label:  view.Label(),
			Count:  len(store.ForView(all, view, now)),
			Active: view == filter.View || (filter.View == "" && view == model.ViewAll),
		})
	}

	data := struct {
		Filter  model.Filter
		Views   []viewLink
		Summary insight.Summary
		DueSoon []model.Task
		Total   int
		Rows    []taskRow
	}{
		Filter:  filter,
		Views:   views,
		Summary: insight.Summarize(all, now),
		DueSoon: insight.DueSoon(all, now, 3),
		Total:   len(tasks),
		Rows:    s.buildTaskRows(tasks, now),
	}

	if err := indexTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) buildTaskRows(tasks []model.Task, now time.Time) []taskRow {
	midnight := store.StartOfDay(now)
	rows := make([]taskRow, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, taskRow{
			Task:     task,
			Category: s.categories.ResolveCategory(task.CategoryID),
			Overdue:  !task.Completed && task.DueDate.Before(midnight),
		})
	}
	return rows
}

func (s *Server) taskHandler(w http.ResponseWriter, r *http.Request) {
	id, _, err := parseID(r.URL.Path, "/tasks/")
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	task, ok := s.tasks.Task(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("task %s not found", id))
		return
	}

	data := struct {
		Task     model.Task
		Category model.Category
	}{Task: task, Category: s.categories.ResolveCategory(task.CategoryID)}

	if err := taskTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) apiTasksHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter, err := filterFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, taskRecords(s.tasks.Query(filter)))
	case http.MethodPost:
		var req taskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
			return
		}
		input, err := req.input()
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		created := s.tasks.AddTask(input)
		writeJSON(w, http.StatusCreated, snapshot.TaskToRecord(created))
	default:
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	}
}

func (s *Server) apiTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, action, err := parseID(r.URL.Path, "/api/tasks/")
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if _, ok := s.tasks.Task(id); !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("task %s not found", id))
		return
	}

	switch {
	case action == "toggle" && r.Method == http.MethodPost:
		s.tasks.ToggleTask(id)
	case action != "":
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown action %q", action))
		return
	case r.Method == http.MethodGet:
	case r.Method == http.MethodPatch:
		var req taskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
			return
		}
		patch, err := req.patch()
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.tasks.UpdateTask(id, patch)
	case r.Method == http.MethodDelete:
		s.tasks.DeleteTask(id)
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	task, _ := s.tasks.Task(id)
	writeJSON(w, http.StatusOK, snapshot.TaskToRecord(task))
}

func (s *Server) apiCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, categoryRecords(s.categories.Categories()))
	case http.MethodPost:
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
			return
		}
		if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
			writeError(w, http.StatusBadRequest, fmt.Errorf("name is required"))
			return
		}
		color := ""
		if req.Color != nil {
			color = model.NormalizeColor(*req.Color)
		}
		created := s.categories.AddCategory(strings.TrimSpace(*req.Name), color)
		writeJSON(w, http.StatusCreated, snapshot.CategoryToRecord(created))
	default:
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	}
}

func (s *Server) apiCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, _, err := parseID(r.URL.Path, "/api/categories/")
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if _, ok := s.categories.CategoryByID(id); !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("category %s not found", id))
		return
	}

	switch r.Method {
	case http.MethodGet:
	case http.MethodPatch:
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
			return
		}
		var patch model.CategoryPatch
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				writeError(w, http.StatusBadRequest, fmt.Errorf("name cannot be empty"))
				return
			}
			patch.Name = &name
		}
		if req.Color != nil {
			patch.Color = model.StringPtr(model.NormalizeColor(*req.Color))
		}
		s.categories.UpdateCategory(id, patch)
	case http.MethodDelete:
		if id == model.UncategorizedID {
			writeError(w, http.StatusConflict, fmt.Errorf("the %s category cannot be deleted", model.UncategorizedID))
			return
		}
		s.categories.DeleteCategory(id)
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	category, _ := s.categories.CategoryByID(id)
	writeJSON(w, http.StatusOK, snapshot.CategoryToRecord(category))
}

func (s *Server) apiStatsHandler(w http.ResponseWriter, r *http.Request) {
	all := s.tasks.AllTasks()
	now := s.tasks.Now()

	payload := struct {
		Summary insight.Summary       `json:"summary"`
		DueSoon []snapshot.TaskRecord `json:"due_soon"`
		Weekly  []insight.DayCount    `json:"weekly"`
	}{
		Summary: insight.Summarize(all, now),
		DueSoon: taskRecords(insight.DueSoon(all, now, 3)),
		Weekly:  insight.WeeklyProductivity(all, now),
	}
	writeJSON(w, http.StatusOK, payload)
}

func (req taskRequest) input() (model.TaskInput, error) {
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return model.TaskInput{}, fmt.Errorf("title is required")
	}
	if req.DueDate == nil {
		return model.TaskInput{}, fmt.Errorf("dueDate is required")
	}
	due, err := model.ParseDue(*req.DueDate)
	if err != nil {
		return model.TaskInput{}, err
	}

	input := model.TaskInput{Title: strings.TrimSpace(*req.Title), DueDate: due}
	if req.Description != nil {
		input.Description = strings.TrimSpace(*req.Description)
	}
	if req.CategoryID != nil {
		input.CategoryID = strings.TrimSpace(*req.CategoryID)
	}
	if req.Color != nil {
		input.Color = model.NormalizeColor(*req.Color)
	}
	return input, nil
}

func (req taskRequest) patch() (model.TaskPatch, error) {
	var patch model.TaskPatch
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return model.TaskPatch{}, fmt.Errorf("title cannot be empty")
		}
		patch.Title = &title
	}
	if req.Description != nil {
		patch.Description = model.StringPtr(strings.TrimSpace(*req.Description))
	}
	if req.CategoryID != nil {
		patch.CategoryID = model.StringPtr(strings.TrimSpace(*req.CategoryID))
	}
	if req.Color != nil {
		patch.Color = model.StringPtr(model.NormalizeColor(*req.Color))
	}
	if req.Completed != nil {
		patch.Completed = req.Completed
	}
	if req.DueDate != nil {
		due, err := model.ParseDue(*req.DueDate)
		if err != nil {
			return model.TaskPatch{}, err
		}
		patch.DueDate = &due
	}
	return patch, nil
}

func filterFromRequest(r *http.Request) (model.Filter, error) {
	values := r.URL.Query()

	view, ok := model.ParseView(values.Get("view"))
	if !ok {
		return model.Filter{}, fmt.Errorf("unknown view %q", values.Get("view"))
	}

	return model.Filter{
		View:       view,
		CategoryID: strings.TrimSpace(values.Get("category")),
		Color:      model.NormalizeColor(values.Get("color")),
		Date:       strings.TrimSpace(values.Get("date")),
		Query:      strings.TrimSpace(values.Get("q")),
	}, nil
}

func taskRecords(tasks []model.Task) []snapshot.TaskRecord {
	records := make([]snapshot.TaskRecord, 0, len(tasks))
	for _, task := range tasks {
		records = append(records, snapshot.TaskToRecord(task))
	}
	return records
}

func categoryRecords(categories []model.Category) []snapshot.CategoryRecord {
	records := make([]snapshot.CategoryRecord, 0, len(categories))
	for _, category := range categories {
		records = append(records, snapshot.CategoryToRecord(category))
	}
	return records
}

// parseID splits "<prefix><id>[/<action>]".
func parseID(path, prefix string) (string, string, error) {
	if !strings.HasPrefix(path, prefix) {
		return "", "", fmt.Errorf("invalid path")
	}
	value := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if value == "" {
		return "", "", fmt.Errorf("missing id")
	}
	id, action, _ := strings.Cut(value, "/")
	return id, action, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}
