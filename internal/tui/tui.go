package tui

import (
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/Joseda-hg/lazytodo/internal/model"
	"github.com/Joseda-hg/lazytodo/internal/store"
)

const (
	viewHeader         = "header"
	viewFooter         = "footer"
	viewViews          = "views"
	viewCategories     = "categories"
	viewTasks          = "tasks"
	viewDetail         = "detail"
	viewSearch         = "search"
	viewForm           = "form"
	viewHelp           = "help"
	viewCategoryCreate = "categoryCreate"
)

type UI struct {
	tasks      *store.TaskStore
	categories *store.CategoryStore
	gui        *gocui.Gui

	filter      model.Filter
	searchQuery string
	searchIDs   map[string]struct{}

	visible      []model.Task
	categoryList []model.Category
	counts       map[model.View]int

	selectedView     int
	selectedCategory int
	selectedTask     int
	focus            string

	form                 *formState
	formEditor           *formEditor
	searchActive         bool
	helpActive           bool
	categoryCreateActive bool
	status               string

	unsubscribe []func()
}

type formState struct {
	taskID string
	fields []formField
	index  int
}

type formEditor struct {
	ui *UI
}

func Run(tasks *store.TaskStore, categories *store.CategoryStore) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(tasks, categories)
	ui.gui = gui
	defer ui.close()
	gui.Mouse = true

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func newUI(tasks *store.TaskStore, categories *store.CategoryStore) *UI {
	ui := &UI{
		tasks:      tasks,
		categories: categories,
		focus:      viewTasks,
		filter:     model.Filter{View: model.ViewAll},
	}
	ui.formEditor = &formEditor{ui: ui}
	ui.unsubscribe = append(ui.unsubscribe,
		tasks.Subscribe(func([]model.Task) { ui.schedule(nil) }),
		tasks.SubscribeSearch(ui.onSearch),
		categories.Subscribe(func([]model.Category) { ui.schedule(nil) }),
	)
	ui.refresh()
	return ui
}

func (u *UI) close() {
	for _, fn := range u.unsubscribe {
		fn()
	}
	u.unsubscribe = nil
}

// schedule runs fn followed by a refresh on the gui goroutine. Store listeners
// may fire from the web server, so state is only touched from the main loop.
func (u *UI) schedule(fn func()) {
	if u.gui == nil {
		if fn != nil {
			fn()
		}
		u.refresh()
		return
	}
	u.gui.Update(func(*gocui.Gui) error {
		if fn != nil {
			fn()
		}
		u.refresh()
		return nil
	})
}

func (u *UI) onSearch(event store.SearchEvent) {
	u.schedule(func() {
		if event.Cleared() {
			u.searchIDs = nil
			u.searchQuery = ""
			return
		}
		ids := make(map[string]struct{}, len(event.Results))
		for _, task := range event.Results {
			ids[task.ID] = struct{}{}
		}
		u.searchIDs = ids
	})
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'q', gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'r', gocui.ModNone, u.reload); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'g', gocui.ModNone, u.clearFilters); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'a', gocui.ModNone, u.add); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'e', gocui.ModNone, u.editTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'd', gocui.ModNone, u.delete); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'x', gocui.ModNone, u.toggleDone); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'o', gocui.ModNone, u.cycleColorFilter); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '/', gocui.ModNone, u.startSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '?', gocui.ModNone, u.toggleHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyTab, gocui.ModNone, u.switchFocus); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '1', gocui.ModNone, u.focusViews); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '2', gocui.ModNone, u.focusCategories); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '3', gocui.ModNone, u.focusTasks); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '4', gocui.ModNone, u.focusDetail); err != nil {
		return err
	}
	for _, name := range []string{viewViews, viewCategories, viewTasks} {
		if err := gui.SetKeybinding(name, gocui.KeyArrowDown, gocui.ModNone, u.moveDown); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, 'j', gocui.ModNone, u.moveDown); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.KeyArrowUp, gocui.ModNone, u.moveUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, 'k', gocui.ModNone, u.moveUp); err != nil {
			return err
		}
	}
	if err := gui.SetKeybinding(viewViews, gocui.KeyEnter, gocui.ModNone, u.selectView); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewViews, gocui.KeySpace, gocui.ModNone, u.selectView); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewCategories, gocui.KeyEnter, gocui.ModNone, u.selectCategory); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewCategories, gocui.KeySpace, gocui.ModNone, u.selectCategory); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.KeyEnter, gocui.ModNone, u.editTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewSearch, gocui.KeyEnter, gocui.ModNone, u.submitSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewSearch, gocui.KeyEsc, gocui.ModNone, u.cancelSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEnter, gocui.ModNone, u.submitFormNow); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyCtrlJ, gocui.ModNone, u.submitFormNow); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyTab, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyBacktab, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowDown, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowUp, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEsc, gocui.ModNone, u.cancelForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, gocui.KeyEsc, gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, 'q', gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, '?', gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewCategoryCreate, gocui.KeyEnter, gocui.ModNone, u.submitCategoryCreate); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewCategoryCreate, gocui.KeyEsc, gocui.ModNone, u.cancelCategoryCreate); err != nil {
		return err
	}
	for _, name := range []string{viewViews, viewCategories, viewTasks} {
		name := name
		if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: name, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
			return u.onListClick(gui, name, opts)
		}}); err != nil {
			return err
		}
	}
	return u.bindMouseScroll(gui)
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.Wrap = true
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := max(maxY-2, 1)
	footerY0 := max(footerY1-2, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	footerView.BgColor = gocui.ColorDefault
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom < bodyTop {
		return nil
	}

	layout := computeLayout(maxX, bodyBottom-bodyTop+1)
	leftX1 := layout.leftWidth - 1
	detailX0 := max(maxX-layout.detailWidth, leftX1+2)
	tasksX0 := leftX1 + 1
	tasksX1 := detailX0 - 1
	viewsY1 := bodyTop + layout.viewsHeight - 1

	viewsView, err := gui.SetView(viewViews, 0, bodyTop, leftX1, viewsY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		viewsView.Title = "1 Views"
	}
	applyViewStyle(viewsView, u.focus == viewViews, true)
	u.renderViews(viewsView)

	categoriesView, err := gui.SetView(viewCategories, 0, viewsY1+1, leftX1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		categoriesView.Title = "2 Categories"
		categoriesView.TitleColor = gocui.ColorCyan
	}
	applyViewStyle(categoriesView, u.focus == viewCategories, true)
	u.renderCategories(categoriesView)

	tasksView, err := gui.SetView(viewTasks, tasksX0, bodyTop, tasksX1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	tasksView.Title = fmt.Sprintf("3 %s (%d)", u.filter.View.Label(), len(u.visible))
	applyViewStyle(tasksView, u.focus == viewTasks, true)
	u.renderTaskList(tasksView)

	detailView, err := gui.SetView(viewDetail, detailX0, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		detailView.Title = "4 Detail"
		detailView.Wrap = true
	}
	applyViewStyle(detailView, u.focus == viewDetail, false)
	u.renderDetail(detailView)

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	if u.searchActive {
		if err := u.showSearch(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewSearch)
	}

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.categoryCreateActive {
		if err := u.showCategoryCreate(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewCategoryCreate)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if gui.CurrentView() == nil {
		_, _ = gui.SetCurrentView(u.focus)
	}

	gui.Cursor = u.searchActive || u.form != nil || u.categoryCreateActive

	return nil
}

type layout struct {
	leftWidth   int
	viewsHeight int
	detailWidth int
}

func computeLayout(width, height int) layout {
	safeWidth := max(width-2, 40)
	safeHeight := max(height, 8)

	leftWidth := safeWidth / 5
	if leftWidth < 22 {
		leftWidth = 22
	}

	detailWidth := safeWidth / 3
	if detailWidth < 24 {
		detailWidth = 24
	}
	if leftWidth+detailWidth > safeWidth-20 {
		detailWidth = max(safeWidth-leftWidth-20, 12)
	}

	viewsHeight := len(model.Views) + 2
	if viewsHeight > safeHeight-4 {
		viewsHeight = max(safeHeight/2, 3)
	}

	return layout{
		leftWidth:   leftWidth,
		viewsHeight: viewsHeight,
		detailWidth: detailWidth,
	}
}

// refresh rebuilds every pane from the stores. Search results are kept as ids
// so edits to a matched task show up without searching again.
func (u *UI) refresh() {
	all := u.tasks.AllTasks()
	now := u.tasks.Now()

	u.categoryList = u.categories.Categories()

	u.counts = make(map[model.View]int, len(model.Views))
	for _, view := range model.Views {
		u.counts[view] = len(store.ForView(all, view, now))
	}

	base := all
	if u.searchIDs != nil {
		base = make([]model.Task, 0, len(u.searchIDs))
		for _, task := range all {
			if _, ok := u.searchIDs[task.ID]; ok {
				base = append(base, task)
			}
		}
	}
	u.visible = store.Apply(base, u.filter, now)

	if u.selectedTask >= len(u.visible) {
		u.selectedTask = max(len(u.visible)-1, 0)
	}
	if u.selectedCategory > len(u.categoryList) {
		u.selectedCategory = len(u.categoryList)
	}
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	query := u.searchQuery
	if query == "" {
		query = "type / to search"
	}

	categoryLabel := "any"
	if u.filter.CategoryID != "" {
		categoryLabel = u.categories.ResolveCategory(u.filter.CategoryID).Name
	}

	colorLabel := "any"
	if u.filter.Color != "" {
		colorLabel = colorName(u.filter.Color)
	}

	fmt.Fprintf(view, "Search: %s | View: %s | Category: %s | Color: %s", query, u.filter.View.Label(), categoryLabel, colorLabel)
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	view.SetOrigin(0, 0)
	view.SetCursor(0, 0)

	fmt.Fprintln(view, "a add | e edit | d delete | x done | enter select/edit | o color | / search | g clear")
	fmt.Fprintln(view, "tab cycle | 1-4 panes | r reload | ? help | q quit")
	if status := u.footerStatus(); status != "" {
		fmt.Fprint(view, status)
	}
}

func (u *UI) footerStatus() string {
	if u.status != "" {
		return u.status
	}
	if err := u.tasks.PersistErr(); err != nil {
		return "not saved: " + err.Error()
	}
	if err := u.categories.PersistErr(); err != nil {
		return "not saved: " + err.Error()
	}
	return ""
}

func (u *UI) renderViews(view *gocui.View) {
	view.Clear()
	for index, entry := range model.Views {
		prefix := " "
		if index == u.selectedView {
			prefix = ">"
		}
		marker := " "
		if entry == u.filter.View {
			marker = "x"
		}
		fmt.Fprintf(view, "%s [%s] %s (%d)\n", prefix, marker, entry.Label(), u.counts[entry])
	}
	if u.focus == viewViews {
		view.SetCursor(0, u.selectedView)
	}
}

func (u *UI) renderCategories(view *gocui.View) {
	view.Clear()
	entries := u.categoryEntries()
	for index, entry := range entries {
		prefix := " "
		if index == u.selectedCategory {
			prefix = ">"
		}
		marker := " "
		if entry.ID == u.filter.CategoryID {
			marker = "x"
		}
		fmt.Fprintf(view, "%s [%s] %s\n", prefix, marker, entry.Name)
	}
	if u.focus == viewCategories {
		view.SetCursor(0, min(u.selectedCategory, len(entries)-1))
	}
}

// categoryEntries puts an "All" entry with an empty id in front of the
// stored categories.
func (u *UI) categoryEntries() []model.Category {
	entries := make([]model.Category, 0, len(u.categoryList)+1)
	entries = append(entries, model.Category{Name: "All"})
	return append(entries, u.categoryList...)
}

func (u *UI) renderTaskList(view *gocui.View) {
	view.Clear()
	focused := u.focus == viewTasks
	now := u.tasks.Now()
	for i, task := range u.visible {
		prefix := " "
		if i == u.selectedTask {
			if focused {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatTaskSummary(task, u.categories.ResolveCategory(task.CategoryID), now))
	}
	if focused {
		view.SetCursor(0, min(u.selectedTask, len(u.visible)-1))
	}
}

func (u *UI) renderDetail(view *gocui.View) {
	view.Clear()
	selected := u.currentTask()
	if selected == nil {
		fmt.Fprint(view, "No task selected")
		return
	}
	fmt.Fprint(view, formatTaskDetail(*selected, u.categories.ResolveCategory(selected.CategoryID), u.tasks.Now()))
}

func (u *UI) onListClick(gui *gocui.Gui, viewName string, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	view, err := gui.View(viewName)
	if err != nil {
		return nil
	}

	_, y0, _, _ := view.Dimensions()
	_, oy := view.Origin()
	row := max(opts.Y-y0-1+oy, 0)

	switch viewName {
	case viewViews:
		u.selectedView = min(row, len(model.Views)-1)
	case viewCategories:
		u.selectedCategory = min(row, len(u.categoryList))
	case viewTasks:
		u.selectedTask = max(min(row, len(u.visible)-1), 0)
	}
	return u.setFocus(gui, viewName)
}

func (u *UI) bindMouseScroll(gui *gocui.Gui) error {
	views := []string{viewViews, viewCategories, viewTasks, viewDetail}
	for _, name := range views {
		if err := gui.SetKeybinding(name, gocui.MouseWheelUp, gocui.ModNone, u.scrollUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.MouseWheelDown, gocui.ModNone, u.scrollDown); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) scrollUp(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if view == nil {
		view = gui.CurrentView()
	}
	if view == nil {
		return nil
	}
	view.ScrollUp(1)
	return nil
}

func (u *UI) scrollDown(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if view == nil {
		view = gui.CurrentView()
	}
	if view == nil {
		return nil
	}
	view.ScrollDown(1)
	return nil
}

func (u *UI) currentTask() *model.Task {
	if u.selectedTask >= 0 && u.selectedTask < len(u.visible) {
		return &u.visible[u.selectedTask]
	}
	return nil
}

func (u *UI) switchFocus(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}

	switch u.focus {
	case viewViews:
		u.focus = viewCategories
	case viewCategories:
		u.focus = viewTasks
	case viewTasks:
		u.focus = viewDetail
	default:
		u.focus = viewViews
	}
	u.setCurrentView(gui, u.focus)
	return nil
}

func (u *UI) focusViews(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewViews)
}

func (u *UI) focusCategories(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewCategories)
}

func (u *UI) focusTasks(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewTasks)
}

func (u *UI) focusDetail(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewDetail)
}

func (u *UI) setFocus(gui *gocui.Gui, name string) error {
	if u.inputActive() {
		return nil
	}
	u.focus = name
	u.setCurrentView(gui, name)
	return nil
}

func (u *UI) moveDown(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewViews:
		if u.selectedView < len(model.Views)-1 {
			u.selectedView++
		}
	case viewCategories:
		if u.selectedCategory < len(u.categoryList) {
			u.selectedCategory++
		}
	case viewTasks:
		if u.selectedTask < len(u.visible)-1 {
			u.selectedTask++
		}
	}
	return nil
}

func (u *UI) moveUp(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewViews:
		if u.selectedView > 0 {
			u.selectedView--
		}
	case viewCategories:
		if u.selectedCategory > 0 {
			u.selectedCategory--
		}
	case viewTasks:
		if u.selectedTask > 0 {
			u.selectedTask--
		}
	}
	return nil
}

func (u *UI) selectView(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.selectedView < 0 || u.selectedView >= len(model.Views) {
		return nil
	}
	u.filter.View = model.Views[u.selectedView]
	u.selectedTask = 0
	u.refresh()
	return nil
}

// selectCategory toggles the category filter; selecting the active entry
// again clears it.
func (u *UI) selectCategory(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	entries := u.categoryEntries()
	if u.selectedCategory < 0 || u.selectedCategory >= len(entries) {
		return nil
	}
	id := entries[u.selectedCategory].ID
	if id == u.filter.CategoryID {
		id = ""
	}
	u.filter.CategoryID = id
	u.selectedTask = 0
	u.refresh()
	return nil
}

func (u *UI) cycleColorFilter(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.filter.Color = nextColor(u.filter.Color)
	u.selectedTask = 0
	u.refresh()
	return nil
}

func (u *UI) reload(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.status = ""
	u.refresh()
	return nil
}

func (u *UI) clearFilters(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.filter = model.Filter{View: model.ViewAll}
	u.selectedView = 0
	u.selectedTask = 0
	u.status = ""
	u.tasks.ClearSearch()
	return nil
}

func (u *UI) startSearch(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.searchActive = true
	return nil
}

func (u *UI) showSearch(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(30, maxX/2)
	height := 3
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewSearch, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Search titles and descriptions"
		view.Wrap = true
		view.Clear()
		fmt.Fprint(view, u.searchQuery)
	}
	view.Editable = true
	view.Editor = gocui.DefaultEditor
	_, _ = gui.SetCurrentView(viewSearch)
	return nil
}

func (u *UI) submitSearch(gui *gocui.Gui, view *gocui.View) error {
	query := ""
	if view != nil {
		query = view.Buffer()
	}
	u.searchActive = false
	u.status = ""
	u.closeOverlay(gui, viewSearch)
	u.applySearch(query)
	return nil
}

// applySearch publishes the matches for query, or clears the search when the
// query is blank.
func (u *UI) applySearch(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		u.tasks.ClearSearch()
		return
	}
	u.searchQuery = query
	u.selectedTask = 0
	u.tasks.PublishSearch(store.Search(u.tasks.AllTasks(), query))
}

func (u *UI) cancelSearch(gui *gocui.Gui, _ *gocui.View) error {
	u.searchActive = false
	u.closeOverlay(gui, viewSearch)
	return nil
}

func (u *UI) toggleHelp(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() && !u.helpActive {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	u.closeOverlay(gui, viewHelp)
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := 16
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Help"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

// add opens the category prompt from the categories pane and the task form
// everywhere else.
func (u *UI) add(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.focus == viewCategories {
		u.categoryCreateActive = true
		return nil
	}
	fields := buildFormFields(nil, u.tasks.Now())
	if u.filter.CategoryID != "" {
		fields[fieldCategory].Value = u.filter.CategoryID
	}
	u.form = &formState{fields: fields}
	return nil
}

func (u *UI) editTask(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.currentTask()
	if selected == nil {
		return nil
	}
	u.form = &formState{taskID: selected.ID, fields: buildFormFields(selected, u.tasks.Now())}
	return nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	if u.form == nil {
		return nil
	}

	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := min(10, max(8, maxY/2))
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
	}
	if u.form.taskID != "" {
		view.Title = "Edit Task"
	} else {
		view.Title = "New Task"
	}
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) submitFormNow(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}

	input, err := parseFormFields(u.form.fields)
	if err != nil {
		u.status = err.Error()
		return nil
	}

	taskID := u.form.taskID
	u.form = nil
	u.status = ""
	u.closeOverlay(gui, viewForm)

	if taskID == "" {
		u.tasks.AddTask(input)
		return nil
	}
	if _, ok := u.tasks.Task(taskID); !ok {
		u.status = "task was removed while editing"
		return nil
	}
	u.tasks.UpdateTask(taskID, patchFromInput(input))
	return nil
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	u.form = nil
	u.closeOverlay(gui, viewForm)
	return nil
}

func (u *UI) nextFormField(_ *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(_ *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, u.displayFormValue(index, field))
	}
	current := u.form.fields[u.form.index]
	cursorX := len([]rune(current.Label)) + len([]rune(u.displayFormValue(u.form.index, current))) + 4
	view.SetCursor(cursorX, u.form.index)
}

func (u *UI) displayFormValue(index int, field formField) string {
	switch index {
	case fieldCategory:
		return u.categories.ResolveCategory(field.Value).Name
	case fieldColor:
		return colorName(field.Value)
	default:
		return field.Value
	}
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil {
		return false
	}
	field := &ui.form.fields[ui.form.index]

	switch ui.form.index {
	case fieldCategory:
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.Value = cycleCategory(ui.categoryList, field.Value, 1)
		case gocui.KeyArrowLeft:
			field.Value = cycleCategory(ui.categoryList, field.Value, -1)
		}
		ui.renderForm(view)
		return true
	case fieldColor:
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.Value = nextColor(field.Value)
		case gocui.KeyArrowLeft:
			field.Value = prevColor(field.Value)
		}
		ui.renderForm(view)
		return true
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}

	ui.renderForm(view)
	return true
}

func (u *UI) showCategoryCreate(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(40, maxX/3)
	height := 3
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewCategoryCreate, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "New Category (name [color])"
		view.Wrap = true
		view.Clear()
	}
	view.Editable = true
	view.Editor = gocui.DefaultEditor
	_, _ = gui.SetCurrentView(viewCategoryCreate)
	return nil
}

func (u *UI) submitCategoryCreate(gui *gocui.Gui, view *gocui.View) error {
	if !u.categoryCreateActive {
		return nil
	}
	value := ""
	if view != nil {
		value = view.Buffer()
	}
	u.categoryCreateActive = false
	u.closeOverlay(gui, viewCategoryCreate)
	u.createCategory(value)
	return nil
}

// createCategory accepts "name" or "name color", where color is a palette
// label or a raw token.
func (u *UI) createCategory(value string) {
	name, color := parseCategoryInput(value)
	if name == "" {
		u.status = "category name is required"
		return
	}
	u.status = ""
	u.categories.AddCategory(name, color)
}

func (u *UI) cancelCategoryCreate(gui *gocui.Gui, _ *gocui.View) error {
	u.categoryCreateActive = false
	u.closeOverlay(gui, viewCategoryCreate)
	return nil
}

func (u *UI) delete(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.focus == viewCategories {
		return u.deleteCategory()
	}
	return u.deleteTask()
}

func (u *UI) deleteTask() error {
	selected := u.currentTask()
	if selected == nil {
		return nil
	}
	u.status = ""
	u.tasks.DeleteTask(selected.ID)
	return nil
}

func (u *UI) deleteCategory() error {
	entries := u.categoryEntries()
	if u.selectedCategory <= 0 || u.selectedCategory >= len(entries) {
		return nil
	}
	entry := entries[u.selectedCategory]
	if entry.ID == model.UncategorizedID {
		u.status = model.UncategorizedName + " cannot be deleted"
		return nil
	}
	if u.filter.CategoryID == entry.ID {
		u.filter.CategoryID = ""
	}
	u.status = ""
	u.categories.DeleteCategory(entry.ID)
	return nil
}

func (u *UI) toggleDone(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.currentTask()
	if selected == nil {
		return nil
	}
	u.status = ""
	u.tasks.ToggleTask(selected.ID)
	return nil
}

func (u *UI) inputActive() bool {
	return u.searchActive || u.form != nil || u.helpActive || u.categoryCreateActive
}

func (u *UI) closeOverlay(gui *gocui.Gui, name string) {
	if gui == nil {
		return
	}
	_ = gui.DeleteView(name)
	_, _ = gui.SetCurrentView(u.focus)
}

func (u *UI) setCurrentView(gui *gocui.Gui, name string) {
	if gui == nil {
		return
	}
	_, _ = gui.SetCurrentView(name)
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Navigation:",
		"  Tab cycle panes | 1 Views | 2 Categories | 3 Tasks | 4 Detail",
		"  j/k or arrows move selection | mouse click to focus/select",
		"",
		"Tasks:",
		"  a add task | e or enter edit task | d delete task | x toggle done",
		"  tab next field | enter save | esc cancel",
		"  space/left/right cycle category and color (form)",
		"",
		"Filters:",
		"  enter/space pick view (Views pane) or category (Categories pane)",
		"  o cycle color | / search | g clear filters and search",
		"",
		"Categories:",
		"  a add category | d delete category (Categories pane)",
		"",
		"Other:",
		"  r reload | ? help | esc/q close help | q quit",
	}, "\n")
}

func applyViewStyle(view *gocui.View, focused bool, highlight bool) {
	view.Frame = true
	view.Highlight = focused && highlight
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
	}
}
