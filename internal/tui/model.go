// Package tui renders the board and routes key input to the board service.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/hylla/todoban/internal/app"
	"github.com/hylla/todoban/internal/cache"
	"github.com/hylla/todoban/internal/domain"
)

// Service represents the board operations the view depends on.
type Service interface {
	LoadBoard(ctx context.Context) ([]domain.Category, error)
	TasksForCategory(categoryID string) []domain.Task
	TasksByStatus(status domain.Status) []domain.Task
	FindTask(taskID string) (domain.Task, bool)
	CreateTask(ctx context.Context, in app.CreateTaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, in app.UpdateTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	MoveTaskStatus(ctx context.Context, taskID string, status domain.Status) error
	ReorderTasks(ctx context.Context, orders []cache.TaskOrder) error
	CreateCategory(ctx context.Context, name string) (domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
	ReorderCategories(ctx context.Context, categoryIDs []string) error
}

type inputMode int

const (
	modeNone inputMode = iota
	modeAddTask
	modeEditTask
	modeAddCategory
	modeCategoryPicker
	modeTaskInfo
	modeConfirmAction
)

// Confirm action kinds.
const (
	confirmDeleteTask     = "delete-task"
	confirmDeleteCategory = "delete-category"
	confirmMoveStatus     = "move-status"
)

// confirmAction represents confirm action data used by this package.
type confirmAction struct {
	Kind     string
	Task     domain.Task
	Category domain.Category
	Target   domain.Status
	Label    string
}

// loadedMsg represents loaded msg data used by this package.
type loadedMsg struct {
	categories []domain.Category
	err        error
}

// actionMsg represents action msg data used by this package.
type actionMsg struct {
	err         error
	status      string
	reload      bool
	focusTaskID string
}

// Task form field indexes.
const (
	taskFieldTitle = iota
	taskFieldContent
)

var taskFormFields = []string{"title", "content"}

// Model represents model data used by this package.
type Model struct {
	svc    Service
	ready  bool
	width  int
	height int
	err    error
	status string
	help   help.Model
	keys   keyMap

	categories       []domain.Category
	selectedCategory int
	selectedColumn   int
	selectedTask     int

	mode           inputMode
	formInputs     []textinput.Model
	formFocus      int
	formCategoryID string
	editingTaskID  string
	pickerIndex    int
	infoTaskID     string

	deleteModes *deleteModeController

	confirm        ConfirmConfig
	pendingConfirm confirmAction
	confirmChoice  int

	grabbing   bool
	grabTasks  []domain.Task
	grabIndex  int
	grabStatus domain.Status
	heldOrder  map[domain.Status][]domain.Task

	counter  counter
	markdown contentRenderer

	pendingFocusTaskID string
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:              svc,
		status:           "loading...",
		help:             h,
		keys:             newKeyMap(),
		selectedCategory: -1,
		deleteModes:      newDeleteModeController(),
		confirm:          DefaultConfirmConfig(),
		counter:          newCounter(defaultLatinLimit, defaultCJKLimit),
		heldOrder:        map[domain.Status][]domain.Task{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.categories = msg.categories
		m.heldOrder = map[domain.Status][]domain.Task{}
		if len(m.categories) == 0 {
			m.selectedCategory = -1
			m.selectedTask = 0
			if m.mode == modeNone {
				m.status = "create your first category"
			}
			return m, nil
		}
		// Selection stays empty until the user picks a category.
		if m.selectedCategory >= 0 {
			m.selectedCategory = clamp(m.selectedCategory, 0, len(m.categories)-1)
		}
		m.clampSelections()
		if m.pendingFocusTaskID != "" {
			m.focusTaskByID(m.pendingFocusTaskID)
			m.pendingFocusTaskID = ""
		}
		if m.status == "" || m.status == "loading..." || m.status == "reloading..." {
			if m.selectedCategory < 0 {
				m.status = "select a category (tab or p)"
			} else {
				m.status = "ready"
			}
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			if msg.reload {
				return m, m.loadData
			}
			return m, nil
		}
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.focusTaskID != "" {
			m.pendingFocusTaskID = msg.focusTaskID
		}
		if !msg.reload {
			m.heldOrder = map[domain.Status][]domain.Task{}
			m.clampSelections()
			if m.pendingFocusTaskID != "" {
				m.focusTaskByID(m.pendingFocusTaskID)
				m.pendingFocusTaskID = ""
			}
		}
		if msg.reload {
			return m, m.loadData
		}
		return m, nil

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	default:
		return m, nil
	}
}

// loadData loads required data for the current operation.
func (m Model) loadData() tea.Msg {
	categories, err := m.svc.LoadBoard(context.Background())
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{categories: categories}
}

// currentCategory returns the selected category, if any.
func (m Model) currentCategory() (domain.Category, bool) {
	if m.selectedCategory < 0 || m.selectedCategory >= len(m.categories) {
		return domain.Category{}, false
	}
	return m.categories[m.selectedCategory], true
}

// columnStatus maps a column index to its status bucket.
func columnStatus(idx int) domain.Status {
	statuses := domain.Statuses()
	return statuses[clamp(idx, 0, len(statuses)-1)]
}

// columnTasks returns the tasks rendered in the given column. The To Do
// column is scoped to the selected category; the other columns span all
// categories. A grab in progress or an unconfirmed reorder overrides the
// cached order.
func (m Model) columnTasks(status domain.Status) []domain.Task {
	if m.grabbing && status == m.grabStatus {
		return m.grabTasks
	}
	if held, ok := m.heldOrder[status]; ok {
		return held
	}
	if status == domain.StatusTodo {
		category, ok := m.currentCategory()
		if !ok {
			return nil
		}
		return m.svc.TasksForCategory(category.ID)
	}
	return m.svc.TasksByStatus(status)
}

// selectedTaskInCurrentColumn returns the highlighted task, if any.
func (m Model) selectedTaskInCurrentColumn() (domain.Task, bool) {
	tasks := m.columnTasks(columnStatus(m.selectedColumn))
	if len(tasks) == 0 {
		return domain.Task{}, false
	}
	return tasks[clamp(m.selectedTask, 0, len(tasks)-1)], true
}

func (m *Model) clampSelections() {
	m.selectedColumn = clamp(m.selectedColumn, 0, len(domain.Statuses())-1)
	tasks := m.columnTasks(columnStatus(m.selectedColumn))
	m.selectedTask = clamp(m.selectedTask, 0, max(0, len(tasks)-1))
}

func (m *Model) focusTaskByID(taskID string) {
	for colIdx, status := range domain.Statuses() {
		for taskIdx, task := range m.columnTasks(status) {
			if task.ID == taskID {
				m.selectedColumn = colIdx
				m.selectedTask = taskIdx
				return
			}
		}
	}
}

// handleNormalModeKey handles board navigation and action keys.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.grabbing {
		return m.handleGrabKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case msg.String() == "esc":
		if m.help.ShowAll {
			m.help.ShowAll = false
			return m, nil
		}
		if m.deleteModes.AnyActive() {
			m.deleteModes.Reset()
			m.status = "delete mode off"
		}
		return m, nil

	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadData

	case key.Matches(msg, m.keys.moveLeft):
		m.selectedColumn = clamp(m.selectedColumn-1, 0, len(domain.Statuses())-1)
		m.clampSelections()
		return m, nil

	case key.Matches(msg, m.keys.moveRight):
		m.selectedColumn = clamp(m.selectedColumn+1, 0, len(domain.Statuses())-1)
		m.clampSelections()
		return m, nil

	case key.Matches(msg, m.keys.moveDown):
		tasks := m.columnTasks(columnStatus(m.selectedColumn))
		m.selectedTask = clamp(m.selectedTask+1, 0, max(0, len(tasks)-1))
		return m, nil

	case key.Matches(msg, m.keys.moveUp):
		tasks := m.columnTasks(columnStatus(m.selectedColumn))
		m.selectedTask = clamp(m.selectedTask-1, 0, max(0, len(tasks)-1))
		return m, nil

	case key.Matches(msg, m.keys.nextCategory):
		if len(m.categories) == 0 {
			m.status = "no categories yet (c to create one)"
			return m, nil
		}
		m.selectedCategory = (m.selectedCategory + 1) % len(m.categories)
		m.selectedTask = 0
		m.clampSelections()
		return m, nil

	case key.Matches(msg, m.keys.categoryPicker):
		if len(m.categories) == 0 {
			m.status = "no categories yet (c to create one)"
			return m, nil
		}
		m.mode = modeCategoryPicker
		m.pickerIndex = clamp(m.selectedCategory, 0, len(m.categories)-1)
		m.status = "category picker"
		return m, nil

	case key.Matches(msg, m.keys.addTask):
		if m.deleteModes.AnyActive() {
			m.status = "delete mode active (esc to leave)"
			return m, nil
		}
		if _, ok := m.currentCategory(); !ok {
			if len(m.categories) == 0 {
				m.status = "create a category first (c)"
			} else {
				m.status = "select a category (tab or p)"
			}
			return m, nil
		}
		m.help.ShowAll = false
		return m, m.startTaskForm(nil)

	case key.Matches(msg, m.keys.editTask):
		if m.deleteModes.AnyActive() {
			m.status = "delete mode active (esc to leave)"
			return m, nil
		}
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.help.ShowAll = false
		return m, m.startTaskForm(&task)

	case key.Matches(msg, m.keys.taskInfo):
		if m.deleteModes.Active(deleteKindTask) {
			task, ok := m.selectedTaskInCurrentColumn()
			if !ok {
				m.status = "no task selected"
				return m, nil
			}
			return m.requestConfirm(confirmAction{
				Kind:  confirmDeleteTask,
				Task:  task,
				Label: "delete task",
			}, m.confirm.DeleteTask)
		}
		if m.deleteModes.Active(deleteKindCategory) {
			category, ok := m.currentCategory()
			if !ok {
				m.status = "no category selected"
				return m, nil
			}
			return m.requestConfirm(confirmAction{
				Kind:     confirmDeleteCategory,
				Category: category,
				Label:    "delete category",
			}, m.confirm.DeleteCategory)
		}
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.mode = modeTaskInfo
		m.infoTaskID = task.ID
		m.help.ShowAll = false
		return m, nil

	case key.Matches(msg, m.keys.newCategory):
		if m.deleteModes.AnyActive() {
			m.status = "delete mode active (esc to leave)"
			return m, nil
		}
		m.help.ShowAll = false
		return m, m.startCategoryForm()

	case key.Matches(msg, m.keys.taskDeleteMode):
		m.deleteModes.Toggle(deleteKindTask)
		if m.deleteModes.Active(deleteKindTask) {
			m.status = "task delete mode (enter deletes, esc leaves)"
		} else {
			m.status = "delete mode off"
		}
		return m, nil

	case key.Matches(msg, m.keys.catDeleteMode):
		m.deleteModes.Toggle(deleteKindCategory)
		if m.deleteModes.Active(deleteKindCategory) {
			m.status = "category delete mode (enter deletes, esc leaves)"
		} else {
			m.status = "delete mode off"
		}
		return m, nil

	case key.Matches(msg, m.keys.moveTaskLeft):
		return m.moveSelectedTask(-1)

	case key.Matches(msg, m.keys.moveTaskRight):
		return m.moveSelectedTask(1)

	case key.Matches(msg, m.keys.grabTask):
		return m.startGrab()

	case key.Matches(msg, m.keys.categoryLeft):
		return m.moveSelectedCategory(-1)

	case key.Matches(msg, m.keys.categoryRight):
		return m.moveSelectedCategory(1)

	case key.Matches(msg, m.keys.yankTask):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		text := task.Title
		if strings.TrimSpace(task.Content) != "" {
			text += "\n\n" + task.Content
		}
		if err := clipboard.WriteAll(text); err != nil {
			m.status = "yank failed: " + err.Error()
			return m, nil
		}
		m.status = "task yanked"
		return m, nil
	}
	return m, nil
}

// moveSelectedTask moves the highlighted task one status column over.
func (m Model) moveSelectedTask(delta int) (tea.Model, tea.Cmd) {
	task, ok := m.selectedTaskInCurrentColumn()
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	statuses := domain.Statuses()
	current := 0
	for idx, status := range statuses {
		if status == task.Status {
			current = idx
			break
		}
	}
	next := current + delta
	if next < 0 || next >= len(statuses) {
		m.status = "no column in that direction"
		return m, nil
	}
	target := statuses[next]
	return m.requestConfirm(confirmAction{
		Kind:   confirmMoveStatus,
		Task:   task,
		Target: target,
		Label:  "move to " + target.Label(),
	}, m.confirm.MoveStatus)
}

// moveSelectedCategory shifts the selected category in the tab order and
// submits the new order. The on-screen order is kept even when the server
// rejects it.
func (m Model) moveSelectedCategory(delta int) (tea.Model, tea.Cmd) {
	if len(m.categories) < 2 {
		m.status = "nothing to reorder"
		return m, nil
	}
	from := clamp(m.selectedCategory, 0, len(m.categories)-1)
	to := from + delta
	if to < 0 || to >= len(m.categories) {
		m.status = "no slot in that direction"
		return m, nil
	}
	categories := append([]domain.Category(nil), m.categories...)
	categories[from], categories[to] = categories[to], categories[from]
	m.categories = categories
	m.selectedCategory = to

	ids := make([]string, 0, len(categories))
	for _, category := range categories {
		ids = append(ids, category.ID)
	}
	svc := m.svc
	return m, func() tea.Msg {
		if err := svc.ReorderCategories(context.Background(), ids); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "categories reordered"}
	}
}

// startGrab picks up the highlighted task for in-column reordering.
func (m Model) startGrab() (tea.Model, tea.Cmd) {
	if m.deleteModes.AnyActive() {
		m.status = "delete mode active (esc to leave)"
		return m, nil
	}
	status := columnStatus(m.selectedColumn)
	tasks := m.columnTasks(status)
	if len(tasks) < 2 {
		m.status = "nothing to reorder"
		return m, nil
	}
	m.grabbing = true
	m.grabStatus = status
	m.grabTasks = append([]domain.Task(nil), tasks...)
	m.grabIndex = clamp(m.selectedTask, 0, len(tasks)-1)
	m.status = "grabbed (j/k move, space drops, esc cancels)"
	return m, nil
}

// handleGrabKey reorders the grabbed task and submits or cancels the grab.
func (m Model) handleGrabKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.grabbing = false
		m.grabTasks = nil
		m.clampSelections()
		m.status = "grab cancelled"
		return m, nil

	case "j", "down":
		if m.grabIndex < len(m.grabTasks)-1 {
			m.grabTasks[m.grabIndex], m.grabTasks[m.grabIndex+1] = m.grabTasks[m.grabIndex+1], m.grabTasks[m.grabIndex]
			m.grabIndex++
			m.selectedTask = m.grabIndex
		}
		return m, nil

	case "k", "up":
		if m.grabIndex > 0 {
			m.grabTasks[m.grabIndex], m.grabTasks[m.grabIndex-1] = m.grabTasks[m.grabIndex-1], m.grabTasks[m.grabIndex]
			m.grabIndex--
			m.selectedTask = m.grabIndex
		}
		return m, nil

	case "space", "enter":
		orders := make([]cache.TaskOrder, 0, len(m.grabTasks))
		for idx, task := range m.grabTasks {
			orders = append(orders, cache.TaskOrder{ID: task.ID, Position: idx, Status: m.grabStatus})
		}
		m.heldOrder[m.grabStatus] = m.grabTasks
		m.grabbing = false
		m.grabTasks = nil
		svc := m.svc
		return m, func() tea.Msg {
			if err := svc.ReorderTasks(context.Background(), orders); err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "tasks reordered"}
		}
	}
	return m, nil
}

// requestConfirm opens the confirm overlay, or applies the action directly
// when confirmation is disabled for it.
func (m Model) requestConfirm(action confirmAction, confirmNeeded bool) (tea.Model, tea.Cmd) {
	if !confirmNeeded {
		return m.applyConfirmedAction(action)
	}
	m.mode = modeConfirmAction
	m.pendingConfirm = action
	m.confirmChoice = 1
	m.status = "confirm " + action.Label
	return m, nil
}

// applyConfirmedAction runs the pending destructive action.
func (m Model) applyConfirmedAction(action confirmAction) (tea.Model, tea.Cmd) {
	svc := m.svc
	switch action.Kind {
	case confirmDeleteTask:
		taskID := action.Task.ID
		m.deleteModes.Reset()
		return m, func() tea.Msg {
			if err := svc.DeleteTask(context.Background(), taskID); err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "task deleted"}
		}

	case confirmDeleteCategory:
		categoryID := action.Category.ID
		m.deleteModes.Reset()
		m.removeCategoryLocally(categoryID)
		return m, func() tea.Msg {
			if err := svc.DeleteCategory(context.Background(), categoryID); err != nil {
				return actionMsg{err: err, reload: true}
			}
			return actionMsg{status: "category deleted"}
		}

	case confirmMoveStatus:
		taskID := action.Task.ID
		target := action.Target
		return m, func() tea.Msg {
			if err := svc.MoveTaskStatus(context.Background(), taskID, target); err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "moved to " + target.Label(), focusTaskID: taskID}
		}
	}
	return m, nil
}

// removeCategoryLocally drops the category from the tab row ahead of the
// server round trip and falls back to the first remaining category.
func (m *Model) removeCategoryLocally(categoryID string) {
	categories := m.categories[:0:0]
	for _, category := range m.categories {
		if category.ID != categoryID {
			categories = append(categories, category)
		}
	}
	m.categories = categories
	if len(m.categories) == 0 {
		m.selectedCategory = -1
		return
	}
	m.selectedCategory = clamp(m.selectedCategory, 0, len(m.categories)-1)
}

// handleInputModeKey routes keys while a modal is open.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeConfirmAction:
		switch msg.String() {
		case "esc", "n", "q":
			m.mode = modeNone
			m.status = "cancelled"
			return m, nil
		case "h", "l", "left", "right", "tab":
			m.confirmChoice = 1 - m.confirmChoice
			return m, nil
		case "y":
			m.mode = modeNone
			return m.applyConfirmedAction(m.pendingConfirm)
		case "enter":
			m.mode = modeNone
			if m.confirmChoice == 0 {
				return m.applyConfirmedAction(m.pendingConfirm)
			}
			m.status = "cancelled"
			return m, nil
		}
		return m, nil

	case modeTaskInfo:
		switch msg.String() {
		case "esc", "i", "enter", "q":
			m.mode = modeNone
			m.infoTaskID = ""
			m.status = "ready"
		case "y":
			task, ok := m.svc.FindTask(m.infoTaskID)
			if !ok {
				return m, nil
			}
			text := task.Title
			if strings.TrimSpace(task.Content) != "" {
				text += "\n\n" + task.Content
			}
			if err := clipboard.WriteAll(text); err != nil {
				m.status = "yank failed: " + err.Error()
				return m, nil
			}
			m.status = "task yanked"
		}
		return m, nil

	case modeCategoryPicker:
		switch msg.String() {
		case "esc":
			m.mode = modeNone
			m.status = "cancelled"
			return m, nil
		case "j", "down", "tab":
			m.pickerIndex = clamp(m.pickerIndex+1, 0, len(m.categories)-1)
			return m, nil
		case "k", "up", "shift+tab":
			m.pickerIndex = clamp(m.pickerIndex-1, 0, len(m.categories)-1)
			return m, nil
		case "enter":
			m.mode = modeNone
			m.selectedCategory = clamp(m.pickerIndex, 0, len(m.categories)-1)
			m.selectedTask = 0
			m.clampSelections()
			if category, ok := m.currentCategory(); ok {
				m.status = "category: " + category.Name
			}
			return m, nil
		}
		return m, nil

	case modeAddTask, modeEditTask:
		switch msg.String() {
		case "esc":
			m.resetInputMode()
			m.status = "cancelled"
			return m, nil
		case "tab", "ctrl+i", "down":
			return m, m.focusFormField(m.formFocus + 1)
		case "shift+tab", "backtab", "up":
			return m, m.focusFormField(m.formFocus - 1)
		case "enter":
			return m.submitInputMode()
		default:
			if m.formFocus >= len(m.formInputs) {
				switch msg.String() {
				case "h", "left":
					m.cycleFormCategory(-1)
				case "l", "right":
					m.cycleFormCategory(1)
				}
				return m, nil
			}
			var cmd tea.Cmd
			m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
			return m, cmd
		}

	case modeAddCategory:
		switch msg.String() {
		case "esc":
			m.resetInputMode()
			m.status = "cancelled"
			return m, nil
		case "enter":
			return m.submitInputMode()
		default:
			var cmd tea.Cmd
			m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// startTaskForm opens the task modal, prefilled when editing. The edit form
// carries the task's category as a third, selector-style field.
func (m *Model) startTaskForm(task *domain.Task) tea.Cmd {
	title := ""
	content := ""
	m.editingTaskID = ""
	m.formCategoryID = ""
	m.mode = modeAddTask
	m.status = "new task"
	if task != nil {
		title = task.Title
		content = task.Content
		m.editingTaskID = task.ID
		m.formCategoryID = task.CategoryID
		m.mode = modeEditTask
		m.status = "edit task"
	}
	m.formInputs = []textinput.Model{
		newModalInput("", "task title", title, 200),
		newModalInput("", "content (markdown, links, #tags)", content, 2000),
	}
	return m.focusFormField(taskFieldTitle)
}

// startCategoryForm opens the single-field category modal.
func (m *Model) startCategoryForm() tea.Cmd {
	m.mode = modeAddCategory
	m.status = "new category"
	m.formInputs = []textinput.Model{
		newModalInput("", "category name", "", 60),
	}
	return m.focusFormField(0)
}

// formFieldCount counts the focusable form rows. The edit form has one row
// past the text inputs for the category selector.
func (m Model) formFieldCount() int {
	if m.mode == modeEditTask {
		return len(m.formInputs) + 1
	}
	return len(m.formInputs)
}

// focusFormField moves form focus, blurring every other field. Focus past the
// text inputs lands on the category selector row.
func (m *Model) focusFormField(idx int) tea.Cmd {
	if len(m.formInputs) == 0 {
		return nil
	}
	idx = clamp(idx, 0, m.formFieldCount()-1)
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	m.formFocus = idx
	if idx >= len(m.formInputs) {
		return nil
	}
	return m.formInputs[idx].Focus()
}

// cycleFormCategory moves the edit form's category selection in tab order.
func (m *Model) cycleFormCategory(delta int) {
	if len(m.categories) == 0 {
		return
	}
	current := -1
	for idx, category := range m.categories {
		if category.ID == m.formCategoryID {
			current = idx
			break
		}
	}
	m.formCategoryID = m.categories[clamp(current+delta, 0, len(m.categories)-1)].ID
}

func (m *Model) resetInputMode() {
	m.mode = modeNone
	m.formInputs = nil
	m.formFocus = 0
	m.formCategoryID = ""
	m.editingTaskID = ""
}

// submitInputMode validates the open form and runs its action. Validation
// failures keep the form open without touching the network.
func (m Model) submitInputMode() (tea.Model, tea.Cmd) {
	svc := m.svc
	switch m.mode {
	case modeAddTask:
		title := strings.TrimSpace(m.formInputs[taskFieldTitle].Value())
		if title == "" {
			m.status = "title is required"
			return m, nil
		}
		category, ok := m.currentCategory()
		if !ok {
			m.status = "create a category first (c)"
			return m, nil
		}
		content := m.formInputs[taskFieldContent].Value()
		m.resetInputMode()
		m.status = "creating task..."
		return m, func() tea.Msg {
			task, err := svc.CreateTask(context.Background(), app.CreateTaskInput{
				Title:      title,
				Content:    content,
				CategoryID: category.ID,
			})
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "task created", focusTaskID: task.ID}
		}

	case modeEditTask:
		title := strings.TrimSpace(m.formInputs[taskFieldTitle].Value())
		if title == "" {
			m.status = "title is required"
			return m, nil
		}
		taskID := m.editingTaskID
		task, ok := m.svc.FindTask(taskID)
		if !ok {
			m.resetInputMode()
			m.status = "task no longer exists"
			return m, nil
		}
		content := m.formInputs[taskFieldContent].Value()
		categoryID := task.CategoryID
		if m.formCategoryID != "" {
			categoryID = m.formCategoryID
		}
		m.resetInputMode()
		m.status = "saving task..."
		return m, func() tea.Msg {
			updated, err := svc.UpdateTask(context.Background(), app.UpdateTaskInput{
				ID:         taskID,
				Title:      title,
				Content:    content,
				CategoryID: categoryID,
			})
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "task saved", focusTaskID: updated.ID}
		}

	case modeAddCategory:
		name := strings.TrimSpace(m.formInputs[0].Value())
		if name == "" {
			m.status = "name is required"
			return m, nil
		}
		m.resetInputMode()
		m.status = "creating category..."
		return m, func() tea.Msg {
			if _, err := svc.CreateCategory(context.Background(), name); err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "category created", reload: true}
		}
	}
	return m, nil
}

// handleMouseWheel scrolls the task selection in the hovered-free way the
// rest of the board navigates, one row per notch.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNone || m.grabbing {
		return m, nil
	}
	tasks := m.columnTasks(columnStatus(m.selectedColumn))
	if len(tasks) == 0 {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		m.selectedTask = clamp(m.selectedTask-1, 0, len(tasks)-1)
	case tea.MouseWheelDown:
		m.selectedTask = clamp(m.selectedTask+1, 0, len(tasks)-1)
	}
	return m, nil
}

// View handles view.
func (m Model) View() tea.View {
	if m.err != nil {
		v := tea.NewView("error: " + m.err.Error() + "\n\npress r to retry • q quit\n")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}
	if !m.ready {
		v := tea.NewView("loading...")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	helpStyle := lipgloss.NewStyle().Foreground(muted)
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	if len(m.categories) == 0 {
		sections := []string{
			titleStyle.Render("todoban"),
			"",
			"No categories yet.",
			"Press c to create your first category.",
			"Press q to quit.",
		}
		if strings.TrimSpace(m.status) != "" && m.status != "ready" {
			sections = append(sections, "", statusStyle.Render(m.status))
		}
		return m.composeView(strings.Join(sections, "\n"), accent, muted, dim, helpStyle)
	}

	header := titleStyle.Render("todoban")
	if category, ok := m.currentCategory(); ok {
		header += "  " + category.Name
	}
	header += statusStyle.Render("  [" + m.modeLabel() + "]")
	if m.deleteModes.Active(deleteKindTask) {
		header += statusStyle.Render("  task delete mode")
	}
	if m.deleteModes.Active(deleteKindCategory) {
		header += statusStyle.Render("  category delete mode")
	}
	if m.grabbing {
		header += statusStyle.Render("  reordering")
	}
	tabs := m.renderCategoryTabs(accent, dim)

	colWidth := m.columnWidthFor(m.width)
	colHeight := m.columnHeight()
	baseColStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(1, 2).
		MarginRight(1).
		Width(colWidth)
	selColStyle := baseColStyle.Copy().BorderForeground(accent)
	colTitle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedTaskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	grabbedTaskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Underline(true)
	itemSubStyle := lipgloss.NewStyle().Foreground(muted)

	columnViews := make([]string, 0, len(domain.Statuses()))
	for colIdx, status := range domain.Statuses() {
		colTasks := m.columnTasks(status)
		headerLines := []string{colTitle.Render(fmt.Sprintf("%s (%d)", status.Label(), len(colTasks)))}

		taskLines := make([]string, 0, max(1, len(colTasks)*2))
		selectedStart := -1
		selectedEnd := -1

		if len(colTasks) == 0 {
			taskLines = append(taskLines, emptyStyle.Render("(empty)"))
		} else {
			for taskIdx, task := range colTasks {
				selected := colIdx == m.selectedColumn && taskIdx == m.selectedTask
				grabbed := selected && m.grabbing && status == m.grabStatus

				prefix := "   "
				switch {
				case grabbed:
					prefix = "│≡ "
				case selected:
					prefix = "│  "
				case m.deleteModes.Active(deleteKindTask):
					prefix = " ✗ "
				}
				title := prefix + truncate(task.Title, max(1, colWidth-10))
				switch {
				case grabbed:
					title = grabbedTaskStyle.Render(title)
				case selected:
					title = selectedTaskStyle.Render(title)
				}

				rowStart := len(taskLines)
				taskLines = append(taskLines, title)
				if sub := taskListSecondary(task); sub != "" {
					taskLines = append(taskLines, "   "+itemSubStyle.Render(truncate(sub, max(1, colWidth-10))))
				}
				if taskIdx < len(colTasks)-1 {
					taskLines = append(taskLines, "")
				}
				if selected {
					selectedStart = rowStart
					selectedEnd = len(taskLines) - 1
				}
			}
		}

		innerHeight := max(1, colHeight-4)
		taskWindowHeight := max(1, innerHeight-len(headerLines))
		scrollTop := 0
		if colIdx == m.selectedColumn && selectedStart >= 0 {
			if selectedEnd >= scrollTop+taskWindowHeight {
				scrollTop = selectedEnd - taskWindowHeight + 1
			}
			if selectedStart < scrollTop {
				scrollTop = selectedStart
			}
		}
		maxScrollTop := max(0, len(taskLines)-taskWindowHeight)
		scrollTop = clamp(scrollTop, 0, maxScrollTop)
		if len(taskLines) > taskWindowHeight {
			taskLines = taskLines[scrollTop : scrollTop+taskWindowHeight]
		}
		if len(taskLines) < taskWindowHeight {
			taskLines = append(taskLines, make([]string, taskWindowHeight-len(taskLines))...)
		}

		lines := append(append([]string{}, headerLines...), taskLines...)
		content := fitLines(strings.Join(lines, "\n"), innerHeight)
		if colIdx == m.selectedColumn {
			columnViews = append(columnViews, selColStyle.Render(content))
		} else {
			columnViews = append(columnViews, baseColStyle.Render(content))
		}
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)

	sections := []string{header}
	if tabs != "" {
		sections = append(sections, tabs)
	}
	sections = append(sections, "", body)
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	return m.composeView(strings.Join(sections, "\n"), accent, muted, dim, helpStyle)
}

// composeView stacks content above the help line and layers any modal
// overlay on top.
func (m Model) composeView(content string, accent, muted, dim color.Color, helpStyle lipgloss.Style) tea.View {
	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		helpHeight := lipgloss.Height(helpLine)
		content = fitLines(content, max(0, m.height-helpHeight))
	}

	fullContent := content + "\n" + helpLine
	if overlay := m.renderModeOverlay(accent, muted, helpStyle, m.width-8); overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}

	v := tea.NewView(fullContent)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// renderCategoryTabs renders the category tab row.
func (m Model) renderCategoryTabs(accent, dim color.Color) string {
	if len(m.categories) <= 1 {
		return ""
	}
	active := lipgloss.NewStyle().Bold(true).Foreground(accent)
	inactive := lipgloss.NewStyle().Foreground(dim)
	marked := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))

	parts := make([]string, 0, len(m.categories))
	for idx, category := range m.categories {
		label := category.Name
		switch {
		case idx == m.selectedCategory && m.deleteModes.Active(deleteKindCategory):
			parts = append(parts, marked.Render("[✗ "+label+"]"))
		case idx == m.selectedCategory:
			parts = append(parts, active.Render("["+label+"]"))
		default:
			parts = append(parts, inactive.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

// renderModeOverlay renders the modal for the current mode, or "" when the
// board is in normal mode.
func (m Model) renderModeOverlay(accent, muted color.Color, hintStyle lipgloss.Style, maxWidth int) string {
	switch m.mode {
	case modeConfirmAction:
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
		if maxWidth > 0 {
			style = style.Width(clamp(maxWidth, 36, 88))
		}
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
		target := strings.TrimSpace(m.pendingConfirm.Task.Title)
		if m.pendingConfirm.Kind == confirmDeleteCategory {
			target = strings.TrimSpace(m.pendingConfirm.Category.Name)
		}
		if target == "" {
			target = "(unknown)"
		}
		confirmStyle := lipgloss.NewStyle().Foreground(muted)
		cancelStyle := lipgloss.NewStyle().Foreground(muted)
		if m.confirmChoice == 0 {
			confirmStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
		} else {
			cancelStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
		}
		lines := []string{
			titleStyle.Render("Confirm Action"),
			fmt.Sprintf("%s: %s", m.pendingConfirm.Label, target),
		}
		if m.pendingConfirm.Kind == confirmDeleteCategory {
			lines = append(lines, hintStyle.Render("its tasks leave every view"))
		}
		lines = append(lines,
			confirmStyle.Render("[confirm]")+"  "+cancelStyle.Render("[cancel]"),
			hintStyle.Render("enter apply • esc cancel • h/l switch • y confirm • n cancel"),
		)
		return style.Render(strings.Join(lines, "\n"))

	case modeTaskInfo:
		task, ok := m.svc.FindTask(m.infoTaskID)
		if !ok {
			return ""
		}
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
		if maxWidth > 0 {
			style = style.Width(clamp(maxWidth, 32, 96))
		}
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
		lines := []string{
			titleStyle.Render(task.Title),
			hintStyle.Render("status: " + task.Status.Label() + "  category: " + m.categoryName(task.CategoryID)),
		}
		if rendered := m.renderContent(task.Content, clamp(maxWidth, 32, 96)-4); rendered != "" {
			lines = append(lines, "", rendered)
		}
		lines = append(lines, "", hintStyle.Render("esc close • y yank"))
		return style.Render(strings.Join(lines, "\n"))

	case modeCategoryPicker:
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
		if maxWidth > 0 {
			style = style.Width(clamp(maxWidth, 28, 64))
		}
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
		activeStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
		lines := []string{titleStyle.Render("Categories")}
		for idx, category := range m.categories {
			cursor := "  "
			label := fmt.Sprintf("%s (%d)", category.Name, len(m.svc.TasksForCategory(category.ID)))
			if idx == m.pickerIndex {
				cursor = "> "
				label = activeStyle.Render(label)
			}
			lines = append(lines, cursor+label)
		}
		lines = append(lines, hintStyle.Render("j/k navigate • enter select • esc close"))
		return style.Render(strings.Join(lines, "\n"))

	case modeAddTask, modeEditTask, modeAddCategory:
		boxStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 24, 96))
		}

		title := "New Task"
		hint := "enter save • esc cancel • tab next field"
		switch m.mode {
		case modeEditTask:
			title = "Edit Task"
			hint = "enter save • esc cancel • tab next field • h/l category"
		case modeAddCategory:
			title = "New Category"
			hint = "enter save • esc cancel"
		}

		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
		lines := []string{titleStyle.Render(title)}

		fieldWidth := max(18, maxWidth-28)
		for i, in := range m.formInputs {
			label := "name"
			if m.mode != modeAddCategory && i < len(taskFormFields) {
				label = taskFormFields[i]
			}
			labelStyle := lipgloss.NewStyle().Foreground(muted)
			if i == m.formFocus {
				labelStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
			}
			in.SetWidth(fieldWidth)
			lines = append(lines, labelStyle.Render(fmt.Sprintf("%-12s", label+":"))+" "+in.View())
		}
		if m.mode == modeEditTask && len(m.categories) > 0 {
			labelStyle := lipgloss.NewStyle().Foreground(muted)
			if m.formFocus >= len(m.formInputs) {
				labelStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
			}
			lines = append(lines, labelStyle.Render(fmt.Sprintf("%-12s", "category:"))+" ◂ "+m.categoryName(m.formCategoryID)+" ▸")
		}
		if m.mode == modeAddTask || m.mode == modeEditTask {
			lines = append(lines, m.renderCounterLine(hintStyle))
		}
		lines = append(lines, hintStyle.Render(hint))
		return boxStyle.Render(strings.Join(lines, "\n"))

	default:
		return ""
	}
}

// renderCounterLine renders the weighted length of the content field against
// its applicable limit.
func (m Model) renderCounterLine(hintStyle lipgloss.Style) string {
	content := m.formInputs[taskFieldContent].Value()
	count := m.counter.Count(content)
	limit := m.counter.Limit(content)
	line := fmt.Sprintf("%-12s %d/%d", "length:", count, limit)
	if count > limit {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")).Render(line + " over limit")
	}
	return hintStyle.Render(line)
}

// renderContent delegates to the shared markdown renderer. The renderer is
// cached per width on the model copy that rendered last.
func (m Model) renderContent(content string, width int) string {
	renderer := m.markdown
	return renderer.render(content, width)
}

func (m Model) categoryName(categoryID string) string {
	for _, category := range m.categories {
		if category.ID == categoryID {
			return category.Name
		}
	}
	return "(unknown)"
}

// taskListSecondary returns the one-line card subtitle.
func taskListSecondary(task domain.Task) string {
	content := strings.TrimSpace(task.Content)
	if content == "" {
		return ""
	}
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		content = content[:idx]
	}
	return content
}

// modeLabel returns the short mode tag shown in the header.
func (m Model) modeLabel() string {
	switch m.mode {
	case modeAddTask:
		return "add-task"
	case modeEditTask:
		return "edit-task"
	case modeAddCategory:
		return "add-category"
	case modeCategoryPicker:
		return "category-picker"
	case modeTaskInfo:
		return "task-info"
	case modeConfirmAction:
		return "confirm"
	default:
		if m.grabbing {
			return "reorder"
		}
		return "normal"
	}
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// columnWidthFor returns column width for the board width.
func (m Model) columnWidthFor(boardWidth int) int {
	columns := len(domain.Statuses())
	w := 28
	if boardWidth > 0 {
		// Per-column overhead: left/right border (2), horizontal padding (4), margin-right (1)
		const colOverhead = 7
		usable := boardWidth - columns*colOverhead
		candidate := usable / columns
		if candidate > 0 {
			w = candidate
		}
	}
	if w < 24 {
		return 24
	}
	if w > 42 {
		return 42
	}
	return w
}

// columnHeight returns column height.
func (m Model) columnHeight() int {
	headerLines := 3
	if len(m.categories) > 1 {
		headerLines++
	}
	footerLines := 4
	h := m.height - headerLines - footerLines
	if h < 14 {
		return 14
	}
	return h
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// max returns the larger of the provided values.
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
