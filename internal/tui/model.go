package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/hylla/tavla/internal/app"
	"github.com/hylla/tavla/internal/domain"
	"github.com/hylla/tavla/internal/drag"
	"github.com/hylla/tavla/internal/i18n"
)

// Service represents service data used by this package.
type Service interface {
	Tasks() []domain.Task
	Progress() domain.Progress
	Preferences() domain.Preferences
	DefaultStatus() domain.Status
	AddTask(context.Context, app.AddTaskInput) (app.Outcome, error)
	MoveTask(context.Context, app.MoveTaskInput) (app.Outcome, error)
	DeleteTask(context.Context, string) (app.Outcome, error)
	SetLanguage(context.Context, domain.Language) error
	ToggleTheme(context.Context) (domain.Theme, error)
	ListChangeEvents(context.Context, int) ([]domain.ChangeEvent, error)
}

// inputMode describes input mode.
type inputMode int

// modeNone and friends define the modal states of the board.
const (
	modeNone inputMode = iota
	modeAddTask
	modeLabelFilter
	modeTaskInfo
	modeActivityLog
)

// activityLogLimit caps how many change events the activity overlay loads.
const activityLogLimit = 50

// Model represents model data used by this package.
type Model struct {
	svc    Service
	ready  bool
	width  int
	height int
	err    error
	status string

	help help.Model
	keys keyMap

	board          BoardConfig
	deleteFade     time.Duration
	celebrationFor time.Duration
	copyText       func(string) error
	now            func() time.Time

	tasks    []domain.Task
	progress domain.Progress
	prefs    domain.Preferences
	filter   domain.Filter

	selectedColumn     int
	selectedTask       int
	pendingFocusTaskID string

	mode       inputMode
	input      textinput.Model
	addStatus  domain.Status
	infoTaskID string

	// fading holds tasks whose delete is waiting out the fade delay.
	fading map[string]struct{}

	drag      drag.Coordinator
	dragMoved bool

	celebrating        bool
	celebrationSeq     int
	celebrationPending bool

	activity    []domain.ChangeEvent
	activityErr error

	markdown *markdownRenderer
}

// loadedMsg carries message data through update handling.
type loadedMsg struct {
	tasks    []domain.Task
	progress domain.Progress
	prefs    domain.Preferences
}

// actionMsg carries message data through update handling.
type actionMsg struct {
	err         error
	status      string
	reload      bool
	focusTaskID string
	celebrate   bool
	clearFadeID string
}

// deleteFadeDoneMsg fires once a fading row may be removed.
type deleteFadeDoneMsg struct {
	taskID string
}

// celebrationDoneMsg hides the completion overlay it was scheduled for.
type celebrationDoneMsg struct {
	seq int
}

// activityLoadedMsg carries message data through update handling.
type activityLoadedMsg struct {
	events []domain.ChangeEvent
	err    error
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:            svc,
		status:         "loading...",
		help:           h,
		keys:           newKeyMap(),
		board:          DefaultBoardConfig(),
		deleteFade:     300 * time.Millisecond,
		celebrationFor: 3 * time.Second,
		copyText:       clipboard.WriteAll,
		now:            time.Now,
		prefs:          domain.DefaultPreferences(),
		fading:         map[string]struct{}{},
		markdown:       &markdownRenderer{},
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
		m.err = nil
		m.tasks = msg.tasks
		m.progress = msg.progress
		m.prefs = msg.prefs
		for taskID := range m.fading {
			if _, ok := m.taskByID(taskID); !ok {
				delete(m.fading, taskID)
			}
		}
		m.clampSelections()
		if m.pendingFocusTaskID != "" {
			m.focusTaskByID(m.pendingFocusTaskID)
			m.pendingFocusTaskID = ""
		}
		if m.status == "" || m.status == "loading..." {
			m.status = "ready"
		}
		if m.celebrationPending {
			m.celebrationPending = false
			return m, m.celebrationTimer()
		}
		return m, nil

	case actionMsg:
		if msg.clearFadeID != "" {
			delete(m.fading, msg.clearFadeID)
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.focusTaskID != "" {
			m.pendingFocusTaskID = msg.focusTaskID
		}
		if msg.celebrate {
			m.celebrating = true
			m.celebrationSeq++
			m.celebrationPending = true
		}
		if msg.reload {
			return m, m.loadData
		}
		if m.celebrationPending {
			m.celebrationPending = false
			return m, m.celebrationTimer()
		}
		return m, nil

	case deleteFadeDoneMsg:
		if _, ok := m.fading[msg.taskID]; !ok {
			return m, nil
		}
		return m, m.deleteTaskCmd(msg.taskID)

	case celebrationDoneMsg:
		if msg.seq == m.celebrationSeq {
			m.celebrating = false
		}
		return m, nil

	case activityLoadedMsg:
		m.activity = msg.events
		m.activityErr = msg.err
		return m, nil

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// loadData loads required data for the current operation.
func (m Model) loadData() tea.Msg {
	return loadedMsg{
		tasks:    m.svc.Tasks(),
		progress: m.svc.Progress(),
		prefs:    m.svc.Preferences(),
	}
}

// handleKey routes a key press to the active mode.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		switch {
		case key.Matches(msg, m.keys.reload):
			m.err = nil
			m.status = "reloading..."
			return m, m.loadData
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		}
		return m, nil
	}
	if m.celebrating {
		switch {
		case msg.String() == "enter", msg.String() == "esc", msg.String() == "space":
			m.celebrating = false
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.mode {
	case modeAddTask, modeLabelFilter:
		return m.handleInputModeKey(msg)
	case modeTaskInfo:
		if msg.String() == "esc" || msg.String() == "q" || key.Matches(msg, m.keys.taskInfo) {
			m.mode = modeNone
			m.infoTaskID = ""
		}
		return m, nil
	case modeActivityLog:
		if msg.String() == "esc" || msg.String() == "q" || key.Matches(msg, m.keys.activityLog) {
			m.mode = modeNone
		}
		return m, nil
	}

	if m.help.ShowAll {
		if msg.String() == "esc" || key.Matches(msg, m.keys.toggleHelp) {
			m.help.ShowAll = false
		}
		return m, nil
	}
	return m.handleNormalModeKey(msg)
}

// handleNormalModeKey handles normal mode key.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		if m.drag.Active() {
			m.drag.Cancel()
			m.dragMoved = false
			m.status = "drag cancelled"
		}
		return m, nil
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadData
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = true
		return m, nil
	case key.Matches(msg, m.keys.moveLeft):
		m.selectedColumn = clamp(m.selectedColumn-1, 0, len(domain.Statuses())-1)
		m.clampSelections()
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		m.selectedColumn = clamp(m.selectedColumn+1, 0, len(domain.Statuses())-1)
		m.clampSelections()
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selectedTask > 0 {
			m.selectedTask--
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		if m.selectedTask < len(m.currentColumnTasks())-1 {
			m.selectedTask++
		}
		return m, nil
	case key.Matches(msg, m.keys.addTask):
		return m, m.startAddTask(m.svc.DefaultStatus())
	case key.Matches(msg, m.keys.addInColumn):
		return m, m.startAddTask(m.currentStatus())
	case key.Matches(msg, m.keys.taskInfo):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.mode = modeTaskInfo
		m.infoTaskID = task.ID
		return m, nil
	case key.Matches(msg, m.keys.deleteTask):
		return m.beginDelete()
	case key.Matches(msg, m.keys.moveTaskLeft):
		return m.moveSelectedTask(-1)
	case key.Matches(msg, m.keys.moveTaskRight):
		return m.moveSelectedTask(1)
	case key.Matches(msg, m.keys.reorderUp):
		return m.reorderSelectedTask(-1)
	case key.Matches(msg, m.keys.reorderDown):
		return m.reorderSelectedTask(1)
	case key.Matches(msg, m.keys.statusFilter):
		m.filter.Status = nextFilterStatus(m.filter.Status)
		m.status = "filter: " + m.statusFilterLabel()
		m.clampSelections()
		return m, nil
	case key.Matches(msg, m.keys.labelFilter):
		return m, m.startLabelFilter()
	case key.Matches(msg, m.keys.clearFilter):
		m.filter = domain.Filter{}
		m.status = "filters cleared"
		m.clampSelections()
		return m, nil
	case key.Matches(msg, m.keys.language):
		return m, m.setLanguageCmd(m.prefs.Language.Next())
	case key.Matches(msg, m.keys.theme):
		return m, m.toggleThemeCmd()
	case key.Matches(msg, m.keys.copyText):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		if err := m.copyText(task.Text); err != nil {
			m.status = "copy failed: " + err.Error()
			return m, nil
		}
		m.status = "copied task text"
		return m, nil
	case key.Matches(msg, m.keys.activityLog):
		m.mode = modeActivityLog
		m.activity = nil
		m.activityErr = nil
		return m, m.loadActivity
	}
	return m, nil
}

// handleInputModeKey handles keys while a text input modal is open.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.input.Blur()
		m.status = "cancelled"
		return m, nil
	case "enter":
		value := m.input.Value()
		switch m.mode {
		case modeAddTask:
			text, labels := parseTaskInput(value)
			if text == "" {
				m.status = "task text required"
				return m, nil
			}
			status := m.addStatus
			m.mode = modeNone
			m.input.Blur()
			return m, m.addTaskCmd(app.AddTaskInput{Text: text, Status: status, Labels: labels})
		case modeLabelFilter:
			filter, err := domain.ParseFilter("", strings.TrimPrefix(strings.TrimSpace(value), "#"))
			if err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.filter.Label = filter.Label
			m.mode = modeNone
			m.input.Blur()
			if m.filter.Label == "" {
				m.status = "label filter cleared"
			} else {
				m.status = "label filter: #" + m.filter.Label
			}
			m.clampSelections()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startAddTask opens the add-task input for status.
func (m *Model) startAddTask(status domain.Status) tea.Cmd {
	m.mode = modeAddTask
	m.addStatus = status
	m.input = newModalInput("> ", i18n.T(m.prefs.Language, i18n.TaskInputPrompt), "", 240)
	return m.input.Focus()
}

// startLabelFilter opens the label filter input.
func (m *Model) startLabelFilter() tea.Cmd {
	m.mode = modeLabelFilter
	m.input = newModalInput("# ", i18n.T(m.prefs.Language, i18n.LabelInputPrompt), m.filter.Label, 64)
	return m.input.Focus()
}

// beginDelete starts the fade for the selected task, or deletes it at once when fading is off.
func (m Model) beginDelete() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTaskInCurrentColumn()
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	if _, fading := m.fading[task.ID]; fading {
		return m, nil
	}
	if m.deleteFade <= 0 {
		return m, m.deleteTaskCmd(task.ID)
	}
	m.fading[task.ID] = struct{}{}
	m.status = "deleting..."
	taskID := task.ID
	return m, tea.Tick(m.deleteFade, func(time.Time) tea.Msg {
		return deleteFadeDoneMsg{taskID: taskID}
	})
}

// moveSelectedTask moves the selected task one column in direction and appends it there.
func (m Model) moveSelectedTask(direction int) (tea.Model, tea.Cmd) {
	task, ok := m.selectedTaskInCurrentColumn()
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	target := task.Status.Next()
	if direction < 0 {
		target = task.Status.Prev()
	}
	if target == task.Status {
		m.status = "no column in that direction"
		return m, nil
	}
	return m, m.moveTaskCmd(task.ID, target, "")
}

// reorderSelectedTask swaps the selected task with its visible neighbour.
func (m Model) reorderSelectedTask(direction int) (tea.Model, tea.Cmd) {
	tasks := m.currentColumnTasks()
	if len(tasks) == 0 {
		m.status = "no task selected"
		return m, nil
	}
	idx := clamp(m.selectedTask, 0, len(tasks)-1)
	task := tasks[idx]
	var beforeID string
	switch {
	case direction < 0:
		if idx == 0 {
			m.status = "already first"
			return m, nil
		}
		beforeID = tasks[idx-1].ID
	default:
		if idx == len(tasks)-1 {
			m.status = "already last"
			return m, nil
		}
		if idx+2 < len(tasks) {
			beforeID = tasks[idx+2].ID
		}
	}
	return m, m.moveTaskCmd(task.ID, task.Status, beforeID)
}

// handleMouseWheel handles mouse wheel.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || m.mode != modeNone || m.celebrating {
		return m, nil
	}
	tasks := m.currentColumnTasks()
	if len(tasks) == 0 {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		if m.selectedTask > 0 {
			m.selectedTask--
		}
	case tea.MouseWheelDown:
		if m.selectedTask < len(tasks)-1 {
			m.selectedTask++
		}
	}
	return m, nil
}

// handleMouseClick selects the card under the pointer and starts a drag gesture on it.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.celebrating {
		m.celebrating = false
		return m, nil
	}
	if m.help.ShowAll || m.mode != modeNone || m.err != nil {
		return m, nil
	}
	if msg.Button != tea.MouseLeft {
		return m, nil
	}
	layout := m.boardLayout()
	col, ok := layout.columnAt(msg.X)
	if !ok {
		return m, nil
	}
	m.selectedColumn = col.index
	card, ok := col.cardAt(msg.Y)
	if !ok {
		m.clampSelections()
		return m, nil
	}
	m.selectedTask = card.index
	m.drag.Begin(card.task.ID, card.task.Status)
	m.dragMoved = false
	return m, nil
}

// handleMouseMotion tracks the column and insertion point under a dragged card.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if !m.drag.Active() {
		return m, nil
	}
	col, ok := m.boardLayout().columnAt(msg.X)
	if !ok {
		return m, nil
	}
	m.dragMoved = true
	m.drag.Over(col.status, col.boxes(), float64(msg.Y))
	target, _ := m.drag.Target()
	m.status = "move to " + i18n.StatusName(m.prefs.Language, target)
	return m, nil
}

// handleMouseRelease commits the drag gesture, if the pointer moved.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if !m.drag.Active() {
		return m, nil
	}
	if !m.dragMoved {
		m.drag.Cancel()
		return m, nil
	}
	layout := m.boardLayout()
	if col, ok := layout.columnAt(msg.X); ok {
		m.drag.Over(col.status, col.boxes(), float64(msg.Y))
	}
	drop, ok := m.drag.Drop()
	m.dragMoved = false
	if !ok {
		return m, nil
	}
	beforeID := drop.BeforeID
	if beforeID == "" {
		if col, ok := layout.column(drop.Status); ok {
			beforeID = col.firstHiddenAfter(drop.TaskID)
		}
	}
	return m, m.moveTaskCmd(drop.TaskID, drop.Status, beforeID)
}

// addTaskCmd adds a task through the service.
func (m Model) addTaskCmd(in app.AddTaskInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.svc.AddTask(context.Background(), in)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "task added", reload: true, focusTaskID: out.Task.ID, celebrate: out.Celebrate}
	}
}

// moveTaskCmd relocates a task through the service.
func (m Model) moveTaskCmd(taskID string, status domain.Status, beforeID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.svc.MoveTask(context.Background(), app.MoveTaskInput{
			TaskID:   taskID,
			Status:   status,
			BeforeID: beforeID,
		})
		if err != nil {
			return actionMsg{err: err}
		}
		if !out.Changed {
			return actionMsg{status: "no change"}
		}
		return actionMsg{status: "task moved", reload: true, focusTaskID: taskID, celebrate: out.Celebrate}
	}
}

// deleteTaskCmd removes a task through the service.
func (m Model) deleteTaskCmd(taskID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.svc.DeleteTask(context.Background(), taskID)
		if err != nil {
			return actionMsg{err: err, clearFadeID: taskID}
		}
		return actionMsg{status: "task deleted", reload: true, celebrate: out.Celebrate, clearFadeID: taskID}
	}
}

// setLanguageCmd persists a new interface language.
func (m Model) setLanguageCmd(lang domain.Language) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.SetLanguage(context.Background(), lang); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "language: " + string(lang), reload: true}
	}
}

// toggleThemeCmd flips and persists the theme.
func (m Model) toggleThemeCmd() tea.Cmd {
	return func() tea.Msg {
		theme, err := m.svc.ToggleTheme(context.Background())
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "theme: " + string(theme), reload: true}
	}
}

// loadActivity loads the recent change events.
func (m Model) loadActivity() tea.Msg {
	events, err := m.svc.ListChangeEvents(context.Background(), activityLogLimit)
	return activityLoadedMsg{events: events, err: err}
}

// celebrationTimer schedules the completion overlay to hide.
func (m Model) celebrationTimer() tea.Cmd {
	if m.celebrationFor <= 0 {
		return nil
	}
	seq := m.celebrationSeq
	return tea.Tick(m.celebrationFor, func(time.Time) tea.Msg {
		return celebrationDoneMsg{seq: seq}
	})
}

// currentStatus returns the status of the selected column.
func (m Model) currentStatus() domain.Status {
	statuses := domain.Statuses()
	return statuses[clamp(m.selectedColumn, 0, len(statuses)-1)]
}

// columnTasks returns the visible tasks for a column after filters.
func (m Model) columnTasks(status domain.Status) []domain.Task {
	if m.filter.Status != "" && m.filter.Status != status {
		return nil
	}
	return domain.FilterTasks(m.tasks, domain.Filter{Status: status, Label: m.filter.Label})
}

// currentColumnTasks returns the visible tasks of the selected column.
func (m Model) currentColumnTasks() []domain.Task {
	return m.columnTasks(m.currentStatus())
}

// selectedTaskInCurrentColumn returns the selected task, if any.
func (m Model) selectedTaskInCurrentColumn() (domain.Task, bool) {
	tasks := m.currentColumnTasks()
	if len(tasks) == 0 {
		return domain.Task{}, false
	}
	return tasks[clamp(m.selectedTask, 0, len(tasks)-1)], true
}

// taskByID finds a loaded task.
func (m Model) taskByID(taskID string) (domain.Task, bool) {
	for _, task := range m.tasks {
		if task.ID == taskID {
			return task, true
		}
	}
	return domain.Task{}, false
}

// focusTaskByID selects the column and row that show taskID.
func (m *Model) focusTaskByID(taskID string) bool {
	for colIdx, status := range domain.Statuses() {
		for taskIdx, task := range m.columnTasks(status) {
			if task.ID == taskID {
				m.selectedColumn = colIdx
				m.selectedTask = taskIdx
				return true
			}
		}
	}
	return false
}

// clampSelections clamps selections.
func (m *Model) clampSelections() {
	m.selectedColumn = clamp(m.selectedColumn, 0, len(domain.Statuses())-1)
	tasks := m.currentColumnTasks()
	if len(tasks) == 0 {
		m.selectedTask = 0
		return
	}
	m.selectedTask = clamp(m.selectedTask, 0, len(tasks)-1)
}

// statusFilterLabel returns the localized name of the active status filter.
func (m Model) statusFilterLabel() string {
	if m.filter.Status == "" {
		return i18n.T(m.prefs.Language, i18n.FilterAllStatuses)
	}
	return i18n.StatusName(m.prefs.Language, m.filter.Status)
}

// nextFilterStatus cycles all -> each status -> all.
func nextFilterStatus(current domain.Status) domain.Status {
	statuses := domain.Statuses()
	if current == "" {
		return statuses[0]
	}
	idx := current.Index()
	if idx < 0 || idx >= len(statuses)-1 {
		return ""
	}
	return statuses[idx+1]
}

// parseTaskInput splits "#label" words out of the add-task input.
func parseTaskInput(raw string) (string, []string) {
	fields := strings.Fields(raw)
	words := make([]string, 0, len(fields))
	var labels []string
	for _, field := range fields {
		if len(field) > 1 && strings.HasPrefix(field, "#") {
			labels = append(labels, strings.TrimPrefix(field, "#"))
			continue
		}
		words = append(words, field)
	}
	return strings.Join(words, " "), labels
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

// summarizeLabels summarizes labels.
func summarizeLabels(labels []string, maxLabels int) string {
	if len(labels) == 0 {
		return ""
	}
	if maxLabels <= 0 {
		maxLabels = 1
	}
	visible := labels
	extra := 0
	if len(labels) > maxLabels {
		visible = labels[:maxLabels]
		extra = len(labels) - maxLabels
	}
	joined := "#" + strings.Join(visible, ",#")
	if extra > 0 {
		joined += fmt.Sprintf("+%d", extra)
	}
	return joined
}
