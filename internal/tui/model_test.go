package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/hylla/tavla/internal/adapters/storage/memory"
	"github.com/hylla/tavla/internal/app"
	"github.com/hylla/tavla/internal/domain"
	"github.com/hylla/tavla/internal/i18n"
)

// failingStore rejects writes while writeErr is set.
type failingStore struct {
	*memory.Store
	writeErr error
}

func (f *failingStore) WriteSlot(ctx context.Context, key string, value []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.Store.WriteSlot(ctx, key, value)
}

func sequentialIDs() app.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func testClock() app.Clock {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newTestService(t *testing.T, store app.SlotStore) *app.Service {
	t.Helper()
	svc := app.NewService(store, sequentialIDs(), testClock(), app.ServiceConfig{})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return svc
}

func seedTask(t *testing.T, svc *app.Service, text string, status domain.Status, labels ...string) domain.Task {
	t.Helper()
	out, err := svc.AddTask(context.Background(), app.AddTaskInput{Text: text, Status: status, Labels: labels})
	if err != nil {
		t.Fatalf("AddTask(%q) error = %v", text, err)
	}
	return out.Task
}

func newTestModel(svc Service, opts ...Option) Model {
	base := []Option{
		WithDeleteFade(0),
		WithCelebrationDuration(0),
		WithClipboard(func(string) error { return nil }),
	}
	return NewModel(svc, append(base, opts...)...)
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 120, Height: 40})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

// updateOnly applies msg without running the returned command.
func updateOnly(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return out, cmd
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func keyEnter() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

func keyEsc() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEscape}
}

func columnIDs(tasks []domain.Task, status domain.Status) []string {
	out := []string{}
	for _, task := range domain.TasksWithStatus(tasks, status) {
		out = append(out, task.ID)
	}
	return out
}

func TestModelLoadAndNavigation(t *testing.T) {
	svc := newTestService(t, memory.New())
	seedTask(t, svc, "write outline", domain.StatusNotStarted)
	seedTask(t, svc, "draft intro", domain.StatusNotStarted)
	seedTask(t, svc, "review notes", domain.StatusInProgress)

	m := loadReadyModel(t, newTestModel(svc))
	if !m.ready || m.status != "ready" {
		t.Fatalf("expected ready model, got ready=%v status=%q", m.ready, m.status)
	}
	if len(m.tasks) != 3 || m.progress.Total != 3 {
		t.Fatalf("unexpected loaded board tasks=%d progress=%#v", len(m.tasks), m.progress)
	}

	m = applyMsg(t, m, keyRune('j'))
	if m.selectedTask != 1 {
		t.Fatalf("expected second task selected, got %d", m.selectedTask)
	}
	m = applyMsg(t, m, keyRune('j'))
	if m.selectedTask != 1 {
		t.Fatalf("expected selection clamped at last task, got %d", m.selectedTask)
	}
	m = applyMsg(t, m, keyRune('l'))
	if m.selectedColumn != 1 || m.selectedTask != 0 {
		t.Fatalf("expected in-progress column, got col=%d task=%d", m.selectedColumn, m.selectedTask)
	}
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, keyRune('l'))
	if m.selectedColumn != 2 {
		t.Fatalf("expected column clamped at completed, got %d", m.selectedColumn)
	}

	out := m.render()
	for _, want := range []string{"未着手", "進行中", "完了", "write outline", "review notes"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected view to contain %q\n%s", want, out)
		}
	}
}

func TestModelAddTask(t *testing.T) {
	svc := newTestService(t, memory.New())
	m := loadReadyModel(t, newTestModel(svc))

	m, _ = updateOnly(t, m, keyRune('n'))
	if m.mode != modeAddTask || m.addStatus != domain.StatusNotStarted {
		t.Fatalf("expected add mode for default status, got mode=%v status=%q", m.mode, m.addStatus)
	}
	m.input.SetValue("buy milk #Home #errands")
	m = applyMsg(t, m, keyEnter())
	if m.mode != modeNone {
		t.Fatalf("expected add mode closed, got %v", m.mode)
	}

	tasks := svc.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Text != "buy milk" || tasks[0].Status != domain.StatusNotStarted {
		t.Fatalf("unexpected task %#v", tasks[0])
	}
	if got := strings.Join(tasks[0].Labels, ","); got != "errands,home" {
		t.Fatalf("unexpected labels %q", got)
	}
	if m.status != "task added" || len(m.tasks) != 1 {
		t.Fatalf("expected reloaded board, got status=%q tasks=%d", m.status, len(m.tasks))
	}
}

func TestModelAddTaskInColumnAndRejectEmpty(t *testing.T) {
	svc := newTestService(t, memory.New())
	m := loadReadyModel(t, newTestModel(svc))

	m = applyMsg(t, m, keyRune('l'))
	m, _ = updateOnly(t, m, keyRune('a'))
	if m.addStatus != domain.StatusInProgress {
		t.Fatalf("expected in-progress add status, got %q", m.addStatus)
	}
	m.input.SetValue("   #only-label ")
	m = applyMsg(t, m, keyEnter())
	if m.mode != modeAddTask || m.status != "task text required" {
		t.Fatalf("expected empty text rejected, got mode=%v status=%q", m.mode, m.status)
	}
	if len(svc.Tasks()) != 0 {
		t.Fatalf("expected no task persisted, got %d", len(svc.Tasks()))
	}

	m.input.SetValue("pair on parser")
	m = applyMsg(t, m, keyEnter())
	tasks := svc.Tasks()
	if len(tasks) != 1 || tasks[0].Status != domain.StatusInProgress {
		t.Fatalf("expected one in-progress task, got %#v", tasks)
	}
	if m.selectedColumn != 1 || m.selectedTask != 0 {
		t.Fatalf("expected focus on new task, got col=%d task=%d", m.selectedColumn, m.selectedTask)
	}

	m, _ = updateOnly(t, m, keyRune('n'))
	m = applyMsg(t, m, keyEsc())
	if m.mode != modeNone || m.status != "cancelled" {
		t.Fatalf("expected cancelled add, got mode=%v status=%q", m.mode, m.status)
	}
}

func TestModelMoveTaskAcrossColumns(t *testing.T) {
	svc := newTestService(t, memory.New())
	first := seedTask(t, svc, "first", domain.StatusNotStarted)
	second := seedTask(t, svc, "second", domain.StatusNotStarted)
	m := loadReadyModel(t, newTestModel(svc))

	m = applyMsg(t, m, keyRune('['))
	if m.status != "no column in that direction" {
		t.Fatalf("expected edge status, got %q", m.status)
	}

	m = applyMsg(t, m, keyRune(']'))
	task, err := svc.Task(first.ID)
	if err != nil {
		t.Fatalf("Task() error = %v", err)
	}
	if task.Status != domain.StatusInProgress {
		t.Fatalf("expected in_progress, got %q", task.Status)
	}
	if other, _ := svc.Task(second.ID); other.Status != domain.StatusNotStarted {
		t.Fatalf("expected other task untouched, got %q", other.Status)
	}
	if m.selectedColumn != 1 || m.selectedTask != 0 {
		t.Fatalf("expected focus to follow task, got col=%d task=%d", m.selectedColumn, m.selectedTask)
	}
}

func TestModelReorderWithinColumn(t *testing.T) {
	svc := newTestService(t, memory.New())
	a := seedTask(t, svc, "a", domain.StatusNotStarted)
	b := seedTask(t, svc, "b", domain.StatusNotStarted)
	c := seedTask(t, svc, "c", domain.StatusNotStarted)
	m := loadReadyModel(t, newTestModel(svc))

	m = applyMsg(t, m, keyRune('J'))
	if got := strings.Join(columnIDs(svc.Tasks(), domain.StatusNotStarted), ","); got != b.ID+","+a.ID+","+c.ID {
		t.Fatalf("unexpected order after reorder down %q", got)
	}
	if m.selectedTask != 1 {
		t.Fatalf("expected selection to follow task, got %d", m.selectedTask)
	}

	m = applyMsg(t, m, keyRune('J'))
	if got := strings.Join(columnIDs(svc.Tasks(), domain.StatusNotStarted), ","); got != b.ID+","+c.ID+","+a.ID {
		t.Fatalf("unexpected order after reorder to end %q", got)
	}
	m = applyMsg(t, m, keyRune('J'))
	if m.status != "already last" {
		t.Fatalf("expected already last, got %q", m.status)
	}

	m = applyMsg(t, m, keyRune('K'))
	if got := strings.Join(columnIDs(svc.Tasks(), domain.StatusNotStarted), ","); got != b.ID+","+a.ID+","+c.ID {
		t.Fatalf("unexpected order after reorder up %q", got)
	}
}

func TestModelDeleteImmediately(t *testing.T) {
	svc := newTestService(t, memory.New())
	keep := seedTask(t, svc, "keep", domain.StatusNotStarted)
	drop := seedTask(t, svc, "drop", domain.StatusNotStarted)
	m := loadReadyModel(t, newTestModel(svc))

	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, keyRune('d'))
	tasks := svc.Tasks()
	if len(tasks) != 1 || tasks[0].ID != keep.ID {
		t.Fatalf("expected only %q left, got %#v", keep.ID, tasks)
	}
	if _, ok := m.taskByID(drop.ID); ok {
		t.Fatal("expected deleted task gone from model")
	}
	if m.selectedTask != 0 {
		t.Fatalf("expected selection clamped, got %d", m.selectedTask)
	}
}

func TestModelDeleteFadesBeforeRemoving(t *testing.T) {
	svc := newTestService(t, memory.New())
	task := seedTask(t, svc, "fade me", domain.StatusNotStarted)
	m := loadReadyModel(t, newTestModel(svc, WithDeleteFade(time.Hour)))

	m, cmd := updateOnly(t, m, keyRune('d'))
	if cmd == nil {
		t.Fatal("expected fade timer command")
	}
	if _, ok := m.fading[task.ID]; !ok {
		t.Fatal("expected task to be fading")
	}
	if len(svc.Tasks()) != 1 {
		t.Fatal("expected task kept during fade")
	}
	m, cmd = updateOnly(t, m, keyRune('d'))
	if cmd != nil {
		t.Fatal("expected repeated delete ignored while fading")
	}

	m = applyMsg(t, m, deleteFadeDoneMsg{taskID: task.ID})
	if len(svc.Tasks()) != 0 {
		t.Fatalf("expected task deleted after fade, got %d", len(svc.Tasks()))
	}
	if len(m.fading) != 0 {
		t.Fatalf("expected fade state cleared, got %#v", m.fading)
	}

	m = applyMsg(t, m, deleteFadeDoneMsg{taskID: "unknown"})
	if m.err != nil {
		t.Fatalf("expected stale fade ignored, got %v", m.err)
	}
}

func TestModelCelebratesWhenAllTasksComplete(t *testing.T) {
	svc := newTestService(t, memory.New())
	seedTask(t, svc, "ship it", domain.StatusInProgress)
	m := loadReadyModel(t, newTestModel(svc))

	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, keyRune(']'))
	if !m.celebrating {
		t.Fatal("expected celebration after last task completed")
	}
	overlay := m.renderOverlay(paletteFor(m.prefs.Theme), 80)
	for _, want := range []string{
		i18n.T(domain.LanguageJapanese, i18n.CompletionMessage),
		i18n.T(domain.LanguageJapanese, i18n.CompletionContinue),
	} {
		if !strings.Contains(overlay, want) {
			t.Fatalf("expected celebration overlay to contain %q\n%s", want, overlay)
		}
	}

	m = applyMsg(t, m, keyRune('j'))
	if !m.celebrating {
		t.Fatal("expected board keys blocked while celebrating")
	}
	m = applyMsg(t, m, keyEnter())
	if m.celebrating {
		t.Fatal("expected continue to dismiss celebration")
	}

	m = applyMsg(t, m, keyRune('['))
	if m.celebrating {
		t.Fatal("expected no celebration when reopening a task")
	}
}

func TestModelCelebrationTimerHidesOverlay(t *testing.T) {
	svc := newTestService(t, memory.New())
	m := loadReadyModel(t, newTestModel(svc, WithCelebrationDuration(time.Hour)))

	m, _ = updateOnly(t, m, actionMsg{celebrate: true})
	if !m.celebrating || m.celebrationSeq != 1 {
		t.Fatalf("expected first celebration, got celebrating=%v seq=%d", m.celebrating, m.celebrationSeq)
	}
	m, _ = updateOnly(t, m, celebrationDoneMsg{seq: 0})
	if !m.celebrating {
		t.Fatal("expected stale timer ignored")
	}
	m, _ = updateOnly(t, m, celebrationDoneMsg{seq: 1})
	if m.celebrating {
		t.Fatal("expected matching timer to hide celebration")
	}
}

func TestModelDragMovesTaskBeforeHoveredCard(t *testing.T) {
	svc := newTestService(t, memory.New())
	a := seedTask(t, svc, "a", domain.StatusNotStarted)
	b := seedTask(t, svc, "b", domain.StatusNotStarted)
	c := seedTask(t, svc, "c", domain.StatusInProgress)
	m := loadReadyModel(t, newTestModel(svc))

	layout := m.boardLayout()
	todo := layout.columns[0]
	doing := layout.columns[1]
	if len(todo.cards) != 2 || len(doing.cards) != 1 {
		t.Fatalf("unexpected layout cards todo=%d doing=%d", len(todo.cards), len(doing.cards))
	}
	cardA := todo.cards[0]
	cardC := doing.cards[0]

	m = applyMsg(t, m, tea.MouseClickMsg{X: todo.x0 + 2, Y: cardA.top, Button: tea.MouseLeft})
	if !m.drag.Active() || m.drag.TaskID() != a.ID {
		t.Fatalf("expected drag of %q to start", a.ID)
	}
	m = applyMsg(t, m, tea.MouseMotionMsg{X: doing.x0 + 2, Y: cardC.top, Button: tea.MouseLeft})
	if target, beforeID := m.drag.Target(); target != domain.StatusInProgress || beforeID != c.ID {
		t.Fatalf("unexpected drag target %q before %q", target, beforeID)
	}
	m = applyMsg(t, m, tea.MouseReleaseMsg{X: doing.x0 + 2, Y: cardC.top, Button: tea.MouseLeft})
	if m.drag.Active() {
		t.Fatal("expected drag finished")
	}

	tasks := svc.Tasks()
	if got := strings.Join(columnIDs(tasks, domain.StatusInProgress), ","); got != a.ID+","+c.ID {
		t.Fatalf("unexpected in-progress order %q", got)
	}
	if got := strings.Join(columnIDs(tasks, domain.StatusNotStarted), ","); got != b.ID {
		t.Fatalf("unexpected not-started column %q", got)
	}
	if m.selectedColumn != 1 || m.selectedTask != 0 {
		t.Fatalf("expected focus on dropped task, got col=%d task=%d", m.selectedColumn, m.selectedTask)
	}
}

func TestModelDragBelowLastCardAppends(t *testing.T) {
	svc := newTestService(t, memory.New())
	a := seedTask(t, svc, "a", domain.StatusNotStarted)
	c := seedTask(t, svc, "c", domain.StatusCompleted)
	m := loadReadyModel(t, newTestModel(svc))

	layout := m.boardLayout()
	todo := layout.columns[0]
	done := layout.columns[2]
	below := done.cards[0].top + 5

	m = applyMsg(t, m, tea.MouseClickMsg{X: todo.x0 + 1, Y: todo.cards[0].top, Button: tea.MouseLeft})
	m = applyMsg(t, m, tea.MouseMotionMsg{X: done.x0 + 1, Y: below, Button: tea.MouseLeft})
	m = applyMsg(t, m, tea.MouseReleaseMsg{X: done.x0 + 1, Y: below, Button: tea.MouseLeft})

	if got := strings.Join(columnIDs(svc.Tasks(), domain.StatusCompleted), ","); got != c.ID+","+a.ID {
		t.Fatalf("unexpected completed order %q", got)
	}
	if !m.celebrating {
		t.Fatal("expected celebration once every task is completed by drag")
	}
}

func TestModelDragBelowOwnLastCardChangesNothing(t *testing.T) {
	svc := newTestService(t, memory.New())
	a := seedTask(t, svc, "a", domain.StatusNotStarted)
	b := seedTask(t, svc, "b", domain.StatusNotStarted)
	c := seedTask(t, svc, "c", domain.StatusCompleted)
	m := loadReadyModel(t, newTestModel(svc))

	todo := m.boardLayout().columns[0]
	below := todo.cards[1].top + 5

	m = applyMsg(t, m, tea.MouseClickMsg{X: todo.x0 + 1, Y: todo.cards[1].top, Button: tea.MouseLeft})
	m = applyMsg(t, m, tea.MouseMotionMsg{X: todo.x0 + 1, Y: below, Button: tea.MouseLeft})
	m = applyMsg(t, m, tea.MouseReleaseMsg{X: todo.x0 + 1, Y: below, Button: tea.MouseLeft})

	if m.err != nil {
		t.Fatalf("unexpected error %v", m.err)
	}
	if m.status != "no change" {
		t.Fatalf("expected no change status, got %q", m.status)
	}
	var ids []string
	for _, task := range svc.Tasks() {
		ids = append(ids, task.ID)
	}
	if got := strings.Join(ids, ","); got != a.ID+","+b.ID+","+c.ID {
		t.Fatalf("expected stored order untouched, got %q", got)
	}
}

func TestModelClickWithoutDragOnlySelects(t *testing.T) {
	svc := newTestService(t, memory.New())
	seedTask(t, svc, "a", domain.StatusNotStarted)
	seedTask(t, svc, "b", domain.StatusNotStarted)
	m := loadReadyModel(t, newTestModel(svc))
	before := svc.Tasks()

	col := m.boardLayout().columns[0]
	m = applyMsg(t, m, tea.MouseClickMsg{X: col.x0 + 2, Y: col.cards[1].top, Button: tea.MouseLeft})
	if m.selectedTask != 1 {
		t.Fatalf("expected click to select second task, got %d", m.selectedTask)
	}
	m = applyMsg(t, m, tea.MouseReleaseMsg{X: col.x0 + 2, Y: col.cards[1].top, Button: tea.MouseLeft})
	if m.drag.Active() {
		t.Fatal("expected gesture cleared")
	}
	after := svc.Tasks()
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Status != after[i].Status {
			t.Fatalf("expected board unchanged, got %#v", after)
		}
	}

	m = applyMsg(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelUp})
	if m.selectedTask != 0 {
		t.Fatalf("expected wheel up to select first task, got %d", m.selectedTask)
	}
}

func TestModelEscCancelsDrag(t *testing.T) {
	svc := newTestService(t, memory.New())
	seedTask(t, svc, "a", domain.StatusNotStarted)
	m := loadReadyModel(t, newTestModel(svc))

	layout := m.boardLayout()
	col := layout.columns[0]
	m = applyMsg(t, m, tea.MouseClickMsg{X: col.x0 + 2, Y: col.cards[0].top, Button: tea.MouseLeft})
	m = applyMsg(t, m, tea.MouseMotionMsg{X: layout.columns[1].x0 + 2, Y: col.cards[0].top, Button: tea.MouseLeft})
	m = applyMsg(t, m, keyEsc())
	if m.drag.Active() || m.status != "drag cancelled" {
		t.Fatalf("expected drag cancelled, got active=%v status=%q", m.drag.Active(), m.status)
	}
	m = applyMsg(t, m, tea.MouseReleaseMsg{X: layout.columns[1].x0 + 2, Y: col.cards[0].top, Button: tea.MouseLeft})
	if svc.Tasks()[0].Status != domain.StatusNotStarted {
		t.Fatal("expected cancelled drag not to move the task")
	}
}

func TestModelFilters(t *testing.T) {
	svc := newTestService(t, memory.New())
	seedTask(t, svc, "home chore", domain.StatusNotStarted, "home")
	seedTask(t, svc, "work item", domain.StatusNotStarted, "work")
	seedTask(t, svc, "home repair", domain.StatusInProgress, "home")
	m := loadReadyModel(t, newTestModel(svc))

	m = applyMsg(t, m, keyRune('f'))
	if m.filter.Status != domain.StatusNotStarted {
		t.Fatalf("expected not_started filter, got %q", m.filter.Status)
	}
	if got := len(m.columnTasks(domain.StatusInProgress)); got != 0 {
		t.Fatalf("expected other columns hidden, got %d", got)
	}

	m, _ = updateOnly(t, m, keyRune('#'))
	if m.mode != modeLabelFilter {
		t.Fatalf("expected label filter mode, got %v", m.mode)
	}
	m.input.SetValue("#HOME")
	m = applyMsg(t, m, keyEnter())
	if m.filter.Label != "home" || m.status != "label filter: #home" {
		t.Fatalf("unexpected label filter %q status %q", m.filter.Label, m.status)
	}
	visible := m.columnTasks(domain.StatusNotStarted)
	if len(visible) != 1 || visible[0].Text != "home chore" {
		t.Fatalf("expected intersection of status and label, got %#v", visible)
	}

	for range 3 {
		m = applyMsg(t, m, keyRune('f'))
	}
	if m.filter.Status != "" {
		t.Fatalf("expected status filter to cycle back to all, got %q", m.filter.Status)
	}
	if got := len(m.columnTasks(domain.StatusInProgress)); got != 1 {
		t.Fatalf("expected labelled in-progress task visible, got %d", got)
	}

	m = applyMsg(t, m, keyRune('F'))
	if !m.filter.IsZero() {
		t.Fatalf("expected filters cleared, got %#v", m.filter)
	}
}

func TestModelLanguageAndThemePersist(t *testing.T) {
	svc := newTestService(t, memory.New())
	m := loadReadyModel(t, newTestModel(svc))

	m = applyMsg(t, m, keyRune('L'))
	if m.prefs.Language != domain.LanguageEnglish || svc.Preferences().Language != domain.LanguageEnglish {
		t.Fatalf("expected english, got model=%q svc=%q", m.prefs.Language, svc.Preferences().Language)
	}
	if out := m.render(); !strings.Contains(out, "To Do") || !strings.Contains(out, "Todo App") {
		t.Fatalf("expected english board chrome\n%s", out)
	}

	m = applyMsg(t, m, keyRune('T'))
	if m.prefs.Theme != domain.ThemeDark || svc.Preferences().Theme != domain.ThemeDark {
		t.Fatalf("expected dark theme, got model=%q svc=%q", m.prefs.Theme, svc.Preferences().Theme)
	}
	if m.status != "theme: dark" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelCopyTaskText(t *testing.T) {
	svc := newTestService(t, memory.New())
	seedTask(t, svc, "copy me", domain.StatusNotStarted)
	var copied string
	m := loadReadyModel(t, newTestModel(svc, WithClipboard(func(text string) error {
		copied = text
		return nil
	})))

	m = applyMsg(t, m, keyRune('y'))
	if copied != "copy me" || m.status != "copied task text" {
		t.Fatalf("unexpected copy result copied=%q status=%q", copied, m.status)
	}

	m = loadReadyModel(t, newTestModel(svc, WithClipboard(func(string) error {
		return errors.New("no display")
	})))
	m = applyMsg(t, m, keyRune('y'))
	if m.status != "copy failed: no display" {
		t.Fatalf("unexpected copy failure status %q", m.status)
	}
}

func TestModelTaskInfoAndActivity(t *testing.T) {
	svc := newTestService(t, memory.New())
	seedTask(t, svc, "inspect me", domain.StatusNotStarted)
	m := loadReadyModel(t, newTestModel(svc))

	m = applyMsg(t, m, keyRune('i'))
	if m.mode != modeTaskInfo || m.infoTaskID == "" {
		t.Fatalf("expected task info mode, got %v", m.mode)
	}
	m = applyMsg(t, m, keyEsc())
	if m.mode != modeNone {
		t.Fatalf("expected info closed, got %v", m.mode)
	}

	m = applyMsg(t, m, keyRune('g'))
	if m.mode != modeActivityLog || !errors.Is(m.activityErr, app.ErrActivityUnavailable) {
		t.Fatalf("expected unavailable activity log, got mode=%v err=%v", m.mode, m.activityErr)
	}
	overlay := m.renderOverlay(paletteFor(m.prefs.Theme), 80)
	if !strings.Contains(overlay, i18n.T(domain.LanguageJapanese, i18n.ActivityUnavailable)) {
		t.Fatalf("expected unavailable message\n%s", overlay)
	}
	m = applyMsg(t, m, keyRune('g'))
	if m.mode != modeNone {
		t.Fatalf("expected activity closed, got %v", m.mode)
	}
}

func TestModelActionErrorAndRetry(t *testing.T) {
	store := &failingStore{Store: memory.New()}
	svc := newTestService(t, store)
	seedTask(t, svc, "stuck", domain.StatusNotStarted)
	m := loadReadyModel(t, newTestModel(svc))

	store.writeErr = errors.New("disk full")
	m = applyMsg(t, m, keyRune(']'))
	if m.err == nil || !strings.Contains(m.render(), "disk full") {
		t.Fatalf("expected error view, got err=%v", m.err)
	}
	if svc.Tasks()[0].Status != domain.StatusNotStarted {
		t.Fatal("expected failed move to leave the board untouched")
	}

	m = applyMsg(t, m, keyRune('j'))
	if m.err == nil {
		t.Fatal("expected board keys ignored on error screen")
	}
	m = applyMsg(t, m, keyRune('r'))
	if m.err != nil {
		t.Fatalf("expected retry to clear error, got %v", m.err)
	}
}

func TestModelHelpAndQuit(t *testing.T) {
	svc := newTestService(t, memory.New())
	m := loadReadyModel(t, newTestModel(svc))

	m = applyMsg(t, m, keyRune('?'))
	if !m.help.ShowAll {
		t.Fatal("expected help overlay")
	}
	if overlay := m.renderOverlay(paletteFor(m.prefs.Theme), 100); !strings.Contains(overlay, "drag a task") {
		t.Fatalf("expected mouse help in overlay\n%s", overlay)
	}
	m = applyMsg(t, m, keyRune('?'))
	if m.help.ShowAll {
		t.Fatal("expected help closed")
	}

	_, cmd := updateOnly(t, m, keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestModelViewStates(t *testing.T) {
	svc := newTestService(t, memory.New())
	m := newTestModel(svc)
	if got := m.render(); got != "loading..." {
		t.Fatalf("expected loading view, got %q", got)
	}
	v := m.View()
	if v.MouseMode != tea.MouseModeCellMotion || !v.AltScreen {
		t.Fatal("expected mouse and alt screen enabled")
	}

	m = loadReadyModel(t, m)
	if out := m.render(); !strings.Contains(out, i18n.T(domain.LanguageJapanese, i18n.TaskEmpty)) {
		t.Fatalf("expected empty column placeholder\n%s", out)
	}
}

func TestBoardConfigAffectsCards(t *testing.T) {
	svc := newTestService(t, memory.New())
	if _, err := svc.AddTask(context.Background(), app.AddTaskInput{
		Text:        "with details",
		Description: "first line\nsecond line",
		Labels:      []string{"alpha"},
	}); err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}

	m := loadReadyModel(t, newTestModel(svc))
	task := m.tasks[0]
	if got := m.cardDetail(task); got != "#alpha" {
		t.Fatalf("unexpected default card detail %q", got)
	}
	if m.cardHeight(task) != 2 {
		t.Fatalf("expected two-line card, got %d", m.cardHeight(task))
	}

	m = loadReadyModel(t, newTestModel(svc, WithBoardConfig(BoardConfig{ShowDescription: true})))
	if got := m.cardDetail(task); got != "first line" {
		t.Fatalf("unexpected description detail %q", got)
	}
	if out := m.render(); strings.Contains(out, "[█") || strings.Contains(out, "░") {
		t.Fatalf("expected progress bar hidden\n%s", out)
	}

	m = loadReadyModel(t, newTestModel(svc, WithBoardConfig(BoardConfig{})))
	if m.cardHeight(task) != 1 {
		t.Fatalf("expected single-line card, got %d", m.cardHeight(task))
	}
}

func TestHelpers(t *testing.T) {
	text, labels := parseTaskInput("  plan #Trip sprint # #q3 ")
	if text != "plan sprint #" || strings.Join(labels, ",") != "Trip,q3" {
		t.Fatalf("unexpected parse text=%q labels=%#v", text, labels)
	}

	if got := nextFilterStatus(""); got != domain.StatusNotStarted {
		t.Fatalf("unexpected first filter %q", got)
	}
	if got := nextFilterStatus(domain.StatusCompleted); got != "" {
		t.Fatalf("expected cycle back to all, got %q", got)
	}

	if got := windowStart([]int{0, 2, 4}, []int{1, 1, 1}, 2, 3); got != 2 {
		t.Fatalf("unexpected window start %d", got)
	}
	if got := windowStart([]int{0, 2}, []int{1, 1}, 1, 10); got != 0 {
		t.Fatalf("unexpected unscrolled window start %d", got)
	}

	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("unexpected truncate %q", got)
	}
	if got := summarizeLabels([]string{"a", "b", "c"}, 2); got != "#a,#b+1" {
		t.Fatalf("unexpected labels summary %q", got)
	}
	if got := fitLines("a\nb\nc", 2); got != "a\n…" {
		t.Fatalf("unexpected fitLines %q", got)
	}
	if got := clamp(5, 0, 3); got != 3 {
		t.Fatalf("unexpected clamp %d", got)
	}
}

func TestTaskMarkdown(t *testing.T) {
	created := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	task := domain.Task{
		ID:          "t1",
		Text:        "Write docs",
		Description: "cover the CLI",
		Status:      domain.StatusInProgress,
		Labels:      []string{"docs", "cli"},
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Minute),
	}
	md := taskMarkdown(task, domain.LanguageEnglish, created.Add(3*time.Minute))
	for _, want := range []string{"# Write docs", "cover the CLI", "In Progress", "#docs #cli", "3 minutes ago", "2 minutes ago", "`t1`"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected markdown to contain %q\n%s", want, md)
		}
	}
}
