package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"
	"github.com/hylla/tavla/internal/domain"
	"github.com/hylla/tavla/internal/drag"
	"github.com/hylla/tavla/internal/i18n"
)

// columnChromeLines counts the title and rule rows above the first card.
const columnChromeLines = 2

// boardLayout is the screen geometry shared by rendering and mouse hit testing.
type boardLayout struct {
	top        int
	outerWidth int
	textWidth  int
	rows       int
	columns    []columnLayout
}

// columnLayout describes one status column on screen.
type columnLayout struct {
	index  int
	status domain.Status
	x0, x1 int
	tasks  []domain.Task
	// scroll is the first task row shown in the card window.
	scroll int
	cards  []cardLayout
	// hiddenAfter lists tasks below the card window, in order.
	hiddenAfter []string
}

// cardLayout places one task card. top is a screen row.
type cardLayout struct {
	task   domain.Task
	index  int
	offset int
	top    int
	height int
}

// columnStyle returns the base column style so layout and rendering measure the same box.
func (m Model) columnStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		MarginRight(1).
		Width(width)
}

// columnWidthFor returns the column width for the terminal width.
func (m Model) columnWidthFor(boardWidth int) int {
	if boardWidth <= 0 {
		return 28
	}
	return clamp(boardWidth/len(domain.Statuses())-3, 18, 56)
}

// boardTop returns the first screen row of the columns.
func (m Model) boardTop() int {
	return len(m.headerLines())
}

// columnHeight returns the number of rows inside a column border.
func (m Model) columnHeight() int {
	// status line + help line with its top border
	footer := 3
	rows := m.height - m.boardTop() - footer - 2
	return max(columnChromeLines+2, rows)
}

// cardHeight returns the rows used by a task card.
func (m Model) cardHeight(task domain.Task) int {
	height := 1
	if m.cardDetail(task) != "" {
		height++
	}
	return height
}

// cardDetail returns the secondary card line.
func (m Model) cardDetail(task domain.Task) string {
	parts := make([]string, 0, 2)
	if m.board.ShowLabels && len(task.Labels) > 0 {
		parts = append(parts, summarizeLabels(task.Labels, 3))
	}
	if m.board.ShowDescription {
		if desc := strings.TrimSpace(task.Description); desc != "" {
			parts = append(parts, strings.SplitN(desc, "\n", 2)[0])
		}
	}
	return strings.Join(parts, "  ")
}

// boardLayout computes the geometry of every column and visible card.
func (m Model) boardLayout() boardLayout {
	colWidth := m.columnWidthFor(m.width)
	style := m.columnStyle(colWidth)
	outer := lipgloss.Width(style.Render(""))
	layout := boardLayout{
		top:        m.boardTop(),
		outerWidth: outer,
		textWidth:  max(4, outer-style.GetHorizontalFrameSize()),
		rows:       m.columnHeight() - columnChromeLines,
	}
	cardsTop := layout.top + 1 + columnChromeLines

	for idx, status := range domain.Statuses() {
		col := columnLayout{
			index:  idx,
			status: status,
			x0:     idx * outer,
			x1:     (idx + 1) * outer,
			tasks:  m.columnTasks(status),
		}
		offsets := make([]int, len(col.tasks))
		heights := make([]int, len(col.tasks))
		next := 0
		for i, task := range col.tasks {
			offsets[i] = next
			heights[i] = m.cardHeight(task)
			next += heights[i] + 1
		}
		if idx == m.selectedColumn {
			col.scroll = windowStart(offsets, heights, m.selectedTask, layout.rows)
		}
		for i, task := range col.tasks {
			switch {
			case offsets[i] < col.scroll:
				continue
			case offsets[i]+heights[i] > col.scroll+layout.rows:
				col.hiddenAfter = append(col.hiddenAfter, task.ID)
			default:
				col.cards = append(col.cards, cardLayout{
					task:   task,
					index:  i,
					offset: offsets[i] - col.scroll,
					top:    cardsTop + offsets[i] - col.scroll,
					height: heights[i],
				})
			}
		}
		layout.columns = append(layout.columns, col)
	}
	return layout
}

// windowStart returns the first row that keeps the selected card fully visible.
func windowStart(offsets, heights []int, selected, rows int) int {
	if selected < 0 || selected >= len(offsets) {
		return 0
	}
	end := offsets[selected] + heights[selected]
	if end <= rows {
		return 0
	}
	return end - rows
}

// columnAt returns the column under screen column x.
func (l boardLayout) columnAt(x int) (columnLayout, bool) {
	for _, col := range l.columns {
		if x >= col.x0 && x < col.x1 {
			return col, true
		}
	}
	return columnLayout{}, false
}

// column returns the layout for status.
func (l boardLayout) column(status domain.Status) (columnLayout, bool) {
	for _, col := range l.columns {
		if col.status == status {
			return col, true
		}
	}
	return columnLayout{}, false
}

// cardAt returns the card covering screen row y.
func (c columnLayout) cardAt(y int) (cardLayout, bool) {
	for _, card := range c.cards {
		if y >= card.top && y < card.top+card.height {
			return card, true
		}
	}
	return cardLayout{}, false
}

// boxes returns the visible cards as drag geometry.
func (c columnLayout) boxes() []drag.Box {
	out := make([]drag.Box, 0, len(c.cards))
	for _, card := range c.cards {
		out = append(out, drag.Box{
			ID:     card.task.ID,
			Top:    float64(card.top),
			Height: float64(card.height),
		})
	}
	return out
}

// firstHiddenAfter returns the first task below the window other than skipID.
func (c columnLayout) firstHiddenAfter(skipID string) string {
	for _, taskID := range c.hiddenAfter {
		if taskID != skipID {
			return taskID
		}
	}
	return ""
}

// headerLines returns the unstyled header rows above the board.
func (m Model) headerLines() []string {
	lang := m.prefs.Language
	title := i18n.T(lang, i18n.AppTitle)
	title += fmt.Sprintf("  [%s · %s]", lang, m.prefs.Theme)
	lines := []string{title}
	if m.board.ShowProgress {
		lines = append(lines, m.progressLine())
	}
	filters := fmt.Sprintf("%s: %s  %s: ", i18n.T(lang, i18n.FilterStatus), m.statusFilterLabel(), i18n.T(lang, i18n.FilterLabel))
	if m.filter.Label == "" {
		filters += i18n.T(lang, i18n.FilterAll)
	} else {
		filters += "#" + m.filter.Label
	}
	lines = append(lines, filters)
	return lines
}

// progressLine renders "label [bar] pct% (done/total)" without color.
func (m Model) progressLine() string {
	const barWidth = 20
	pct := m.progress.Percent()
	filled := barWidth * pct / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return fmt.Sprintf("%s [%s] %d%% (%d/%d)", i18n.T(m.prefs.Language, i18n.ProgressLabel), bar, pct, m.progress.Completed, m.progress.Total)
}

// View renders the board.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// render renders the full screen as text.
func (m Model) render() string {
	if m.err != nil {
		return "error: " + m.err.Error() + "\n\npress r to retry • q quit\n"
	}
	if !m.ready {
		return "loading..."
	}

	pal := paletteFor(m.prefs.Theme)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(pal.accent)
	mutedStyle := lipgloss.NewStyle().Foreground(pal.muted)
	statusStyle := lipgloss.NewStyle().Foreground(pal.muted)
	lineStyle := lipgloss.NewStyle().MaxWidth(max(1, m.width))

	header := m.headerLines()
	headerViews := make([]string, 0, len(header))
	for idx, line := range header {
		switch {
		case idx == 0:
			headerViews = append(headerViews, lineStyle.Render(titleStyle.Render(line)))
		case m.board.ShowProgress && idx == 1:
			headerViews = append(headerViews, lineStyle.Render(m.renderProgress(pal)))
		default:
			headerViews = append(headerViews, lineStyle.Render(mutedStyle.Render(line)))
		}
	}

	layout := m.boardLayout()
	columnViews := make([]string, 0, len(layout.columns))
	for _, col := range layout.columns {
		columnViews = append(columnViews, m.renderColumn(col, layout, pal))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)

	statusLine := lineStyle.Render(statusStyle.Render(m.status))
	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(pal.muted).
		BorderTop(true).
		BorderForeground(pal.dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	content := strings.Join(append(headerViews, board, statusLine), "\n")
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	fullContent := content + "\n" + helpLine
	if overlay := m.renderOverlay(pal, m.width-8); overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}
	return fullContent
}

// renderProgress renders the colored progress bar line.
func (m Model) renderProgress(pal palette) string {
	const barWidth = 20
	pct := m.progress.Percent()
	filled := barWidth * pct / 100
	label := lipgloss.NewStyle().Foreground(pal.muted).Render(i18n.T(m.prefs.Language, i18n.ProgressLabel))
	bar := lipgloss.NewStyle().Foreground(pal.barFill).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(pal.barEmpty).Render(strings.Repeat("░", barWidth-filled))
	counts := lipgloss.NewStyle().Foreground(pal.muted).Render(fmt.Sprintf("%d%% (%d/%d)", pct, m.progress.Completed, m.progress.Total))
	return label + " " + bar + " " + counts
}

// renderColumn renders one status column with its card window.
func (m Model) renderColumn(col columnLayout, layout boardLayout, pal palette) string {
	lang := m.prefs.Language
	accent := pal.statusColor(col.status)
	borderColor := pal.dim
	dragTarget, _ := m.drag.Target()
	switch {
	case m.drag.Active() && m.dragMoved && dragTarget == col.status:
		borderColor = pal.selected
	case col.index == m.selectedColumn:
		borderColor = accent
	}
	style := m.columnStyle(m.columnWidthFor(m.width)).BorderForeground(borderColor)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	emptyStyle := lipgloss.NewStyle().Foreground(pal.muted).Italic(true)
	itemStyle := lipgloss.NewStyle().Foreground(pal.text)
	selectedStyle := lipgloss.NewStyle().Foreground(pal.selected).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(pal.muted)
	fadeStyle := lipgloss.NewStyle().Foreground(pal.fade).Faint(true)
	draggedStyle := lipgloss.NewStyle().Foreground(pal.muted).Faint(true)

	title := fmt.Sprintf("%s (%d)", i18n.StatusName(lang, col.status), len(col.tasks))
	rows := make([]string, layout.rows)
	if len(col.tasks) == 0 {
		rows[0] = emptyStyle.Render(truncate(i18n.T(lang, i18n.TaskEmpty), layout.textWidth))
	}
	for _, card := range col.cards {
		selected := col.index == m.selectedColumn && card.index == m.selectedTask
		marker := "  "
		if selected {
			marker = "▸ "
		}
		lineStyle := itemStyle
		detailStyle := subStyle
		_, fading := m.fading[card.task.ID]
		switch {
		case fading:
			lineStyle, detailStyle = fadeStyle, fadeStyle
		case m.drag.Active() && m.dragMoved && m.drag.TaskID() == card.task.ID:
			lineStyle, detailStyle = draggedStyle, draggedStyle
		case selected:
			lineStyle = selectedStyle
		}
		rows[card.offset] = lineStyle.Render(marker + truncate(card.task.Text, layout.textWidth-2))
		if card.height > 1 {
			rows[card.offset+1] = detailStyle.Render("  " + truncate(m.cardDetail(card.task), layout.textWidth-2))
		}
	}
	if len(col.hiddenAfter) > 0 && layout.rows > 0 {
		rows[layout.rows-1] = subStyle.Render(fmt.Sprintf("  ↓ %d", len(col.hiddenAfter)))
	}

	lines := append([]string{
		titleStyle.Render(truncate(title, layout.textWidth)),
		lipgloss.NewStyle().Foreground(pal.dim).Render(strings.Repeat("─", layout.textWidth)),
	}, rows...)
	return style.Render(strings.Join(lines, "\n"))
}

// renderOverlay returns the active modal, if any.
func (m Model) renderOverlay(pal palette, maxWidth int) string {
	switch {
	case m.celebrating:
		return m.renderCelebration(pal)
	case m.help.ShowAll:
		return m.renderHelpOverlay(pal, maxWidth)
	}
	switch m.mode {
	case modeAddTask:
		title := i18n.T(m.prefs.Language, i18n.TaskAdd) + " · " + i18n.StatusName(m.prefs.Language, m.addStatus)
		return m.renderInputOverlay(pal, title, "enter save • esc cancel • #label adds a label", maxWidth)
	case modeLabelFilter:
		hint := "enter apply • empty clears • esc cancel"
		if labels := domain.Labels(m.tasks); len(labels) > 0 {
			hint = "labels: " + summarizeLabels(labels, 8) + "\n" + hint
		}
		return m.renderInputOverlay(pal, i18n.T(m.prefs.Language, i18n.FilterLabel), hint, maxWidth)
	case modeTaskInfo:
		return m.renderTaskInfo(pal, maxWidth)
	case modeActivityLog:
		return m.renderActivityLog(pal, maxWidth)
	}
	return ""
}

// modalStyle returns the shared overlay frame.
func modalStyle(border lipgloss.Style, width int) lipgloss.Style {
	style := border.
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(width)
	}
	return style
}

// renderInputOverlay renders a text input modal.
func (m Model) renderInputOverlay(pal palette, title, hint string, maxWidth int) string {
	width := clamp(maxWidth, 40, 72)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(pal.accent).Render(title),
		"",
		m.input.View(),
		"",
		lipgloss.NewStyle().Foreground(pal.muted).Render(hint),
	}
	return modalStyle(lipgloss.NewStyle().BorderForeground(pal.accent), width).Render(strings.Join(lines, "\n"))
}

// renderHelpOverlay renders help overlay.
func (m Model) renderHelpOverlay(pal palette, maxWidth int) string {
	width := clamp(maxWidth, 56, 100)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	title := lipgloss.NewStyle().Bold(true).Foreground(pal.accent).Render(i18n.T(m.prefs.Language, i18n.AppTitle))
	mouse := []string{
		"mouse: click selects a task • drag a task onto a column to move it",
		"drop above a task to insert before it, below the last task to append",
		"esc cancels an active drag",
	}
	lines := []string{
		title,
		"",
		hb.View(m.keys),
		"",
		lipgloss.NewStyle().Foreground(pal.muted).Render(strings.Join(mouse, "\n")),
		lipgloss.NewStyle().Foreground(pal.muted).Render("press ? or esc to close"),
	}
	return modalStyle(lipgloss.NewStyle().BorderForeground(pal.dim), width).Render(strings.Join(lines, "\n"))
}

// renderCelebration renders the all-done overlay.
func (m Model) renderCelebration(pal palette) string {
	lang := m.prefs.Language
	button := lipgloss.NewStyle().
		Bold(true).
		Foreground(pal.celebrate).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pal.celebrate).
		Padding(0, 2).
		Render(i18n.T(lang, i18n.CompletionContinue))
	body := lipgloss.JoinVertical(
		lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Foreground(pal.celebrate).Render(i18n.T(lang, i18n.CompletionTitle)),
		"",
		lipgloss.NewStyle().Foreground(pal.text).Render(i18n.T(lang, i18n.CompletionMessage)),
		"",
		button,
	)
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(pal.celebrate).
		Padding(1, 4).
		Render(body)
}

// renderTaskInfo renders the task detail modal as markdown.
func (m Model) renderTaskInfo(pal palette, maxWidth int) string {
	width := clamp(maxWidth, 48, 96)
	task, ok := m.taskByID(m.infoTaskID)
	if !ok {
		return modalStyle(lipgloss.NewStyle().BorderForeground(pal.dim), width).Render("task not found\n\nesc close")
	}
	body := m.markdown.render(taskMarkdown(task, m.prefs.Language, m.now()), width-4, pal.glamour)
	footer := lipgloss.NewStyle().Foreground(pal.muted).Render("esc close")
	return modalStyle(lipgloss.NewStyle().BorderForeground(pal.statusColor(task.Status)), width).Render(body + "\n\n" + footer)
}

// renderActivityLog renders recent change events.
func (m Model) renderActivityLog(pal palette, maxWidth int) string {
	width := clamp(maxWidth, 48, 96)
	lang := m.prefs.Language
	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(pal.accent).Render(i18n.T(lang, i18n.ActivityTitle)), ""}
	muted := lipgloss.NewStyle().Foreground(pal.muted)
	switch {
	case m.activityErr != nil:
		lines = append(lines, muted.Render(i18n.T(lang, i18n.ActivityUnavailable)))
	case m.activity == nil:
		lines = append(lines, muted.Render("loading..."))
	case len(m.activity) == 0:
		lines = append(lines, muted.Render("(empty)"))
	default:
		now := m.now()
		for _, event := range m.activity {
			label := event.TaskID
			if text := event.Metadata["text"]; text != "" {
				label = text
			}
			detail := ""
			if to := event.Metadata["to"]; to != "" {
				detail = " → " + i18n.StatusName(lang, domain.Status(to))
			}
			line := fmt.Sprintf("%-14s %-7s %s%s", humanize.RelTime(event.OccurredAt, now, "ago", "from now"), event.Operation, label, detail)
			lines = append(lines, truncate(line, width-4))
		}
	}
	lines = append(lines, "", muted.Render("esc close"))
	return modalStyle(lipgloss.NewStyle().BorderForeground(pal.dim), width).Render(strings.Join(lines, "\n"))
}

// taskMarkdown renders task details as markdown.
func taskMarkdown(task domain.Task, lang domain.Language, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", task.Text)
	if desc := strings.TrimSpace(task.Description); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "- **status**: %s\n", i18n.StatusName(lang, task.Status))
	if len(task.Labels) > 0 {
		fmt.Fprintf(&b, "- **labels**: %s\n", "#"+strings.Join(task.Labels, " #"))
	}
	fmt.Fprintf(&b, "- **created**: %s\n", humanize.RelTime(task.CreatedAt, now, "ago", "from now"))
	fmt.Fprintf(&b, "- **updated**: %s\n", humanize.RelTime(task.UpdatedAt, now, "ago", "from now"))
	fmt.Fprintf(&b, "- **id**: `%s`\n", task.ID)
	return b.String()
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
