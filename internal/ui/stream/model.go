// Package stream renders the ranked attention stream.
package stream

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/tend/internal/dispatch"
	"github.com/abelbrown/tend/internal/model"
	attn "github.com/abelbrown/tend/internal/stream"
	"github.com/abelbrown/tend/internal/ui"
)

// Model is the stream view.
// IMPORTANT: Model does NOT hold the engine or tracker. It receives
// cycles via messages and emits actions via injected command funcs.
type Model struct {
	refresh  func() tea.Cmd
	dispatch func(action dispatch.Action, item model.Item) tea.Cmd
	open     func(item model.Item) tea.Cmd

	selection   attn.Selection
	nextMeeting *model.Meeting
	expanded    bool
	cursor      int
	status      string
	err         error
	loading     bool
	spin        spinner.Model
	width       int
	height      int
	ready       bool
}

// New creates the stream view with its command functions.
// refresh: returns a Cmd that runs a refresh cycle
// dispatchFn: returns a Cmd that dispatches an action against an item
// open: returns a Cmd that opens an item's first evidence link
func New(refresh func() tea.Cmd, dispatchFn func(dispatch.Action, model.Item) tea.Cmd, open func(model.Item) tea.Cmd) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		refresh:  refresh,
		dispatch: dispatchFn,
		open:     open,
		spin:     sp,
	}
}

func (m Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spin.Tick, m.refreshCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case ui.CycleComplete:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.selection = msg.Selection
		m.nextMeeting = msg.NextMeeting
		m.clampCursor()
		return m, nil

	case ui.SweepDone:
		// Released snoozes mean the stream is stale; refresh.
		m.status = fmt.Sprintf("%d snooze(s) expired", msg.Expired)
		cmd := m.refreshCmd()
		return m, cmd

	case ui.ActionDone:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.status = msg.Effect.Description
		// Acting on an item changes visibility; re-select.
		cmd := m.refreshCmd()
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		m.err = nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.shown())-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "m", "tab":
		// Pure toggle: no re-scoring, just how much of the selection
		// is rendered.
		m.expanded = !m.expanded
		m.clampCursor()
		return m, nil

	case "r":
		cmd := m.refreshCmd()
		return m, cmd

	case "s":
		return m, m.actionCmd(dispatch.ActionSnooze)
	case "a":
		return m, m.actionCmd(dispatch.ActionAcknowledge)
	case "i":
		return m, m.actionCmd(dispatch.ActionIntervened)
	case "d":
		return m, m.actionCmd(dispatch.ActionMarkDone)
	case "x":
		return m, m.actionCmd(dispatch.ActionDelegate)

	case "o", "enter":
		if item, ok := m.current(); ok && m.open != nil {
			return m, m.open(item)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	if m.nextMeeting != nil {
		b.WriteString(bannerStyle.Render(fmt.Sprintf("◷ Next: %s at %s",
			m.nextMeeting.Subject, m.nextMeeting.Time.Format("15:04"))))
		b.WriteString("\n")
	}

	shown := m.shown()
	if len(shown) == 0 {
		b.WriteString(dimStyle.Render("Nothing needs your attention right now."))
		b.WriteString("\n")
	}

	for i, sc := range shown {
		b.WriteString(m.renderCard(sc, i == m.cursor))
		b.WriteString("\n")
	}

	if !m.expanded && len(m.selection.Remaining) > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more (m to show)", len(m.selection.Remaining))))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.statusBar())
	return b.String()
}

func (m Model) renderCard(sc attn.Scored, selected bool) string {
	item := sc.Item
	meta := item.Metadata()

	glyph := lipgloss.NewStyle().Foreground(kindColor(item.Kind())).Render(kindGlyphs[item.Kind()])

	var badges []string
	if meta.IsNew {
		badges = append(badges, newBadgeStyle.Render("NEW"))
	}
	if meta.IsEscalated {
		badges = append(badges, escalatedBadgeStyle.Render("ESCALATED"))
	}
	badge := ""
	if len(badges) > 0 {
		badge = " " + strings.Join(badges, " ")
	}

	head := fmt.Sprintf("%s %s%s %s", glyph, titleStyle.Render(item.Title()), badge,
		scoreStyle.Render(fmt.Sprintf("(%.0f)", sc.Score)))

	detail := dimStyle.Render(itemDetail(item))

	card := head
	if detail != "" {
		card += "\n  " + detail
	}

	if selected {
		return selectedStyle.Render(card)
	}
	return cardStyle.Render(card)
}

// itemDetail is the one-line variant-specific subtitle.
func itemDetail(item model.Item) string {
	switch v := item.(type) {
	case model.Alert:
		return fmt.Sprintf("%s · %s ago", v.Source, ago(time.Since(v.Timestamp)))
	case model.Commitment:
		if v.Status == model.CommitmentOverdue {
			return fmt.Sprintf("%s · overdue since %s", v.Assignee, v.DueDate.Format("Jan 2"))
		}
		return fmt.Sprintf("%s · due %s", v.Assignee, v.DueDate.Format("Jan 2"))
	case model.Meeting:
		return fmt.Sprintf("%s · %s", v.Time.Format("Mon 15:04"), strings.Join(v.Attendees, ", "))
	case model.Relationship:
		return fmt.Sprintf("%d days since contact", v.DaysSinceContact)
	}
	return ""
}

func ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "moments"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func (m Model) statusBar() string {
	left := fmt.Sprintf(" %d/%d ", m.cursor+1, len(m.shown()))
	if len(m.shown()) == 0 {
		left = " 0/0 "
	}
	if m.loading {
		left = " " + m.spin.View() + left
	}
	help := "j/k move · s snooze · a ack · i intervene · d done · x delegate · m more · q quit"
	if m.status != "" {
		help = m.status
	}
	bar := left + "· " + help
	if m.width > 0 {
		return statusStyle.Width(m.width).Render(bar)
	}
	return statusStyle.Render(bar)
}

func (m Model) shown() []attn.Scored {
	return m.selection.Shown(m.expanded)
}

func (m Model) current() (model.Item, bool) {
	shown := m.shown()
	if len(shown) == 0 || m.cursor >= len(shown) {
		return nil, false
	}
	return shown[m.cursor].Item, true
}

func (m *Model) clampCursor() {
	if n := len(m.shown()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	} else if n == 0 {
		m.cursor = 0
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	if m.refresh == nil {
		return nil
	}
	m.loading = true
	return tea.Batch(m.spin.Tick, m.refresh())
}

func (m Model) actionCmd(action dispatch.Action) tea.Cmd {
	item, ok := m.current()
	if !ok || m.dispatch == nil {
		return nil
	}
	return m.dispatch(action, item)
}

// Cursor returns the current cursor position (for testing).
func (m Model) Cursor() int { return m.cursor }

// Shown returns the currently rendered items (for testing).
func (m Model) Shown() []attn.Scored { return m.shown() }
