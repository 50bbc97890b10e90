package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tim1593/shop-db2/internal/ledger"
)

// Timeframe is a predefined or custom date range.
type Timeframe int

const (
	TimeframeToday Timeframe = iota
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeThisYear
	TimeframeAll
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeToday:
		return "Today"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisYear:
		return "This Year"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// Range returns the half-open day range [start, end) of a predefined
// timeframe relative to now. TimeframeAll and TimeframeCustom have no range.
func (t Timeframe) Range(now time.Time) (time.Time, time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch t {
	case TimeframeToday:
		return today, today.AddDate(0, 0, 1), true
	case TimeframeThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), true
	case TimeframeLastMonth:
		end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return end.AddDate(0, -1, 0), end, true
	case TimeframeThisYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0), true
	}

	return time.Time{}, time.Time{}, false
}

// Filter turns the timeframe into a ledger filter.
func (t Timeframe) Filter(now time.Time) ledger.ListFilter {
	start, end, ok := t.Range(now)
	if !ok {
		return ledger.ListFilter{}
	}

	return ledger.ListFilter{StartDate: &start, EndDate: &end}
}

// CustomFilter parses two inclusive dates into a filter with an exclusive end.
func CustomFilter(start, end string, loc *time.Location) (ledger.ListFilter, error) {
	from, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(start), loc)
	if err != nil {
		return ledger.ListFilter{}, errors.New("invalid start date (YYYY-MM-DD)")
	}

	to, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(end), loc)
	if err != nil {
		return ledger.ListFilter{}, errors.New("invalid end date (YYYY-MM-DD)")
	}

	if to.Before(from) {
		return ledger.ListFilter{}, errors.New("end date is before start date")
	}

	to = to.AddDate(0, 0, 1)

	return ledger.ListFilter{StartDate: &from, EndDate: &to}, nil
}

// TimeframeSelectedMsg carries the chosen range. The filter is empty for
// TimeframeAll.
type TimeframeSelectedMsg struct {
	Timeframe Timeframe
	Filter    ledger.ListFilter
}

type timeframeState int

const (
	timeframeStateSelect timeframeState = iota
	timeframeStateCustom
)

// TimeframePicker is a reusable component for selecting a date range.
type TimeframePicker struct {
	state    timeframeState
	selected Timeframe
	now      func() time.Time

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewTimeframePicker(initial Timeframe) TimeframePicker {
	si := textinput.New()
	si.Placeholder = "YYYY-MM-DD"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "Start Date: "

	ei := textinput.New()
	ei.Placeholder = "YYYY-MM-DD"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "End Date:   "

	return TimeframePicker{
		state:      timeframeStateSelect,
		selected:   initial,
		now:        time.Now,
		startInput: si,
		endInput:   ei,
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case timeframeStateSelect:
			return m.updateSelect(keyMsg)
		case timeframeStateCustom:
			return m.updateCustom(keyMsg)
		}
	}

	if m.state == timeframeStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m TimeframePicker) updateSelect(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selected > TimeframeToday {
			m.selected--
		}
	case "down", "j":
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case "enter":
		if m.selected == TimeframeCustom {
			m.state = timeframeStateCustom
			m.focusIndex = 0
			m.startInput.Focus()

			return m, textinput.Blink
		}

		selected := TimeframeSelectedMsg{Timeframe: m.selected, Filter: m.selected.Filter(m.now())}

		return m, func() tea.Msg { return selected }
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink
	case "enter":
		filter, err := CustomFilter(m.startInput.Value(), m.endInput.Value(), m.now().Location())
		if err != nil {
			m.err = err
			return m, nil
		}

		m.err = nil

		return m, func() tea.Msg {
			return TimeframeSelectedMsg{Timeframe: TimeframeCustom, Filter: filter}
		}
	case "esc":
		m.state = timeframeStateSelect
		m.err = nil

		return m, nil
	}

	return m.updateInputs(msg)
}

func (m TimeframePicker) updateInputs(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	var cmds []tea.Cmd

	var c tea.Cmd

	m.startInput, c = m.startInput.Update(msg)
	cmds = append(cmds, c)
	m.endInput, c = m.endInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func (m TimeframePicker) View() string {
	var errStr string
	if m.err != nil {
		errStr = "\n\n" + errorView(m.err)
	}

	if m.state == timeframeStateCustom {
		return fmt.Sprintf(
			"Enter Custom Range (both days included):\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	var sb strings.Builder

	sb.WriteString("Select Timeframe:\n\n")

	for tf := TimeframeToday; tf <= TimeframeCustom; tf++ {
		if tf == m.selected {
			sb.WriteString(activeStyle("> " + tf.String()))
		} else {
			sb.WriteString("  " + tf.String())
		}

		sb.WriteString("\n")
	}

	sb.WriteString("\n(Enter to select, Esc to back)")

	return sb.String() + errStr
}

// IsSelecting reports whether the picker shows the predefined list.
func (m TimeframePicker) IsSelecting() bool {
	return m.state == timeframeStateSelect
}

func (m *TimeframePicker) Reset() {
	m.state = timeframeStateSelect
	m.err = nil
	m.startInput.SetValue("")
	m.endInput.SetValue("")
}
