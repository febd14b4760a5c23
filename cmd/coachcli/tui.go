package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/programme-lv/cfcoach/coachsrvc"
	"github.com/programme-lv/cfcoach/srvcerror"
)

type phase int

const (
	phaseEnterHandle phase = iota
	phaseFetching
	phaseReport
	phaseFailed
)

type reportGetter interface {
	GetUserReport(ctx context.Context, handle string) (*coachsrvc.UserReport, error)
}

type reportResult struct {
	report *coachsrvc.UserReport
	err    error
}

type model struct {
	ctx     context.Context
	srvc    reportGetter
	phase   phase
	report  *coachsrvc.UserReport
	errMsg  string
	input   textinput.Model
	spinner spinner.Model
}

func initialModel(ctx context.Context, srvc reportGetter, handle string) model {
	ti := textinput.New()
	ti.Placeholder = "tourist"
	ti.SetValue(handle)
	ti.Focus()
	ti.CharLimit = 24
	ti.Width = 24

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		ctx:     ctx,
		srvc:    srvc,
		phase:   phaseEnterHandle,
		input:   ti,
		spinner: sp,
	}
	if handle != "" {
		m.phase = phaseFetching
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.phase == phaseFetching {
		return tea.Batch(m.spinner.Tick, m.fetch(m.input.Value()))
	}
	return textinput.Blink
}

func (m model) fetch(handle string) tea.Cmd {
	return func() tea.Msg {
		report, err := m.srvc.GetUserReport(m.ctx, handle)
		return reportResult{report: report, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportResult:
		if msg.err != nil {
			m.phase = phaseFailed
			m.errMsg = userMessage(msg.err)
			return m, nil
		}
		m.phase = phaseReport
		m.report = msg.report
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.phase == phaseEnterHandle && strings.TrimSpace(m.input.Value()) != "" {
				m.phase = phaseFetching
				m.input.Blur()
				return m, tea.Batch(m.spinner.Tick, m.fetch(m.input.Value()))
			}
		case tea.KeyRunes:
			if m.phase == phaseReport || m.phase == phaseFailed {
				switch msg.Runes[0] {
				case 'q', 'Q':
					return m, tea.Quit
				case 'n', 'N':
					m.phase = phaseEnterHandle
					m.report = nil
					m.errMsg = ""
					m.input.SetValue("")
					return m, m.input.Focus()
				}
			}
		}
	case spinner.TickMsg:
		if m.phase != phaseFetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.phase == phaseEnterHandle {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	v := func(format string, a ...any) string {
		violetText := lipgloss.NewStyle().Foreground(lipgloss.Color("#e056fd"))
		return violetText.Render(fmt.Sprintf(format, a...))
	}

	switch m.phase {
	case phaseEnterHandle:
		return fmt.Sprintf("Codeforces handle: %s\n\nPress %s to look up, %s to exit\n",
			m.input.View(), v("Enter"), v("Esc"))
	case phaseFetching:
		return fmt.Sprintf("%s Fetching submissions of %s\n", m.spinner.View(), v(m.input.Value()))
	case phaseFailed:
		return fmt.Sprintf("%s\n\nPress %s for another handle, %s to quit\n",
			errorStyle.Render(m.errMsg), v("N"), v("Q"))
	case phaseReport:
		return fmt.Sprintf("%s\nPress %s for another handle, %s to quit\n",
			renderReport(m.report), v("N"), v("Q"))
	}
	return ""
}

func userMessage(err error) string {
	var srvcErr *srvcerror.Error
	if errors.As(err, &srvcErr) {
		return srvcErr.Error()
	}
	return "unexpected error: " + err.Error()
}
