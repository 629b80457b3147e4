package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
	"github.com/vrsandeep/natgeo-wallpapers/internal/schedule"
)

type presetKind int

const (
	presetFixed presetKind = iota
	presetCustomTime
	presetCustomInterval
	presetCancel
)

type preset struct {
	label string
	kind  presetKind
	value string // for presetFixed
}

var presets = []preset{
	{label: "Daily at 02:00", kind: presetFixed, value: "02:00"},
	{label: "Every hour", kind: presetFixed, value: "1h"},
	{label: "Every 30 minutes", kind: presetFixed, value: "30m"},
	{label: "Custom daily time (HH:MM)", kind: presetCustomTime},
	{label: "Custom interval (e.g. 2h, 45m, 1h30m)", kind: presetCustomInterval},
	{label: "Cancel", kind: presetCancel},
}

// cadenceModel asks the user how often the wallpaper should change.
type cadenceModel struct {
	cursor    int
	editing   *preset
	textInput textinput.Model
	err       error

	cadence   *models.Cadence
	cancelled bool
}

func newCadenceModel() cadenceModel {
	ti := textinput.New()
	ti.CharLimit = 16
	ti.Width = 20

	return cadenceModel{textInput: ti}
}

func (m cadenceModel) Init() tea.Cmd {
	return nil
}

func (m cadenceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.editing != nil {
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if key.String() == "ctrl+c" {
		m.cancelled = true
		return m, tea.Quit
	}

	if m.editing != nil {
		return m.updateInput(key)
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(presets)-1 {
			m.cursor++
		}
	case "esc", "q":
		m.cancelled = true
		return m, tea.Quit
	case "enter":
		p := presets[m.cursor]
		switch p.kind {
		case presetCancel:
			m.cancelled = true
			return m, tea.Quit
		case presetFixed:
			c, err := schedule.ParseCadence(p.value)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.cadence = &c
			return m, tea.Quit
		default:
			m.editing = &p
			m.err = nil
			m.textInput.SetValue("")
			if p.kind == presetCustomTime {
				m.textInput.Placeholder = "07:30"
			} else {
				m.textInput.Placeholder = "2h"
			}
			return m, m.textInput.Focus()
		}
	}
	return m, nil
}

func (m cadenceModel) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.editing = nil
		m.err = nil
		m.textInput.Blur()
		return m, nil
	case "enter":
		c, err := schedule.ParseCadence(m.textInput.Value())
		if err == nil {
			wantDaily := m.editing.kind == presetCustomTime
			if (c.Kind == models.DailyAt) != wantDaily {
				if wantDaily {
					err = fmt.Errorf("%w: expected a time like 07:30", schedule.ErrInvalidScheduleInput)
				} else {
					err = fmt.Errorf("%w: expected an interval like 2h or 45m", schedule.ErrInvalidScheduleInput)
				}
			}
		}
		if err == nil {
			err = schedule.Validate(c)
		}
		if err != nil {
			m.err = err
			return m, nil
		}
		m.cadence = &c
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(key)
	return m, cmd
}

func (m cadenceModel) View() string {
	if m.cadence != nil || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("How often should the wallpaper change?"))
	b.WriteString("\n\n")

	if m.editing != nil {
		b.WriteString(m.editing.label)
		b.WriteString("\n\n")
		b.WriteString(m.textInput.View())
		b.WriteString("\n")
	} else {
		for i, p := range presets {
			cursor := "  "
			line := p.label
			if i == m.cursor {
				cursor = highlightStyle.Render("> ")
				line = highlightStyle.Render(line)
			}
			b.WriteString(cursor + line + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.editing != nil {
		b.WriteString(dimStyle.Render("enter: confirm • esc: back"))
	} else {
		b.WriteString(dimStyle.Render("↑/↓: choose • enter: select • q: cancel"))
	}
	b.WriteString("\n")
	return b.String()
}

// promptCadence runs the menu on the terminal.
func promptCadence() (models.Cadence, error) {
	final, err := tea.NewProgram(newCadenceModel()).Run()
	if err != nil {
		return models.Cadence{}, err
	}
	m := final.(cadenceModel)
	if m.cancelled || m.cadence == nil {
		return models.Cadence{}, errCancelled
	}
	return *m.cadence, nil
}
