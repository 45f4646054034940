package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

const listWidth = 60

type optionItem struct {
	option Option
}

func (i optionItem) Title() string       { return i.option.Label }
func (i optionItem) Description() string { return i.option.Hint }
func (i optionItem) FilterValue() string { return i.option.Label }

func isCancel(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+c", "esc":
		return true
	}
	return false
}

type selectModel struct {
	label     string
	list      list.Model
	choice    string
	done      bool
	cancelled bool
}

func newSelectModel(label string, options []Option) selectModel {
	items := make([]list.Item, len(options))
	for i, opt := range options {
		items[i] = optionItem{option: opt}
	}
	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, listWidth, len(items)*(delegate.Height()+delegate.Spacing())+6)
	l.Title = label
	l.Styles.Title = questionStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	return selectModel{label: label, list: l}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isCancel(msg) {
			m.cancelled = true
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			if item, ok := m.list.SelectedItem().(optionItem); ok {
				m.choice = item.option.Value
				m.done = true
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(min(msg.Width, listWidth))
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.done {
		return fmt.Sprintf("%s %s\n", questionStyle.Render(m.label), answerStyle.Render(m.choice))
	}
	if m.cancelled {
		return ""
	}
	return m.list.View() + "\n"
}

type inputModel struct {
	label     string
	input     textinput.Model
	validate  func(string) error
	err       error
	value     string
	done      bool
	cancelled bool
}

func newInputModel(label, placeholder string, validate func(string) error) inputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = listWidth
	ti.Focus()
	return inputModel{label: label, input: ti, validate: validate}
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if isCancel(key) {
			m.cancelled = true
			return m, tea.Quit
		}
		if key.String() == "enter" {
			value := strings.TrimSpace(m.input.Value())
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.value = value
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return fmt.Sprintf("%s %s\n", questionStyle.Render(m.label), answerStyle.Render(m.value))
	}
	if m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(questionStyle.Render(m.label))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

type confirmModel struct {
	label     string
	answer    bool
	done      bool
	cancelled bool
}

func newConfirmModel(label string) confirmModel {
	return confirmModel{label: label}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if isCancel(key) {
		m.cancelled = true
		return m, tea.Quit
	}
	switch strings.ToLower(key.String()) {
	case "y":
		m.answer = true
	case "n", "enter":
		m.answer = false
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.cancelled {
		return ""
	}
	if m.done {
		answer := "no"
		if m.answer {
			answer = "yes"
		}
		return fmt.Sprintf("%s %s\n", questionStyle.Render(m.label), answerStyle.Render(answer))
	}
	return fmt.Sprintf("%s %s ", questionStyle.Render(m.label), hintStyle.Render("(y/N)"))
}
