package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/cashtrack/internal/matching"
)

// RulesModel teaches the importer a preferred description for raw statement
// text.
type RulesModel struct {
	CommonModel
	matching *matching.Service

	form   *huh.Form
	input  *ruleForm
	status string
	err    error
}

type ruleForm struct {
	pattern     string
	description string
}

type ruleSavedMsg struct {
	rule ruleForm
	err  error
}

func NewRulesModel(svc *matching.Service) RulesModel {
	m := RulesModel{matching: svc}
	m.form = m.buildForm()

	return m
}

func (m RulesModel) Title() string     { return "Description Rules" }
func (m RulesModel) ShortHelp() string { return "Navigate form | Esc: back" }

func (m RulesModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *RulesModel) buildForm() *huh.Form {
	m.input = &ruleForm{}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("pattern").
				Title("Statement text contains").
				Placeholder("TRF MB WAY").
				Value(&m.input.pattern),
			huh.NewInput().
				Key("description").
				Title("Use description").
				Placeholder("Supplier payment").
				Value(&m.input.description),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m RulesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ruleSavedMsg:
		m.err = msg.err
		m.status = ""

		if msg.err == nil {
			m.status = fmt.Sprintf("%q will be imported as %q.", msg.rule.pattern, msg.rule.description)
		}

		m.form = m.buildForm()

		return m, m.form.Init()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.learnCmd(*m.input)
	}

	return m, cmd
}

func (m RulesModel) learnCmd(rule ruleForm) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		return ruleSavedMsg{rule: rule, err: m.matching.Learn(ctx, rule.pattern, rule.description)}
	}
}

func (m RulesModel) View() string {
	footer := ""

	switch {
	case m.err != nil:
		footer = renderErr(m.err)
	case m.status != "":
		footer = successStyle.Render(m.status)
	}

	return padded.Render(titleStyle.Render(m.Title()) + "\n\n" + m.form.View() + "\n" + footer)
}
