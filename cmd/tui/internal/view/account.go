package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/cashtrack/internal/auth"
)

type authAction string

const (
	actionLogin    authAction = "login"
	actionRegister authAction = "register"
	actionVerify   authAction = "verify"
	actionForgot   authAction = "forgot"
	actionReset    authAction = "reset"
	actionLogout   authAction = "logout"
)

// AccountModel runs the sign-in flows: pick an action, fill in its form,
// see the server's reply.
type AccountModel struct {
	CommonModel
	auth *auth.Service

	form   *huh.Form
	input  *accountForm
	status string
	err    error
}

type accountForm struct {
	action   authAction
	email    string
	password string
	name     string
	code     string
}

type accountDoneMsg struct {
	status string
	err    error
}

func NewAccountModel(svc *auth.Service) AccountModel {
	m := AccountModel{auth: svc, input: &accountForm{action: actionLogin}}
	m.form = m.buildForm()

	return m
}

func (m AccountModel) Title() string { return "Account" }

func (m AccountModel) ShortHelp() string { return "Navigate form | Esc: back" }

func (m AccountModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AccountModel) buildForm() *huh.Form {
	in := m.input
	needs := func(actions ...authAction) func() bool {
		return func() bool {
			for _, a := range actions {
				if in.action == a {
					return false
				}
			}
			return true
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[authAction]().
				Key("action").
				Title("Action").
				Options(
					huh.NewOption("Log in", actionLogin),
					huh.NewOption("Register", actionRegister),
					huh.NewOption("Verify email", actionVerify),
					huh.NewOption("Forgot password", actionForgot),
					huh.NewOption("Reset password", actionReset),
					huh.NewOption("Log out", actionLogout),
				).
				Value(&in.action),
		),
		huh.NewGroup(
			huh.NewInput().Key("name").Title("Business name").Value(&in.name),
		).WithHideFunc(needs(actionRegister)),
		huh.NewGroup(
			huh.NewInput().Key("email").Title("Email").Value(&in.email),
		).WithHideFunc(needs(actionLogin, actionRegister, actionVerify, actionForgot, actionReset)),
		huh.NewGroup(
			huh.NewInput().Key("code").Title("Code").Value(&in.code),
		).WithHideFunc(needs(actionVerify, actionReset)),
		huh.NewGroup(
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&in.password),
		).WithHideFunc(needs(actionLogin, actionRegister, actionReset)),
	).WithWidth(50).WithShowHelp(false)
}

func (m AccountModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case accountDoneMsg:
		m.status = msg.status
		m.err = msg.err
		m.input.password = ""
		m.input.code = ""
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
		return m, m.runCmd(*m.input)
	}

	return m, cmd
}

func (m AccountModel) runCmd(in accountForm) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		var (
			resp auth.Response
			err  error
		)

		switch in.action {
		case actionLogin:
			resp, err = m.auth.Login(ctx, in.email, in.password)
		case actionRegister:
			resp, err = m.auth.Register(ctx, in.email, in.password, in.name)
		case actionVerify:
			resp, err = m.auth.VerifyEmail(ctx, in.email, in.code)
		case actionForgot:
			resp, err = m.auth.ForgotPassword(ctx, in.email)
		case actionReset:
			resp, err = m.auth.ResetPassword(ctx, in.email, in.code, in.password)
		case actionLogout:
			if err := m.auth.Logout(ctx); err != nil {
				return accountDoneMsg{err: err}
			}

			return accountDoneMsg{status: "Logged out."}
		}

		if err != nil {
			return accountDoneMsg{err: err}
		}

		status := resp.Message()
		if status == "" {
			status = fmt.Sprintf("%s succeeded.", in.action)
		}

		return accountDoneMsg{status: status}
	}
}

func (m AccountModel) View() string {
	state := mutedStyle.Render("Signed out")
	if m.auth.Authenticated() {
		state = successStyle.Render("Signed in")
	}

	if m.auth.IsMock() {
		state += mutedStyle.Render(" (offline mode)")
	}

	footer := ""

	switch {
	case m.err != nil:
		footer = renderErr(m.err)
	case m.status != "":
		footer = successStyle.Render(m.status)
	}

	return padded.Render(titleStyle.Render(m.Title()) + "  " + state + "\n\n" + m.form.View() + "\n" + footer)
}
