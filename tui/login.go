package tui

import (
	"strings"

	"cinema-booking-cli/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginForm struct {
	username textinput.Model
	password textinput.Model
	focus    int
	err      string
}

func newLoginForm(username string) loginForm {
	user := textinput.New()
	user.Prompt = "Username: "
	user.Placeholder = "username"
	user.CharLimit = 150
	user.SetValue(username)

	pass := textinput.New()
	pass.Prompt = "Password: "
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	f := loginForm{username: user, password: pass}
	if strings.TrimSpace(username) != "" {
		f.focus = 1
	}
	return f
}

// focusCmd focuses the active input and returns its blink command.
func (f *loginForm) focusCmd() tea.Cmd {
	if f.focus == 0 {
		f.password.Blur()
		return f.username.Focus()
	}
	f.username.Blur()
	return f.password.Focus()
}

func (f *loginForm) next() tea.Cmd {
	f.focus = (f.focus + 1) % 2
	return f.focusCmd()
}

func (f loginForm) credentials() model.Credentials {
	return model.Credentials{
		Username: strings.TrimSpace(f.username.Value()),
		Password: f.password.Value(),
	}
}

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		return m.goBack()
	case "tab", "shift+tab", "up", "down":
		return m, m.login.next()
	case "enter":
		creds := m.login.credentials()
		if creds.Username == "" {
			m.login.focus = 0
			m.login.err = "Username is required."
			return m, m.login.focusCmd()
		}
		if m.login.focus == 0 {
			return m, m.login.next()
		}
		if creds.Password == "" {
			m.login.err = "Password is required."
			return m, nil
		}
		m.login.err = ""
		m.state = stateLoggingIn
		return m, tea.Batch(m.loginCmd(creds), m.spinner.Tick)
	}

	var cmd tea.Cmd
	if m.login.focus == 0 {
		m.login.username, cmd = m.login.username.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}

func (m appModel) loginView() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("63")).
		Padding(0, 2).
		Render("Log in")

	lines := []string{
		title,
		"",
		hint("Reserving seats needs an account."),
		"",
		m.login.username.View(),
		m.login.password.View(),
	}
	if m.login.err != "" {
		lines = append(lines, "", errorStyle.Render(m.login.err))
	}
	lines = append(lines, "", hint("enter continue • tab switch field • esc cancel"))

	panel := lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(strings.Join(lines, "\n"))
	if m.width > 0 {
		panel = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, panel)
	}
	return panel
}
