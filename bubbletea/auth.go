package bubbletea

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/cashpilot/cockpit"
)

// authDelays holds the pacing of the delayed auth transitions. Tests
// shrink these so they don't sit through real seconds.
type authDelays struct {
	success time.Duration // signed in, about to enter chat
	nudge   time.Duration // failed login, about to suggest register
	welcome time.Duration // duplicate register, about to show welcome back
	swap    time.Duration // duplicate register, about to switch to login
}

func defaultAuthDelays() authDelays {
	return authDelays{
		success: time.Second,
		nudge:   3 * time.Second,
		welcome: 1500 * time.Millisecond,
		swap:    3 * time.Second,
	}
}

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

type bannerKind int

const (
	bannerNone bannerKind = iota
	bannerError
	bannerInfo
	bannerSuccess
)

// authState holds the login and register forms. The seq counter is the
// generation guard for delayed transitions: every user action bumps it,
// and a tick carrying an older value is ignored when it fires.
type authState struct {
	mode       authMode
	name       textinput.Model
	email      textinput.Model
	password   textinput.Model
	focus      int
	submitting bool
	banner     string
	kind       bannerKind
	seq        int
}

func newAuthState() authState {
	name := textinput.New()
	name.Placeholder = "Name"
	name.Prompt = ""
	name.Width = 40

	email := textinput.New()
	email.Placeholder = "Email"
	email.Prompt = ""
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "Password"
	password.Prompt = ""
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	a := authState{
		mode:     modeLogin,
		name:     name,
		email:    email,
		password: password,
	}
	a.email.Focus()
	return a
}

func (a authState) withBanner(kind bannerKind, text string) authState {
	a.kind = kind
	a.banner = text
	return a
}

func (m Model) resetAuth() Model {
	seq := m.auth.seq + 1
	m.auth = newAuthState()
	m.auth.seq = seq
	return m
}

func (m Model) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleAuthKey(msg)
	case AuthResultMsg:
		return m.handleAuthResult(msg)
	case AuthTickMsg:
		return m.handleAuthTick(msg)
	}
	return m.updateAuthInputs(msg)
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The form is frozen while a request or a success transition is in
	// flight. Ctrl+C still quits; the root model handles it.
	if m.auth.submitting {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m.submitAuth()

	case tea.KeyTab, tea.KeyDown:
		return m.focusAuthField(m.auth.focus + 1)

	case tea.KeyShiftTab, tea.KeyUp:
		return m.focusAuthField(m.auth.focus - 1)

	case tea.KeyCtrlT:
		m.auth.seq++
		target := modeRegister
		if m.auth.mode == modeRegister {
			target = modeLogin
		}
		return m.switchAuthMode(target)
	}

	return m.updateAuthInputs(msg)
}

// updateAuthInputs forwards a message to all form inputs. Blurred inputs
// ignore keys, so only the focused field consumes typing.
func (m Model) updateAuthInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.auth.name, cmd = m.auth.name.Update(msg)
	cmds = append(cmds, cmd)
	m.auth.email, cmd = m.auth.email.Update(msg)
	cmds = append(cmds, cmd)
	m.auth.password, cmd = m.auth.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) authFieldCount() int {
	if m.auth.mode == modeRegister {
		return 3
	}
	return 2
}

// focusAuthField moves focus to the field at idx, wrapping at both ends.
// Index 0 is the name field on the register form and the email field on
// the login form.
func (m Model) focusAuthField(idx int) (Model, tea.Cmd) {
	count := m.authFieldCount()
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.auth.focus = idx

	m.auth.name.Blur()
	m.auth.email.Blur()
	m.auth.password.Blur()

	var cmd tea.Cmd
	switch {
	case m.auth.mode == modeRegister && idx == 0:
		cmd = m.auth.name.Focus()
	case idx == count-2:
		cmd = m.auth.email.Focus()
	default:
		cmd = m.auth.password.Focus()
	}
	return m, cmd
}

// switchAuthMode swaps the form, keeping the email so the user does not
// retype it. Register focuses the name field; login focuses the password
// when an email is already present.
func (m Model) switchAuthMode(target authMode) (Model, tea.Cmd) {
	m.auth.mode = target
	m.auth.banner = ""
	m.auth.kind = bannerNone
	m.auth.password.SetValue("")
	if target == modeLogin {
		m.auth.name.SetValue("")
	}

	idx := 0
	if target == modeLogin && strings.TrimSpace(m.auth.email.Value()) != "" {
		idx = 1
	}
	return m.focusAuthField(idx)
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.auth.email.Value())
	password := m.auth.password.Value()

	// A new submission supersedes any pending delayed transition.
	m.auth.seq++

	if m.auth.mode == modeRegister {
		name := strings.TrimSpace(m.auth.name.Value())
		if err := cockpit.ValidateRegistration(name, email, password); err != nil {
			m.auth = m.auth.withBanner(bannerError, validationText(err))
			return m, nil
		}
		m.auth.submitting = true
		m.auth = m.auth.withBanner(bannerInfo, "Creating your account...")
		return m, register(m.client, name, email, password)
	}

	if err := cockpit.ValidateCredentials(email, password); err != nil {
		m.auth = m.auth.withBanner(bannerError, validationText(err))
		return m, nil
	}
	m.auth.submitting = true
	m.auth = m.auth.withBanner(bannerInfo, "Signing in...")
	return m, login(m.client, email, password)
}

func (m Model) handleAuthResult(msg AuthResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err == nil {
		return m.finishAuthSuccess(msg.Session)
	}

	m.auth.submitting = false

	var apiErr *cockpit.APIError
	if !errors.As(msg.Err, &apiErr) {
		m.logger.Warn("auth request failed", zap.Error(msg.Err))
		m.auth = m.auth.withBanner(bannerError, connectionErrorText)
		return m, nil
	}

	if msg.Register {
		return m.handleRegisterError(apiErr)
	}
	return m.handleLoginError(apiErr)
}

// finishAuthSuccess persists the session, arms the client and schedules
// the switch to the chat screen. The form stays frozen through the
// transition so a second submit cannot race it.
func (m Model) finishAuthSuccess(sess cockpit.Session) (tea.Model, tea.Cmd) {
	if err := m.store.Save(sess); err != nil {
		// Signed in for this run; the session just won't survive a restart.
		m.logger.Warn("persist session", zap.Error(err))
	}
	m.client.SetToken(sess.Token)
	m.chat.user = sess.User
	m.logger.Info("signed in", zap.String("user_id", sess.User.ID))

	m.auth.submitting = true
	m.auth.seq++
	greeting := sess.User.Name
	if greeting == "" {
		greeting = sess.User.Email
	}
	m.auth = m.auth.withBanner(bannerSuccess, "Welcome, "+greeting+"!")
	return m, authTick(m.delays.success, m.auth.seq, AuthTickEnterChat)
}

func (m Model) handleLoginError(apiErr *cockpit.APIError) (tea.Model, tea.Cmd) {
	// 401 and 500 are read as "this account probably doesn't exist" and
	// answered with a register nudge instead of the raw error.
	if apiErr.StatusCode == http.StatusUnauthorized ||
		apiErr.StatusCode == http.StatusInternalServerError {
		m.auth.seq++
		m.auth = m.auth.withBanner(bannerInfo, "No account yet? Let's get you set up.")
		return m, authTick(m.delays.nudge, m.auth.seq, AuthTickSuggestRegister)
	}
	m.auth = m.auth.withBanner(bannerError, errorText(apiErr))
	return m, nil
}

func (m Model) handleRegisterError(apiErr *cockpit.APIError) (tea.Model, tea.Cmd) {
	if apiErr.StatusCode == http.StatusBadRequest && isAlreadyRegistered(apiErr) {
		m.auth.seq++
		m.auth = m.auth.withBanner(bannerError, errorText(apiErr))
		return m, tea.Batch(
			authTick(m.delays.welcome, m.auth.seq, AuthTickShowWelcome),
			authTick(m.delays.swap, m.auth.seq, AuthTickSuggestLogin),
		)
	}
	m.auth = m.auth.withBanner(bannerError, errorText(apiErr))
	return m, nil
}

// isAlreadyRegistered matches the server's duplicate-account rejection.
// The error code is authoritative; the message substrings cover servers
// that only return the human-readable detail.
func isAlreadyRegistered(apiErr *cockpit.APIError) bool {
	if apiErr.Code == "user_already_exists" {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	for _, hint := range []string{"already", "exists", "registered", "duplicate"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

func (m Model) handleAuthTick(msg AuthTickMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.auth.seq {
		m.logger.Debug("stale auth transition dropped", zap.Int("seq", msg.Seq))
		return m, nil
	}

	switch msg.Action {
	case AuthTickEnterChat:
		m = m.resetAuth()
		m.screen = ScreenChat
		return m, tea.Batch(loadConversations(m.client), textinput.Blink)

	case AuthTickSuggestRegister:
		// Switch only if the register form isn't already shown; the
		// swap would wipe what the user has typed since.
		if m.auth.mode == modeRegister {
			return m, nil
		}
		mm, cmd := m.switchAuthMode(modeRegister)
		mm.auth = mm.auth.withBanner(bannerInfo, "Create your account to get started.")
		return mm, cmd

	case AuthTickShowWelcome:
		m.auth = m.auth.withBanner(bannerInfo, "Welcome back! Sign in with your password.")
		return m, nil

	case AuthTickSuggestLogin:
		if m.auth.mode == modeLogin {
			return m, nil
		}
		mm, cmd := m.switchAuthMode(modeLogin)
		mm.auth = mm.auth.withBanner(bannerInfo, "Sign in to continue.")
		return mm, cmd
	}
	return m, nil
}

// validationText strips the sentinel suffix so banners read as plain
// sentences.
func validationText(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+cockpit.ErrValidation.Error())
}

func (m Model) viewAuth() string {
	var b strings.Builder

	b.WriteString(m.styles.Accent.Render("CashPilot"))
	b.WriteString("  ")
	if m.auth.mode == modeLogin {
		b.WriteString(m.styles.Muted.Render("sign in"))
	} else {
		b.WriteString(m.styles.Muted.Render("create account"))
	}
	b.WriteString("\n\n")

	if m.auth.mode == modeRegister {
		b.WriteString(m.auth.name.View())
		b.WriteString("\n")
	}
	b.WriteString(m.auth.email.View())
	b.WriteString("\n")
	b.WriteString(m.auth.password.View())
	b.WriteString("\n\n")

	if m.auth.banner != "" {
		b.WriteString(m.authBanner())
		b.WriteString("\n")
	}
	b.WriteString(m.authFooter())

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
	}
	return b.String()
}

func (m Model) authBanner() string {
	var style lipgloss.Style
	switch m.auth.kind {
	case bannerError:
		style = m.styles.Error
	case bannerSuccess:
		style = m.styles.Success
	default:
		style = m.styles.Info
	}
	return style.Render(m.auth.banner)
}

func (m Model) authFooter() string {
	hint := "Enter to sign in, Ctrl+T to register, Ctrl+C to quit"
	if m.auth.mode == modeRegister {
		hint = "Enter to create account, Ctrl+T to sign in instead, Ctrl+C to quit"
	}
	return m.styles.Muted.Render(hint)
}
