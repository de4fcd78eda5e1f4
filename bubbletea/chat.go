package bubbletea

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"go.uber.org/zap"

	"github.com/cashpilot/cockpit"
	"github.com/cashpilot/cockpit/markdown"
)

const (
	sidebarWidth             = 30
	defaultConversationTitle = "New Conversation"
	derivedTitleMax          = 40
)

// chatState holds the chat screen: the conversation registry, the active
// timeline, and the widgets around them.
type chatState struct {
	registry *cockpit.Registry
	timeline *cockpit.Timeline

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	user      cockpit.User
	creating  bool // an implicit or explicit conversation create is in flight
	status    string
	statusErr bool
	listErr   bool
}

func newChatState(styles Styles) chatState {
	input := textinput.New()
	input.Placeholder = "Ask about your portfolio..."
	input.Prompt = "> "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Info

	return chatState{
		registry: &cockpit.Registry{},
		timeline: &cockpit.Timeline{},
		input:    input,
		viewport: viewport.New(0, 0),
		spinner:  sp,
	}
}

// resetChat wipes all chat state except widget geometry, which survives
// sign-out so the next session doesn't wait for a resize.
func (m Model) resetChat() Model {
	vp := m.chat.viewport
	inputWidth := m.chat.input.Width
	m.chat = newChatState(m.styles)
	m.chat.viewport = vp
	m.chat.input.Width = inputWidth
	m = m.refreshChatViewport()
	return m
}

func (m Model) resizeChat(width, height int) Model {
	contentHeight := height - 3
	if contentHeight < 1 {
		contentHeight = 1
	}
	mainWidth := width - sidebarWidth - 1
	if mainWidth < 20 {
		mainWidth = 20
	}
	m.chat.viewport.Width = mainWidth
	m.chat.viewport.Height = contentHeight
	m.chat.input.Width = width - 3
	m = m.refreshChatViewport()
	return m
}

func (m Model) refreshChatViewport() Model {
	if !m.ready {
		return m
	}
	m.chat.viewport.SetContent(m.renderTimeline())
	m.chat.viewport.GotoBottom()
	return m
}

func (m Model) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleChatKey(msg)
	case ConversationsMsg:
		return m.handleConversations(msg)
	case ConversationCreatedMsg:
		return m.handleConversationCreated(msg)
	case ConversationDeletedMsg:
		return m.handleConversationDeleted(msg)
	case MessagesMsg:
		return m.handleMessagesLoaded(msg)
	case SendResultMsg:
		return m.handleSendResult(msg)
	case spinner.TickMsg:
		// The spinner only runs while something is in flight; dropping the
		// tick here stops it.
		if m.Sending() {
			var cmd tea.Cmd
			m.chat.spinner, cmd = m.chat.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.chat.viewport, cmd = m.chat.viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.chat.input, cmd = m.chat.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submitSend()
	case tea.KeyCtrlN:
		return m.createNewConversation()
	case tea.KeyCtrlJ:
		return m.selectConversationOffset(1)
	case tea.KeyCtrlK:
		return m.selectConversationOffset(-1)
	case tea.KeyCtrlD:
		return m.deleteSelected()
	case tea.KeyCtrlR:
		return m, loadConversations(m.client)
	case tea.KeyCtrlY:
		return m.copyLastReply()
	}

	// Typing goes to the input; non-character keys also drive the viewport
	// so the timeline can be scrolled.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.chat.viewport, cmd = m.chat.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.chat.input, cmd = m.chat.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submitSend sends the input text to the active conversation. With no
// conversation selected it first creates one titled after the message,
// then sends. Empty input and an exchange already in flight are both
// rejected before anything is dispatched.
func (m Model) submitSend() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.chat.input.Value())
	if cockpit.ValidateMessage(text) != nil {
		return m, nil
	}
	if m.Sending() {
		return m, nil
	}

	m.chat.input.SetValue("")
	m.chat.status = ""
	m.chat.statusErr = false

	if m.chat.registry.SelectedID() == "" {
		m.chat.creating = true
		return m, tea.Batch(
			createConversation(m.client, deriveTitle(text), text),
			m.chat.spinner.Tick,
		)
	}
	return m.dispatchSend(text)
}

// dispatchSend appends the user's message locally and starts the API
// call. The local entry stays even if the send later fails, so the user
// can see what was attempted.
func (m Model) dispatchSend(text string) (tea.Model, tea.Cmd) {
	convID := m.chat.registry.SelectedID()
	if convID == "" {
		return m, nil
	}
	if !m.chat.timeline.BeginSend() {
		return m, nil
	}
	m.chat.timeline.AppendLocal(text)
	m = m.refreshChatViewport()
	return m, tea.Batch(sendMessage(m.client, convID, text), m.chat.spinner.Tick)
}

func (m Model) createNewConversation() (tea.Model, tea.Cmd) {
	if m.Sending() {
		return m, nil
	}
	m.chat.creating = true
	m.chat.status = ""
	m.chat.statusErr = false
	return m, tea.Batch(
		createConversation(m.client, defaultConversationTitle, ""),
		m.chat.spinner.Tick,
	)
}

func (m Model) selectConversationOffset(delta int) (tea.Model, tea.Cmd) {
	if !m.chat.registry.SelectOffset(delta) {
		return m, nil
	}
	id := m.chat.registry.SelectedID()
	m.chat.timeline.Reset(id)
	m.chat.status = ""
	m.chat.statusErr = false
	m = m.refreshChatViewport()
	return m, loadMessages(m.client, id)
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	id := m.chat.registry.SelectedID()
	if id == "" {
		return m, nil
	}
	return m, deleteConversation(m.client, id)
}

func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	msgs := m.chat.timeline.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != cockpit.RoleAssistant {
			continue
		}
		if err := clipboard.WriteAll(msgs[i].Content); err != nil {
			m.logger.Warn("clipboard write failed", zap.Error(err))
			m.chat.status = "Clipboard unavailable."
			m.chat.statusErr = true
		} else {
			m.chat.status = "Copied last reply."
			m.chat.statusErr = false
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleConversations(msg ConversationsMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.chat.listErr = true
		m.logger.Warn("conversation list load failed", zap.Error(msg.Err))
		return m, nil
	}
	m.chat.listErr = false
	if m.chat.registry.Replace(msg.List) {
		id := m.chat.registry.SelectedID()
		m.chat.timeline.Reset(id)
		m = m.refreshChatViewport()
		if id != "" {
			return m, loadMessages(m.client, id)
		}
	}
	return m, nil
}

func (m Model) handleConversationCreated(msg ConversationCreatedMsg) (tea.Model, tea.Cmd) {
	m.chat.creating = false
	if msg.Err != nil {
		m.chat.status = errorText(msg.Err)
		m.chat.statusErr = true
		m.logger.Warn("create conversation failed", zap.Error(msg.Err))
		return m, nil
	}
	m.chat.registry.Insert(msg.Conversation)
	m.chat.timeline.Reset(msg.Conversation.ID)
	m = m.refreshChatViewport()
	m.logger.Info("conversation created", zap.String("conversation_id", msg.Conversation.ID))
	if msg.SendText != "" {
		return m.dispatchSend(msg.SendText)
	}
	return m, nil
}

func (m Model) handleConversationDeleted(msg ConversationDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.chat.status = errorText(msg.Err)
		m.chat.statusErr = true
		m.logger.Warn("delete conversation failed",
			zap.String("conversation_id", msg.ID),
			zap.Error(msg.Err))
		return m, nil
	}
	m.logger.Info("conversation deleted", zap.String("conversation_id", msg.ID))
	// The reload decides the new selection.
	return m, loadConversations(m.client)
}

func (m Model) handleMessagesLoaded(msg MessagesMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("message load failed",
			zap.String("conversation_id", msg.ConversationID),
			zap.Error(msg.Err))
		if msg.ConversationID == m.chat.timeline.ConversationID() {
			m.chat.status = "Could not load messages."
			m.chat.statusErr = true
		}
		return m, nil
	}
	if m.chat.timeline.Apply(msg.ConversationID, msg.Messages) {
		m = m.refreshChatViewport()
	} else {
		m.logger.Debug("stale message load dropped",
			zap.String("conversation_id", msg.ConversationID))
	}
	return m, nil
}

func (m Model) handleSendResult(msg SendResultMsg) (tea.Model, tea.Cmd) {
	current := msg.ConversationID == m.chat.timeline.ConversationID()
	m.chat.timeline.EndSend(msg.ConversationID)

	if msg.Err != nil {
		m.logger.Warn("send failed",
			zap.String("conversation_id", msg.ConversationID),
			zap.Error(msg.Err))
		if current {
			m.chat.status = errorText(msg.Err)
			m.chat.statusErr = true
		}
	} else if !m.chat.timeline.Append(msg.ConversationID, msg.Reply) {
		m.logger.Debug("stale send result dropped",
			zap.String("conversation_id", msg.ConversationID))
	}

	m = m.refreshChatViewport()
	// The exchange changed the conversation's recency and count on the
	// server; refresh the sidebar regardless of which conversation settled.
	return m, loadConversations(m.client)
}

// deriveTitle builds a conversation title from the first message, keeping
// whole grapheme clusters within a display width budget.
func deriveTitle(text string) string {
	line := strings.TrimSpace(text)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if line == "" {
		return defaultConversationTitle
	}

	var b strings.Builder
	width := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		cluster := g.Str()
		w := runewidth.StringWidth(cluster)
		if width+w > derivedTitleMax {
			b.WriteString("…")
			break
		}
		b.WriteString(cluster)
		width += w
	}
	return b.String()
}

func (m Model) viewChat() string {
	sidebar := m.renderSidebar(m.chat.viewport.Height)
	content := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", m.chat.viewport.View())

	var b strings.Builder
	b.WriteString(m.chatHeader())
	b.WriteString("\n")
	b.WriteString(content)
	b.WriteString("\n")
	b.WriteString(m.chatStatusLine())
	b.WriteString("\n")
	b.WriteString(m.chat.input.View())
	return b.String()
}

func (m Model) chatHeader() string {
	left := m.styles.Accent.Render("CashPilot Cockpit")
	who := m.chat.user.Name
	if who == "" {
		who = m.chat.user.Email
	}
	right := m.styles.Muted.Render(who)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) chatStatusLine() string {
	if m.chat.status != "" {
		if m.chat.statusErr {
			return m.styles.Error.Render(m.chat.status)
		}
		return m.styles.Info.Render(m.chat.status)
	}
	if m.Sending() {
		return m.styles.Muted.Render("Waiting for CashPilot...")
	}
	return m.styles.Muted.Render("Enter send, Ctrl+N new, Ctrl+J/K switch, Ctrl+D delete, Ctrl+R refresh, Ctrl+Y copy, Ctrl+X sign out")
}

func (m Model) renderSidebar(height int) string {
	lines := []string{m.styles.Accent.Render("Conversations")}

	list := m.chat.registry.Conversations()
	switch {
	case m.chat.listErr && len(list) == 0:
		lines = append(lines,
			m.styles.Error.Render("Could not load conversations."),
			m.styles.Muted.Render("Ctrl+R to retry"))
	case len(list) == 0:
		lines = append(lines, m.styles.Muted.Render("No conversations yet"))
	default:
		selected := m.chat.registry.SelectedID()
		selIdx := 0
		for i, c := range list {
			if c.ID == selected {
				selIdx = i
			}
		}
		maxItems := (height - 1) / 2
		start, end := windowBounds(len(list), selIdx, maxItems)
		for _, c := range list[start:end] {
			lines = append(lines, m.renderSidebarEntry(c, c.ID == selected)...)
		}
	}

	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderSidebarEntry(c cockpit.Conversation, selected bool) []string {
	title := c.Title
	if title == "" {
		title = "Untitled"
	}
	title = runewidth.Truncate(title, sidebarWidth-3, "…")

	var titleLine string
	if selected {
		titleLine = m.styles.Accent.Render("▸ " + title)
	} else {
		titleLine = "  " + title
	}

	meta := ""
	if !c.UpdatedAt.IsZero() {
		meta = humanize.Time(c.UpdatedAt)
	}
	switch {
	case c.MessageCount == 1:
		meta = strings.TrimSuffix("1 message · "+meta, " · ")
	case c.MessageCount > 1:
		meta = strings.TrimSuffix(fmt.Sprintf("%d messages · %s", c.MessageCount, meta), " · ")
	}
	meta = runewidth.Truncate(meta, sidebarWidth-3, "…")

	return []string{titleLine, m.styles.Muted.Render("  " + meta)}
}

// windowBounds picks the slice of n items to show when only max fit,
// keeping the selection roughly centered.
func windowBounds(n, sel, max int) (start, end int) {
	if max <= 0 || n <= max {
		return 0, n
	}
	start = sel - max/2
	if start < 0 {
		start = 0
	}
	if start+max > n {
		start = n - max
	}
	return start, start + max
}

func (m Model) renderTimeline() string {
	msgs := m.chat.timeline.Messages()
	if len(msgs) == 0 && !m.Sending() {
		return m.styles.Muted.Render("No messages yet. Say hello!")
	}

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderMessage(msg, m.chat.viewport.Width))
	}
	if m.Sending() {
		if len(msgs) > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.chat.spinner.View())
		b.WriteString(" ")
		b.WriteString(m.styles.Muted.Render("CashPilot is thinking..."))
	}
	return b.String()
}

func (m Model) renderMessage(msg cockpit.Message, width int) string {
	var header string
	switch msg.Role {
	case cockpit.RoleUser:
		header = m.styles.UserMsg.Render("You")
	case cockpit.RoleAssistant:
		header = m.styles.Assistant.Render("CashPilot")
		if msg.AgentType != "" {
			header += " " + m.styles.Muted.Render("["+msg.AgentType+"]")
		}
	default:
		header = m.styles.Muted.Render(string(msg.Role))
	}
	if !msg.Timestamp.IsZero() {
		header += " " + m.styles.Muted.Render(msg.Timestamp.Local().Format("15:04"))
	}

	var body string
	if msg.Role == cockpit.RoleAssistant {
		body = markdown.Render(msg.Content, width, m.theme)
	} else {
		body = lipgloss.NewStyle().Width(width).Render(msg.Content)
	}
	return header + "\n" + body
}
