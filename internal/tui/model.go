// Package tui 终端聊天界面
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	mathchat "github.com/riverfjs/mathchat-go"
	"github.com/riverfjs/mathchat-go/internal/backend"
	"github.com/riverfjs/mathchat-go/internal/chat"
	"github.com/riverfjs/mathchat-go/internal/config"
	"github.com/riverfjs/mathchat-go/internal/export"
	"github.com/riverfjs/mathchat-go/internal/termrender"
	"github.com/riverfjs/mathchat-go/internal/util"
)

// Options 界面配置
type Options struct {
	Conversation *chat.Conversation
	// Theme auto / dark / light / plain
	Theme string
	// Render 切分与排版选项
	Render []mathchat.Option
	Logger *zap.Logger
	// Clipboard 复制函数，默认 clipboard.WriteAll
	Clipboard func(string) error
}

type answerMsg struct{ err error }

type feedbackMsg struct {
	index       int
	kind        backend.Feedback
	regenerated bool
	err         error
}

type exportMsg struct {
	path string
	err  error
}

type copiedMsg struct{ err error }

// Model bubbletea 模型
type Model struct {
	ctx    context.Context
	conv   *chat.Conversation
	opts   []mathchat.Option
	theme  string
	logger *zap.Logger
	copy   func(string) error

	renderer termrender.Renderer
	// cache 按消息 ID 缓存渲染结果，宽度变化时清空
	cache map[string]string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	width    int
	height   int
	pending  bool
	showHelp bool
	status   string
	statusOK bool
	quitting bool
}

// New 创建模型
func New(ctx context.Context, opts Options) Model {
	if opts.Theme == "" {
		opts.Theme = config.ThemeAuto
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a math question, or /help"
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		conv:     opts.Conversation,
		opts:     opts.Render,
		theme:    opts.Theme,
		logger:   opts.Logger,
		copy:     opts.Clipboard,
		renderer: termrender.Renderer{Styles: termrender.NewStyles(opts.Theme), Width: 76},
		cache:    make(map[string]string),
		input:    ti,
		viewport: vp,
		spinner:  sp,
		width:    80,
		height:   24,
	}
	m.refresh()
	return m
}

// Run 运行界面直到退出
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case answerMsg:
		m.pending = false
		if msg.err != nil && !errors.Is(msg.err, chat.ErrBusy) {
			m.setStatus("Request failed: "+backend.Describe(msg.err), false)
		} else {
			m.status = ""
		}
		m.refresh()
		return m, nil

	case feedbackMsg:
		switch {
		case msg.err != nil:
			m.setStatus("Feedback failed: "+backend.Describe(msg.err), false)
		case msg.regenerated:
			m.setStatus(fmt.Sprintf("%s recorded for #%d, new answer below", msg.kind.Label(), msg.index+1), true)
		default:
			m.setStatus(fmt.Sprintf("%s recorded for #%d", msg.kind.Label(), msg.index+1), true)
		}
		m.refresh()
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.setStatus("Export failed: "+msg.err.Error(), false)
		} else {
			m.setStatus("Saved "+msg.path, true)
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.setStatus("Copy failed: "+msg.err.Error(), false)
		} else {
			m.setStatus("Copied latest answer", true)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		if m.showHelp {
			m.showHelp = false
			m.refresh()
		}
		return m, nil

	case "ctrl+y":
		return m, m.copyCmd()

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case "enter":
		line := m.input.Value()
		if c, ok := parseCommand(line); ok {
			m.input.Reset()
			return m.runCommand(c)
		}
		if m.pending || strings.TrimSpace(line) == "" {
			return m, nil
		}
		m.input.Reset()
		m.pending = true
		m.showHelp = false
		m.status = ""
		return m, tea.Batch(m.sendCmd(questionText(line)), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// runCommand 执行斜杠命令
func (m Model) runCommand(c command) (tea.Model, tea.Cmd) {
	if kind, ok := c.feedbackKind(); ok {
		index, err := c.target(m.conv.LastRateable())
		if err == nil && !m.conv.CanRate(index) {
			err = fmt.Errorf("message #%d cannot be rated", index+1)
		}
		if err != nil {
			m.setStatus(err.Error(), false)
			return m, nil
		}
		m.setStatus("Sending feedback...", true)
		return m, m.feedbackCmd(index, kind)
	}

	switch c.name {
	case "help", "?":
		m.showHelp = true
		m.refresh()
		return m, nil
	case "export":
		path := util.GetFilename(c.arg, m.conv.SessionID(), "html")
		return m, m.exportCmd(path)
	case "quit", "exit", "q":
		m.quitting = true
		return m, tea.Quit
	}
	m.setStatus(fmt.Sprintf("Unknown command /%s, try /help or // to send it as a question", c.name), false)
	return m, nil
}

func (m Model) sendCmd(text string) tea.Cmd {
	conv, ctx := m.conv, m.ctx
	return func() tea.Msg {
		_, err := conv.Send(ctx, text)
		return answerMsg{err: err}
	}
}

func (m Model) feedbackCmd(index int, kind backend.Feedback) tea.Cmd {
	conv, ctx := m.conv, m.ctx
	return func() tea.Msg {
		regenerated, err := conv.Feedback(ctx, index, kind)
		return feedbackMsg{index: index, kind: kind, regenerated: regenerated != nil, err: err}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	conv, opts, logger := m.conv, m.opts, m.logger
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return exportMsg{err: err}
		}
		err = export.Document(f, "Math Professor", conv, opts...)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			logger.Error("export failed", zap.String("path", path), zap.Error(err))
		}
		return exportMsg{path: path, err: err}
	}
}

func (m Model) copyCmd() tea.Cmd {
	conv, copyFn := m.conv, m.copy
	return func() tea.Msg {
		last, ok := conv.LastAnswer()
		if !ok {
			return copiedMsg{err: errors.New("no answer yet")}
		}
		return copiedMsg{err: copyFn(last.Text)}
	}
}

func (m *Model) setStatus(text string, ok bool) {
	m.status = text
	m.statusOK = ok
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = width
	// 标题、状态栏、输入框各占一行
	m.viewport.Height = max(height-3, 1)
	m.input.Width = max(width-4, 10)
	if w := width - 4; w != m.renderer.Width {
		m.renderer.Width = w
		m.cache = make(map[string]string)
	}
	m.refresh()
}

// refresh 重新生成视口内容；停留在底部时保持跟随
func (m *Model) refresh() {
	if m.showHelp {
		m.viewport.SetContent(m.helpView())
		m.viewport.GotoTop()
		return
	}
	follow := m.viewport.AtBottom()
	m.viewport.SetContent(m.transcript())
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) transcript() string {
	var b strings.Builder
	msgs := m.conv.Messages()
	last := m.conv.LastRateable()
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.header(i, msg))
		b.WriteString("\n")
		b.WriteString(m.body(msg))
		if i == last {
			if _, rated := m.conv.FeedbackFor(i); !rated {
				b.WriteString("\n")
				b.WriteString(dimStyle.Render("rate with /correct, /incorrect or /clarify"))
			}
		}
	}
	if m.pending {
		b.WriteString("\n\n")
		b.WriteString(assistantRoleStyle.Render("Professor"))
		b.WriteString(" ")
		b.WriteString(m.spinner.View())
		b.WriteString(dimStyle.Render(" thinking..."))
	}
	return b.String()
}

func (m *Model) header(index int, msg chat.Message) string {
	role := assistantRoleStyle.Render("Professor")
	switch {
	case msg.IsUser():
		role = userRoleStyle.Render("You")
	case msg.Error:
		role = errorRoleStyle.Render("Error")
	}
	parts := []string{dimStyle.Render(fmt.Sprintf("#%d", index+1)), role}
	if msg.Regenerated {
		parts = append(parts, tagStyle.Render("regenerated"))
	}
	if f, ok := m.conv.FeedbackFor(index); ok {
		parts = append(parts, f.Label())
	}
	parts = append(parts, dimStyle.Render(msg.Time.Format("15:04")))
	return strings.Join(parts, " ")
}

func (m *Model) body(msg chat.Message) string {
	if out, ok := m.cache[msg.ID]; ok {
		return out
	}
	var out string
	if msg.Error {
		out = errorTextStyle.Render(msg.Text)
	} else {
		nodes := mathchat.Render(mathchat.SegmentWith(msg.Text, m.opts...), m.opts...)
		out = m.renderer.Render(nodes)
	}
	if m.renderer.Width > 0 {
		out = lipgloss.NewStyle().Width(m.renderer.Width).Render(out)
	}
	out = lipgloss.NewStyle().PaddingLeft(2).Render(out)
	m.cache[msg.ID] = out
	return out
}

func (m *Model) helpView() string {
	style := "light"
	switch {
	case m.theme == config.ThemePlain:
		style = "notty"
	case termrender.IsDark(m.theme):
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(m.width-4, 20)),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	title := titleStyle.Render("Math Professor") + dimStyle.Render(m.conv.SessionID())

	status := dimStyle.Render("enter: send · /help · ctrl+y: copy · ctrl+c: quit")
	switch {
	case m.status != "" && m.statusOK:
		status = m.status
	case m.status != "":
		status = errorTextStyle.Render(m.status)
	case m.pending:
		status = m.spinner.View() + " waiting for the professor..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.viewport.View(),
		statusBarStyle.Render(status),
		m.input.View(),
	)
}
