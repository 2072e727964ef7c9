// Package chat 管理一次对话的状态：消息列表、加载状态、按位置记录的评价、会话 ID。
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/riverfjs/mathchat-go/internal/backend"
)

const (
	// DefaultGreeting 对话开始时的问候
	DefaultGreeting = "Hello! I am your Math Professor. How can I help you with math today?"
	// DefaultRefusal 后端拒答非数学问题时的固定回复
	DefaultRefusal = "I'm sorry, as a math professor, I can only answer questions about mathematics."
)

var (
	// ErrEmptyInput 输入去掉空白后为空
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy 上一个问题还在等待回答
	ErrBusy = errors.New("a question is already in flight")
	// ErrNotRateable 该位置的消息不能评价
	ErrNotRateable = errors.New("message cannot receive feedback")
)

// Role 消息发送方
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message 对话中的一条消息
type Message struct {
	ID          string
	Role        Role
	Text        string
	Regenerated bool
	// Error 请求失败时生成的提示消息
	Error bool
	Time  time.Time
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// Backend 问答服务
type Backend interface {
	Ask(ctx context.Context, question, sessionID string) (string, error)
	Feedback(ctx context.Context, req backend.FeedbackRequest) (string, error)
}

// Options 对话配置
type Options struct {
	Greeting  string
	Refusal   string
	SessionID string
	Logger    *zap.Logger
	Now       func() time.Time
}

// Conversation 对话状态，可并发使用；网络请求期间不持有锁
type Conversation struct {
	backend  Backend
	greeting string
	refusal  string
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.Mutex
	sessionID string
	messages  []Message
	feedback  map[int]backend.Feedback
	loading   bool
}

// NewSessionID 生成 "session-" 加 9 位小写字母数字的会话 ID
func NewSessionID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "session-" + id[:9]
}

// New 创建对话，第一条消息为问候语
func New(b Backend, opts Options) *Conversation {
	if opts.Greeting == "" {
		opts.Greeting = DefaultGreeting
	}
	if opts.Refusal == "" {
		opts.Refusal = DefaultRefusal
	}
	if opts.SessionID == "" {
		opts.SessionID = NewSessionID()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Conversation{
		backend:   b,
		greeting:  opts.Greeting,
		refusal:   opts.Refusal,
		logger:    opts.Logger.With(zap.String("session_id", opts.SessionID)),
		now:       opts.Now,
		sessionID: opts.SessionID,
		feedback:  make(map[int]backend.Feedback),
	}
	c.messages = []Message{c.newMessage(RoleAssistant, opts.Greeting)}
	return c
}

func (c *Conversation) newMessage(role Role, text string) Message {
	return Message{ID: uuid.NewString(), Role: role, Text: text, Time: c.now()}
}

// Send 发送问题并等待回答
//
// 空白输入返回 ErrEmptyInput，上一个问题未完成时返回 ErrBusy，两者都不改变状态。
// 请求失败时追加一条 "Error: ..." 助手消息，并返回该消息和原始错误。
func (c *Conversation) Send(ctx context.Context, input string) (Message, error) {
	question := norm.NFC.String(input)
	if strings.TrimSpace(question) == "" {
		return Message{}, ErrEmptyInput
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return Message{}, ErrBusy
	}
	c.loading = true
	c.messages = append(c.messages, c.newMessage(RoleUser, question))
	session := c.sessionID
	c.mu.Unlock()

	answer, err := c.backend.Ask(ctx, question, session)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	var reply Message
	if err != nil {
		c.logger.Error("ask failed", zap.String("code", string(backend.Classify(err))), zap.Error(err))
		reply = c.newMessage(RoleAssistant, "Error: "+backend.Describe(err))
		reply.Error = true
	} else {
		reply = c.newMessage(RoleAssistant, answer)
	}
	c.messages = append(c.messages, reply)
	return reply, err
}

// Feedback 对第 index 条消息提交评价
//
// 评价状态先于请求记录。后端返回重新生成的回答时，
// 将其作为 Regenerated 消息插入到被评价消息之后，并返回该消息。
func (c *Conversation) Feedback(ctx context.Context, index int, kind backend.Feedback) (*Message, error) {
	c.mu.Lock()
	if !c.canRateLocked(index) {
		c.mu.Unlock()
		return nil, ErrNotRateable
	}
	c.feedback[index] = kind
	rated := c.messages[index]
	question := ""
	if index > 0 {
		question = c.messages[index-1].Text
	}
	session := c.sessionID
	c.mu.Unlock()

	regenerated, err := c.backend.Feedback(ctx, backend.FeedbackRequest{
		SessionID: session,
		Question:  question,
		Answer:    rated.Text,
		Feedback:  kind,
	})
	if err != nil {
		c.logger.Error("feedback failed",
			zap.Int("index", index),
			zap.String("feedback", string(kind)),
			zap.String("code", string(backend.Classify(err))),
			zap.Error(err))
		return nil, err
	}
	if regenerated == "" {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// 请求期间可能追加了消息，按 ID 重新定位
	pos := c.indexOfLocked(rated.ID)
	if pos < 0 {
		return nil, nil
	}
	msg := c.newMessage(RoleAssistant, regenerated)
	msg.Regenerated = true
	c.insertLocked(pos+1, msg)
	return &msg, nil
}

// insertLocked 在 pos 插入消息，评价记录随之后移
func (c *Conversation) insertLocked(pos int, msg Message) {
	c.messages = append(c.messages, Message{})
	copy(c.messages[pos+1:], c.messages[pos:])
	c.messages[pos] = msg

	shifted := make(map[int]backend.Feedback, len(c.feedback))
	for i, f := range c.feedback {
		if i >= pos {
			i++
		}
		shifted[i] = f
	}
	c.feedback = shifted
}

func (c *Conversation) indexOfLocked(id string) int {
	for i, m := range c.messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// CanRate 第 index 条消息是否显示评价按钮
//
// 只有普通助手回答可以评价：用户消息、问候语、拒答、重新生成的回答和错误提示除外。
func (c *Conversation) CanRate(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canRateLocked(index)
}

func (c *Conversation) canRateLocked(index int) bool {
	if index < 0 || index >= len(c.messages) {
		return false
	}
	m := c.messages[index]
	if m.Role != RoleAssistant || m.Regenerated || m.Error {
		return false
	}
	return !strings.Contains(m.Text, c.greeting) && !strings.Contains(m.Text, c.refusal)
}

// LastRateable 最后一条可评价消息的位置，没有时返回 -1
func (c *Conversation) LastRateable() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.canRateLocked(i) {
			return i
		}
	}
	return -1
}

// LastAnswer 最后一条助手消息（问候语除外）
func (c *Conversation) LastAnswer() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i > 0; i-- {
		if c.messages[i].Role == RoleAssistant {
			return c.messages[i], true
		}
	}
	return Message{}, false
}

// Messages 返回消息列表的副本
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// FeedbackFor 第 index 条消息的评价
func (c *Conversation) FeedbackFor(index int) (backend.Feedback, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.feedback[index]
	return f, ok
}

// Loading 是否有问题在等待回答
func (c *Conversation) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// SessionID 会话 ID
func (c *Conversation) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}
