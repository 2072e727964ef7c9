// Package web 基于 chi 的网页聊天客户端，页面在服务端渲染，不依赖 JavaScript
package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	mathchat "github.com/riverfjs/mathchat-go"
	"github.com/riverfjs/mathchat-go/internal/backend"
	"github.com/riverfjs/mathchat-go/internal/chat"
	"github.com/riverfjs/mathchat-go/internal/export"
)

// CookieName 会话 cookie
const CookieName = "mathchat_session"

// DefaultSessionTTL 会话空闲多久后回收
const DefaultSessionTTL = 2 * time.Hour

// Options 服务配置
type Options struct {
	Backend chat.Backend
	// Chat 新建对话时使用，SessionID 字段被忽略
	Chat       chat.Options
	Render     []mathchat.Option
	SessionTTL time.Duration
	Logger     *zap.Logger
}

type session struct {
	conv *chat.Conversation
	seen time.Time
}

// Server 网页客户端，每个浏览器 cookie 对应一个内存中的对话
type Server struct {
	backend  chat.Backend
	chatOpts chat.Options
	opts     []mathchat.Option
	ttl      time.Duration
	logger   *zap.Logger
	page     *template.Template
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// New 创建服务
func New(opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Chat.SessionID = ""
	opts.Chat.Logger = opts.Logger
	return &Server{
		backend:  opts.Backend,
		chatOpts: opts.Chat,
		opts:     opts.Render,
		ttl:      opts.SessionTTL,
		logger:   opts.Logger,
		page:     pageTemplate(),
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Router 路由
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Post("/send", s.send)
	r.Post("/feedback/{index}/{kind}", s.feedback)
	r.Get("/healthz", s.healthz)

	return r
}

// ListenAndServe 监听 addr，ctx 取消后优雅退出
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web client listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// requestLogger 用 zap 记录每个请求
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		}()
		next.ServeHTTP(ww, r)
	})
}

// conversation 取出 cookie 对应的对话，没有则新建并写 cookie
func (s *Server) conversation(w http.ResponseWriter, r *http.Request) *chat.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if c, err := r.Cookie(CookieName); err == nil {
		if sess, ok := s.sessions[c.Value]; ok {
			sess.seen = now
			return sess.conv
		}
	}

	s.sweepLocked(now)
	key := uuid.NewString()
	conv := chat.New(s.backend, s.chatOpts)
	s.sessions[key] = &session{conv: conv, seen: now}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("new web session", zap.String("session_id", conv.SessionID()))
	return conv
}

func (s *Server) sweepLocked(now time.Time) {
	for key, sess := range s.sessions {
		if now.Sub(sess.seen) > s.ttl {
			delete(s.sessions, key)
		}
	}
}

// Sessions 当前会话数
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type pageData struct {
	SessionID string
	Loading   bool
	Notice    string
	CSS       template.CSS
	Messages  []export.View
}

// index handles GET "/".
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	conv := s.conversation(w, r)
	s.render(w, http.StatusOK, conv, r.URL.Query().Get("notice"))
}

func (s *Server) render(w http.ResponseWriter, status int, conv *chat.Conversation, notice string) {
	data := pageData{
		SessionID: conv.SessionID(),
		Loading:   conv.Loading(),
		Notice:    notice,
		CSS:       template.CSS(export.Stylesheet + pageCSS),
		Messages:  export.Views(conv, s.opts...),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.ExecuteTemplate(w, "page", data); err != nil {
		s.logger.Error("render page", zap.Error(err))
	}
}

// send handles POST "/send"，等待回答后重定向回页面
func (s *Server) send(w http.ResponseWriter, r *http.Request) {
	conv := s.conversation(w, r)
	question := r.PostFormValue("question")

	_, err := conv.Send(r.Context(), question)
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		redirect(w, r, "Please type a question first.")
	case errors.Is(err, chat.ErrBusy):
		s.render(w, http.StatusConflict, conv, "Still waiting for the previous answer.")
	default:
		// 后端错误已作为 Error 消息加入对话
		redirect(w, r, "")
	}
}

// feedback handles POST "/feedback/{index}/{kind}".
func (s *Server) feedback(w http.ResponseWriter, r *http.Request) {
	conv := s.conversation(w, r)

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid message index", http.StatusBadRequest)
		return
	}
	kind, err := backend.ParseFeedback(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err = conv.Feedback(r.Context(), index, kind)
	switch {
	case errors.Is(err, chat.ErrNotRateable):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		redirect(w, r, "Feedback failed: "+backend.Describe(err))
	default:
		redirect(w, r, "")
	}
}

// healthz handles GET "/healthz".
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(backend.HealthResponse{Status: "ok"})
}

func redirect(w http.ResponseWriter, r *http.Request, notice string) {
	target := "/#bottom"
	if notice != "" {
		target = "/?notice=" + template.URLQueryEscaper(notice) + "#bottom"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
