// Package backend 实现问答服务的 HTTP 协议：POST /ask、POST /feedback、GET /。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL 默认后端地址
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout 单次请求超时
	DefaultTimeout = 60 * time.Second
	// MaxResponseSize 响应体上限
	MaxResponseSize = 4 * 1024 * 1024
	// maxErrorBody 错误信息中保留的响应体长度
	maxErrorBody = 512
)

// Options 客户端配置
type Options struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond 客户端限速，0 表示不限
	RequestsPerSecond float64
	HTTPClient        *http.Client
	UserAgent         string
	Logger            *zap.Logger
}

// Client 问答服务客户端，可并发使用
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	agent   string
	logger  *zap.Logger
}

// New 创建客户端
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", opts.BaseURL)
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	agent := opts.UserAgent
	if agent == "" {
		agent = "mathchat-go"
	}

	return &Client{base: base, http: client, limiter: limiter, agent: agent, logger: logger}, nil
}

// BaseURL 返回后端地址
func (c *Client) BaseURL() string {
	return strings.TrimRight(c.base.String(), "/")
}

// Ask 提问，返回回答文本
func (c *Client) Ask(ctx context.Context, question, sessionID string) (string, error) {
	var resp AskResponse
	if err := c.do(ctx, http.MethodPost, "ask", AskRequest{Question: question, SessionID: sessionID}, &resp); err != nil {
		return "", err
	}
	if resp.Answer == nil {
		return "", fmt.Errorf("ask: missing answer field: %w", ErrMalformedResponse)
	}
	return *resp.Answer, nil
}

// Feedback 提交评价，返回重新生成的回答（可能为空）
func (c *Client) Feedback(ctx context.Context, req FeedbackRequest) (string, error) {
	var resp FeedbackResponse
	if err := c.do(ctx, http.MethodPost, "feedback", req, &resp); err != nil {
		return "", err
	}
	return resp.RegeneratedAnswer, nil
}

// Health 健康检查
func (c *Client) Health(ctx context.Context) error {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("status %q: %w", resp.Status, ErrUnhealthy)
	}
	return nil
}

// do 发送 JSON 请求并解码响应
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.base.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.agent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("url", endpoint.String()),
			zap.String("code", string(Classify(err))),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, endpoint.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("url", endpoint.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(data))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return &StatusError{Code: resp.StatusCode, Body: snippet}
	}
	if len(data) > MaxResponseSize {
		return fmt.Errorf("response exceeds %d bytes: %w", MaxResponseSize, ErrMalformedResponse)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %v: %w", endpoint.Path, err, ErrMalformedResponse)
	}
	return nil
}
