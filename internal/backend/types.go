package backend

import (
	"fmt"
	"strings"
)

// Feedback 用户对回答的评价
type Feedback string

const (
	FeedbackCorrect   Feedback = "correct"
	FeedbackIncorrect Feedback = "incorrect"
	FeedbackClarify   Feedback = "clarify"
)

// Feedbacks lists every feedback kind in display order.
var Feedbacks = []Feedback{FeedbackCorrect, FeedbackIncorrect, FeedbackClarify}

// ParseFeedback 解析评价类型（忽略大小写和首尾空白）
func ParseFeedback(s string) (Feedback, error) {
	f := Feedback(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FeedbackCorrect, FeedbackIncorrect, FeedbackClarify:
		return f, nil
	}
	return "", fmt.Errorf("unknown feedback %q (want correct, incorrect or clarify)", s)
}

// Label 按钮文字
func (f Feedback) Label() string {
	switch f {
	case FeedbackCorrect:
		return "✅ Correct"
	case FeedbackIncorrect:
		return "❌ Incorrect"
	case FeedbackClarify:
		return "🔄 Clarify"
	}
	return string(f)
}

// AskRequest POST /ask 请求体
type AskRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// AskResponse POST /ask 响应体
type AskResponse struct {
	Answer *string `json:"answer"`
}

// FeedbackRequest POST /feedback 请求体
type FeedbackRequest struct {
	SessionID string   `json:"session_id"`
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Feedback  Feedback `json:"feedback"`
}

// FeedbackResponse POST /feedback 响应体
type FeedbackResponse struct {
	RegeneratedAnswer string `json:"regenerated_answer,omitempty"`
}

// HealthResponse GET / 响应体
type HealthResponse struct {
	Status string `json:"status"`
}
