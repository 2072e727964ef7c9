package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrMalformedResponse 响应不是预期的 JSON
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnhealthy 健康检查返回的状态不是 ok
	ErrUnhealthy = errors.New("backend unhealthy")
)

// StatusError 非 2xx 响应
type StatusError struct {
	Code int
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend returned HTTP %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("backend returned HTTP %d", e.Code)
}

// Code 错误分类，用于日志字段
type Code string

const (
	CodeNetwork  Code = "network"
	CodeStatus   Code = "status"
	CodeProtocol Code = "protocol"
	CodeCancel   Code = "cancel"
	CodeUnknown  Code = "unknown"
)

// Classify 将错误归类
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	// 取消/超时优先
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancel
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		return CodeStatus
	}
	if errors.Is(err, ErrMalformedResponse) || errors.Is(err, ErrUnhealthy) {
		return CodeProtocol
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return CodeNetwork
	}
	return CodeUnknown
}

// Describe 面向用户的错误描述
func Describe(err error) string {
	if err == nil {
		return ""
	}
	switch Classify(err) {
	case CodeStatus:
		var serr *StatusError
		errors.As(err, &serr)
		return fmt.Sprintf("Request failed with status code %d", serr.Code)
	case CodeNetwork:
		return "Network Error: could not reach the server"
	case CodeCancel:
		return "Request canceled or timed out"
	case CodeProtocol:
		return "Unexpected response from the server"
	}
	return err.Error()
}
