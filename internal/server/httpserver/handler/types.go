package handler

import "time"

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// StatusResponse is the body of /health and /ready.
type StatusResponse struct {
	Status string `json:"status" yaml:"status"`
	Time   string `json:"time" yaml:"time"`
}

// BuildResponse is the body of GET /build.
type BuildResponse struct {
	NodeEnv    string    `json:"node_env" yaml:"node_env"`
	Production bool      `json:"production" yaml:"production"`
	LoadedAt   time.Time `json:"loaded_at" yaml:"loaded_at"`
	AppDir     bool      `json:"app_dir" yaml:"app_dir"`
	Plugins    []string  `json:"plugins" yaml:"plugins"`
}

// SignalInfo describes one subscribed signal.
type SignalInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// SignalsResponse is the body of GET /admin/v1/signals.
type SignalsResponse struct {
	Signals       []SignalInfo `json:"signals" yaml:"signals"`
	PendingExits  int          `json:"pending_exits" yaml:"pending_exits"`
	ShuttingDown  bool         `json:"shutting_down" yaml:"shutting_down"`
	GracePeriodMS int64        `json:"grace_period_ms" yaml:"grace_period_ms"`
	ExitCode      int          `json:"exit_code" yaml:"exit_code"`
}
