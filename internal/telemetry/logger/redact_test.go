package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestRedactSensitive(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"bearer scheme keeps prefix", "header", "Bearer abcdefghijklmnop", "Bearer abc...nop"},
		{"short bearer", "header", "Bearer abc", "Bearer ***"},
		{"sensitive key", "api_key", "plain-value", redactedValue},
		{"password key", "db_password", "hunter2", redactedValue},
		{"empty sensitive value untouched", "token", "", ""},
		{"ordinary key untouched", "signal", "SIGTERM", "SIGTERM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newJSONLogger(t, &buf)
			l.Info("event", tt.key, tt.value)

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("Failed to parse JSON log: %v", err)
			}
			if got := entry[tt.key]; got != tt.want {
				t.Errorf("%s = %v, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestRedactString(t *testing.T) {
	if got := RedactString("Basic dXNlcjpwYXNzd29yZA=="); got != "Basic dXN...A==" {
		t.Errorf("RedactString() = %q", got)
	}
	if got := RedactString("nothing secret"); got != "nothing secret" {
		t.Errorf("RedactString() = %q, want input unchanged", got)
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for _, key := range []string{"Authorization", "session_cookie", "client_secret"} {
		if !IsSensitiveKey(key) {
			t.Errorf("IsSensitiveKey(%q) = false, want true", key)
		}
	}
	if IsSensitiveKey("signal") {
		t.Error("IsSensitiveKey(signal) = true, want false")
	}
}
