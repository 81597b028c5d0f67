package server

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

type captureLogger struct {
	lines []string
}

func (c *captureLogger) Printf(format string, args ...interface{}) {
	c.lines = append(c.lines, fmt.Sprintf(format, args...))
}

func TestWebLogger_BasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	next := &captureLogger{}
	logger := NewWebLogger("stream-123", messageChan, next)

	logger.Printf("%s\n", "Test log message")

	select {
	case msg := <-messageChan:
		if msg.Message != "Test log message\n" {
			t.Errorf("Expected message 'Test log message\\n', got '%s'", msg.Message)
		}
		if msg.Level != "info" {
			t.Errorf("Expected level 'info', got '%s'", msg.Level)
		}
		if time.Since(msg.Timestamp) > time.Second {
			t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for console message")
	}

	if len(next.lines) != 1 || !strings.HasPrefix(next.lines[0], "[stream-123] ") {
		t.Errorf("Expected forwarded server log line, got %q", next.lines)
	}
}

func TestWebLogger_Levels(t *testing.T) {
	tests := []struct {
		message string
		level   string
	}{
		{"Frame 30 completed", "info"},
		{"Warning: scene has problems", "warning"},
		{"error: snapshot failed", "error"},
	}

	for _, tt := range tests {
		messageChan := make(chan ConsoleMessage, 1)
		NewWebLogger("levels", messageChan, nil).Printf("%s", tt.message)
		if msg := <-messageChan; msg.Level != tt.level {
			t.Errorf("%q: expected level %s, got %s", tt.message, tt.level, msg.Level)
		}
	}
}

func TestWebLogger_ChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("full", messageChan, nil)

	// The second and third messages are dropped instead of blocking
	logger.Printf("Message 1\n")
	logger.Printf("Message 2\n")
	logger.Printf("Message 3\n")

	if msg := <-messageChan; msg.Message != "Message 1\n" {
		t.Errorf("Expected first message kept, got %q", msg.Message)
	}
	select {
	case msg := <-messageChan:
		t.Errorf("Expected dropped messages, got %q", msg.Message)
	default:
	}
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger("nil", nil, nil)
	logger.Printf("Test message with nil channel\n")
}
