package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by sending messages to a console channel
// and forwarding them to the server log
type WebLogger struct {
	streamID    string
	consoleChan chan<- ConsoleMessage
	next        core.Logger
}

// NewWebLogger creates a logger for one SSE stream. next may be nil.
func NewWebLogger(streamID string, consoleChan chan<- ConsoleMessage, next core.Logger) *WebLogger {
	if next == nil {
		next = core.NopLogger{}
	}
	return &WebLogger{
		streamID:    streamID,
		consoleChan: consoleChan,
		next:        next,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	wl.next.Printf("[%s] %s", wl.streamID, message)

	if wl.consoleChan == nil {
		return
	}
	// Never block the renderer on a slow client
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     messageLevel(message),
	}:
	default:
	}
}

func messageLevel(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.HasPrefix(lower, "error"):
		return "error"
	case strings.HasPrefix(lower, "warning"):
		return "warning"
	default:
		return "info"
	}
}
