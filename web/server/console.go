package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// RequestLogger implements core.Logger for a single render request. Lines go
// to glog at verbosity 1 prefixed with the render ID, and to the console
// channel when one is attached.
type RequestLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewRequestLogger creates a new logger for a specific render
func NewRequestLogger(renderID string, consoleChan chan<- ConsoleMessage) *RequestLogger {
	return &RequestLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger interface
func (rl *RequestLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	glog.V(1).Infof("[%s] %s", rl.renderID, strings.TrimRight(message, "\n"))

	// Send to the console if a channel is attached (non-blocking)
	if rl.consoleChan != nil {
		select {
		case rl.consoleChan <- ConsoleMessage{
			Message:   message,
			Timestamp: time.Now(),
			Level:     "info",
		}:
		default:
			// Channel full, skip (don't block)
		}
	}
}

// drainConsole collects every message currently buffered in ch
func drainConsole(ch <-chan ConsoleMessage) []ConsoleMessage {
	messages := []ConsoleMessage{}
	for {
		select {
		case msg := <-ch:
			messages = append(messages, msg)
		default:
			return messages
		}
	}
}
