package server

import (
	"testing"
	"time"
)

func TestRequestLogger_BasicLogging(t *testing.T) {
	// Create a channel to receive console messages
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewRequestLogger("test-render-123", messageChan)

	testMessage := "Scanlines remaining: 7"
	logger.Printf("%s", testMessage)

	select {
	case msg := <-messageChan:
		if msg.Message != testMessage {
			t.Errorf("Expected message '%s', got '%s'", testMessage, msg.Message)
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
}

func TestRequestLogger_ChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewRequestLogger("test-render-789", messageChan)

	// The second and third messages are dropped instead of blocking
	logger.Printf("Message 1")
	logger.Printf("Message 2")
	logger.Printf("Message 3")

	messages := drainConsole(messageChan)
	if len(messages) != 1 || messages[0].Message != "Message 1" {
		t.Errorf("Expected only the first message, got %+v", messages)
	}
}

func TestRequestLogger_NilChannel(t *testing.T) {
	logger := NewRequestLogger("test-render-nil", nil)

	// This should not panic
	logger.Printf("Test message with nil channel\n")
}

func TestDrainConsole(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewRequestLogger("test-render-format", messageChan)

	for i := 3; i >= 1; i-- {
		logger.Printf("Scanlines remaining: %d", i)
	}

	messages := drainConsole(messageChan)
	expected := []string{"Scanlines remaining: 3", "Scanlines remaining: 2", "Scanlines remaining: 1"}
	if len(messages) != len(expected) {
		t.Fatalf("Expected %d messages, got %d", len(expected), len(messages))
	}
	for i, want := range expected {
		if messages[i].Message != want {
			t.Errorf("Message %d: expected '%s', got '%s'", i, want, messages[i].Message)
		}
	}

	if empty := drainConsole(messageChan); len(empty) != 0 {
		t.Errorf("Expected drained channel, got %d messages", len(empty))
	}
}
