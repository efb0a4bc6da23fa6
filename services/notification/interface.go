package notification

import (
	"sync"

	"go.uber.org/zap"
)

// Kind is the severity of a notification.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Sink receives operator-facing notifications. Implementations must not
// carry business logic; a Sink is created once in main and passed down.
type Sink interface {
	Notify(message string, kind Kind)
}

// LogSink writes notifications to a zap logger.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("notify")}
}

func (s *LogSink) Notify(message string, kind Kind) {
	field := zap.String("kind", string(kind))
	switch kind {
	case KindError:
		s.logger.Error(message, field)
	case KindWarning:
		s.logger.Warn(message, field)
	default:
		s.logger.Info(message, field)
	}
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Notify(string, Kind) {}

// Message is one recorded notification.
type Message struct {
	Text string
	Kind Kind
}

// RecordingSink keeps every notification in memory. Tests use it to assert
// on what was emitted.
type RecordingSink struct {
	mu       sync.Mutex
	messages []Message
}

func (s *RecordingSink) Notify(message string, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, Message{Text: message, Kind: kind})
}

// Messages returns a copy of what has been recorded so far.
func (s *RecordingSink) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
