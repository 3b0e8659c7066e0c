package widget

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sender of a transcript message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one line of the on-screen conversation
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript keeps the most recent messages, dropping the oldest past the cap
type Transcript struct {
	mu       sync.Mutex
	max      int
	messages []Message
	now      func() time.Time
}

// NewTranscript creates a transcript seeded with the welcome message
func NewTranscript(cfg Config) *Transcript {
	cfg = cfg.WithDefaults()
	t := &Transcript{max: cfg.MaxMessages, now: time.Now}
	if cfg.MaxMessages <= 0 {
		t.max = DefaultMaxMessages
	}
	t.Append(SenderBot, cfg.WelcomeMessage)
	return t
}

// Append adds a message and returns it
func (t *Transcript) Append(sender Sender, content string) Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	msg := Message{ID: uuid.NewString(), Content: content, Sender: sender, Timestamp: t.now()}
	t.messages = append(t.messages, msg)
	if over := len(t.messages) - t.max; over > 0 {
		t.messages = append([]Message(nil), t.messages[over:]...)
	}
	return msg
}

// Messages returns a copy of the retained messages, oldest first
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Message(nil), t.messages...)
}

// Len returns the number of retained messages
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}
