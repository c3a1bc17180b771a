package concierge

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxMessages bounds the conversation kept by a Widget. Older messages are
// dropped first.
const MaxMessages = 200

const (
	Greeting = "Hello! I'm the AI Concierge. Ask me anything about the hotel!"
	Fallback = "Sorry, I'm having trouble connecting to the front desk."
)

// Author of a chat message.
type Author string

const (
	AuthorUser Author = "user"
	AuthorBot  Author = "bot"
)

// Message is one entry of the conversation.
type Message struct {
	ID     string    `json:"id"`
	Author Author    `json:"role"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

// Asker answers questions.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Widget is the conversation state of the global chat widget. It is
// independent of the session: any visitor may ask.
type Widget struct {
	asker  Asker
	logger *zap.Logger
	now    func() time.Time

	limit int

	mu       sync.RWMutex
	messages []Message
	pending  int
}

// NewWidget returns a widget seeded with the greeting.
func NewWidget(asker Asker, logger *zap.Logger) *Widget {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Widget{asker: asker, logger: logger.Named("concierge"), now: time.Now, limit: MaxMessages}
	w.messages = []Message{w.message(AuthorBot, Greeting)}
	return w
}

// Send appends text as a user message, asks the concierge and appends the
// answer, or the fallback when the concierge fails. Blank input is ignored and
// reported as false.
func (w *Widget) Send(ctx context.Context, text string) (Message, bool) {
	if strings.TrimSpace(text) == "" {
		return Message{}, false
	}

	w.mu.Lock()
	w.appendLocked(w.message(AuthorUser, text))
	w.pending++
	w.mu.Unlock()

	answer, err := w.asker.Ask(ctx, text)
	if err != nil {
		w.logger.Warn("concierge ask failed", zap.Error(err))
		answer = Fallback
	}

	reply := w.message(AuthorBot, answer)
	w.mu.Lock()
	w.appendLocked(reply)
	w.pending--
	w.mu.Unlock()
	return reply, true
}

// Loading reports whether a question is awaiting its answer.
func (w *Widget) Loading() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pending > 0
}

// Messages returns a copy of the conversation.
func (w *Widget) Messages() []Message {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]Message(nil), w.messages...)
}

// appendLocked adds m and trims the oldest messages past the limit.
func (w *Widget) appendLocked(m Message) {
	w.messages = append(w.messages, m)
	if over := len(w.messages) - w.limit; w.limit > 0 && over > 0 {
		w.messages = append(w.messages[:0:0], w.messages[over:]...)
	}
}

func (w *Widget) message(author Author, text string) Message {
	return Message{ID: uuid.NewString(), Author: author, Text: text, SentAt: w.now()}
}
