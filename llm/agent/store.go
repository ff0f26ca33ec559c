package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
)

// Default memory limits
const (
	DefaultMaxMessages     = 20
	DefaultMaxToolResponse = 4000
)

// ConversationStore keeps the message history of one session.
type ConversationStore interface {
	// Add appends a message, applying the window and tool result compression
	Add(ctx context.Context, msg adk.Message) error
	// List returns the retained history, oldest first
	List(ctx context.Context) ([]adk.Message, error)
	// Clear forgets the history
	Clear(ctx context.Context) error
}

// MemoryStore is the in-process ConversationStore.
type MemoryStore struct {
	mu              sync.RWMutex
	msgs            []adk.Message
	maxMessages     int
	maxToolResponse int
}

// NewMemoryStore creates a store keeping at most maxMessages messages and
// compressing tool results above maxToolResponse characters. Zero values
// select the defaults.
func NewMemoryStore(maxMessages, maxToolResponse int) *MemoryStore {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	if maxToolResponse <= 0 {
		maxToolResponse = DefaultMaxToolResponse
	}
	return &MemoryStore{
		maxMessages:     maxMessages,
		maxToolResponse: maxToolResponse,
	}
}

func (s *MemoryStore) Add(_ context.Context, msg adk.Message) error {
	if msg == nil {
		return nil
	}
	if msg.Role == schema.Tool {
		msg = compressToolResponse(msg, s.maxToolResponse)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	s.msgs = s.msgs[windowStart(s.msgs, s.maxMessages):]
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]adk.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]adk.Message, len(s.msgs))
	copy(out, s.msgs)
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = nil
	return nil
}

// windowStart returns the index of the first message to keep. The window
// holds at most max messages and always opens on a user message, so a tool
// result is never separated from the assistant call that produced it.
func windowStart(msgs []adk.Message, max int) int {
	if len(msgs) <= max {
		return 0
	}
	start := len(msgs) - max
	for i := start; i < len(msgs); i++ {
		if msgs[i].Role == schema.User {
			return i
		}
	}
	return start
}

// tool results are cut at one of these when it keeps at least half the budget
var breakPoints = []string{".\n", "\n\n", "},{", ". ", "\n"}

// compressToolResponse truncates a large tool result, keeping the call
// identity so the history stays valid for the model.
func compressToolResponse(msg adk.Message, max int) adk.Message {
	if utf8.RuneCountInString(msg.Content) <= max {
		return msg
	}

	originalLen := len(msg.Content)
	truncated := truncateRunes(msg.Content, max)

	cutoff := len(truncated)
	for _, bp := range breakPoints {
		if idx := strings.LastIndex(truncated, bp); idx > len(truncated)/2 {
			cutoff = idx + len(bp)
			break
		}
	}

	compressed := *msg
	compressed.Content = msg.Content[:cutoff] + fmt.Sprintf(
		"\n\n[Content truncated: original %d bytes -> %d bytes, saved %.1f%%]",
		originalLen,
		cutoff,
		float64(originalLen-cutoff)/float64(originalLen)*100,
	)
	return &compressed
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
