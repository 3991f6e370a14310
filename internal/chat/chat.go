// Package chat is the coaching conversation over the narrator.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/lifemap/internal/logger"
	"github.com/julianstephens/lifemap/internal/narrator"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

const (
	FallbackReply = "Sorry, I couldn't generate a response. Please try again."
	ErrorReply    = "Sorry, I encountered an error. Please try again."
	SummaryReply  = "Here's your summary!"
)

type Message struct {
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Service keeps one conversation. Construct one per session.
type Service struct {
	narrator *narrator.Narrator
	now      func() time.Time

	mu      sync.Mutex
	history []Message
}

func NewService(n *narrator.Narrator) *Service {
	return &Service{narrator: n, now: time.Now}
}

// Send records the user's message and returns the bot reply. Failures become
// an apology reply, never an error.
func (s *Service) Send(ctx context.Context, userID, text string) Message {
	s.record(Message{Text: text, Sender: SenderUser, Timestamp: s.now()})

	reply := Message{Sender: SenderBot}
	res, err := s.narrator.Process(ctx, text, userID)
	if err != nil {
		logger.Error("Chat message failed", "user", userID, "error", err)
		reply.Text = ErrorReply
	} else {
		reply.Text = Render(res)
	}
	reply.Timestamp = s.now()

	s.record(reply)
	return reply
}

// Render turns a narrator result into chat text: text verbatim, or the
// summary followed by its insights.
func Render(res narrator.Result) string {
	if res.IsSummary() {
		text := res.Summary.Summary
		if text == "" {
			text = SummaryReply
		}
		if len(res.Summary.Insights) > 0 {
			text += "\n\n" + strings.Join(res.Summary.Insights, "\n")
		}
		return text
	}
	if strings.TrimSpace(res.Text) == "" {
		return FallbackReply
	}
	return res.Text
}

// History returns a copy of the conversation so far.
func (s *Service) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.history...)
}

// Reset clears the conversation.
func (s *Service) Reset() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

func (s *Service) record(m Message) {
	s.mu.Lock()
	s.history = append(s.history, m)
	s.mu.Unlock()
}
