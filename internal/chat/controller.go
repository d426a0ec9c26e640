package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/marketsnap/internal/store"
	"github.com/marketsnap/pkg/models"
)

// Replier produces a suggested reply to the most recent incoming message.
// It never fails; degraded modes yield fixed fallback text.
type Replier interface {
	GenerateSmartReply(ctx context.Context, lastMessage string) string
}

// Controller owns the per-conversation message sequences, the active
// conversation selection, and the pending suggested-reply buffer.
type Controller struct {
	mu            sync.Mutex
	currentUser   models.User
	conversations []models.Conversation
	messages      map[string][]models.Message
	activeID      string
	pending       string
	busy          bool
	replier       Replier
}

// NewController seeds a controller from the store.
func NewController(st *store.Store, replier Replier) *Controller {
	return &Controller{
		currentUser:   st.CurrentUser(),
		conversations: st.Conversations(),
		messages:      st.Messages(),
		replier:       replier,
	}
}

// Conversations returns the conversation list. Unread counts are seed values;
// opening a conversation does not decrement them.
func (c *Controller) Conversations() []models.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Conversation, len(c.conversations))
	copy(out, c.conversations)
	return out
}

// Open selects the conversation to display.
func (c *Controller) Open(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.activeID = id
	log.Debug().Str("conversation_id", id).Msg("Conversation opened")
}

// Close returns to the conversation list. Message history is untouched.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeID = ""
}

// Active returns the id of the open conversation, if any.
func (c *Controller) Active() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID, c.activeID != ""
}

// Messages returns the message sequence of the given conversation.
func (c *Controller) Messages(id string) []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs := c.messages[id]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out
}

// SendMessage appends an outgoing message to the open conversation and clears
// the pending-reply buffer. Blank text or no open conversation is a no-op;
// the returned bool reports whether a message was sent.
func (c *Controller) SendMessage(text string) (models.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activeID == "" || strings.TrimSpace(text) == "" {
		return models.Message{}, false
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		SenderID:  c.currentUser.ID,
		Text:      text,
		Timestamp: time.Now(),
		Own:       true,
	}
	c.messages[c.activeID] = append(c.messages[c.activeID], msg)
	c.pending = ""

	log.Debug().
		Str("conversation_id", c.activeID).
		Str("message_id", msg.ID).
		Msg("Message sent")

	return msg, true
}

// PendingReply returns the suggested reply waiting for user confirmation.
func (c *Controller) PendingReply() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Busy reports whether a smart-reply request is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// RequestSmartReply asks the replier for a suggestion to the most recent
// incoming message and places the result in the pending buffer. It is a no-op
// when no conversation is open, the conversation is empty, a request is
// already in flight, or the last message was sent by the current user (never
// reply to yourself). The returned bool reports whether a request was made.
//
// The suggestion is not auto-sent; the user confirms via SendMessage.
func (c *Controller) RequestSmartReply(ctx context.Context) bool {
	c.mu.Lock()

	if c.activeID == "" || c.busy {
		c.mu.Unlock()
		return false
	}

	msgs := c.messages[c.activeID]
	if len(msgs) == 0 || msgs[len(msgs)-1].Own {
		c.mu.Unlock()
		return false
	}

	lastText := msgs[len(msgs)-1].Text
	c.busy = true
	c.mu.Unlock()

	// The replier call runs outside the lock so the controller stays
	// responsive while the request is in flight.
	reply := c.replier.GenerateSmartReply(ctx, lastText)

	c.mu.Lock()
	c.pending = reply
	c.busy = false
	c.mu.Unlock()

	return true
}
