package models

import (
	"time"
)

// View identifies one of the five mutually exclusive top-level screens.
type View string

const (
	ViewFeed     View = "FEED"
	ViewExplore  View = "EXPLORE"
	ViewCreate   View = "CREATE"
	ViewMessages View = "MESSAGES"
	ViewProfile  View = "PROFILE"
)

// Valid reports whether v is one of the five defined views.
func (v View) Valid() bool {
	switch v {
	case ViewFeed, ViewExplore, ViewCreate, ViewMessages, ViewProfile:
		return true
	}
	return false
}

// User represents an account in the session. Users are seeded at startup and
// immutable for the lifetime of the process.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
	Verified  bool   `json:"verified,omitempty"`
}

// Story represents a single ephemeral image post tied to a user. Insertion
// order in the story sequence is display order.
type Story struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ImageURL  string    `json:"image_url"`
	Timestamp time.Time `json:"timestamp"`
	Viewed    bool      `json:"viewed"`
}

// Product represents an item for sale, posted either at seed time or through
// the listing form.
type Product struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"seller_id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Likes       int       `json:"likes"`
	CreatedAt   time.Time `json:"created_at"`
	Category    string    `json:"category"`
}

// Message represents a single message inside a conversation. Own is true for
// messages sent by the current user.
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Own       bool      `json:"own"`
}

// Conversation represents a session-scoped thread between the current user
// and one other user. LastMessage and UnreadCount are denormalized for list
// rendering.
type Conversation struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	LastMessage string    `json:"last_message"`
	Timestamp   time.Time `json:"timestamp"`
	UnreadCount int       `json:"unread_count"`
}
