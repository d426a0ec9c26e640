package store

import (
	"github.com/marketsnap/pkg/models"
)

// Store holds the seed data for a session. It is read-only after
// construction; controllers copy what they need to mutate.
type Store struct {
	currentUser   models.User
	users         map[string]models.User
	stories       []models.Story
	products      []models.Product
	conversations []models.Conversation
	messages      map[string][]models.Message
}

// placeholderUser is returned for lookups of ids that are not in the user
// mapping, so rendering never fails on a missing reference.
var placeholderUser = models.User{
	ID:        "unknown",
	Username:  "unknown",
	FullName:  "Unknown User",
	AvatarURL: "https://via.placeholder.com/150",
	Bio:       "",
	Followers: 0,
	Following: 0,
}

// NewStore builds a store populated with the seed data.
func NewStore() *Store {
	return seedStore()
}

// CurrentUser returns the user the session acts as.
func (s *Store) CurrentUser() models.User {
	return s.currentUser
}

// ResolveUser returns the user for the given id. The lookup is total: unknown
// ids resolve to a placeholder user rather than an error.
func (s *Store) ResolveUser(id string) models.User {
	if id == s.currentUser.ID {
		return s.currentUser
	}
	if u, ok := s.users[id]; ok {
		return u
	}
	return placeholderUser
}

// Stories returns the seeded story sequence in display order.
func (s *Store) Stories() []models.Story {
	out := make([]models.Story, len(s.stories))
	copy(out, s.stories)
	return out
}

// Products returns the seeded product sequence, newest first.
func (s *Store) Products() []models.Product {
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Conversations returns the seeded conversation list.
func (s *Store) Conversations() []models.Conversation {
	out := make([]models.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Messages returns the initial per-conversation message sequences.
func (s *Store) Messages() map[string][]models.Message {
	out := make(map[string][]models.Message, len(s.messages))
	for id, msgs := range s.messages {
		seq := make([]models.Message, len(msgs))
		copy(seq, msgs)
		out[id] = seq
	}
	return out
}
