package store

import (
	"time"

	"github.com/marketsnap/pkg/models"
)

// seedStore assembles the demo dataset. Timestamps are relative to process
// start so the feed always looks fresh.
func seedStore() *Store {
	now := time.Now()

	currentUser := models.User{
		ID:        "me",
		Username:  "alex_designer",
		FullName:  "Alex Morgan",
		AvatarURL: "https://picsum.photos/id/64/200/200",
		Bio:       "Digital Creator | Vintage Collector 📸\nSelling pre-loved items.",
		Followers: 1240,
		Following: 450,
		Verified:  true,
	}

	users := map[string]models.User{
		"u1": {
			ID:        "u1",
			Username:  "sarah_styles",
			FullName:  "Sarah Jenkins",
			AvatarURL: "https://picsum.photos/id/65/200/200",
			Bio:       "Fashion enthusiast ✨",
			Followers: 890,
			Following: 200,
		},
		"u2": {
			ID:        "u2",
			Username:  "tech_guru",
			FullName:  "Mike Ross",
			AvatarURL: "https://picsum.photos/id/91/200/200",
			Bio:       "Tech reviews and gadgets.",
			Followers: 5600,
			Following: 120,
		},
		"u3": {
			ID:        "u3",
			Username:  "art_daily",
			FullName:  "Emily Blunt",
			AvatarURL: "https://picsum.photos/id/103/200/200",
			Bio:       "Artist living in NYC 🎨",
			Followers: 2300,
			Following: 800,
		},
	}

	stories := []models.Story{
		{ID: "s1", UserID: "u1", ImageURL: "https://picsum.photos/id/120/400/800", Timestamp: now},
		{ID: "s2", UserID: "u2", ImageURL: "https://picsum.photos/id/160/400/800", Timestamp: now},
		{ID: "s3", UserID: "u3", ImageURL: "https://picsum.photos/id/180/400/800", Timestamp: now},
	}

	products := []models.Product{
		{
			ID:          "p1",
			SellerID:    "u1",
			Title:       "Vintage Denim Jacket",
			Price:       45,
			Description: "Authentic 90s denim jacket in great condition. Size M.",
			ImageURL:    "https://picsum.photos/id/325/500/500",
			Likes:       124,
			CreatedAt:   now.Add(-100 * time.Second),
			Category:    "Fashion",
		},
		{
			ID:          "p2",
			SellerID:    "u2",
			Title:       "Sony Wireless Headphones",
			Price:       120,
			Description: "Noise cancelling, barely used. Comes with box.",
			ImageURL:    "https://picsum.photos/id/250/500/500",
			Likes:       856,
			CreatedAt:   now.Add(-200 * time.Second),
			Category:    "Electronics",
		},
		{
			ID:          "p3",
			SellerID:    "u3",
			Title:       "Abstract Oil Painting",
			Price:       300,
			Description: "Original canvas 24x36. Signed by artist.",
			ImageURL:    "https://picsum.photos/id/400/500/500",
			Likes:       45,
			CreatedAt:   now.Add(-300 * time.Second),
			Category:    "Art",
		},
		{
			ID:          "p4",
			SellerID:    "me",
			Title:       "Retro Film Camera",
			Price:       150,
			Description: "Fully functional 35mm film camera.",
			ImageURL:    "https://picsum.photos/id/450/500/500",
			Likes:       12,
			CreatedAt:   now.Add(-50 * time.Second),
			Category:    "Photography",
		},
	}

	conversations := []models.Conversation{
		{
			ID:          "c1",
			UserID:      "u1",
			LastMessage: "Is this still available?",
			Timestamp:   now.Add(-10 * time.Second),
			UnreadCount: 1,
		},
		{
			ID:          "c2",
			UserID:      "u2",
			LastMessage: "Thanks for the quick shipping!",
			Timestamp:   now.Add(-8000 * time.Second),
			UnreadCount: 0,
		},
	}

	messages := map[string][]models.Message{
		"c1": {
			{ID: "m1", SenderID: "u1", Text: "Is this still available?", Timestamp: now.Add(-100 * time.Second), Own: false},
		},
		"c2": {
			{ID: "m2", SenderID: "me", Text: "Thanks for the order!", Timestamp: now.Add(-9000 * time.Second), Own: true},
		},
	}

	return &Store{
		currentUser:   currentUser,
		users:         users,
		stories:       stories,
		products:      products,
		conversations: conversations,
		messages:      messages,
	}
}
