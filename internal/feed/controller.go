package feed

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/marketsnap/internal/store"
	"github.com/marketsnap/pkg/models"
)

// Validation errors for listing creation and view switching.
var (
	ErrEmptyTitle    = errors.New("listing title must not be empty")
	ErrNegativePrice = errors.New("listing price must not be negative")
	ErrUnknownView   = errors.New("unknown view")
)

// defaultListingImage stands in for uploaded photos; image storage is out of
// scope.
const defaultListingImage = "https://picsum.photos/500/500"

// NewListing is the input for creating a product post.
type NewListing struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

// Controller owns the active top-level view and the product and story
// sequences. All operations are safe for concurrent use.
type Controller struct {
	mu          sync.RWMutex
	currentUser models.User
	view        models.View
	products    []models.Product
	stories     []models.Story
}

// NewController seeds a controller from the store. The session starts on the
// feed view.
func NewController(st *store.Store) *Controller {
	return &Controller{
		currentUser: st.CurrentUser(),
		view:        models.ViewFeed,
		products:    st.Products(),
		stories:     st.Stories(),
	}
}

// View returns the active top-level view.
func (c *Controller) View() models.View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// SetView switches the active view. Values outside the closed view set are
// rejected.
func (c *Controller) SetView(v models.View) error {
	if !v.Valid() {
		return ErrUnknownView
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
	return nil
}

// Products returns the product sequence, newest first.
func (c *Controller) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Stories returns the story sequence in display order. This also serves as
// the lookup source for story playback.
func (c *Controller) Stories() []models.Story {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Story, len(c.stories))
	copy(out, c.stories)
	return out
}

// ProductsBySeller returns the listings posted by the given seller, newest
// first.
func (c *Controller) ProductsBySeller(sellerID string) []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.Product
	for _, p := range c.products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out
}

// CreatePost validates the listing, assigns it a fresh id, prepends it to the
// product sequence and switches to the profile view.
func (c *Controller) CreatePost(input NewListing) (models.Product, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Product{}, ErrEmptyTitle
	}
	if input.Price < 0 {
		return models.Product{}, ErrNegativePrice
	}

	image := input.ImageURL
	if image == "" {
		image = defaultListingImage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	product := models.Product{
		ID:          uuid.NewString(),
		SellerID:    c.currentUser.ID,
		Title:       input.Title,
		Price:       input.Price,
		Description: input.Description,
		ImageURL:    image,
		Likes:       0,
		CreatedAt:   time.Now(),
		Category:    input.Category,
	}

	c.products = append([]models.Product{product}, c.products...)
	c.view = models.ViewProfile

	log.Info().
		Str("product_id", product.ID).
		Str("title", product.Title).
		Str("category", product.Category).
		Msg("Listing created")

	return product, nil
}

// RequestChat routes to the messages view. It does not create or select a
// conversation for the seller; the messages list is the landing point.
func (c *Controller) RequestChat(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view = models.ViewMessages
	log.Debug().Str("user_id", userID).Msg("Chat requested")
}
