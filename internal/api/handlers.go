package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/marketsnap/internal/feed"
	"github.com/marketsnap/pkg/models"
)

// storyItem is a story with its owner resolved for rendering.
type storyItem struct {
	models.Story
	User models.User `json:"user"`
}

// productItem is a product with its seller resolved for rendering.
type productItem struct {
	models.Product
	Seller models.User `json:"seller"`
}

// conversationItem is a conversation with the other participant resolved.
type conversationItem struct {
	models.Conversation
	User models.User `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) storyItems(stories []models.Story) []storyItem {
	out := make([]storyItem, len(stories))
	for i, st := range stories {
		out[i] = storyItem{Story: st, User: s.store.ResolveUser(st.UserID)}
	}
	return out
}

func (s *Server) productItems(products []models.Product) []productItem {
	out := make([]productItem, len(products))
	for i, p := range products {
		out[i] = productItem{Product: p, Seller: s.store.ResolveUser(p.SellerID)}
	}
	return out
}

// getFeed returns the full feed snapshot: active view, stories and products.
func (s *Server) getFeed(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"view":     s.feed.View(),
		"stories":  s.storyItems(s.feed.Stories()),
		"products": s.productItems(s.feed.Products()),
	})
}

type setViewRequest struct {
	View string `json:"view"`
}

func (s *Server) setView(c echo.Context) error {
	var req setViewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := s.feed.SetView(models.View(req.View)); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]models.View{"view": s.feed.View()})
}

func (s *Server) getProfile(c echo.Context) error {
	user := s.store.CurrentUser()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":     user,
		"listings": s.productItems(s.feed.ProductsBySeller(user.ID)),
	})
}

func (s *Server) getProducts(c echo.Context) error {
	return c.JSON(http.StatusOK, s.productItems(s.feed.Products()))
}

func (s *Server) createProduct(c echo.Context) error {
	var req feed.NewListing
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	product, err := s.feed.CreatePost(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusCreated, product)
}

type describeRequest struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

type describeResponse struct {
	Description string `json:"description"`
}

// generateDescription produces listing text for the create form. The
// operation never fails: degraded modes yield fixed placeholder text.
func (s *Server) generateDescription(c echo.Context) error {
	var req describeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "title is required"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "price must not be negative"})
	}

	description := s.ai.GenerateListingDescription(c.Request().Context(), req.Title, req.Category, req.Price)
	return c.JSON(http.StatusOK, describeResponse{Description: description})
}

// requestChat routes to the messages view for the seller of a product.
func (s *Server) requestChat(c echo.Context) error {
	id := c.Param("id")

	for _, p := range s.feed.Products() {
		if p.ID == id {
			s.feed.RequestChat(p.SellerID)
			return c.JSON(http.StatusOK, map[string]models.View{"view": s.feed.View()})
		}
	}

	return c.JSON(http.StatusNotFound, errorResponse{Error: "product not found"})
}

func (s *Server) getStories(c echo.Context) error {
	return c.JSON(http.StatusOK, s.storyItems(s.feed.Stories()))
}

// playbackState is the snapshot the story viewer renders from.
type playbackState struct {
	Active   bool          `json:"active"`
	Story    *models.Story `json:"story,omitempty"`
	User     *models.User  `json:"user,omitempty"`
	Progress int           `json:"progress"`
}

func (s *Server) playbackSnapshot() playbackState {
	st, progress, ok := s.player.Active()
	if !ok {
		return playbackState{}
	}
	user := s.store.ResolveUser(st.UserID)
	return playbackState{
		Active:   true,
		Story:    &st,
		User:     &user,
		Progress: progress,
	}
}

func (s *Server) getActiveStory(c echo.Context) error {
	return c.JSON(http.StatusOK, s.playbackSnapshot())
}

func (s *Server) openStory(c echo.Context) error {
	id := c.Param("id")

	for _, st := range s.feed.Stories() {
		if st.ID == id {
			s.player.Open(st)
			return c.JSON(http.StatusOK, s.playbackSnapshot())
		}
	}

	return c.JSON(http.StatusNotFound, errorResponse{Error: "story not found"})
}

func (s *Server) advanceStory(c echo.Context) error {
	s.player.Advance()
	return c.JSON(http.StatusOK, s.playbackSnapshot())
}

func (s *Server) closeStory(c echo.Context) error {
	s.player.Close()
	return c.JSON(http.StatusOK, s.playbackSnapshot())
}

func (s *Server) getConversations(c echo.Context) error {
	conversations := s.chat.Conversations()
	out := make([]conversationItem, len(conversations))
	for i, conv := range conversations {
		out[i] = conversationItem{Conversation: conv, User: s.store.ResolveUser(conv.UserID)}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) openConversation(c echo.Context) error {
	id := c.Param("id")
	s.chat.Open(id)
	return c.JSON(http.StatusOK, map[string]string{"active_conversation": id})
}

func (s *Server) closeConversation(c echo.Context) error {
	s.chat.Close()
	return c.JSON(http.StatusOK, map[string]interface{}{"active_conversation": nil})
}

func (s *Server) getMessages(c echo.Context) error {
	return c.JSON(http.StatusOK, s.chat.Messages(c.Param("id")))
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) sendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "message text must not be empty"})
	}

	msg, sent := s.chat.SendMessage(req.Text)
	if !sent {
		return c.JSON(http.StatusConflict, errorResponse{Error: "no conversation is open"})
	}

	return c.JSON(http.StatusCreated, msg)
}

type smartReplyResponse struct {
	Requested    bool   `json:"requested"`
	Busy         bool   `json:"busy"`
	PendingReply string `json:"pending_reply"`
}

func (s *Server) getSmartReply(c echo.Context) error {
	return c.JSON(http.StatusOK, smartReplyResponse{
		Busy:         s.chat.Busy(),
		PendingReply: s.chat.PendingReply(),
	})
}

// requestSmartReply asks for a suggestion to the last incoming message. The
// call settles before responding, so the response carries the fresh pending
// reply when a request was made.
func (s *Server) requestSmartReply(c echo.Context) error {
	requested := s.chat.RequestSmartReply(c.Request().Context())
	return c.JSON(http.StatusOK, smartReplyResponse{
		Requested:    requested,
		Busy:         s.chat.Busy(),
		PendingReply: s.chat.PendingReply(),
	})
}
