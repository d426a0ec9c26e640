package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/marketsnap/internal/ai"
	"github.com/marketsnap/internal/chat"
	"github.com/marketsnap/internal/feed"
	"github.com/marketsnap/internal/store"
	"github.com/marketsnap/internal/story"
)

// Server exposes the controllers over HTTP. Handlers read controller state
// and invoke operations; they own no state of their own.
type Server struct {
	echo   *echo.Echo
	port   int
	store  *store.Store
	feed   *feed.Controller
	chat   *chat.Controller
	player *story.Player
	ai     *ai.Client
}

// NewServer creates a new API server over the given controllers.
func NewServer(port int, st *store.Store, feedCtl *feed.Controller, chatCtl *chat.Controller, player *story.Player, client *ai.Client) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	server := &Server{
		echo:   e,
		port:   port,
		store:  st,
		feed:   feedCtl,
		chat:   chatCtl,
		player: player,
		ai:     client,
	}

	server.setupRoutes()

	return server
}

// setupRoutes configures all API endpoints.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	v1 := s.echo.Group("/api/v1")

	// Feed and navigation
	v1.GET("/feed", s.getFeed)
	v1.POST("/view", s.setView)
	v1.GET("/profile", s.getProfile)

	// Listings
	v1.GET("/products", s.getProducts)
	v1.POST("/products", s.createProduct)
	v1.POST("/products/description", s.generateDescription)
	v1.POST("/products/:id/chat", s.requestChat)

	// Story playback
	v1.GET("/stories", s.getStories)
	v1.GET("/stories/active", s.getActiveStory)
	v1.POST("/stories/:id/open", s.openStory)
	v1.POST("/stories/advance", s.advanceStory)
	v1.POST("/stories/close", s.closeStory)

	// Messaging
	v1.GET("/conversations", s.getConversations)
	v1.POST("/conversations/:id/open", s.openConversation)
	v1.POST("/conversations/close", s.closeConversation)
	v1.GET("/conversations/:id/messages", s.getMessages)
	v1.POST("/messages", s.sendMessage)
	v1.GET("/smart-reply", s.getSmartReply)
	v1.POST("/smart-reply", s.requestSmartReply)
}

// Start begins the API server and blocks until interrupted.
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
			s.echo.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	// The story player owns the only background ticker; stop it before the
	// HTTP listener goes away.
	s.player.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}
