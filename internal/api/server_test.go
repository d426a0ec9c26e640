package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketsnap/internal/ai"
	"github.com/marketsnap/internal/chat"
	"github.com/marketsnap/internal/feed"
	"github.com/marketsnap/internal/store"
	"github.com/marketsnap/internal/story"
)

// newTestServer wires a full server with no generation credential configured,
// so AI endpoints return their deterministic placeholder strings. The story
// tick interval is long enough that schedules never fire during a test.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	st := store.NewStore()
	client := ai.NewClient(nil)
	feedCtl := feed.NewController(st)
	chatCtl := chat.NewController(st, client)
	player := story.NewPlayer(feedCtl, time.Hour)

	return NewServer(0, st, feedCtl, chatCtl, player, client)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestGetFeed(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/feed", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		View    string `json:"view"`
		Stories []struct {
			ID   string `json:"id"`
			User struct {
				Username string `json:"username"`
			} `json:"user"`
		} `json:"stories"`
		Products []struct {
			Title  string `json:"title"`
			Seller struct {
				Username string `json:"username"`
			} `json:"seller"`
		} `json:"products"`
	}
	decode(t, rec, &body)

	assert.Equal(t, "FEED", body.View)
	require.Len(t, body.Stories, 3)
	assert.Equal(t, "sarah_styles", body.Stories[0].User.Username)
	require.Len(t, body.Products, 4)
	assert.Equal(t, "Vintage Denim Jacket", body.Products[0].Title)
	assert.Equal(t, "sarah_styles", body.Products[0].Seller.Username)
}

func TestSetView(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/view", `{"view":"EXPLORE"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "EXPLORE", body["view"])

	t.Run("UnknownView", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/view", `{"view":"SETTINGS"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateProduct(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/products",
		`{"title":"Handmade Mug","price":18,"category":"Home"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var product struct {
		ID       string `json:"id"`
		SellerID string `json:"seller_id"`
	}
	decode(t, rec, &product)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "me", product.SellerID)

	// The new listing is at the head of the product feed.
	feedRec := doRequest(t, s, http.MethodGet, "/api/v1/products", "")
	var products []struct {
		ID string `json:"id"`
	}
	decode(t, feedRec, &products)
	require.Len(t, products, 5)
	assert.Equal(t, product.ID, products[0].ID)

	t.Run("EmptyTitle", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/products", `{"title":"","price":5}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NegativePrice", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/products", `{"title":"Lamp","price":-2}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGenerateDescription(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/products/description",
		`{"title":"Vintage Denim Jacket","category":"Fashion","price":45}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Description string `json:"description"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "Please configure your API Key to use AI features. This is a mock description.", body.Description)

	t.Run("MissingTitle", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/products/description", `{"price":45}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRequestChat(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/products/p2/chat", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "MESSAGES", body["view"])

	t.Run("UnknownProduct", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/products/nope/chat", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestStoryPlaybackEndpoints(t *testing.T) {
	s := newTestServer(t)

	// Nothing is open initially.
	rec := doRequest(t, s, http.MethodGet, "/api/v1/stories/active", "")
	var state struct {
		Active   bool `json:"active"`
		Progress int  `json:"progress"`
		Story    *struct {
			ID string `json:"id"`
		} `json:"story"`
	}
	decode(t, rec, &state)
	assert.False(t, state.Active)

	rec = doRequest(t, s, http.MethodPost, "/api/v1/stories/s1/open", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &state)
	require.True(t, state.Active)
	assert.Equal(t, "s1", state.Story.ID)
	assert.Zero(t, state.Progress)

	// Tap to skip, twice: s1 -> s2 -> s3.
	doRequest(t, s, http.MethodPost, "/api/v1/stories/advance", "")
	rec = doRequest(t, s, http.MethodPost, "/api/v1/stories/advance", "")
	decode(t, rec, &state)
	require.True(t, state.Active)
	assert.Equal(t, "s3", state.Story.ID)

	// Advancing past the last story closes the viewer.
	rec = doRequest(t, s, http.MethodPost, "/api/v1/stories/advance", "")
	decode(t, rec, &state)
	assert.False(t, state.Active)

	t.Run("UnknownStory", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/stories/nope/open", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Close", func(t *testing.T) {
		doRequest(t, s, http.MethodPost, "/api/v1/stories/s2/open", "")
		rec := doRequest(t, s, http.MethodPost, "/api/v1/stories/close", "")
		decode(t, rec, &state)
		assert.False(t, state.Active)
	})
}

func TestConversationEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/conversations", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var conversations []struct {
		ID   string `json:"id"`
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		UnreadCount int `json:"unread_count"`
	}
	decode(t, rec, &conversations)
	require.Len(t, conversations, 2)
	assert.Equal(t, "sarah_styles", conversations[0].User.Username)
	assert.Equal(t, 1, conversations[0].UnreadCount)

	t.Run("SendWithoutOpenConversation", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/messages", `{"text":"hello"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("SendBlankMessage", func(t *testing.T) {
		doRequest(t, s, http.MethodPost, "/api/v1/conversations/c1/open", "")
		rec := doRequest(t, s, http.MethodPost, "/api/v1/messages", `{"text":"  "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("SendMessage", func(t *testing.T) {
		doRequest(t, s, http.MethodPost, "/api/v1/conversations/c1/open", "")
		rec := doRequest(t, s, http.MethodPost, "/api/v1/messages", `{"text":"Yes, available!"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		msgRec := doRequest(t, s, http.MethodGet, "/api/v1/conversations/c1/messages", "")
		var msgs []struct {
			Text string `json:"text"`
			Own  bool   `json:"own"`
		}
		decode(t, msgRec, &msgs)
		require.Len(t, msgs, 2)
		assert.Equal(t, "Yes, available!", msgs[1].Text)
		assert.True(t, msgs[1].Own)
	})
}

func TestSmartReplyEndpoints(t *testing.T) {
	s := newTestServer(t)

	var body struct {
		Requested    bool   `json:"requested"`
		Busy         bool   `json:"busy"`
		PendingReply string `json:"pending_reply"`
	}

	t.Run("IncomingLastMessage", func(t *testing.T) {
		doRequest(t, s, http.MethodPost, "/api/v1/conversations/c1/open", "")
		rec := doRequest(t, s, http.MethodPost, "/api/v1/smart-reply", "")
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &body)

		assert.True(t, body.Requested)
		assert.False(t, body.Busy)
		assert.Equal(t, "Sure, I'm interested!", body.PendingReply)
	})

	t.Run("OwnLastMessage", func(t *testing.T) {
		doRequest(t, s, http.MethodPost, "/api/v1/conversations/close", "")
		doRequest(t, s, http.MethodPost, "/api/v1/conversations/c2/open", "")
		rec := doRequest(t, s, http.MethodPost, "/api/v1/smart-reply", "")
		decode(t, rec, &body)
		assert.False(t, body.Requested)
	})
}
