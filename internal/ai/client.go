package ai

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Fixed strings for the degraded paths. From the caller's perspective both
// operations always succeed; failures surface only as these values.
const (
	descriptionNoKeyFallback = "Please configure your API Key to use AI features. This is a mock description."
	descriptionErrorFallback = "Error generating description. Please try again."
	descriptionEmptyFallback = "Could not generate description."

	replyNoKeyFallback = "Sure, I'm interested!"
	replyErrorFallback = "Sounds good!"
	replyEmptyFallback = "Okay, thanks!"
)

// Client wraps the two prompt templates the app needs against a
// TextGenerator. Errors are logged for diagnostics and converted to fixed
// fallback strings; they never propagate to controllers.
type Client struct {
	generator TextGenerator
}

// NewClient creates a client over the given generator. A nil generator means
// no credential is configured: both operations return their canned
// placeholder immediately, without a network call.
func NewClient(generator TextGenerator) *Client {
	return &Client{generator: generator}
}

// Configured reports whether a generation backend is available.
func (c *Client) Configured() bool {
	return c.generator != nil
}

// GenerateListingDescription produces a short promotional description for a
// listing with the given title, category and price.
func (c *Client) GenerateListingDescription(ctx context.Context, title, category string, price float64) string {
	if c.generator == nil {
		return descriptionNoKeyFallback
	}

	prompt := fmt.Sprintf(
		"Write a short, catchy, and professional marketplace listing description for an item titled %q in the category %q priced at $%s. Include hashtags. Max 50 words.",
		title, category, strconv.FormatFloat(price, 'f', -1, 64))

	text, err := c.generator.GenerateText(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Str("title", title).Msg("Listing description generation failed")
		return descriptionErrorFallback
	}
	if text == "" {
		return descriptionEmptyFallback
	}
	return text
}

// GenerateSmartReply produces a short suggested reply to the most recent
// incoming message of a conversation.
func (c *Client) GenerateSmartReply(ctx context.Context, lastMessage string) string {
	if c.generator == nil {
		return replyNoKeyFallback
	}

	prompt := fmt.Sprintf(
		"You are a polite buyer/seller on a marketplace app. The other person said: %q. Suggest a short, polite, and relevant reply (max 15 words).",
		lastMessage)

	text, err := c.generator.GenerateText(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("Smart reply generation failed")
		return replyErrorFallback
	}
	if text == "" {
		return replyEmptyFallback
	}
	return text
}
