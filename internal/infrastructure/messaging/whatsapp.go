package messaging

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// WhatsAppChannel hands an order summary off as a WhatsApp deep link.
// The link is what the storefront presents to the customer; the server side
// only records the dispatch.
type WhatsAppChannel struct {
	baseURL string
}

func NewWhatsAppChannel(baseURL string) *WhatsAppChannel {
	return &WhatsAppChannel{baseURL: strings.TrimSuffix(baseURL, "/") + "/"}
}

// Send builds the wa.me link for the destination number and logs the dispatch.
func (c *WhatsAppChannel) Send(ctx context.Context, to, text string) (string, error) {
	link := c.baseURL + to + "?text=" + url.QueryEscape(text)

	log.Info().
		Str("to", to).
		Str("link", link).
		Msg("whatsapp handoff dispatched")

	messageID := fmt.Sprintf("wa-%d", time.Now().UnixNano())
	return messageID, nil
}

// ================================================
// MOCK CHANNEL (for development and tests)
// ================================================

type MockChannel struct{}

func NewMockChannel() *MockChannel {
	return &MockChannel{}
}

func (c *MockChannel) Send(ctx context.Context, to, text string) (string, error) {
	log.Info().
		Str("to", to).
		Str("message", text).
		Msg("[MOCK] handoff message sent")

	return fmt.Sprintf("mock-msg-%d", time.Now().Unix()), nil
}
