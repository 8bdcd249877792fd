package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/marcus/ordr/internal/models"
)

// EventOrderCreated is the event name sent for new orders.
const EventOrderCreated = "order.created"

// Payload is the top-level webhook POST body.
type Payload struct {
	Event     string       `json:"event"`
	Timestamp string       `json:"timestamp"`
	Order     OrderPayload `json:"order"`
}

// OrderPayload is the order as sent to webhook receivers.
type OrderPayload struct {
	ID            int64              `json:"id"`
	ClientID      int64              `json:"client_id"`
	Items         []models.OrderItem `json:"items"`
	TotalQuantity int                `json:"total_quantity"`
}

// BuildPayload converts an order into a creation payload.
func BuildPayload(order models.Order, now time.Time) Payload {
	items := order.Items
	if items == nil {
		items = []models.OrderItem{}
	}
	return Payload{
		Event:     EventOrderCreated,
		Timestamp: now.UTC().Format(time.RFC3339),
		Order: OrderPayload{
			ID:            order.ID,
			ClientID:      order.ClientID,
			Items:         items,
			TotalQuantity: order.TotalQuantity(),
		},
	}
}

// Sign returns the "sha256=<hex>" signature of body for the given timestamp.
func Sign(secret, unixTS string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(unixTS))
	mac.Write([]byte("."))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Notifier posts order creation notices to a webhook URL.
type Notifier struct {
	URL    string
	Secret string
	// Client defaults to an http.Client with a 10s timeout.
	Client *http.Client
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewNotifier returns a Notifier for url, signing with secret when non-empty.
func NewNotifier(url, secret string) *Notifier {
	return &Notifier{URL: url, Secret: secret}
}

// SendCreationNotice posts the order synchronously.
// Returns nil on success (2xx status).
func (n *Notifier) SendCreationNotice(ctx context.Context, order models.Order) error {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	ts := now()
	return n.dispatch(ctx, BuildPayload(order, ts), ts)
}

func (n *Notifier) dispatch(ctx context.Context, payload Payload, now time.Time) error {
	if n.URL == "" {
		return fmt.Errorf("webhook url not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ordr-webhook/1")

	unixTS := fmt.Sprintf("%d", now.Unix())
	req.Header.Set("X-Ordr-Timestamp", unixTS)
	req.Header.Set("X-Ordr-Event", payload.Event)

	if n.Secret != "" {
		req.Header.Set("X-Ordr-Signature", Sign(n.Secret, unixTS, body))
	}

	client := n.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", n.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("POST %s: status %d", n.URL, resp.StatusCode)
	}
	return nil
}
