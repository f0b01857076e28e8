package ws

import (
	"encoding/json"
	"testing"
	"time"

	"reviewqr-backend/internal/models"
)

func attach(t *testing.T, h *Hub, businessID string) *Client {
	t.Helper()
	c := &Client{hub: h, send: make(chan []byte, 8), businessID: businessID}
	h.register <- c
	return c
}

func receive(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case payload := <-c.send:
		var e Event
		if err := json.Unmarshal(payload, &e); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return &e
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

func TestBroadcastScopedByTenant(t *testing.T) {
	h := NewHub()
	go h.Run()

	pizza := attach(t, h, "pizza-corner")
	burger := attach(t, h, "burger-barn")
	admin := attach(t, h, "")

	h.NotifyReview(models.Review{ID: "r1", BusinessID: "pizza-corner", Rating: 5})

	if e := receive(t, pizza); e == nil || e.Type != "new_review" {
		t.Errorf("own-tenant client event: %+v", e)
	}
	if e := receive(t, admin); e == nil || e.Type != "new_review" {
		t.Errorf("platform client event: %+v", e)
	}
	if e := receive(t, burger); e != nil {
		t.Errorf("cross-tenant client received %+v", e)
	}
}

func TestBroadcastCouponAndOrderEvents(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := attach(t, h, "pizza-corner")

	h.NotifyCouponClaimed(models.Coupon{ID: "c1", BusinessID: "pizza-corner", Code: "PIZ-IG-0001"})
	if e := receive(t, c); e == nil || e.Type != "coupon_claimed" {
		t.Errorf("coupon event: %+v", e)
	}

	h.NotifyOrderStatus(models.QROrder{ID: "o1", BusinessID: "pizza-corner", Status: models.OrderInTransit})
	if e := receive(t, c); e == nil || e.Type != "order_status" {
		t.Errorf("order event: %+v", e)
	}
}
