package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/noname01054/LaCoupole-back/domain"
)

// DefaultTTL is the window within which an identical submission counts as a
// duplicate.
const DefaultTTL = 15 * time.Second

// Guard absorbs accidental double-submits with a process-local TTL map. It is
// advisory only: in a multi-instance deployment each instance guards its own
// traffic and the transactional defenses remain authoritative.
type Guard struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration
}

func NewGuard(ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Guard{
		entries: make(map[string]time.Time),
		ttl:     ttl,
	}
}

// Key derives a deterministic hash of everything that identifies a
// submission: cart contents, table, order type, total, session and notes.
func Key(req domain.CreateOrderRequest) string {
	payload := struct {
		Items          []domain.OrderItemRequest     `json:"items"`
		BreakfastItems []domain.BreakfastItemRequest `json:"breakfast_items"`
		TableID        *string                       `json:"table_id"`
		OrderType      string                        `json:"order_type"`
		TotalPrice     float64                       `json:"total_price"`
		SessionID      string                        `json:"session_id"`
		Notes          *string                       `json:"notes"`
	}{req.Items, req.BreakfastItems, req.TableID, req.OrderType, req.TotalPrice, req.SessionID, req.Notes}

	encoded, _ := json.Marshal(payload)
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}

// Check registers the key and rejects a repeat seen within the TTL. Each entry
// self-expires on a timer.
func (g *Guard) Check(key string) error {
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if expiry, ok := g.entries[key]; ok && now.Before(expiry) {
		return domain.ErrDuplicateOrder
	}

	g.entries[key] = now.Add(g.ttl)
	time.AfterFunc(g.ttl, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if expiry, ok := g.entries[key]; ok && !time.Now().Before(expiry) {
			delete(g.entries, key)
		}
	})
	return nil
}

// Release drops a registered key early. Admission failures call this so a
// rejected submission does not shadow the retry behind a duplicate rejection.
func (g *Guard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, key)
}
