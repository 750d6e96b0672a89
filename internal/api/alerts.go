package api

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Subscription is one alert registration.
type Subscription struct {
	Email      string    `json:"email,omitempty"`
	TelegramID string    `json:"telegramId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Confirmation is the message returned to the subscriber.
func (s Subscription) Confirmation() string {
	var targets []string
	if s.Email != "" {
		targets = append(targets, "email: "+s.Email)
	}
	if s.TelegramID != "" {
		targets = append(targets, "Telegram ID: "+s.TelegramID)
	}
	return fmt.Sprintf("Alert settings saved! Notifications will be sent to %s.", strings.Join(targets, " and "))
}

// AlertRegistry keeps subscriptions in memory. Registering the same
// email/Telegram pair again replaces the earlier entry.
type AlertRegistry struct {
	mu   sync.Mutex
	subs map[string]Subscription
	now  func() time.Time
}

func NewAlertRegistry() *AlertRegistry {
	return &AlertRegistry{subs: make(map[string]Subscription), now: time.Now}
}

func (r *AlertRegistry) Register(email, telegramID string) Subscription {
	sub := Subscription{Email: email, TelegramID: telegramID, CreatedAt: r.now().UTC()}
	key := strings.ToLower(email) + "|" + telegramID

	r.mu.Lock()
	r.subs[key] = sub
	r.mu.Unlock()
	return sub
}

// List returns subscriptions oldest first.
func (r *AlertRegistry) List() []Subscription {
	r.mu.Lock()
	out := make([]Subscription, 0, len(r.subs))
	for _, s := range r.subs {
		out = append(out, s)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Email+out[i].TelegramID < out[j].Email+out[j].TelegramID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
