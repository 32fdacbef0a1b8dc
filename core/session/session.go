// Package session persists per-conversation state. A session is keyed by the
// (user, chat) identity pair and carries at most one pending beverage
// selection. All store implementations are last-write-wins: a Put fully
// replaces the stored value, and repeating a Put with the same value is safe.
package session

import (
	"context"
	"fmt"

	"github.com/stepankuzmin/BarmaidBot/core/catalog"
)

// Key identifies a conversation: one user within one chat.
type Key struct {
	UserID int64
	ChatID int64
}

// String renders the composite hash key used by store backends.
func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.UserID, k.ChatID)
}

// Session holds the persisted conversation state. A zero Session means no
// beverage selection is pending, which is equivalent to an absent record.
type Session struct {
	Beverage catalog.Beverage
}

// Pending reports whether a beverage selection is awaiting a location.
func (s Session) Pending() bool {
	return s.Beverage != ""
}

// Store is the session persistence contract. Get on an unknown key returns
// ok=false with a zero session, not an error. Errors indicate a store
// failure; callers do not retry.
type Store interface {
	Get(ctx context.Context, key Key) (Session, bool, error)
	Put(ctx context.Context, key Key, s Session) error
}
