// Package presence tracks which user is reachable on which live
// connection. It is the only in-memory shared mutable state in the core;
// everything else lives behind the persistence layer.
package presence

import (
	"context"
	"log"
	"sync"
)

// Conn is a live connection handle capable of receiving server events
type Conn interface {
	ID() string
	Send(event string, payload interface{}) error
	Close() error
}

// StatusStore persists the Online/Offline status and socket id on the user
// record. The registry owns the authoritative in-memory value; the user row
// is the store of truth across restarts.
type StatusStore interface {
	SetOnline(ctx context.Context, userID, socketID string) error
	SetOffline(ctx context.Context, userID string) error
}

type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
	store StatusStore
}

func NewRegistry(store StatusStore) *Registry {
	return &Registry{
		conns: make(map[string]Conn),
		store: store,
	}
}

// Register marks the user Online and stores the connection handle.
// Re-registering the same user replaces the previous handle.
func (r *Registry) Register(ctx context.Context, userID string, conn Conn) {
	r.mu.Lock()
	r.conns[userID] = conn
	r.mu.Unlock()

	if err := r.store.SetOnline(ctx, userID, conn.ID()); err != nil {
		log.Printf("presence: failed to persist online status for %s: %v", userID, err)
	}
}

// Resolve returns the live connection for a user. Absence means "cannot
// notify now", not an error.
func (r *Registry) Resolve(userID string) (Conn, bool) {
	r.mu.RLock()
	conn, ok := r.conns[userID]
	r.mu.RUnlock()
	return conn, ok
}

// Release marks the user Offline and clears the handle. When conn is
// non-nil the entry is only removed if it still belongs to that connection,
// so a reconnect racing a stale disconnect keeps the fresh handle.
func (r *Registry) Release(ctx context.Context, userID string, conn Conn) {
	r.mu.Lock()
	current, ok := r.conns[userID]
	if ok && (conn == nil || current == conn) {
		delete(r.conns, userID)
	} else {
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	if err := r.store.SetOffline(ctx, userID); err != nil {
		log.Printf("presence: failed to persist offline status for %s: %v", userID, err)
	}
}

// Deliver sends an event to the user's live connection if one is
// registered. Delivery is best-effort: the returned bool reports whether
// the event was handed to a connection, and false means it was dropped.
func (r *Registry) Deliver(userID, event string, payload interface{}) bool {
	conn, ok := r.Resolve(userID)
	if !ok {
		return false
	}
	if err := conn.Send(event, payload); err != nil {
		log.Printf("presence: failed to deliver %s to %s: %v", event, userID, err)
		return false
	}
	return true
}

// DeliverAll fans an event out to every resolvable user in ids and reports
// how many connections accepted it.
func (r *Registry) DeliverAll(ids []string, event string, payload interface{}) int {
	delivered := 0
	for _, id := range ids {
		if r.Deliver(id, event, payload) {
			delivered++
		}
	}
	return delivered
}
