package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"rifa/src/lib"
	"rifa/src/models"
	"rifa/src/types"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionTTL = 24 * time.Hour

// Session holds one buyer's pending selection: ticket ids not yet submitted,
// in insertion order. The order matters for display only.
type Session struct {
	ID        string    `json:"id"`
	Selected  []int     `json:"selected"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Has(ticketID int) bool {
	for _, id := range s.Selected {
		if id == ticketID {
			return true
		}
	}
	return false
}

func (s *Session) remove(ticketID int) {
	kept := s.Selected[:0]
	for _, id := range s.Selected {
		if id != ticketID {
			kept = append(kept, id)
		}
	}
	s.Selected = kept
}

// Total is the amount to pay: count of selected tickets times the unit
// ticket price.
func (s *Session) Total(price int) int {
	return len(s.Selected) * price
}

// SessionStore persists sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}

type redisSessionStore struct{}

// NewRedisSessionStore keeps sessions in redis under session:<uuid> keys
// with a 24h expiry.
func NewRedisSessionStore() SessionStore {
	return &redisSessionStore{}
}

func (r *redisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return nil, types.ErrStoreUnavailable
	}
	val, err := rd.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		// Only a missing key means the session expired; anything else is
		// an outage and must not read as a 404 to the buyer.
		if errors.Is(err, redis.Nil) {
			return nil, types.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %s", types.ErrStoreUnavailable, err.Error())
	}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		log.Printf("Error decoding session %s: %s\n", id, err.Error())
		return nil, types.ErrSessionNotFound
	}
	return &sess, nil
}

func (r *redisSessionStore) Put(ctx context.Context, sess *Session) error {
	rd := lib.GetRedisClient()
	if rd == nil {
		return types.ErrStoreUnavailable
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return rd.Set(ctx, sessionKey(sess.ID), b, sessionTTL).Err()
}

func (r *redisSessionStore) Delete(ctx context.Context, id string) error {
	rd := lib.GetRedisClient()
	if rd == nil {
		return nil
	}
	return rd.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewMemorySessionStore is the fallback when redis is unconfigured, and the
// store used by tests.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]*Session)}
}

func (m *memorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, types.ErrSessionNotFound
	}
	cp := *sess
	cp.Selected = append([]int(nil), sess.Selected...)
	return &cp, nil
}

func (m *memorySessionStore) Put(ctx context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sess
	cp.Selected = append([]int(nil), sess.Selected...)
	m.sessions[sess.ID] = &cp
	return nil
}

func (m *memorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// SessionManager runs the reservation flow: toggling a selection, opening
// checkout and submitting, validating each step against the inventory's
// last-known state.
type SessionManager struct {
	store SessionStore
	inv   *Inventory
}

func NewSessionManager(store SessionStore, inv *Inventory) *SessionManager {
	return &SessionManager{store: store, inv: inv}
}

func (m *SessionManager) Create(ctx context.Context) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		Selected:  []int{},
		CreatedAt: time.Now(),
	}
	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (m *SessionManager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// Toggle deselects a ticket already in the session, or selects an AVAILABLE
// one. Any other status rejects the toggle with ErrInvalidTransition and
// leaves the session unchanged. A persistence failure is returned after the
// session and local view are updated: the optimistic-update policy favors
// responsiveness, the caller reports "may not have been saved".
func (m *SessionManager) Toggle(ctx context.Context, sessionID string, ticketID int) (*Session, *models.RaffleTicket, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	t, err := m.inv.Get(ticketID)
	if err != nil {
		return sess, nil, err
	}

	if sess.Has(ticketID) {
		sess.remove(ticketID)
		reverted, err := DeselectTicket(t)
		if err != nil {
			// The ticket moved on remotely; drop it from the session
			// without touching the store.
			log.Printf("Dropping ticket %d from session %s without revert: %s\n", ticketID, sessionID, err.Error())
			if perr := m.store.Put(ctx, sess); perr != nil {
				return sess, nil, perr
			}
			return sess, &t, nil
		}
		if perr := m.store.Put(ctx, sess); perr != nil {
			return sess, nil, perr
		}
		err = m.inv.Commit(ctx, reverted)
		return sess, &reverted, err
	}

	selected, err := SelectTicket(t)
	if err != nil {
		return sess, nil, err
	}
	sess.Selected = append(sess.Selected, ticketID)
	if perr := m.store.Put(ctx, sess); perr != nil {
		return sess, nil, perr
	}
	err = m.inv.Commit(ctx, selected)
	return sess, &selected, err
}

// OpenCheckout re-validates every selected id against its last-known status.
// Ids no longer AVAILABLE or SELECTED are dropped and reported; checkout is
// aborted with ErrEmptySelection when nothing valid remains.
func (m *SessionManager) OpenCheckout(ctx context.Context, sessionID string) (*Session, []int, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if len(sess.Selected) == 0 {
		return sess, nil, types.ErrEmptySelection
	}

	var kept []int
	var dropped []int
	for _, id := range sess.Selected {
		t, err := m.inv.Get(id)
		if err != nil || (t.Status != models.TicketAvailable && t.Status != models.TicketSelected) {
			dropped = append(dropped, id)
			continue
		}
		kept = append(kept, id)
	}
	if len(dropped) > 0 {
		sess.Selected = kept
		if err := m.store.Put(ctx, sess); err != nil {
			return sess, dropped, err
		}
	}
	if len(sess.Selected) == 0 {
		return sess, dropped, types.ErrEmptySelection
	}
	return sess, dropped, nil
}

// Submit turns the pending selection into a reservation. The canonical
// inventory is re-fetched first; tickets whose remote status refuses the
// transition are excluded and kept in the session so the buyer can be
// prompted again, per the exclusion protocol. A successfully uploaded proof
// reference is required: no reservation exists without one.
func (m *SessionManager) Submit(ctx context.Context, sessionID string, buyer types.BuyerDetails, proofURL string) ([]models.RaffleTicket, []int, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if len(sess.Selected) == 0 {
		return nil, nil, types.ErrEmptySelection
	}
	if proofURL == "" {
		return nil, nil, types.ErrUploadFailure
	}

	// Re-fetch so exclusion runs against the store's view, not a stale
	// projection. A degraded load still yields a usable inventory.
	if _, err := m.inv.Load(ctx); err != nil {
		log.Printf("Inventory refresh before submit degraded: %s\n", err.Error())
	}

	current := make([]models.RaffleTicket, 0, len(sess.Selected))
	for _, id := range sess.Selected {
		t, err := m.inv.Get(id)
		if err != nil {
			continue
		}
		current = append(current, t)
	}

	reserved, excluded := ReserveBatch(current, buyer, proofURL)
	if len(excluded) > 0 {
		sess.Selected = excluded
		if err := m.store.Put(ctx, sess); err != nil {
			return reserved, excluded, err
		}
	} else {
		if err := m.store.Delete(ctx, sess.ID); err != nil {
			log.Printf("Error clearing session %s: %s\n", sess.ID, err.Error())
		}
	}
	if len(reserved) == 0 {
		return nil, excluded, &types.StaleSelectionError{IDs: excluded}
	}
	if err := m.inv.Commit(ctx, reserved...); err != nil {
		return reserved, excluded, err
	}
	return reserved, excluded, nil
}
