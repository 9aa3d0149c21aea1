package common

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"rifa/src/db"
	"rifa/src/models"
	"rifa/src/types"

	"gorm.io/gorm/clause"
)

// Inventory is the ticket repository. It loads the full inventory from the
// remote store, guarantees every id in [1,N] is represented, and keeps an
// in-memory projection of the latest known state so optimistic writes can be
// applied before the remote upsert acknowledges.
type Inventory struct {
	size int

	mu          sync.RWMutex
	view        map[int]models.RaffleTicket
	unconfirmed map[int]bool

	warnOnce sync.Once
}

func NewInventory(size int) *Inventory {
	return &Inventory{
		size:        size,
		view:        make(map[int]models.RaffleTicket, size),
		unconfirmed: make(map[int]bool),
	}
}

func (inv *Inventory) Size() int { return inv.size }

// Load fetches all rows from the store, synthesizes AVAILABLE tickets for
// any id in [1,N] the store is missing, and persists the backfill
// fire-and-forget. On a store error it fails soft: the caller gets a fully
// synthetic inventory plus ErrStoreUnavailable as a diagnostic, never a
// short or empty result.
func (inv *Inventory) Load(ctx context.Context) ([]models.RaffleTicket, error) {
	var rows []models.RaffleTicket
	conn := db.GetDb()
	if err := conn.WithContext(ctx).Find(&rows).Error; err != nil {
		inv.warnOnce.Do(func() {
			log.Printf("Ticket store unreachable, serving synthetic inventory: %s\n", err.Error())
		})
		synthetic := inv.syntheticInventory()
		inv.replaceView(synthetic)
		return synthetic, fmt.Errorf("%w: %s", types.ErrStoreUnavailable, err.Error())
	}

	fetched := make(map[int]models.RaffleTicket, len(rows))
	for _, t := range rows {
		if t.ID >= 1 && t.ID <= inv.size {
			fetched[t.ID] = t
		}
	}

	full := make([]models.RaffleTicket, 0, inv.size)
	var missing []models.RaffleTicket
	for id := 1; id <= inv.size; id++ {
		t, ok := fetched[id]
		if !ok {
			t = models.NewAvailableTicket(id)
			missing = append(missing, t)
		}
		full = append(full, t)
	}

	if len(missing) > 0 {
		log.Printf("Ticket table incomplete: backfilling %d of %d tickets\n", len(missing), inv.size)
		go func(rows []models.RaffleTicket) {
			// The in-memory view is already correct; a failed backfill
			// write is logged, not surfaced.
			if err := inv.Save(context.Background(), rows...); err != nil {
				log.Printf("Backfill persist failed: %s\n", err.Error())
			}
		}(missing)
	}

	inv.replaceView(full)
	return full, nil
}

// Save upserts the given tickets by id. Every upsert is a full-row replace:
// cleared optional fields are written as explicit NULLs so unselecting a
// ticket actually erases its buyer data remotely.
func (inv *Inventory) Save(ctx context.Context, tickets ...models.RaffleTicket) error {
	if len(tickets) == 0 {
		return nil
	}
	conn := db.GetDb()
	err := conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&tickets).Error
	if err != nil {
		return fmt.Errorf("%w: %s", types.ErrPersistenceFailure, err.Error())
	}
	return nil
}

// Commit is the two-phase optimistic write: the projection reflects the new
// state immediately, then the remote upsert runs. On failure the rows stay
// visible but flagged unconfirmed and the caller gets ErrPersistenceFailure.
func (inv *Inventory) Commit(ctx context.Context, tickets ...models.RaffleTicket) error {
	if len(tickets) == 0 {
		return nil
	}
	inv.apply(tickets)
	if err := inv.Save(ctx, tickets...); err != nil {
		inv.markUnconfirmed(tickets)
		return err
	}
	inv.confirm(tickets)
	return nil
}

// Get returns the last-known state of one ticket.
func (inv *Inventory) Get(id int) (models.RaffleTicket, error) {
	if id < 1 || id > inv.size {
		return models.RaffleTicket{}, fmt.Errorf("%w: %d", types.ErrTicketOutOfRange, id)
	}
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	t, ok := inv.view[id]
	if !ok {
		return models.NewAvailableTicket(id), nil
	}
	t.Unconfirmed = inv.unconfirmed[id]
	return t, nil
}

// Snapshot returns the projection sorted by ascending id. Callers must not
// assume the store preserves order; this is where ordering is imposed.
func (inv *Inventory) Snapshot() []models.RaffleTicket {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]models.RaffleTicket, 0, len(inv.view))
	for id, t := range inv.view {
		t.Unconfirmed = inv.unconfirmed[id]
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (inv *Inventory) syntheticInventory() []models.RaffleTicket {
	out := make([]models.RaffleTicket, 0, inv.size)
	for id := 1; id <= inv.size; id++ {
		out = append(out, models.NewAvailableTicket(id))
	}
	return out
}

func (inv *Inventory) replaceView(tickets []models.RaffleTicket) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for _, t := range tickets {
		inv.view[t.ID] = t
		// A fresh load supersedes any optimistic flag.
		delete(inv.unconfirmed, t.ID)
	}
}

func (inv *Inventory) apply(tickets []models.RaffleTicket) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for _, t := range tickets {
		inv.view[t.ID] = t
	}
}

func (inv *Inventory) markUnconfirmed(tickets []models.RaffleTicket) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for _, t := range tickets {
		inv.unconfirmed[t.ID] = true
	}
}

func (inv *Inventory) confirm(tickets []models.RaffleTicket) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for _, t := range tickets {
		delete(inv.unconfirmed, t.ID)
	}
}
