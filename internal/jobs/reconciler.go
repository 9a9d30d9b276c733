package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/studycam/api/internal/model"
)

// RoomDirectory lists rooms known to the ledger with their active counts
type RoomDirectory interface {
	ListRooms(ctx context.Context, limit, offset int) ([]*model.RoomWithCount, error)
}

// MemberLedger deactivates memberships during reconciliation
type MemberLedger interface {
	DeactivateAllBatch(ctx context.Context, roomIDs []string) error
}

// ProviderDirectory lists rooms currently live on the media provider
type ProviderDirectory interface {
	ListRooms(ctx context.Context) ([]string, error)
}

// reconcilePageSize bounds each room listing query
const reconcilePageSize = 200

// Reconciler periodically converges the membership ledger with the
// provider's view of live sessions. Webhook delivery is at-least-once but
// not guaranteed; when a room_finished or participant_left event is lost,
// the ledger keeps members active for a session that no longer exists.
// The reconciler sweeps those up by bulk-deactivating members of rooms the
// provider no longer hosts.
type Reconciler struct {
	rooms    RoomDirectory
	ledger   MemberLedger
	provider ProviderDirectory
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewReconciler creates a new reconciliation job
func NewReconciler(rooms RoomDirectory, ledger MemberLedger, provider ProviderDirectory, interval time.Duration) *Reconciler {
	if interval == 0 {
		interval = 5 * time.Minute
	}
	return &Reconciler{
		rooms:    rooms,
		ledger:   ledger,
		provider: provider,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the reconciliation job
func (r *Reconciler) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run()
	log.Printf("Provider reconciler started (interval: %v)", r.interval)
}

// Stop gracefully stops the reconciliation job
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	r.wg.Wait()
	log.Println("Provider reconciler stopped")
}

// run is the main loop
func (r *Reconciler) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.reconcile()
		case <-r.stopCh:
			return
		}
	}
}

func (r *Reconciler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := r.RunOnce(ctx); err != nil {
		log.Printf("Reconciliation pass failed: %v", err)
	}
}

// RunOnce performs a single reconciliation pass (also used for manual
// trigger in tests)
func (r *Reconciler) RunOnce(ctx context.Context) error {
	liveNames, err := r.provider.ListRooms(ctx)
	if err != nil {
		return err
	}

	live := make(map[string]bool, len(liveNames))
	for _, name := range liveNames {
		live[name] = true
	}

	swept := 0
	for offset := 0; ; offset += reconcilePageSize {
		page, err := r.rooms.ListRooms(ctx, reconcilePageSize, offset)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			break
		}

		var stale []string
		for _, room := range page {
			// A room with no active members needs no sweeping, and a
			// room the provider still hosts is left alone
			if room.ActiveCount == 0 || live[room.Room.Name] {
				continue
			}
			stale = append(stale, room.Room.ID)
			log.Printf("Reconciling room %s: %d stale members (session gone)", room.Room.ID, room.ActiveCount)
		}

		if len(stale) > 0 {
			if err := r.ledger.DeactivateAllBatch(ctx, stale); err != nil {
				log.Printf("Error deactivating stale members: %v", err)
			} else {
				swept += len(stale)
			}
		}

		if len(page) < reconcilePageSize {
			break
		}
	}

	if swept > 0 {
		log.Printf("Reconciliation pass complete: %d rooms swept", swept)
	}
	return nil
}

// IsRunning returns whether the reconciler is running
func (r *Reconciler) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
