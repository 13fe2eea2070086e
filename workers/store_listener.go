// workers/store_listener.go
package workers

import (
	"context"
	"log"
	"time"

	"fitness-tracker-system/services"
)

// StoreListener keeps the synchronizer's mirror in step with the remote
// store. It reconciles on every change announcement and also on a slow
// fallback ticker, in case an announcement was missed. Reconciliation always
// reloads the full snapshot; remote writers can change anything.
type StoreListener struct {
	store    services.RemoteStore
	sync     *services.Synchronizer
	interval time.Duration
}

func NewStoreListener(store services.RemoteStore, sync *services.Synchronizer) *StoreListener {
	return &StoreListener{
		store:    store,
		sync:     sync,
		interval: 5 * time.Minute,
	}
}

func (w *StoreListener) Start(ctx context.Context) {
	log.Println("🔁 Starting store listener (remote changes → mirror)…")
	go w.run(ctx)
}

func (w *StoreListener) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	changes := w.store.Changes()
	for {
		select {
		case who, ok := <-changes:
			if !ok {
				log.Println("⚠️ Change feed closed, falling back to polling only")
				changes = nil
				continue
			}
			w.reconcile(ctx, who)
		case <-ticker.C:
			w.reconcile(ctx, "periodic")
		case <-ctx.Done():
			log.Println("🛑 Store listener stopped")
			return
		}
	}
}

func (w *StoreListener) reconcile(ctx context.Context, reason string) {
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	users, err := w.store.LoadAll(loadCtx)
	if err != nil {
		log.Printf("⚠️ Reconcile failed (%s): %v", reason, err)
		return
	}
	w.sync.ReconcileSnapshot(users)
}
