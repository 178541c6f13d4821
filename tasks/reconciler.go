// Package tasks holds the background loops running alongside the server.
package tasks

import (
	"context"
	"os"
	"time"

	"pearhub/storage"
	"pearhub/utils"

	log "github.com/sirupsen/logrus"
)

// Reconciler periodically recounts every content's counters from the live
// interaction rows, repairing whatever drift slipped past the transactional
// write path.
type Reconciler struct {
	manager *storage.Manager
}

func NewReconciler(manager *storage.Manager) *Reconciler {
	return &Reconciler{manager: manager}
}

func (r *Reconciler) Run() {
	intervalMinutes := utils.IntFromString(
		os.Getenv("RECONCILE_INTERVAL_MINUTES"), 60,
	)
	ticker := time.NewTicker(time.Duration(intervalMinutes) * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		repaired, err := r.manager.ReconcileCounters(context.Background())
		if err != nil {
			log.Errorf("Error reconciling counters: %v", err)
			continue
		}
		if repaired > 0 {
			log.Infof("Reconciled counters for %d contents", repaired)
		}
	}
}
