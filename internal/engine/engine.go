// Package engine wires the clock, snapshot store, stat ledger, and decay
// scheduler into one service object with explicit lifecycle: Load at
// startup, mutations while running, Stop (with a final save) on shutdown.
package engine

import (
	"log"
	"sync"
	"time"

	"github.com/jmccallister93/take-action/internal/clock"
	"github.com/jmccallister93/take-action/internal/decay"
	"github.com/jmccallister93/take-action/internal/ledger"
	"github.com/jmccallister93/take-action/internal/metrics"
	"github.com/jmccallister93/take-action/internal/store"
)

// Engine coordinates all mutations. Ledger and scheduler share one
// mutual-exclusion domain here: decay evaluation and activity logging both
// write the same stat values, so they are never allowed to interleave.
type Engine struct {
	mu     sync.Mutex
	clk    clock.Clock
	db     *store.DB
	ledger *ledger.Ledger
	decay  *decay.Scheduler

	saveMu sync.Mutex
	stopCh chan struct{}
}

// New builds an engine over the given store and clock. Call Load before use.
func New(db *store.DB, clk clock.Clock) *Engine {
	led := ledger.New(clk)
	return &Engine{
		clk:    clk,
		db:     db,
		ledger: led,
		decay:  decay.New(led),
		stopCh: make(chan struct{}),
	}
}

// Ledger exposes read access to categories, stats, and the activity log.
func (e *Engine) Ledger() *ledger.Ledger { return e.ledger }

// Decay exposes read access to decay settings and countdowns.
func (e *Engine) Decay() *decay.Scheduler { return e.decay }

// Now returns the engine's current time.
func (e *Engine) Now() time.Time { return e.clk.Now() }

// Load restores all snapshots. A missing or malformed payload falls back to
// empty defaults for that key and is logged; startup never aborts on it.
func (e *Engine) Load() {
	e.restore(ledger.SheetKey, e.ledger.RestoreSheet)
	e.restore(ledger.LogKey, e.ledger.RestoreLog)
	e.restore(decay.SettingsKey, e.decay.RestoreSettings)
}

func (e *Engine) restore(key string, fn func([]byte) error) {
	payload, ok, err := e.db.GetSnapshot(key)
	if err != nil {
		log.Printf("snapshot: load %s: %v (starting empty)", key, err)
		return
	}
	if !ok {
		return
	}
	if err := fn([]byte(payload)); err != nil {
		log.Printf("snapshot: restore %s: %v (starting empty)", key, err)
	}
}

// persist saves all snapshots in the background. Cycles are serialized:
// a save starting while another is in flight waits for it, and each cycle
// writes both ledger keys and the decay settings in one transaction.
// Failures are logged and counted, never surfaced to the mutation that
// triggered the save.
func (e *Engine) persist() {
	go func() {
		if err := e.SaveNow(); err != nil {
			metrics.SnapshotSaveErrors.Inc()
			log.Printf("snapshot: save: %v", err)
		}
	}()
}

// SaveNow writes all snapshots synchronously. Used by persist, the CLI, and
// the final save on shutdown.
func (e *Engine) SaveNow() error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	sheet, err := e.ledger.EncodeSheet()
	if err != nil {
		return err
	}
	logBlob, err := e.ledger.EncodeLog()
	if err != nil {
		return err
	}
	settings, err := e.decay.EncodeSettings()
	if err != nil {
		return err
	}
	return e.db.SetSnapshots(map[string]string{
		ledger.SheetKey:   string(sheet),
		ledger.LogKey:     string(logBlob),
		decay.SettingsKey: string(settings),
	})
}

// StartTicker evaluates decay once immediately (catching up anything that
// came due while the process was down) and then on every tick until Stop.
func (e *Engine) StartTicker(tick time.Duration) {
	if removed := e.EvaluateNow(); removed > 0 {
		log.Printf("decay: startup catch-up removed %d points", removed)
	}

	go func() {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := e.EvaluateNow(); removed > 0 {
					log.Printf("decay: removed %d points", removed)
				}
			case <-e.stopCh:
				return
			}
		}
	}()
}

// Stop shuts down the ticker and writes a final snapshot.
func (e *Engine) Stop() {
	close(e.stopCh)
	if err := e.SaveNow(); err != nil {
		log.Printf("snapshot: final save: %v", err)
	}
}
