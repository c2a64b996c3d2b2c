package jobs

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"voltbot/events"
)

const payoutInterval = time.Minute

type payoutHandle struct {
	cancel context.CancelFunc
	gen    uint64
}

// ResumePayouts starts a payout loop for every job persisted before the
// last shutdown.
func (f *Feature) ResumePayouts() {
	for _, assignment := range f.jobs.ActiveAssignments() {
		if _, known := f.catalog.Job(assignment.JobKey); !known {
			log.Warnf("Skipping payout for unknown job %q (user %d)", assignment.JobKey, assignment.UserID)
			continue
		}
		f.startPayout(assignment.ServerID, assignment.UserID, assignment.JobKey)
	}
}

// startPayout runs a loop crediting the job's payout every minute for
// as long as the stored job key still matches. A job change or quit
// between ticks terminates the loop; the credit itself is atomic under
// the economy lock, so cancellation mid-cycle leaves no partial state.
func (f *Feature) startPayout(serverID, userID int64, jobKey string) {
	job, known := f.catalog.Job(jobKey)
	if !known {
		return
	}

	key := payoutKey{serverID: serverID, userID: userID}
	ctx, cancel := context.WithCancel(context.Background())

	f.mu.Lock()
	if existing, ok := f.payouts[key]; ok {
		existing.cancel()
	}
	f.gen++
	gen := f.gen
	f.payouts[key] = payoutHandle{cancel: cancel, gen: gen}
	f.mu.Unlock()

	go func() {
		ticker := time.NewTicker(payoutInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			current, employed := f.jobs.GetJob(serverID, userID)
			if !employed || current != jobKey {
				f.clearPayout(key, gen)
				return
			}
			f.economy.AddWallet(serverID, userID, job.PayoutPerMinute)
			if err := f.economy.Save(); err != nil {
				log.Errorf("Error saving economy state after payout: %v", err)
			}
			f.bus.Emit(ctx, events.BalanceChangeEvent{ServerID: serverID, UserID: userID})
		}
	}()
}

// stopPayout cancels the user's payout loop, if any.
func (f *Feature) stopPayout(serverID, userID int64) {
	key := payoutKey{serverID: serverID, userID: userID}
	f.mu.Lock()
	defer f.mu.Unlock()
	if handle, ok := f.payouts[key]; ok {
		handle.cancel()
		delete(f.payouts, key)
	}
}

// clearPayout removes the handle only if it still belongs to the loop
// identified by gen; a replacement loop keeps its own handle.
func (f *Feature) clearPayout(key payoutKey, gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if handle, ok := f.payouts[key]; ok && handle.gen == gen {
		delete(f.payouts, key)
	}
}

// StopAllPayouts cancels every running payout loop, used on shutdown.
func (f *Feature) StopAllPayouts() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, handle := range f.payouts {
		handle.cancel()
		delete(f.payouts, key)
	}
}
