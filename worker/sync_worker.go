package worker

import (
	"context"

	"github.com/sirupsen/logrus"

	"pipedesk/lead"
	"pipedesk/store"
)

// SyncWorker consumes the store's live subscription and replaces the local
// lead cache wholesale on every push. Last write wins at the cache level;
// pending local edits are simply superseded by the next snapshot.
type SyncWorker struct {
	store  store.Store
	cache  *lead.Cache
	hub    *lead.Hub
	logger *logrus.Logger
}

func NewSyncWorker(st store.Store, cache *lead.Cache, hub *lead.Hub, logger *logrus.Logger) *SyncWorker {
	return &SyncWorker{store: st, cache: cache, hub: hub, logger: logger}
}

func (sw *SyncWorker) Start(ctx context.Context) {
	sw.logger.Info("starting lead sync worker")

	snapshots, err := sw.store.Subscribe(ctx, store.EntityLeads)
	if err != nil {
		sw.logger.WithError(err).Error("lead subscription failed, cache will only update on explicit refresh")
		return
	}

	for {
		select {
		case snapshot, ok := <-snapshots:
			if !ok {
				sw.logger.Info("lead subscription closed")
				return
			}
			sw.cache.Replace(snapshot)
			sw.hub.Publish(sw.cache.Leads())
			sw.logger.WithField("leads", len(snapshot)).Debug("lead snapshot replaced")
		case <-ctx.Done():
			sw.logger.Info("stopping lead sync worker")
			return
		}
	}
}
