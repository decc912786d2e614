package maintenanceimpl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"

	"github.com/planloop/content-planner/internal/blobstore"
	"github.com/planloop/content-planner/internal/domain"
	"github.com/planloop/content-planner/internal/maintenance"
	"github.com/planloop/content-planner/internal/repositories/content"
	"github.com/planloop/content-planner/pkg/config"
	"github.com/planloop/content-planner/pkg/logger"
	"github.com/planloop/content-planner/pkg/retry"
)

const sweepTimeout = 10 * time.Minute

// recordSource is a backend the sweep can enumerate records from.
type recordSource interface {
	Scopes(ctx context.Context) ([]domain.Scope, error)
	LoadAll(ctx context.Context, scope domain.Scope) ([]domain.ContentRecord, content.LoadOutcome, error)
}

type Opts struct {
	fx.In

	Blobs  blobstore.Store
	Local  *content.LocalRepository
	Remote *content.PgxRepository
	Logger logger.Logger
	Config *config.Config
}

type MaintenanceImpl struct {
	blobs     blobstore.Store
	local     recordSource
	remote    recordSource
	logger    logger.Logger
	retention time.Duration
}

var _ maintenance.Client = (*MaintenanceImpl)(nil)

func New(opts Opts) *MaintenanceImpl {
	return &MaintenanceImpl{
		blobs:     opts.Blobs,
		local:     opts.Local,
		remote:    opts.Remote,
		logger:    opts.Logger,
		retention: opts.Config.Maintenance.BlobRetention,
	}
}

func (m *MaintenanceImpl) Schedule(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(4, 0, 0)), // At 4:00 AM
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				m.logger.Info("Context cancelled, skipping blob sweep")
				return
			}
			taskCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
			defer cancel()

			if err := m.SweepOnce(taskCtx); err != nil {
				m.logger.Error("Scheduled blob sweep failed", "error", err)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule blob sweep: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		m.logger.Info("Stopping blob sweep scheduler")
		if err := scheduler.Shutdown(); err != nil {
			m.logger.Error("Failed to shut down scheduler", "error", err)
		}
	}()

	return nil
}

func (m *MaintenanceImpl) SweepOnce(ctx context.Context) error {
	referenced, err := m.referencedIDs(ctx)
	if err != nil {
		return err
	}

	keys, err := m.blobs.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list blob entries: %w", err)
	}

	var orphans []string
	cutoff := time.Now().Add(-m.retention)
	for _, key := range keys {
		if _, ok := referenced[key]; ok {
			continue
		}
		entry, err := m.blobs.Get(ctx, key)
		if err != nil {
			if errors.Is(err, blobstore.ErrNotFound) {
				continue
			}
			m.logger.Error("Failed to inspect blob entry", "id", key, "error", err)
			continue
		}
		// Recent orphans are kept: the record may still be in a pending
		// save on another device.
		if entry.UpdatedAt.After(cutoff) {
			continue
		}
		orphans = append(orphans, key)
	}

	if len(orphans) == 0 {
		m.logger.Info("Blob sweep found no orphans", "entries", len(keys))
		return nil
	}

	m.logger.Info("Blob sweep removing orphans", "count", len(orphans))
	m.deleteWithAnts(ctx, orphans)
	return nil
}

// referencedIDs collects the ids of every record known to either
// backend. The remote scan retries before the sweep gives up, since a
// transient outage must not turn live blobs into orphans.
func (m *MaintenanceImpl) referencedIDs(ctx context.Context) (map[string]struct{}, error) {
	referenced := make(map[string]struct{})

	if err := m.collect(ctx, m.local, referenced); err != nil {
		return nil, fmt.Errorf("failed to scan local records: %w", err)
	}

	remoteScan := func() error {
		return m.collect(ctx, m.remote, referenced)
	}
	if err := retry.Do(ctx, m.logger, "RemoteRecordScan", remoteScan, retry.DefaultConfig()); err != nil {
		return nil, fmt.Errorf("failed to scan remote records: %w", err)
	}

	return referenced, nil
}

func (m *MaintenanceImpl) collect(ctx context.Context, source recordSource, into map[string]struct{}) error {
	scopes, err := source.Scopes(ctx)
	if err != nil {
		return err
	}
	for _, scope := range scopes {
		records, outcome, err := source.LoadAll(ctx, scope)
		if err != nil {
			return fmt.Errorf("scope %s: load failed (%s): %w", scope, outcome, err)
		}
		for _, record := range records {
			into[record.ID] = struct{}{}
		}
	}
	return nil
}

func (m *MaintenanceImpl) deleteWithAnts(ctx context.Context, orphans []string) {
	var wg sync.WaitGroup
	pool, _ := ants.NewPool(5, ants.WithPreAlloc(true))
	defer pool.Release()

	for _, orphan := range orphans {
		wg.Add(1)
		id := orphan

		err := pool.Submit(func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				m.logger.Info("Skipping orphan removal due to context cancellation", "id", id)
				return
			default:
				if err := m.blobs.Delete(ctx, id); err != nil {
					m.logger.Error("Worker failed to remove orphan blob", "id", id, "error", err)
				} else {
					m.logger.Info("Worker removed orphan blob", "id", id)
				}
			}
		})
		if err != nil {
			wg.Done()
			m.logger.Error("Failed to submit job to ants pool", "id", id, "error", err)
		}
	}

	wg.Wait()
}
