package worker

import (
	"context"

	"github.com/prepdeck/prepdeck/internal/jobs"
	"github.com/prepdeck/prepdeck/internal/logger"
	"github.com/prepdeck/prepdeck/internal/questionbank"
)

// PrefetchItemsJob warms the item cache at a target difficulty so the next
// question fetch for a session does not block on the bank.
type PrefetchItemsJob struct {
	Bank       questionbank.ClientInterface
	Cache      *questionbank.Cache
	SessionID  string
	Difficulty int
	Count      int
}

func (j *PrefetchItemsJob) Name() string { return "prefetch_items" }

func (j *PrefetchItemsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session_id": j.SessionID,
		"difficulty": j.Difficulty,
	})

	count := j.Count
	if count <= 0 {
		count = 5
	}

	items, err := j.Bank.FetchBatch(ctx, j.Difficulty, count)
	if err != nil {
		log.Error("prefetch failed: %v", err)
		return err
	}

	j.Cache.Put(j.Difficulty, items)
	log.Debug("prefetched %d items, cache size now %d", len(items), j.Cache.Size(j.Difficulty))
	return nil
}

// Queue adapts a Pool into the jobs.JobQueue interface used by services.
type Queue struct {
	Pool  *Pool
	Bank  questionbank.ClientInterface
	Cache *questionbank.Cache
}

var _ jobs.JobQueue = (*Queue)(nil)

func (q *Queue) EnqueuePrefetch(sessionID string, difficulty, count int) error {
	q.Pool.Submit(&PrefetchItemsJob{
		Bank:       q.Bank,
		Cache:      q.Cache,
		SessionID:  sessionID,
		Difficulty: difficulty,
		Count:      count,
	})
	return nil
}
