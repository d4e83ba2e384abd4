package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueuePrefetch(sessionID string, difficulty, count int) error
}
