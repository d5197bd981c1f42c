package roundqueue

// RoundCleanupJob retries deleting a round descriptor after a permanent
// delete could not finish the cascade inline.
type RoundCleanupJob struct {
	RoundID string `json:"round_id"`
}

// Kind returns the job type identifier for River
func (RoundCleanupJob) Kind() string { return "round_cascade_cleanup" }
