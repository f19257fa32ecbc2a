package training

import "time"

// Job identifies one offline builder.
type Job string

// Job types.
const (
	JobSimilarity Job = "similarity"
	JobVector     Job = "vector"
	JobCF         Job = "cf"
	JobSentiment  Job = "sentiment"
)

// Jobs lists all job types in trigger order.
var Jobs = []Job{JobSimilarity, JobVector, JobCF, JobSentiment}

// ParseJob validates a job name.
func ParseJob(name string) (Job, bool) {
	switch Job(name) {
	case JobSimilarity, JobVector, JobCF, JobSentiment:
		return Job(name), true
	}
	return "", false
}

// State is one job's lifecycle state.
type State string

// Job states.
const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateSuccess State = "success"
	StateFailed  State = "failed"
)

// Status is the externally visible record of a job's last run.
type Status struct {
	State       State     `json:"state"`
	StartedAt   time.Time `json:"started_at,omitzero"`
	FinishedAt  time.Time `json:"finished_at,omitzero"`
	DurationSec float64   `json:"duration_sec,omitempty"`
	Message     string    `json:"message,omitempty"`
}
