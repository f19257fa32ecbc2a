// Package training runs the four offline artifact builders behind per-job
// state machines. A builder failure is recorded as job status, never
// propagated to crash the host; a trigger for an already-running job type is
// rejected, which serializes rebuilds per artifact.
package training

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/peakform/recohub/internal/artifact"
	"github.com/peakform/recohub/internal/cf"
	"github.com/peakform/recohub/internal/domain"
	"github.com/peakform/recohub/internal/metrics"
)

// Options tune the builders.
type Options struct {
	ArtifactsDir string
	CF           cf.Hyperparams
	// EncodeBatchSize bounds document-encoding request sizes.
	EncodeBatchSize int
}

// Service owns job state and runs builders.
type Service struct {
	catalog      CatalogReader
	interactions InteractionReader
	feedback     FeedbackReader
	encoder      Encoder
	holders      Holders
	opts         Options
	logger       *zap.Logger

	mu     sync.Mutex
	status map[Job]*Status
}

// New creates a training service.
func New(
	catalog CatalogReader, interactions InteractionReader, feedback FeedbackReader,
	encoder Encoder, holders Holders, opts Options, logger *zap.Logger,
) *Service {
	if opts.EncodeBatchSize <= 0 {
		opts.EncodeBatchSize = 64
	}
	if opts.CF.Factors == 0 {
		opts.CF = cf.DefaultHyperparams()
	}

	status := make(map[Job]*Status, len(Jobs))
	for _, job := range Jobs {
		status[job] = &Status{State: StateIdle}
	}
	return &Service{
		catalog:      catalog,
		interactions: interactions,
		feedback:     feedback,
		encoder:      encoder,
		holders:      holders,
		opts:         opts,
		logger:       logger,
		status:       status,
	}
}

// Trigger starts a job in the background. Returns ErrJobAlreadyRunning when
// the same job type is running, and ErrUnknownJob for unrecognized names.
func (s *Service) Trigger(job Job) error {
	builder, ok := s.builder(job)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownJob, job)
	}

	s.mu.Lock()
	st := s.status[job]
	if st.State == StateRunning {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrJobAlreadyRunning, job)
	}
	*st = Status{State: StateRunning, StartedAt: time.Now()}
	s.mu.Unlock()

	go s.run(job, builder)
	return nil
}

// Status returns a snapshot of every job's state.
func (s *Service) Status() map[Job]Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[Job]Status, len(s.status))
	for job, st := range s.status {
		out[job] = *st
	}
	return out
}

// StartAutoRebuild fires every job on the given interval until ctx is done.
// Triggers for still-running jobs are skipped, not queued.
func (s *Service) StartAutoRebuild(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, job := range Jobs {
					if err := s.Trigger(job); err != nil {
						s.logger.Debug("auto rebuild skipped",
							zap.String("job", string(job)), zap.Error(err))
					}
				}
			}
		}
	}()
}

func (s *Service) run(job Job, builder func(ctx context.Context) error) {
	// Builders use their own context: a rebuild must not die with the
	// triggering HTTP request.
	ctx := context.Background()
	start := time.Now()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("builder panic: %v", r)
			}
		}()
		return builder(ctx)
	}()

	duration := time.Since(start)
	metrics.TrainingDuration.WithLabelValues(string(job)).Observe(duration.Seconds())

	s.mu.Lock()
	st := s.status[job]
	st.FinishedAt = time.Now()
	st.DurationSec = duration.Seconds()
	if err != nil {
		st.State = StateFailed
		st.Message = err.Error()
	} else {
		st.State = StateSuccess
		st.Message = ""
	}
	s.mu.Unlock()

	if err != nil {
		metrics.TrainingRunsTotal.WithLabelValues(string(job), "failed").Inc()
		s.logger.Error("training job failed",
			zap.String("job", string(job)),
			zap.Duration("duration", duration),
			zap.Error(err))
		return
	}
	metrics.TrainingRunsTotal.WithLabelValues(string(job), "success").Inc()
	s.logger.Info("training job finished",
		zap.String("job", string(job)),
		zap.Duration("duration", duration))
}

func (s *Service) builder(job Job) (func(ctx context.Context) error, bool) {
	switch job {
	case JobSimilarity:
		return s.buildSimilarity, true
	case JobVector:
		return s.buildVector, true
	case JobCF:
		return s.buildCF, true
	case JobSentiment:
		return s.buildSentiment, true
	}
	return nil, false
}

// LoadAll publishes previously persisted artifacts at startup. A missing
// artifact is expected before the first rebuild and only logged.
func (s *Service) LoadAll() {
	loadInto(s, artifact.NameSimilarity, s.holders.Similarity)
	loadInto(s, artifact.NameVectorIndex, s.holders.Vector)
	loadInto(s, artifact.NameCFModel, s.holders.CF)
	loadInto(s, artifact.NameSentiment, s.holders.Sentiment)
}

// loadInto loads one persisted artifact and publishes it.
func loadInto[T any](s *Service, name string, holder Publisher[T]) {
	v, err := artifact.Load[T](s.opts.ArtifactsDir, name)
	if err != nil {
		s.logger.Warn("artifact not loaded at startup",
			zap.String("artifact", name), zap.Error(err))
		return
	}
	holder.Publish(v)
	s.logger.Info("artifact loaded", zap.String("artifact", name))
}
