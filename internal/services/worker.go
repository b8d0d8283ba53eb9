package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrWorkerStopped = errors.New("analysis worker is not accepting submissions")

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(job SubmissionJob) error
}

type SubmissionJob struct {
	SessionID  uuid.UUID
	Session    *AnalysisSession
	Submission *Submission
}

// SessionSweeper drops sessions nobody has touched since cutoff.
type SessionSweeper interface {
	DeleteIdleSince(cutoff time.Time) int
}

type WorkerOptions struct {
	Concurrency   int
	QueueSize     int
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

type worker struct {
	sweeper  SessionSweeper
	opts     WorkerOptions
	logger   zerolog.Logger
	jobQueue chan SubmissionJob
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once

	// mu orders enqueues against Stop: once stopped is set no send can
	// reach the queue, so the final drain sees every accepted job.
	mu      sync.RWMutex
	stopped bool
}

func NewWorker(sweeper SessionSweeper, opts WorkerOptions, logger zerolog.Logger) Worker {
	return &worker{
		sweeper:  sweeper,
		opts:     opts,
		logger:   logger,
		jobQueue: make(chan SubmissionJob, opts.QueueSize),
		stopChan: make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info().Int("concurrency", w.opts.Concurrency).Msg("🚀 Starting submission worker")

	for i := 0; i < w.opts.Concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	if w.sweeper != nil && w.opts.SweepInterval > 0 {
		w.wg.Add(1)
		go w.sweepIdleSessions()
	}
}

// Stop implements Worker. Runs already in progress are allowed to finish.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info().Msg("🛑 Stopping submission worker...")
		close(w.stopChan)
	})
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
	w.wg.Wait()

	// Queued submissions will never run; fail them so their sessions leave Submitting.
	for {
		select {
		case job := <-w.jobQueue:
			job.Session.Finish(job.Submission, nil, ErrWorkerStopped)
		default:
			w.logger.Info().Msg("✅ Submission worker stopped")
			return
		}
	}
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(job SubmissionJob) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return ErrWorkerStopped
	}

	select {
	case w.jobQueue <- job:
		w.logger.Debug().Str("session_id", job.SessionID.String()).Msg("📥 Submission enqueued")
		return nil
	case <-w.stopChan:
		return ErrWorkerStopped
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			w.logger.Debug().Int("worker", workerID).Msg("👷 Worker stopped")
			return
		case job := <-w.jobQueue:
			log := w.logger.With().Int("worker", workerID).Str("session_id", job.SessionID.String()).Logger()
			log.Info().Msg("👷 Processing submission")
			if err := job.Session.Run(ctx, job.Submission); err != nil {
				log.Warn().Err(err).Msg("❌ Submission failed")
			} else {
				log.Info().Msg("✅ Submission completed")
			}
		}
	}
}

func (w *worker) sweepIdleSessions() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			if n := w.sweeper.DeleteIdleSince(time.Now().Add(-w.opts.SessionTTL)); n > 0 {
				w.logger.Info().Int("sessions", n).Msg("🧹 Expired idle sessions")
			}
		}
	}
}
