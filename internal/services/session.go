package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"skillbridge/gap-analyzer/internal/models"
)

// SessionState is a snapshot of an AnalysisSession. Status is derived:
// Submitting while a run is in flight, Failed when the last run failed,
// Success when a result is held, Idle otherwise. A validation error, a failure
// and a result never appear together; while Submitting none of them is reported.
type SessionState struct {
	Status          models.SessionStatus
	Document        *models.CandidateDocument
	Role            string
	ValidationError models.ValidationError
	ErrorMessage    string
	Result          *models.AnalysisResult
	// AnalyzedRole is the role Result was produced for.
	AnalyzedRole string
}

// Submission is the snapshot an accepted submit() runs against.
type Submission struct {
	generation uint64
	Document   models.CandidateDocument
	Role       string
}

type AnalysisSession struct {
	mu       sync.Mutex
	analyzer AnalyzerService
	logger   zerolog.Logger

	document      *models.CandidateDocument
	role          string
	validationErr models.ValidationError
	failure       string
	result        *models.AnalysisResult
	analyzedRole  string
	submitting    bool

	// generation changes on Reset so an abandoned run cannot write back.
	generation uint64
	updatedAt  time.Time
}

func NewAnalysisSession(analyzer AnalyzerService, logger zerolog.Logger) *AnalysisSession {
	return &AnalysisSession{
		analyzer:  analyzer,
		logger:    logger,
		updatedAt: time.Now(),
	}
}

// SelectDocument validates file; on rejection no document is retained.
func (s *AnalysisSession) SelectDocument(file models.CandidateDocument) models.ValidationError {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.failure = ""
	doc, verr := ValidateDocument(file)
	if !verr.IsNone() {
		s.document = nil
		s.reject(verr)
		s.logger.Debug().Str("document", file.DisplayName).Str("error", string(verr)).Msg("⚠️ Document rejected")
		return verr
	}

	s.document = &doc
	s.validationErr = models.ValidationNone
	return models.ValidationNone
}

// SetRole stores the raw text and re-validates it; no document is needed.
func (s *AnalysisSession) SetRole(text string) models.ValidationError {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.failure = ""
	s.role = text
	if verr := ValidateRole(text); !verr.IsNone() {
		s.reject(verr)
		return verr
	}
	s.validationErr = models.ValidationNone
	return models.ValidationNone
}

// Accept re-validates everything and, when the inputs hold, enters
// Submitting. A rejection returns the models.ValidationError now active.
func (s *AnalysisSession) Accept() (*Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return nil, ErrAlreadySubmitting
	}
	s.touch()
	s.failure = ""

	if s.document == nil {
		s.reject(models.ValidationMissingFile)
		return nil, models.ValidationMissingFile
	}

	verr := ValidateRole(s.role)
	if verr == models.ValidationEmptyRole {
		verr = models.ValidationMissingRole
	}
	if !verr.IsNone() {
		s.reject(verr)
		return nil, verr
	}

	s.validationErr = models.ValidationNone
	s.result = nil
	s.analyzedRole = ""
	s.submitting = true

	return &Submission{
		generation: s.generation,
		Document:   *s.document,
		Role:       strings.TrimSpace(s.role),
	}, nil
}

// Run executes an accepted submission and records its outcome.
func (s *AnalysisSession) Run(ctx context.Context, sub *Submission) error {
	result, err := s.analyzer.AnalyzeResume(ctx, sub.Document, sub.Role)
	s.Finish(sub, result, err)
	return err
}

// Finish records the outcome of sub unless the session was reset meanwhile.
func (s *AnalysisSession) Finish(sub *Submission, result *models.AnalysisResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.generation != s.generation {
		s.logger.Debug().Msg("🗑️ Discarding outcome of a submission abandoned by reset")
		return
	}
	s.touch()
	s.submitting = false

	// Inputs edited into an invalid state during the run keep their error
	// and the outcome is dropped.
	if !s.validationErr.IsNone() {
		return
	}
	if err != nil {
		s.failure = FailureMessage(err)
		s.result = nil
		return
	}
	s.result = result
	s.analyzedRole = sub.Role
}

// Submit is Accept followed by Run.
func (s *AnalysisSession) Submit(ctx context.Context) error {
	sub, err := s.Accept()
	if err != nil {
		return err
	}
	return s.Run(ctx, sub)
}

// Reset returns to the initial state from any state, including Submitting.
func (s *AnalysisSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.generation++
	s.document = nil
	s.role = ""
	s.validationErr = models.ValidationNone
	s.failure = ""
	s.result = nil
	s.analyzedRole = ""
	s.submitting = false
}

func (s *AnalysisSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SessionState{
		Status:       s.status(),
		Role:         s.role,
		ErrorMessage: s.failure,
		Result:       s.result,
		AnalyzedRole: s.analyzedRole,
	}
	if s.document != nil {
		doc := *s.document
		state.Document = &doc
	}
	if !s.submitting {
		state.ValidationError = s.validationErr
	}
	return state
}

func (s *AnalysisSession) IsSubmitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

func (s *AnalysisSession) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *AnalysisSession) status() models.SessionStatus {
	switch {
	case s.submitting:
		return models.StatusSubmitting
	case s.failure != "":
		return models.StatusFailed
	case s.result != nil:
		return models.StatusSuccess
	default:
		return models.StatusIdle
	}
}

// reject records verr and drops any result it invalidates.
func (s *AnalysisSession) reject(verr models.ValidationError) {
	s.validationErr = verr
	s.result = nil
	s.analyzedRole = ""
}

func (s *AnalysisSession) touch() {
	s.updatedAt = time.Now()
}
