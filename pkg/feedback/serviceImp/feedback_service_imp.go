package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"feedbackgen/entities"
	activity "feedbackgen/pkg/activity/service"
	"feedbackgen/pkg/ai"
	"feedbackgen/pkg/errdefs"
	"feedbackgen/pkg/feedback/service"
	history "feedbackgen/pkg/history/service"
	"feedbackgen/pkg/logger"
	"feedbackgen/pkg/prompt"
	"feedbackgen/pkg/reply"
	"feedbackgen/pkg/tone"
)

const (
	msgBadGrade      = "A nota deve ser um número entre 0 e 10."
	msgMissingFields = "Por favor, preencha todos os campos obrigatórios (Nome do Aluno, Título da Atividade, UC e Enunciado da Atividade)."
	msgNoActivity    = "A atividade selecionada não foi encontrada."
)

// DefaultTimeout bounds a single generation call when none is configured.
const DefaultTimeout = 60 * time.Second

type FeedbackSvc struct {
	catalog activity.Catalog
	history history.Store
	tones   tone.Resolver
	llm     ai.Client
	timeout time.Duration
	log     *logger.Logger

	// credErr explains why llm is nil, e.g. which variable is unset.
	credErr error

	now   func() time.Time
	newID func() string

	busy atomic.Bool

	mu          sync.Mutex
	state       service.State
	lastOutcome service.State
	lastErr     string
	draft       *service.FormInput
	current     *entities.StudentFeedback
}

// NewFeedbackService wires the orchestrator. llm may be nil when no credential is
// configured; submissions then fail with ErrMissingCredential.
func NewFeedbackService(c activity.Catalog, h history.Store, t tone.Resolver, llm ai.Client, timeout time.Duration, log *logger.Logger) *FeedbackSvc {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FeedbackSvc{
		catalog: c,
		history: h,
		tones:   t,
		llm:     llm,
		timeout: timeout,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
		state:   service.StateIdle,
	}
}

var _ service.FeedbackService = (*FeedbackSvc)(nil)

// SetCredentialError records why no client was configured. It must wrap
// errdefs.ErrMissingCredential and is what submissions then fail with.
func (s *FeedbackSvc) SetCredentialError(err error) { s.credErr = err }

func (s *FeedbackSvc) Submit(ctx context.Context, in service.FormInput) (*entities.StudentFeedback, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, errdefs.ErrBusy
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	draft := in
	s.draft = &draft
	s.mu.Unlock()

	rec, err := s.run(ctx, in)
	if err != nil {
		s.finish(service.StateFailed, err)
		s.logFailure(in, err)
		return nil, err
	}

	s.mu.Lock()
	s.draft = nil
	s.current = &rec
	s.mu.Unlock()
	s.finish(service.StateCommitted, nil)

	s.log.Info("feedback committed",
		zap.String("id", rec.ID),
		zap.String("student", rec.StudentName),
		zap.String("activity", rec.ActivityTitle),
		zap.Float64("grade", rec.Grade),
		zap.Int("suggestions", len(rec.GeneratedFeedback.ActionableSuggestions)),
	)
	out := rec
	return &out, nil
}

func (s *FeedbackSvc) run(ctx context.Context, in service.FormInput) (entities.StudentFeedback, error) {
	s.enter(service.StateValidating)
	form, grade, err := s.validate(in)
	if err != nil {
		return entities.StudentFeedback{}, err
	}
	if s.llm == nil {
		if s.credErr != nil {
			return entities.StudentFeedback{}, s.credErr
		}
		return entities.StudentFeedback{}, errdefs.ErrMissingCredential
	}

	s.enter(service.StateResolvingActivity)
	if _, _, err := s.catalog.Create(form.ActivityTitle, form.ActivityContent); err != nil {
		// the entry is in memory; only the write-through failed
		s.log.Warn("activity not persisted", zap.Error(err))
	}

	s.enter(service.StateAwaitingGeneration)
	toneDesc := s.tones.Resolve(grade)
	req := prompt.Compose(prompt.Input{
		StudentName:           form.StudentName,
		ActivityTitle:         form.ActivityTitle,
		UC:                    form.UC,
		Grade:                 grade,
		ActivityPromptContent: form.ActivityContent,
	}, toneDesc)
	s.log.Debug("requesting feedback", zap.String("provider", s.llm.Name()), zap.String("tone", toneDesc))

	// an in-flight generation is not cancelled by the caller going away, only by the timeout
	gctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	raw, err := s.llm.Generate(gctx, req)
	cancel()
	if err != nil {
		return entities.StudentFeedback{}, fmt.Errorf("%w: %v", errdefs.ErrService, err)
	}

	s.enter(service.StateParsing)
	content, err := reply.Validate(raw)
	if err != nil {
		return entities.StudentFeedback{}, err
	}

	rec := entities.StudentFeedback{
		ID:                    s.newID(),
		StudentName:           form.StudentName,
		ActivityTitle:         form.ActivityTitle,
		UC:                    form.UC,
		Grade:                 grade,
		ActivityPromptContent: form.ActivityContent,
		GeneratedFeedback:     content,
		CreatedAt:             s.now(),
	}
	if err := s.history.Append(rec); err != nil {
		s.log.Error("feedback history not persisted", zap.String("id", rec.ID), zap.Error(err))
	}
	return rec, nil
}

// validate resolves the activity from the chosen source and checks the form.
// Values are passed on as entered; whitespace only matters for the emptiness check.
func (s *FeedbackSvc) validate(in service.FormInput) (service.FormInput, float64, error) {
	out := in
	out.ActivityID = ""
	if in.Source == service.SourceSelect {
		a, ok := s.catalog.Get(in.ActivityID)
		if !ok {
			return out, 0, fmt.Errorf("%w: %s", errdefs.ErrValidation, msgNoActivity)
		}
		out.ActivityID = a.ID
		out.ActivityTitle = a.Title
		out.ActivityContent = a.Content
	}

	if blank(out.StudentName) || blank(out.UC) || blank(out.ActivityTitle) || blank(out.ActivityContent) {
		return out, 0, fmt.Errorf("%w: %s", errdefs.ErrValidation, msgMissingFields)
	}
	grade, err := ParseGrade(string(in.Grade))
	if err != nil {
		return out, 0, err
	}
	return out, grade, nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// ParseGrade accepts a number in [0,10], with either '.' or ',' as decimal separator.
func ParseGrade(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	g, err := strconv.ParseFloat(s, 64)
	if err != nil || !(g >= 0 && g <= 10) {
		return 0, fmt.Errorf("%w: %s", errdefs.ErrValidation, msgBadGrade)
	}
	return g, nil
}

func (s *FeedbackSvc) Draft() (service.FormInput, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return service.FormInput{}, false
	}
	return *s.draft, true
}

func (s *FeedbackSvc) Current() (*entities.StudentFeedback, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, false
	}
	out := *s.current
	return &out, true
}

// SaveEdit stores content as the edited version of record id. The generated
// content is left as it was.
func (s *FeedbackSvc) SaveEdit(id string, content entities.FeedbackContent) (*entities.StudentFeedback, error) {
	rec, ok := s.history.Get(id)
	if !ok {
		return nil, fmt.Errorf("feedback %s: %w", id, errdefs.ErrNotFound)
	}
	edited := content.Clone()
	rec.EditedFeedback = &edited
	if err := s.history.Replace(id, *rec); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == id {
		cur := *rec
		s.current = &cur
	}
	s.mu.Unlock()

	s.log.Info("feedback edited", zap.String("id", id), zap.Int("suggestions", len(edited.ActionableSuggestions)))
	return rec, nil
}

func (s *FeedbackSvc) ClearHistory() error {
	if err := s.history.Clear(); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.log.Info("feedback history cleared")
	return nil
}

func (s *FeedbackSvc) Status() service.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := service.Status{
		State:       s.state,
		Busy:        s.busy.Load(),
		LastOutcome: s.lastOutcome,
		LastError:   s.lastErr,
		Ready:       s.llm != nil,
	}
	if s.llm != nil {
		st.Provider = s.llm.Name()
	}
	return st
}

func (s *FeedbackSvc) enter(st service.State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// finish records the outcome and returns to idle.
func (s *FeedbackSvc) finish(outcome service.State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = service.StateIdle
	s.lastOutcome = outcome
	s.lastErr = ""
	if err != nil {
		s.lastErr = errdefs.Message(err)
	}
}

func (s *FeedbackSvc) logFailure(in service.FormInput, err error) {
	fields := []zap.Field{zap.String("student", in.StudentName), zap.Error(err)}
	var re *errdefs.ResponseError
	switch {
	case errors.As(err, &re):
		s.log.Error("unusable generation reply", append(fields, zap.String("raw", re.Raw))...)
	case errors.Is(err, errdefs.ErrValidation):
		s.log.Debug("submission rejected", fields...)
	default:
		s.log.Error("feedback generation failed", fields...)
	}
}
