package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"feedbackgen/entities"
	activityRepo "feedbackgen/pkg/activity/repositoryImp"
	activitySvc "feedbackgen/pkg/activity/serviceImp"
	"feedbackgen/pkg/ai"
	"feedbackgen/pkg/errdefs"
	"feedbackgen/pkg/feedback/service"
	historyRepo "feedbackgen/pkg/history/repositoryImp"
	historySvc "feedbackgen/pkg/history/serviceImp"
	kvImp "feedbackgen/pkg/storage/repositoryImp"
	"feedbackgen/pkg/tone"
)

func TestMain(m *testing.M) {
	// opencensus, pulled in through the genai client, starts its view worker in init
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

const anaReply = `{"feedbackText":"Parabéns, Ana!","actionableSuggestions":["Revisar capítulo 3"]}`

var ana = service.FormInput{
	StudentName:     "Ana",
	UC:              "Matemática",
	Grade:           "8.5",
	Source:          service.SourceText,
	ActivityTitle:   "Prova 1",
	ActivityContent: "Resolva as equações do segundo grau.",
}

type fixture struct {
	svc  *FeedbackSvc
	mem  *kvImp.Memory
	reqs []ai.GenerationRequest
}

func newFixture(t *testing.T, gen func(ctx context.Context) (string, error)) *fixture {
	t.Helper()
	f := &fixture{mem: kvImp.NewMemory()}
	catalog, err := activitySvc.New(activityRepo.New(f.mem))
	require.NoError(t, err)
	store, err := historySvc.New(historyRepo.New(f.mem))
	require.NoError(t, err)

	var llm ai.Client
	if gen != nil {
		llm = ai.ClientFunc(func(ctx context.Context, req ai.GenerationRequest) (string, error) {
			f.reqs = append(f.reqs, req)
			return gen(ctx)
		})
	}
	f.svc = NewFeedbackService(catalog, store, tone.Default(), llm, time.Second, nil)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	return f
}

func replyWith(s string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return s, nil }
}

func TestSubmit_Commits(t *testing.T) {
	f := newFixture(t, replyWith(anaReply))

	rec, err := f.svc.Submit(context.Background(), ana)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, 8.5, rec.Grade)
	assert.Equal(t, "Parabéns, Ana!", rec.GeneratedFeedback.FeedbackText)
	assert.Len(t, rec.GeneratedFeedback.ActionableSuggestions, 1)
	assert.Nil(t, rec.EditedFeedback)

	require.Len(t, f.reqs, 1)
	assert.Contains(t, f.reqs[0].Prompt, tone.DefaultBands[2].Description)
	assert.Contains(t, f.reqs[0].Prompt, "Ana")
	assert.Contains(t, f.reqs[0].Prompt, "8.5")

	assert.Equal(t, 1, f.svc.history.Len())
	assert.Equal(t, 1, f.svc.catalog.Len())

	_, ok := f.svc.Draft()
	assert.False(t, ok)
	cur, ok := f.svc.Current()
	require.True(t, ok)
	assert.Equal(t, rec.ID, cur.ID)

	st := f.svc.Status()
	assert.Equal(t, service.StateIdle, st.State)
	assert.Equal(t, service.StateCommitted, st.LastOutcome)
	assert.False(t, st.Busy)
	assert.True(t, st.Ready)
}

func TestSubmit_ProseReply(t *testing.T) {
	f := newFixture(t, replyWith("Claro! Aqui está um ótimo feedback para a Ana."))

	_, err := f.svc.Submit(context.Background(), ana)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errdefs.ErrMalformedResponse))

	assert.Equal(t, 0, f.svc.history.Len())
	draft, ok := f.svc.Draft()
	require.True(t, ok)
	assert.Equal(t, ana, draft)

	st := f.svc.Status()
	assert.Equal(t, service.StateIdle, st.State)
	assert.Equal(t, service.StateFailed, st.LastOutcome)
	assert.NotEmpty(t, st.LastError)
}

func TestSubmit_SchemaViolation(t *testing.T) {
	f := newFixture(t, replyWith(`{"feedbackText":"Oi"}`))
	_, err := f.svc.Submit(context.Background(), ana)
	assert.True(t, errors.Is(err, errdefs.ErrSchemaViolation))
	assert.Equal(t, 0, f.svc.history.Len())
}

func TestSubmit_Validation(t *testing.T) {
	cases := map[string]func(in *service.FormInput){
		"grade above range": func(in *service.FormInput) { in.Grade = "10.5" },
		"grade below range": func(in *service.FormInput) { in.Grade = "-1" },
		"grade not number":  func(in *service.FormInput) { in.Grade = "oito" },
		"grade NaN":         func(in *service.FormInput) { in.Grade = "NaN" },
		"missing name":      func(in *service.FormInput) { in.StudentName = "  " },
		"missing uc":        func(in *service.FormInput) { in.UC = "" },
		"missing content":   func(in *service.FormInput) { in.ActivityContent = "" },
		"unknown selection": func(in *service.FormInput) { in.Source = service.SourceSelect; in.ActivityID = "nope" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, replyWith(anaReply))
			in := ana
			mutate(&in)

			_, err := f.svc.Submit(context.Background(), in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errdefs.ErrValidation))
			assert.Empty(t, f.reqs)
			assert.Equal(t, 0, f.svc.catalog.Len())
		})
	}
}

func TestParseGrade(t *testing.T) {
	for in, want := range map[string]float64{"0": 0, "10": 10, " 8.5 ": 8.5, "7,25": 7.25} {
		g, err := ParseGrade(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, g)
	}
}

func TestSubmit_MissingCredential(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Submit(context.Background(), ana)
	assert.True(t, errors.Is(err, errdefs.ErrMissingCredential))
	assert.Equal(t, 0, f.svc.catalog.Len())
	assert.False(t, f.svc.Status().Ready)

	require.NoError(t, f.svc.ClearHistory())
}

func TestSubmit_ServiceError(t *testing.T) {
	f := newFixture(t, func(context.Context) (string, error) { return "", errors.New("quota exceeded") })

	_, err := f.svc.Submit(context.Background(), ana)
	assert.True(t, errors.Is(err, errdefs.ErrService))
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, 1, f.svc.catalog.Len())
	assert.Equal(t, 0, f.svc.history.Len())
}

func TestSubmit_Timeout(t *testing.T) {
	f := newFixture(t, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	f.svc.timeout = 20 * time.Millisecond

	_, err := f.svc.Submit(context.Background(), ana)
	assert.True(t, errors.Is(err, errdefs.ErrService))
}

func TestSubmit_CallerCancelDoesNotAbort(t *testing.T) {
	f := newFixture(t, func(ctx context.Context) (string, error) {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return anaReply, nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Submit(ctx, ana)
	require.NoError(t, err)
}

func TestSubmit_KeepsInputVerbatim(t *testing.T) {
	f := newFixture(t, replyWith(anaReply))

	in := ana
	in.ActivityContent = "  1) Resolva x.\n"
	rec, err := f.svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "  1) Resolva x.\n", rec.ActivityPromptContent)
	assert.Contains(t, f.reqs[0].Prompt, "  1) Resolva x.\n")

	stored, ok := f.svc.catalog.FindExact("Prova 1", "  1) Resolva x.\n")
	require.True(t, ok)
	assert.Equal(t, "  1) Resolva x.\n", stored.Content)
}

func TestSubmit_TitleWhitespaceIsDistinctActivity(t *testing.T) {
	f := newFixture(t, replyWith(anaReply))
	for _, title := range []string{"Prova 1", "Prova 1 "} {
		in := ana
		in.ActivityTitle = title
		_, err := f.svc.Submit(context.Background(), in)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, f.svc.catalog.Len())
}

func TestSubmit_MissingCredentialNamesVariable(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.SetCredentialError(fmt.Errorf("%w: LLM_API_KEY", errdefs.ErrMissingCredential))

	_, err := f.svc.Submit(context.Background(), ana)
	assert.True(t, errors.Is(err, errdefs.ErrMissingCredential))
	assert.Contains(t, errdefs.Message(err), "LLM_API_KEY")
}

func TestSubmit_SelectUsesStoredActivity(t *testing.T) {
	f := newFixture(t, replyWith(anaReply))
	stored, _, err := f.svc.catalog.Create("Lista 3", "Implemente uma fila.")
	require.NoError(t, err)

	in := ana
	in.Source = service.SourceSelect
	in.ActivityID = stored.ID
	in.ActivityTitle = "ignored"
	in.ActivityContent = "ignored"

	rec, err := f.svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Lista 3", rec.ActivityTitle)
	assert.Equal(t, "Implemente uma fila.", rec.ActivityPromptContent)
	assert.Equal(t, 1, f.svc.catalog.Len())
}

func TestSubmit_SameActivityDeduplicated(t *testing.T) {
	f := newFixture(t, replyWith(anaReply))
	for _, name := range []string{"Ana", "Bia"} {
		in := ana
		in.StudentName = name
		_, err := f.svc.Submit(context.Background(), in)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.svc.catalog.Len())
	assert.Equal(t, 2, f.svc.history.Len())
}

func TestSubmit_BusyGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := newFixture(t, func(context.Context) (string, error) {
		close(started)
		<-release
		return anaReply, nil
	})

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = f.svc.Submit(context.Background(), ana)
	}()

	<-started
	st := f.svc.Status()
	assert.True(t, st.Busy)
	assert.Equal(t, service.StateAwaitingGeneration, st.State)

	_, err := f.svc.Submit(context.Background(), ana)
	assert.True(t, errors.Is(err, errdefs.ErrBusy))

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, 1, f.svc.history.Len())
	assert.False(t, f.svc.Status().Busy)
}

func TestSaveEdit(t *testing.T) {
	f := newFixture(t, replyWith(anaReply))
	rec, err := f.svc.Submit(context.Background(), ana)
	require.NoError(t, err)

	edited, err := f.svc.SaveEdit(rec.ID, entities.FeedbackContent{FeedbackText: "Parabéns, Ana! Continue assim."})
	require.NoError(t, err)
	require.NotNil(t, edited.EditedFeedback)
	assert.NotNil(t, edited.EditedFeedback.ActionableSuggestions)
	assert.Empty(t, edited.EditedFeedback.ActionableSuggestions)
	assert.Equal(t, rec.GeneratedFeedback, edited.GeneratedFeedback)

	stored, ok := f.svc.history.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, "Parabéns, Ana! Continue assim.", stored.EditedFeedback.FeedbackText)

	cur, _ := f.svc.Current()
	assert.Equal(t, "Parabéns, Ana! Continue assim.", cur.Displayed().FeedbackText)

	_, err = f.svc.SaveEdit("missing", entities.FeedbackContent{})
	assert.True(t, errors.Is(err, errdefs.ErrNotFound))
}

func TestClearHistory(t *testing.T) {
	f := newFixture(t, replyWith(anaReply))
	rec, err := f.svc.Submit(context.Background(), ana)
	require.NoError(t, err)

	require.NoError(t, f.svc.ClearHistory())
	assert.Empty(t, f.svc.history.ListDescending())
	_, ok := f.svc.Current()
	assert.False(t, ok)

	_, err = f.svc.SaveEdit(rec.ID, entities.FeedbackContent{FeedbackText: "x"})
	assert.True(t, errors.Is(err, errdefs.ErrNotFound))
	assert.Equal(t, 1, f.svc.catalog.Len())
}
