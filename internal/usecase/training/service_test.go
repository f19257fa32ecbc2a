package training

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/peakform/recohub/internal/cf"
	"github.com/peakform/recohub/internal/domain"
	"github.com/peakform/recohub/internal/sentiment"
	"github.com/peakform/recohub/internal/textindex"
	"github.com/peakform/recohub/internal/vectorindex"
)

// --- Mocks ---

type mockCatalog struct {
	products []domain.Product
	err      error
}

func (m *mockCatalog) ListActive(_ context.Context) ([]domain.Product, error) {
	return m.products, m.err
}

type mockInteractions struct {
	events []domain.Interaction
	err    error
}

func (m *mockInteractions) ListAll(_ context.Context) ([]domain.Interaction, error) {
	return m.events, m.err
}

type mockFeedback struct {
	records []domain.Feedback
	err     error
}

func (m *mockFeedback) ListAll(_ context.Context) ([]domain.Feedback, error) {
	return m.records, m.err
}

type mockEncoder struct {
	mu      sync.Mutex
	dim     int
	calls   int
	failOn  int           // fail on the Nth call (1-based), 0 = never
	release chan struct{} // when set, EncodeBatch blocks until closed
}

func (m *mockEncoder) EncodeBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.release != nil {
		<-m.release
	}
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()
	if m.failOn != 0 && call >= m.failOn {
		return nil, errors.New("provider down")
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, m.dim)
	}
	return out, nil
}

type capture[T any] struct {
	mu  sync.Mutex
	got *T
}

func (c *capture[T]) Publish(v *T) {
	c.mu.Lock()
	c.got = v
	c.mu.Unlock()
}

func (c *capture[T]) published() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.got != nil
}

type fixture struct {
	svc        *Service
	similarity *capture[textindex.Index]
	vector     *capture[vectorindex.Index]
	cf         *capture[cf.Model]
	sentiment  *capture[sentiment.Pipeline]
}

func newFixture(t *testing.T, catalog *mockCatalog, events *mockInteractions, feedback *mockFeedback, enc *mockEncoder) *fixture {
	t.Helper()
	f := &fixture{
		similarity: &capture[textindex.Index]{},
		vector:     &capture[vectorindex.Index]{},
		cf:         &capture[cf.Model]{},
		sentiment:  &capture[sentiment.Pipeline]{},
	}
	f.svc = New(catalog, events, feedback, enc, Holders{
		Similarity: f.similarity,
		Vector:     f.vector,
		CF:         f.cf,
		Sentiment:  f.sentiment,
	}, Options{ArtifactsDir: t.TempDir(), EncodeBatchSize: 1}, zap.NewNop())
	return f
}

func defaultCatalog() *mockCatalog {
	return &mockCatalog{products: []domain.Product{
		{ID: 1, Name: "Whey Gold Isolate", Description: "fast protein"},
		{ID: 2, Name: "Casein Night Protein", Description: "slow protein"},
		{ID: 3, Name: "Creatine Monohydrate", Description: "strength powder"},
	}}
}

func waitForDone(t *testing.T, svc *Service, job Job) Status {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		st := svc.Status()[job]
		if st.State == StateSuccess || st.State == StateFailed {
			return st
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", job)
	return Status{}
}

// --- Tests ---

func TestTrigger_UnknownJob(t *testing.T) {
	f := newFixture(t, defaultCatalog(), &mockInteractions{}, &mockFeedback{}, &mockEncoder{dim: 4})

	err := f.svc.Trigger(Job("bogus"))
	if !errors.Is(err, domain.ErrUnknownJob) {
		t.Fatalf("expected ErrUnknownJob, got %v", err)
	}
}

func TestTrigger_SimilaritySuccess(t *testing.T) {
	f := newFixture(t, defaultCatalog(), &mockInteractions{}, &mockFeedback{}, &mockEncoder{dim: 4})

	if err := f.svc.Trigger(JobSimilarity); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	st := waitForDone(t, f.svc, JobSimilarity)
	if st.State != StateSuccess {
		t.Fatalf("state = %s (%s), want success", st.State, st.Message)
	}
	if !f.similarity.published() {
		t.Error("similarity artifact must be published on success")
	}
	if st.DurationSec < 0 {
		t.Errorf("duration = %v", st.DurationSec)
	}
}

func TestTrigger_RejectsConcurrentSameJob(t *testing.T) {
	enc := &mockEncoder{dim: 4, release: make(chan struct{})}
	f := newFixture(t, defaultCatalog(), &mockInteractions{}, &mockFeedback{}, enc)

	if err := f.svc.Trigger(JobVector); err != nil {
		t.Fatalf("first trigger: %v", err)
	}
	err := f.svc.Trigger(JobVector)
	if !errors.Is(err, domain.ErrJobAlreadyRunning) {
		t.Fatalf("expected ErrJobAlreadyRunning, got %v", err)
	}

	// A different job type is not blocked.
	if err := f.svc.Trigger(JobSimilarity); err != nil {
		t.Errorf("other job types must run concurrently: %v", err)
	}

	close(enc.release)
	waitForDone(t, f.svc, JobVector)
	waitForDone(t, f.svc, JobSimilarity)
}

func TestTrigger_CFFailureRecorded(t *testing.T) {
	// No interactions at all: the CF builder must fail without crashing
	// the service.
	f := newFixture(t, defaultCatalog(), &mockInteractions{}, &mockFeedback{}, &mockEncoder{dim: 4})

	if err := f.svc.Trigger(JobCF); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	st := waitForDone(t, f.svc, JobCF)
	if st.State != StateFailed {
		t.Fatalf("state = %s, want failed", st.State)
	}
	if st.Message == "" {
		t.Error("failed status must carry the error message")
	}
	if f.cf.published() {
		t.Error("no artifact may be published on failure")
	}
}

func TestTrigger_CFSuccess(t *testing.T) {
	events := &mockInteractions{events: []domain.Interaction{
		{UserID: 1, ProductID: 1, Type: domain.InteractionPurchase},
		{UserID: 1, ProductID: 2, Type: domain.InteractionView},
		{UserID: 2, ProductID: 2, Type: domain.InteractionAddToCart},
		{UserID: 2, ProductID: 3, Type: domain.InteractionPurchase},
	}}
	f := newFixture(t, defaultCatalog(), events, &mockFeedback{}, &mockEncoder{dim: 4})

	if err := f.svc.Trigger(JobCF); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	st := waitForDone(t, f.svc, JobCF)
	if st.State != StateSuccess {
		t.Fatalf("state = %s (%s), want success", st.State, st.Message)
	}
	if !f.cf.published() {
		t.Fatal("cf artifact must be published on success")
	}
	if got := len(f.cf.got.ItemIDs); got != 3 {
		t.Errorf("trained items = %d, want 3", got)
	}
}

func TestBuildVector_EncoderFailureKeepsOldArtifact(t *testing.T) {
	// Batch size 1 with three documents: fail the second call so the
	// partial result must be discarded.
	enc := &mockEncoder{dim: 4, failOn: 2}
	f := newFixture(t, defaultCatalog(), &mockInteractions{}, &mockFeedback{}, enc)

	if err := f.svc.Trigger(JobVector); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	st := waitForDone(t, f.svc, JobVector)
	if st.State != StateFailed {
		t.Fatalf("state = %s, want failed", st.State)
	}
	if f.vector.published() {
		t.Error("a partially encoded index must never be published")
	}
}

func TestTrigger_RerunAfterFailure(t *testing.T) {
	f := newFixture(t, defaultCatalog(), &mockInteractions{}, &mockFeedback{}, &mockEncoder{dim: 4})

	if err := f.svc.Trigger(JobCF); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	waitForDone(t, f.svc, JobCF)

	// A finished job can be triggered again.
	if err := f.svc.Trigger(JobCF); err != nil {
		t.Fatalf("retrigger after failure: %v", err)
	}
	waitForDone(t, f.svc, JobCF)
}

func TestStatus_InitiallyIdle(t *testing.T) {
	f := newFixture(t, defaultCatalog(), &mockInteractions{}, &mockFeedback{}, &mockEncoder{dim: 4})

	for job, st := range f.svc.Status() {
		if st.State != StateIdle {
			t.Errorf("job %s starts in %s, want idle", job, st.State)
		}
	}
}

func TestLoadAll_MissingArtifactsTolerated(t *testing.T) {
	f := newFixture(t, defaultCatalog(), &mockInteractions{}, &mockFeedback{}, &mockEncoder{dim: 4})

	f.svc.LoadAll()
	if f.similarity.published() || f.vector.published() || f.cf.published() || f.sentiment.published() {
		t.Error("nothing may be published from an empty artifact directory")
	}
}
