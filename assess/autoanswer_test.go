package assess

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/attestia/assurance-backend/model"
)

type fakeSource struct {
	evidence map[string][]model.EvidenceItem
	failFor  map[string]bool
	calls    []string
}

func (s *fakeSource) Evidence(_ context.Context, q model.Question) ([]model.EvidenceItem, error) {
	s.calls = append(s.calls, q.ID)
	if s.failFor[q.ID] {
		return nil, errors.New("evidence store unavailable")
	}
	return s.evidence[q.ID], nil
}

type fakeStore struct {
	answers map[string]*model.AssessmentAnswer
	writes  []string
}

func (s *fakeStore) Get(_ context.Context, questionID string) (*model.AssessmentAnswer, error) {
	return s.answers[questionID], nil
}

func (s *fakeStore) Put(_ context.Context, a *model.AssessmentAnswer) error {
	if s.answers == nil {
		s.answers = map[string]*model.AssessmentAnswer{}
	}
	s.answers[a.QuestionID] = a
	s.writes = append(s.writes, a.QuestionID)
	return nil
}

type fakePack struct {
	items map[string]model.EvidenceItem
}

func (p *fakePack) Add(items ...model.EvidenceItem) {
	if p.items == nil {
		p.items = map[string]model.EvidenceItem{}
	}
	for _, it := range items {
		p.items[it.ID+string(it.Type)] = it
	}
}

func runnerQuestions() []model.Question {
	return []model.Question{
		{ID: "1.1.d.1", Question: "Is the environment segmented?"},
		{ID: "1.2.a.1", Question: "Is privileged access restricted?"},
		{ID: "2.7.b.1", Question: "Are vulnerability scans performed?"},
	}
}

func newRunner(src *fakeSource, store *fakeStore, pack *fakePack) *Runner {
	r := &Runner{
		Source:  src,
		Answers: store,
		Policy:  DefaultPolicy(),
		Clock:   func() time.Time { return classifyNow },
	}
	if pack != nil {
		r.Pack = pack
	}
	return r
}

func TestRunnerProcessesInDisplayOrder(t *testing.T) {
	src := &fakeSource{evidence: map[string][]model.EvidenceItem{
		"1.1.d.1": {item(95, 5, "segmentation confirmed")},
		"1.2.a.1": {item(90, 10, "access review complete")},
		"2.7.b.1": {item(85, 15, "scan report attached")},
	}}
	store := &fakeStore{}
	pack := &fakePack{}

	res, err := newRunner(src, store, pack).Run(context.Background(), "assess-1", runnerQuestions(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Answered != 3 || res.Failed != 0 || res.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	want := []string{"1.1.d.1", "1.2.a.1", "2.7.b.1"}
	for i, id := range want {
		if store.writes[i] != id {
			t.Fatalf("write order mismatch at %d: expected %q, got %q", i, id, store.writes[i])
		}
	}
	for _, id := range want {
		a := store.answers[id]
		if a == nil || !a.AutoAnswered || a.Answer != model.AnswerYes {
			t.Fatalf("answer for %q not written as expected: %+v", id, a)
		}
	}
}

func TestRunnerFailureIsolation(t *testing.T) {
	src := &fakeSource{
		evidence: map[string][]model.EvidenceItem{
			"1.1.d.1": {item(95, 5, "segmentation confirmed")},
			"2.7.b.1": {item(85, 15, "scan report attached")},
		},
		failFor: map[string]bool{"1.2.a.1": true},
	}
	store := &fakeStore{}

	res, err := newRunner(src, store, nil).Run(context.Background(), "assess-1", runnerQuestions(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Answered != 2 || res.Failed != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	failed := store.answers["1.2.a.1"]
	if failed == nil {
		t.Fatal("failed question must still get a record")
	}
	if failed.Answer != "" || failed.AutoAnswered || failed.Notes != ManualReviewNote {
		t.Fatalf("failed question not marked for manual review: %+v", failed)
	}

	// Remaining questions were still processed.
	if store.answers["2.7.b.1"] == nil {
		t.Fatal("question after the failing one was not processed")
	}
}

func TestRunnerPreservesManualAnswers(t *testing.T) {
	manual := &model.AssessmentAnswer{
		QuestionID:   "1.1.d.1",
		Answer:       model.AnswerNo,
		Notes:        "Reviewed on site.",
		AutoAnswered: false,
	}
	src := &fakeSource{evidence: map[string][]model.EvidenceItem{
		"1.1.d.1": {item(95, 5, "segmentation confirmed")},
	}}
	store := &fakeStore{answers: map[string]*model.AssessmentAnswer{"1.1.d.1": manual}}

	res, err := newRunner(src, store, nil).Run(context.Background(), "assess-1", runnerQuestions()[:1], true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Skipped != 1 {
		t.Fatalf("manual answer must be skipped even with force: %+v", res)
	}
	if store.answers["1.1.d.1"].Answer != model.AnswerNo {
		t.Fatal("manual answer was overwritten")
	}
}

func TestRunnerForceReRunsAutoAnswers(t *testing.T) {
	auto := &model.AssessmentAnswer{
		QuestionID:   "1.1.d.1",
		Answer:       model.AnswerPartial,
		AutoAnswered: true,
	}
	src := &fakeSource{evidence: map[string][]model.EvidenceItem{
		"1.1.d.1": {item(95, 5, "segmentation confirmed")},
	}}

	store := &fakeStore{answers: map[string]*model.AssessmentAnswer{"1.1.d.1": auto}}
	res, _ := newRunner(src, store, nil).Run(context.Background(), "assess-1", runnerQuestions()[:1], false)
	if res.Skipped != 1 {
		t.Fatalf("existing auto answer must be skipped without force: %+v", res)
	}

	store = &fakeStore{answers: map[string]*model.AssessmentAnswer{"1.1.d.1": auto}}
	res, _ = newRunner(src, store, nil).Run(context.Background(), "assess-1", runnerQuestions()[:1], true)
	if res.Answered != 1 {
		t.Fatalf("force must re-answer auto answers: %+v", res)
	}
	if store.answers["1.1.d.1"].Answer != model.AnswerYes {
		t.Fatalf("re-run did not refresh the answer: %+v", store.answers["1.1.d.1"])
	}
}

func TestRunnerCancellation(t *testing.T) {
	src := &fakeSource{evidence: map[string][]model.EvidenceItem{
		"1.1.d.1": {item(95, 5, "segmentation confirmed")},
	}}
	store := &fakeStore{}

	ctx, cancel := context.WithCancel(context.Background())
	r := newRunner(src, store, nil)
	r.Progress = func(done, total int, questionID string) {
		if done == 1 {
			cancel()
		}
	}

	_, err := r.Run(ctx, "assess-1", runnerQuestions(), false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// The answer written before cancellation stays intact.
	if a := store.answers["1.1.d.1"]; a == nil || a.Answer != model.AnswerYes {
		t.Fatalf("pre-cancellation answer lost: %+v", a)
	}
	if len(store.writes) != 1 {
		t.Fatalf("expected exactly one write before cancellation, got %d", len(store.writes))
	}
}

func TestRunnerDeduplicatesPackEvidence(t *testing.T) {
	shared := item(90, 5, "shared evidence")
	shared.ID = "ev-shared"
	other := item(80, 7, "second item")
	other.ID = "ev-other"
	src := &fakeSource{evidence: map[string][]model.EvidenceItem{
		"1.1.d.1": {shared},
		"1.2.a.1": {shared, other},
	}}
	store := &fakeStore{}
	pack := &fakePack{}

	_, err := newRunner(src, store, pack).Run(context.Background(), "assess-1", runnerQuestions()[:2], false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pack.items) != 2 {
		t.Fatalf("pack list must deduplicate by id+type: got %d items", len(pack.items))
	}
}
