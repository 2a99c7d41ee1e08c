package evidence

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/attestia/assurance-backend/model"
)

type fakeFetcher struct {
	content string
	err     error
}

func (f *fakeFetcher) FetchContent(_ context.Context, _ string, _ model.EvidenceType) (string, error) {
	return f.content, f.err
}

type fakeMapper struct {
	mapped []string
}

func (m *fakeMapper) MapEvidence(_ context.Context, key string, _ model.EvidenceType, _ string) ([]model.EvidenceLink, error) {
	m.mapped = append(m.mapped, key)
	return []model.EvidenceLink{{EvidenceKey: key}}, nil
}

func validEvent() []byte {
	payload, _ := json.Marshal(EvidenceIngestedEvent{
		EventType:     IngestedEventType,
		EventID:       "evt-1",
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		Evidence: EvidenceReference{
			Key:        "log-1",
			Type:       model.EvidenceTypeLog,
			IngestedAt: time.Now().UTC(),
		},
	})
	return payload
}

func TestHandleEvidenceIngested(t *testing.T) {
	mapper := &fakeMapper{}
	err := HandleEvidenceIngested(context.Background(), validEvent(), &fakeFetcher{content: "firewall log"}, mapper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mapper.mapped) != 1 || mapper.mapped[0] != "log-1" {
		t.Fatalf("mapper not invoked as expected: %v", mapper.mapped)
	}
}

func TestHandleEvidenceIngestedRejectsMalformed(t *testing.T) {
	if err := HandleEvidenceIngested(context.Background(), []byte("{not json"), &fakeFetcher{}, &fakeMapper{}); err == nil {
		t.Fatal("expected error for malformed payload")
	}

	empty, _ := json.Marshal(EvidenceIngestedEvent{EventType: IngestedEventType})
	if err := HandleEvidenceIngested(context.Background(), empty, &fakeFetcher{}, &fakeMapper{}); err == nil {
		t.Fatal("expected error for missing evidence reference")
	}
}

func TestHandleEvidenceIngestedFetchFailure(t *testing.T) {
	mapper := &fakeMapper{}
	err := HandleEvidenceIngested(context.Background(), validEvent(), &fakeFetcher{err: errors.New("gone")}, mapper)
	if err == nil {
		t.Fatal("expected fetch error to propagate")
	}
	if len(mapper.mapped) != 0 {
		t.Fatal("mapper must not run when the fetch fails")
	}
}
