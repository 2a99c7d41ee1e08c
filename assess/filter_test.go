package assess

import (
	"testing"

	"github.com/attestia/assurance-backend/model"
)

func testMatrix() *model.ControlApplicabilityMatrix {
	return &model.ControlApplicabilityMatrix{
		Framework: model.FrameworkSWIFTCSP,
		Version:   "1.0.0",
		Domains: []model.ControlDomain{
			{
				Name: "Restrict Internet Access",
				Controls: []model.Control{
					{
						ControlID: "1.1",
						Architectures: map[string]model.ArchitectureScope{
							"A1": {Applicable: true, Scope: "Full environment"},
							"A4": {Applicable: false},
						},
					},
					{
						ControlID: "1.2",
						Architectures: map[string]model.ArchitectureScope{
							"A1": {Applicable: true},
							"A4": {Applicable: true, Scope: "Customer connector"},
						},
					},
				},
			},
			{
				Name: "Secure Your Environment",
				Controls: []model.Control{
					{
						ControlID: "2.7",
						Architectures: map[string]model.ArchitectureScope{
							"A1": {Applicable: true},
						},
					},
				},
			},
		},
	}
}

func testQuestions() []model.Question {
	return []model.Question{
		{ID: "1.1.d.1", Question: "Is the SWIFT environment segmented?"},
		{ID: "1.2.a.1", Question: "Is operating system privileged account access restricted?"},
		{ID: "2.7.b.1", Question: "Are vulnerability scans performed?"},
		{ID: "9.9.x.1", Question: "Unknown control question"},
		{ID: "7", Question: "Question without a derivable control"},
	}
}

func TestFilterQuestionsFailOpen(t *testing.T) {
	qs := testQuestions()

	got := FilterQuestions("", testMatrix(), qs)
	if len(got) != len(qs) {
		t.Fatalf("empty architecture: expected all %d questions, got %d", len(qs), len(got))
	}

	got = FilterQuestions(model.ArchitectureA1, nil, qs)
	if len(got) != len(qs) {
		t.Fatalf("nil matrix: expected all %d questions, got %d", len(qs), len(got))
	}
}

func TestFilterQuestionsArchitectureA4(t *testing.T) {
	got := FilterQuestions(model.ArchitectureA4, testMatrix(), testQuestions())

	want := []string{"1.2.a.1", "7"}
	if len(got) != len(want) {
		t.Fatalf("expected %d questions, got %d: %+v", len(want), len(got), got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("question %d: expected %q, got %q", i, id, got[i].ID)
		}
	}
}

func TestFilterQuestionsDefaultDeny(t *testing.T) {
	got := FilterQuestions(model.ArchitectureA1, testMatrix(), testQuestions())
	for _, q := range got {
		if q.ID == "9.9.x.1" {
			t.Fatalf("question with unknown control 9.9 must be excluded")
		}
	}
}

func TestFilterQuestionsMissingArchitectureEntry(t *testing.T) {
	// Control 2.7 has no A4 entry at all: treated as not applicable.
	got := FilterQuestions(model.ArchitectureA4, testMatrix(), testQuestions())
	for _, q := range got {
		if q.ID == "2.7.b.1" {
			t.Fatalf("question under control without an A4 entry must be excluded")
		}
	}
}

func TestFilterQuestionsPreservesOrder(t *testing.T) {
	qs := testQuestions()
	got := FilterQuestions(model.ArchitectureA1, testMatrix(), qs)

	pos := map[string]int{}
	for i, q := range qs {
		pos[q.ID] = i
	}
	last := -1
	for _, q := range got {
		if pos[q.ID] < last {
			t.Fatalf("filtered output reorders questions: %q out of place", q.ID)
		}
		last = pos[q.ID]
	}
}

func TestControlIDForQuestion(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"1.1.d.1", "1.1"},
		{"2.7.b", "2.7"},
		{"10.3", "10.3"},
		{"7", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := model.ControlIDForQuestion(tt.id); got != tt.want {
			t.Errorf("ControlIDForQuestion(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
