package assess

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/attestia/assurance-backend/model"
)

// ManualReviewNote is written to a question's answer when auto-answering it
// fails; the question stays pending for a human assessor.
const ManualReviewNote = "Auto-answer failed. Please answer manually."

// EvidenceSource supplies the evidence items associated with one question,
// typically by keyword and control-id search against the vault.
type EvidenceSource interface {
	Evidence(ctx context.Context, q model.Question) ([]model.EvidenceItem, error)
}

// AnswerStore persists assessment answers. Get returns nil with no error
// when the question has no stored answer. Put must be atomic per answer: an
// interrupted run never leaves a torn record behind.
type AnswerStore interface {
	Get(ctx context.Context, questionID string) (*model.AssessmentAnswer, error)
	Put(ctx context.Context, answer *model.AssessmentAnswer) error
}

// PackList accumulates evidence items destined for pack generation,
// deduplicating by id and type.
type PackList interface {
	Add(items ...model.EvidenceItem)
}

// Progress is invoked after each processed question with the running counts.
type Progress func(done, total int, questionID string)

// Runner walks an assessment's visible questions in display order, classifies
// each from its evidence, and writes the answers one at a time. Answer counts
// observed through Progress only ever increase and never reorder.
type Runner struct {
	Source   EvidenceSource
	Answers  AnswerStore
	Pack     PackList
	Policy   Policy
	Clock    func() time.Time // Defaults to time.Now.
	Pacing   time.Duration    // Optional delay between questions.
	Progress Progress
	Logger   *zap.SugaredLogger
}

// RunResult summarizes one auto-answer pass.
type RunResult struct {
	Answered int // Questions that received a classification.
	Skipped  int // Questions left untouched (existing answers).
	Failed   int // Questions marked for manual review.
}

// Run processes the given questions sequentially. Manual answers are never
// overwritten; existing auto answers are re-answered only when force is set.
// A failing question is marked for manual review and does not stop the run.
// Cancellation between questions returns ctx.Err(); answers already written
// remain valid.
func (r *Runner) Run(ctx context.Context, assessmentKey string, questions []model.Question, force bool) (RunResult, error) {
	var res RunResult
	now := time.Now
	if r.Clock != nil {
		now = r.Clock
	}

	for i, q := range questions {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if i > 0 && r.Pacing > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(r.Pacing):
			}
		}

		existing, err := r.Answers.Get(ctx, q.ID)
		if err == nil && existing != nil && existing.Answer != "" {
			if !existing.AutoAnswered || !force {
				res.Skipped++
				r.report(i+1, len(questions), q.ID)
				continue
			}
		}

		items, err := r.Source.Evidence(ctx, q)
		if err != nil {
			r.markFailed(ctx, assessmentKey, q, err)
			res.Failed++
			r.report(i+1, len(questions), q.ID)
			continue
		}

		verdict := Classify(items, now().UTC(), r.Policy)

		answer := model.NewAssessmentAnswer(assessmentKey, q)
		answer.Answer = verdict.Answer
		answer.Reason = verdict.Reason
		answer.GapType = verdict.GapType
		answer.GapReason = verdict.GapReason
		answer.Evidence = items
		answer.AutoAnswered = true

		if err := r.Answers.Put(ctx, answer); err != nil {
			if r.Logger != nil {
				r.Logger.Errorf("auto-answer: storing answer for question %s failed: %v", q.ID, err)
			}
			res.Failed++
			r.report(i+1, len(questions), q.ID)
			continue
		}

		if r.Pack != nil && len(items) > 0 {
			r.Pack.Add(items...)
		}

		res.Answered++
		r.report(i+1, len(questions), q.ID)
	}

	return res, nil
}

// markFailed records the manual-review marker for a question whose evidence
// lookup failed. A storage failure here is logged and swallowed so the rest
// of the run proceeds.
func (r *Runner) markFailed(ctx context.Context, assessmentKey string, q model.Question, cause error) {
	if r.Logger != nil {
		r.Logger.Errorf("auto-answer: evidence lookup for question %s failed: %v", q.ID, cause)
	}

	answer := model.NewAssessmentAnswer(assessmentKey, q)
	answer.Notes = ManualReviewNote
	answer.AutoAnswered = false

	if err := r.Answers.Put(ctx, answer); err != nil && r.Logger != nil {
		r.Logger.Errorf("auto-answer: storing manual-review marker for question %s failed: %v", q.ID, err)
	}
}

func (r *Runner) report(done, total int, questionID string) {
	if r.Progress != nil {
		r.Progress(done, total, questionID)
	}
}
