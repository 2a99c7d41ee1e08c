package assess

import (
	"github.com/attestia/assurance-backend/model"
)

// FilterQuestions narrows a framework's question list to the controls
// applicable for one architecture variant. It returns an order-preserving
// subsequence of questions and never mutates its inputs.
//
// Without an architecture selection or a matrix there is nothing to filter
// against, so the full list is returned. A question whose id has no derivable
// control is always included. A question whose control is present in the
// matrix is included only when the control is marked applicable for the
// architecture; a control absent from the matrix excludes its questions.
func FilterQuestions(architecture model.Architecture, matrix *model.ControlApplicabilityMatrix, questions []model.Question) []model.Question {
	if architecture == "" || matrix == nil {
		return questions
	}

	filtered := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		controlID := model.ControlIDForQuestion(q.ID)
		if controlID == "" {
			filtered = append(filtered, q)
			continue
		}

		control := matrix.FindControl(controlID)
		if control == nil {
			continue
		}

		scope, ok := control.Architectures[string(architecture)]
		if ok && scope.Applicable {
			filtered = append(filtered, q)
		}
	}

	return filtered
}
