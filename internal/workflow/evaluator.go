package workflow

import "github.com/harrison/speckit/internal/models"

// CriterionEvaluator judges a single validation criterion against a record.
type CriterionEvaluator interface {
	Met(criterion string, record *models.ExecutionRecord) bool
}

// CriterionFunc adapts a plain function to CriterionEvaluator.
type CriterionFunc func(criterion string, record *models.ExecutionRecord) bool

// Met calls f.
func (f CriterionFunc) Met(criterion string, record *models.ExecutionRecord) bool {
	return f(criterion, record)
}

// CompletenessEvaluator treats every criterion as met when the record has a
// phase payload and a timestamp. The criterion text is not inspected.
type CompletenessEvaluator struct{}

// Met implements CriterionEvaluator.
func (CompletenessEvaluator) Met(_ string, record *models.ExecutionRecord) bool {
	return record.HasPayload() && record.HasTimestamp()
}

// evaluate applies ev to each criterion of def in declaration order.
func evaluate(def models.PhaseDefinition, record *models.ExecutionRecord, ev CriterionEvaluator) models.ValidationOutcome {
	outcome := models.ValidationOutcome{
		Phase:          def.Name,
		CriteriaMet:    []string{},
		CriteriaFailed: []string{},
	}
	for _, c := range def.ValidationCriteria {
		if ev.Met(c, record) {
			outcome.CriteriaMet = append(outcome.CriteriaMet, c)
		} else {
			outcome.CriteriaFailed = append(outcome.CriteriaFailed, c)
		}
	}
	outcome.OverallStatus = models.StatusFor(len(outcome.CriteriaMet), len(outcome.CriteriaFailed))
	return outcome
}
