package workflow

import (
	"errors"
	"fmt"

	"github.com/harrison/speckit/internal/models"
)

var (
	// ErrInvalidPhase is returned when a phase name is not part of the pipeline.
	ErrInvalidPhase = errors.New("invalid phase")

	// ErrPhaseNotValidated is returned by Advance when the current phase has
	// no stored record or its record does not pass validation.
	ErrPhaseNotValidated = errors.New("current phase has not passed validation")

	// ErrPipelineComplete is returned by Advance once the last phase has passed.
	ErrPipelineComplete = errors.New("pipeline already complete")
)

// InvalidPhaseError reports the rejected phase name.
// errors.Is(err, ErrInvalidPhase) holds for every InvalidPhaseError.
type InvalidPhaseError struct {
	Name string
}

// Error implements the error interface for InvalidPhaseError.
func (e *InvalidPhaseError) Error() string {
	return fmt.Sprintf("invalid phase: %q (valid phases: %v)", e.Name, models.PhaseOrder)
}

// Unwrap returns ErrInvalidPhase.
func (e *InvalidPhaseError) Unwrap() error {
	return ErrInvalidPhase
}
