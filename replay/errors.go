package replay

import "fmt"

// ReplayError pinpoints where a script diverged from what the engine allows.
// StepIndex is -1 for failures before the first move.
type ReplayError struct {
	StepIndex int            `json:"step_index"`
	Reason    string         `json:"reason"`
	Message   string         `json:"message"`
	Expected  *ExpectedState `json:"expected,omitempty"`
}

// ExpectedState describes what the engine would have accepted instead.
type ExpectedState struct {
	CurrentPlayer string   `json:"current_player"`
	LegalActions  []string `json:"legal_actions,omitempty"`
}

func (e *ReplayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("replay error(step=%d reason=%s): %s", e.StepIndex, e.Reason, e.Message)
}
