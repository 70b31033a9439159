package domain

import "time"

type SessionID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// State is the dialogue position of a session. Only the state machine
// mutates it; callers read it back in every response.
type State string

const (
	StateStart                State = "start"
	StateInputMethodSelection State = "input_method_selection"
	StateFormInput            State = "form_input"
	StateLongTextInput        State = "long_text_input"
	StateSummaryConfirmation  State = "summary_confirmation"
	StateConcernInput         State = "concern_input"
	StateQuestionsGenerated   State = "questions_generated"
	StateLearningPath         State = "learning_path"
)

// States lists every dialogue state, in flow order.
var States = []State{
	StateStart,
	StateInputMethodSelection,
	StateFormInput,
	StateLongTextInput,
	StateSummaryConfirmation,
	StateConcernInput,
	StateQuestionsGenerated,
	StateLearningPath,
}

func (s State) Valid() bool {
	for _, known := range States {
		if s == known {
			return true
		}
	}
	return false
}

type Timestamp = time.Time
