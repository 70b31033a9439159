package domain

// Session is the accumulated structured state of one user's run through
// the interview-prep dialogue.
type Session struct {
	ID    SessionID
	State State

	// Structured resume fields, set together via the form path.
	Career     string
	JobDuties  string
	TechSkills string

	// Free-text resume path: the raw description and its generated summary.
	LongText string
	Summary  string

	// Concern is set once at CONCERN_INPUT and never overwritten.
	Concern string

	// Questions keeps every generated question set, in order.
	// Never deduplicated.
	Questions []string

	LearningPath string

	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// Message is one entry in a session's conversation history, the log fed
// back to the generation collaborator for context continuity.
type Message struct {
	Role      Role
	Text      string
	CreatedAt Timestamp
}
