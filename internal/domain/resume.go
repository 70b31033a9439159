package domain

import "fmt"

// ResumeContext is the canonical view of a user's resume information,
// sourced from either the structured form fields or a generated
// summary, never both.
type ResumeContext struct {
	Career     string
	JobDuties  string
	TechSkills string
	Summary    string
}

// ResumeContextOf builds the resume context for prompt construction.
// Structured fields win when present; otherwise the summary is used.
// Every generation site goes through this function so prompts can never
// mix partial structured fields with a summary.
func ResumeContextOf(s *Session) ResumeContext {
	if s.Career != "" {
		return ResumeContext{
			Career:     s.Career,
			JobDuties:  s.JobDuties,
			TechSkills: s.TechSkills,
		}
	}
	return ResumeContext{Summary: s.Summary}
}

// OK reports whether the context carries complete resume information
// from either source.
func (r ResumeContext) OK() bool {
	if r.Career != "" && r.JobDuties != "" && r.TechSkills != "" {
		return true
	}
	return r.Summary != ""
}

// String renders the resume-info block embedded in prompts.
func (r ResumeContext) String() string {
	if r.Career != "" {
		return fmt.Sprintf("경력: %s, 수행 직무: %s, 보유 기술: %s", r.Career, r.JobDuties, r.TechSkills)
	}
	return r.Summary
}
