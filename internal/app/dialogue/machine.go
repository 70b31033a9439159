package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/devmoka/interview-coach/internal/domain"
)

// Button is a quick-reply option offered to the caller.
type Button struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// FormField describes one input of a form descriptor.
type FormField struct {
	Label     string `json:"label"`
	Type      string `json:"type,omitempty"`
	MaxLength int    `json:"maxlength"`
	Value     string `json:"value,omitempty"`
}

// TurnInput carries one caller turn: the message plus the optional
// structured fields some states consume.
type TurnInput struct {
	Message    string
	Career     string
	JobDuties  string
	TechSkills string
	LongText   string
}

// TurnResult is the response payload of a turn. Message and State are
// always set; the rest varies by branch.
type TurnResult struct {
	Message string
	Buttons []Button
	Form    map[string]FormField
	State   domain.State
	Final   bool
	Err     bool
}

// OutcomeKind names the four ways a transition can resolve.
type OutcomeKind int

const (
	// OutcomeAdvance moves the session forward (or self-loops with new
	// data, as in question regeneration).
	OutcomeAdvance OutcomeKind = iota
	// OutcomeReprompt sends the caller back to an earlier input state.
	OutcomeReprompt
	// OutcomeValidation reports incomplete input; state is unchanged.
	OutcomeValidation
	// OutcomeUnmatched is the explicit fallthrough for a message the
	// current state does not recognize; state is unchanged.
	OutcomeUnmatched
)

// Outcome is the tagged result of one transition.
type Outcome struct {
	Kind   OutcomeKind
	Result TurnResult
}

// mutated reports whether the session record changed and must be
// persisted.
func (o Outcome) mutated() bool {
	return o.Kind == OutcomeAdvance || o.Kind == OutcomeReprompt
}

const (
	msgUnmatched     = "죄송합니다. 처리할 수 없는 요청입니다."
	msgConcernAsk    = "이력서 정보 중 면접에서 어떤 부분과 관련한 질문이 나올까봐 제일 걱정되시나요?"
	msgQuestionsPoll = "\n\n질문 5개가 마음에 드셨나요?"
)

// affirmations is the fixed set of tokens that count as confirming the
// generated summary. Substring match, per the confirmation contract.
var affirmations = []string{"맞", "좋", "잘"}

func isAffirmative(message string) bool {
	if message == "confirm_yes" {
		return true
	}
	for _, token := range affirmations {
		if strings.Contains(message, token) {
			return true
		}
	}
	return false
}

// step runs one transition. It mutates sess only on success paths and
// only after any generation call has succeeded, so a failed call never
// leaves a session half-advanced.
func (s *Service) step(ctx context.Context, sess *domain.Session, in TurnInput) (Outcome, error) {
	switch sess.State {
	case domain.StateStart:
		sess.State = domain.StateInputMethodSelection
		return Outcome{Kind: OutcomeAdvance, Result: TurnResult{
			Message: "안녕하세요! 면접 준비를 도와드릴게요. 먼저 이력서 정보를 입력해주세요.",
			Buttons: []Button{
				{Text: "폼 입력으로 간단하게 이력서 정보를 넣을래.", Value: "form_input"},
				{Text: "설명을 나열할테니 이력서 핵심 정보로 요약해줘.", Value: "long_text_input"},
			},
			State: sess.State,
		}}, nil

	case domain.StateInputMethodSelection:
		switch in.Message {
		case "form_input":
			sess.State = domain.StateFormInput
			return Outcome{Kind: OutcomeAdvance, Result: TurnResult{
				Message: "폼을 통해 이력서 정보를 입력해주세요.",
				Form: map[string]FormField{
					"career":      {Label: "경력 (예: 3년차 백엔드 개발자)", MaxLength: 100},
					"job_duties":  {Label: "수행 직무 (예: Spring Boot/MSA/Python 기반 커머스 서비스 개발)", MaxLength: 100},
					"tech_skills": {Label: "보유 기술 스킬 리스트 (예: AWS EC2 운영 경험 있음)", MaxLength: 100},
				},
				State: sess.State,
			}}, nil
		case "long_text_input":
			sess.State = domain.StateLongTextInput
			return Outcome{Kind: OutcomeAdvance, Result: TurnResult{
				Message: "경력, 수행 업무, 기술 스킬 등에 대해 자유롭게 설명해주세요.",
				Form: map[string]FormField{
					"long_text": {Label: "자유 설명", Type: "textarea", MaxLength: 600},
				},
				State: sess.State,
			}}, nil
		}
		return s.unmatched(sess), nil

	case domain.StateFormInput:
		if in.Career == "" || in.JobDuties == "" || in.TechSkills == "" {
			return Outcome{Kind: OutcomeValidation, Result: TurnResult{
				Message: "모든 필드를 입력해주세요.",
				State:   sess.State,
				Err:     true,
			}}, nil
		}
		sess.Career = in.Career
		sess.JobDuties = in.JobDuties
		sess.TechSkills = in.TechSkills
		sess.State = domain.StateConcernInput
		return Outcome{Kind: OutcomeAdvance, Result: TurnResult{
			Message: fmt.Sprintf(
				"이력서 정보를 잘 받았습니다!\n경력: %s\n수행 직무: %s\n보유 기술: %s\n\n%s",
				in.Career, in.JobDuties, in.TechSkills, msgConcernAsk,
			),
			State: sess.State,
		}}, nil

	case domain.StateLongTextInput:
		if in.LongText == "" {
			return Outcome{Kind: OutcomeValidation, Result: TurnResult{
				Message: "설명을 입력해주세요.",
				State:   sess.State,
				Err:     true,
			}}, nil
		}
		summary, err := s.gen.Generate(ctx, sess.ID, summaryPrompt(in.LongText))
		if err != nil {
			return Outcome{}, err
		}
		sess.LongText = in.LongText
		sess.Summary = summary
		sess.State = domain.StateSummaryConfirmation
		return Outcome{Kind: OutcomeAdvance, Result: TurnResult{
			Message: summary,
			Buttons: []Button{
				{Text: "맞아", Value: "confirm_yes"},
				{Text: "틀렸어", Value: "confirm_no"},
				{Text: "추가하고 싶은 부분이 있어", Value: "confirm_no"},
			},
			State: sess.State,
		}}, nil

	case domain.StateSummaryConfirmation:
		if isAffirmative(in.Message) {
			sess.State = domain.StateConcernInput
			return Outcome{Kind: OutcomeAdvance, Result: TurnResult{
				Message: msgConcernAsk,
				State:   sess.State,
			}}, nil
		}
		// Back to free text, pre-filled with the previous description.
		sess.State = domain.StateLongTextInput
		return Outcome{Kind: OutcomeReprompt, Result: TurnResult{
			Message: "다시 설명해주세요. 이전 내용을 수정하거나 추가해서 작성하실 수 있습니다.",
			Form: map[string]FormField{
				"long_text": {Label: "자유 설명", Type: "textarea", MaxLength: 600, Value: sess.LongText},
			},
			State: sess.State,
		}}, nil

	case domain.StateConcernInput:
		resume := domain.ResumeContextOf(sess)
		questions, err := s.gen.Generate(ctx, sess.ID, questionsPrompt(resume, in.Message))
		if err != nil {
			return Outcome{}, err
		}
		sess.Concern = in.Message
		sess.Questions = append(sess.Questions, questions)
		sess.State = domain.StateQuestionsGenerated
		return Outcome{Kind: OutcomeAdvance, Result: TurnResult{
			Message: questions + msgQuestionsPoll,
			Buttons: questionButtons(),
			State:   sess.State,
		}}, nil

	case domain.StateQuestionsGenerated:
		switch in.Message {
		case "questions_yes":
			resume := domain.ResumeContextOf(sess)
			path, err := s.gen.Generate(ctx, sess.ID, learningPathPrompt(resume, sess.Concern))
			if err != nil {
				return Outcome{}, err
			}
			sess.LearningPath = path
			sess.State = domain.StateLearningPath
			return Outcome{Kind: OutcomeAdvance, Result: TurnResult{
				Message: "🎯 **개인 맞춤 학습 경로 추천**\n\n" + path,
				State:   sess.State,
				Final:   true,
			}}, nil
		case "questions_no":
			resume := domain.ResumeContextOf(sess)
			questions, err := s.gen.Generate(ctx, sess.ID, regenerateQuestionsPrompt(resume))
			if err != nil {
				return Outcome{}, err
			}
			sess.Questions = append(sess.Questions, questions)
			return Outcome{Kind: OutcomeAdvance, Result: TurnResult{
				Message: questions + msgQuestionsPoll,
				Buttons: questionButtons(),
				State:   sess.State,
			}}, nil
		}
		return s.unmatched(sess), nil
	}

	return s.unmatched(sess), nil
}

func (s *Service) unmatched(sess *domain.Session) Outcome {
	return Outcome{Kind: OutcomeUnmatched, Result: TurnResult{
		Message: msgUnmatched,
		State:   sess.State,
		Err:     true,
	}}
}

func questionButtons() []Button {
	return []Button{
		{Text: "예", Value: "questions_yes"},
		{Text: "아니오", Value: "questions_no"},
	}
}
