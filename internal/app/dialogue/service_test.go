package dialogue_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/devmoka/interview-coach/internal/adapters/llm"
	"github.com/devmoka/interview-coach/internal/adapters/storage/memory"
	"github.com/devmoka/interview-coach/internal/app/dialogue"
	"github.com/devmoka/interview-coach/internal/app/generation"
	"github.com/devmoka/interview-coach/internal/domain"
)

const trailingInstruction = "질문에 관해 음성메모로 답을 해본 후 답변한 내용이 잘 전달되는 것 같은지, 답변 내용에 아쉬운 점은 없는지 확인해보세요."

func newTestService(t *testing.T) (*dialogue.Service, *memory.SessionStore, *memory.HistoryStore) {
	t.Helper()

	sessions := memory.NewSessionStore()
	histories := memory.NewHistoryStore()
	gen := generation.NewClient(llm.NewMockGenerator(), histories,
		generation.WithSystemPrompt(dialogue.SystemPrompt),
	)
	return dialogue.NewService(sessions, histories, gen), sessions, histories
}

// recordingGenerator implements dialogue.Generator and keeps every
// prompt it was handed, so tests can inspect resume-context usage.
type recordingGenerator struct {
	mu      sync.Mutex
	prompts []string
	fail    bool
}

func (g *recordingGenerator) Generate(ctx context.Context, id domain.SessionID, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fail {
		return "", fmt.Errorf("%w: model offline", domain.ErrGenerationUnavailable)
	}
	g.prompts = append(g.prompts, prompt)

	switch {
	case strings.Contains(prompt, "요약해주세요"):
		return "5년차 데이터 엔지니어로 정리했습니다. 이게 맞아?", nil
	case strings.Contains(prompt, "질문 5개"):
		return "1. 질문입니다.(수행 직무)\n" + trailingInstruction, nil
	default:
		return "맞춤 조언입니다.", nil
	}
}

func TestFormScenario(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newTestService(t)

	sess, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	id := sess.ID

	// First contact: two-option menu.
	res, err := svc.HandleTurn(ctx, id, dialogue.TurnInput{Message: "hello"})
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if res.State != domain.StateInputMethodSelection {
		t.Fatalf("expected %q, got %q", domain.StateInputMethodSelection, res.State)
	}
	if len(res.Buttons) != 2 || res.Buttons[0].Value != "form_input" || res.Buttons[1].Value != "long_text_input" {
		t.Fatalf("expected form/long-text buttons, got %+v", res.Buttons)
	}

	// Pick the form path: a three-field descriptor comes back.
	res, err = svc.HandleTurn(ctx, id, dialogue.TurnInput{Message: "form_input"})
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if res.State != domain.StateFormInput {
		t.Fatalf("expected %q, got %q", domain.StateFormInput, res.State)
	}
	if len(res.Form) != 3 {
		t.Fatalf("expected 3 form fields, got %d", len(res.Form))
	}
	for _, name := range []string{"career", "job_duties", "tech_skills"} {
		field, ok := res.Form[name]
		if !ok {
			t.Fatalf("form missing field %q", name)
		}
		if field.MaxLength != 100 {
			t.Fatalf("field %q maxlength must be 100, got %d", name, field.MaxLength)
		}
	}

	// Submit the form: fields echoed back, concern asked.
	res, err = svc.HandleTurn(ctx, id, dialogue.TurnInput{
		Message:    "x",
		Career:     "3년차 백엔드",
		JobDuties:  "커머스 API",
		TechSkills: "AWS, Spring",
	})
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if res.State != domain.StateConcernInput {
		t.Fatalf("expected %q, got %q", domain.StateConcernInput, res.State)
	}
	for _, want := range []string{"3년차 백엔드", "커머스 API", "AWS, Spring"} {
		if !strings.Contains(res.Message, want) {
			t.Fatalf("field echo missing %q in %q", want, res.Message)
		}
	}

	// State the concern: five questions with the trailing phrase.
	res, err = svc.HandleTurn(ctx, id, dialogue.TurnInput{Message: "DB 설계가 걱정돼요"})
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if res.State != domain.StateQuestionsGenerated {
		t.Fatalf("expected %q, got %q", domain.StateQuestionsGenerated, res.State)
	}
	if !strings.Contains(res.Message, trailingInstruction) {
		t.Fatalf("question set must carry the trailing instruction")
	}
	if len(res.Buttons) != 2 || res.Buttons[0].Value != "questions_yes" || res.Buttons[1].Value != "questions_no" {
		t.Fatalf("expected questions_yes/questions_no buttons, got %+v", res.Buttons)
	}
	firstQuestions := res.Message

	// Reject the set: a different one comes back, state unchanged.
	res, err = svc.HandleTurn(ctx, id, dialogue.TurnInput{Message: "questions_no"})
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if res.State != domain.StateQuestionsGenerated {
		t.Fatalf("questions_no must self-loop, got %q", res.State)
	}
	if res.Message == firstQuestions {
		t.Fatalf("regenerated questions must differ from the first set")
	}

	stored, err := sessions.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(stored.Questions) != 2 {
		t.Fatalf("every generated set is kept, expected 2, got %d", len(stored.Questions))
	}

	// Accept: final learning path.
	res, err = svc.HandleTurn(ctx, id, dialogue.TurnInput{Message: "questions_yes"})
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if res.State != domain.StateLearningPath {
		t.Fatalf("expected %q, got %q", domain.StateLearningPath, res.State)
	}
	if !res.Final {
		t.Fatalf("learning path response must be final")
	}
	if !strings.HasPrefix(res.Message, "🎯 **개인 맞춤 학습 경로 추천**") {
		t.Fatalf("unexpected learning path header: %q", res.Message)
	}

	// No terminal state: further messages degrade gracefully.
	res, err = svc.HandleTurn(ctx, id, dialogue.TurnInput{Message: "더 해줘"})
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if !res.Err || res.State != domain.StateLearningPath {
		t.Fatalf("unmatched turn must keep state and flag an error, got %+v", res)
	}
}

func TestLongTextScenario(t *testing.T) {
	ctx := context.Background()
	svc, _, histories := newTestService(t)

	sess, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	id := sess.ID

	mustTurn(t, svc, id, dialogue.TurnInput{Message: "안녕"})
	res := mustTurn(t, svc, id, dialogue.TurnInput{Message: "long_text_input"})
	if res.State != domain.StateLongTextInput {
		t.Fatalf("expected %q, got %q", domain.StateLongTextInput, res.State)
	}
	field, ok := res.Form["long_text"]
	if !ok || field.Type != "textarea" || field.MaxLength != 600 {
		t.Fatalf("expected a 600-char textarea descriptor, got %+v", res.Form)
	}

	longText := "3년 동안 커머스 백엔드를 개발했고 AWS에서 운영했습니다"
	res = mustTurn(t, svc, id, dialogue.TurnInput{Message: "설명", LongText: longText})
	if res.State != domain.StateSummaryConfirmation {
		t.Fatalf("expected %q, got %q", domain.StateSummaryConfirmation, res.State)
	}
	if len(res.Buttons) != 3 || res.Buttons[0].Value != "confirm_yes" {
		t.Fatalf("expected confirmation buttons, got %+v", res.Buttons)
	}

	// The summarization exchange is recorded in the history.
	msgs, err := histories.GetOrCreate(ctx, id)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected summary prompt + response in history, got %d", len(msgs))
	}

	// Rejection re-prompts with the previous text pre-filled.
	res = mustTurn(t, svc, id, dialogue.TurnInput{Message: "아니"})
	if res.State != domain.StateLongTextInput {
		t.Fatalf("rejection must return to %q, got %q", domain.StateLongTextInput, res.State)
	}
	if res.Form["long_text"].Value != longText {
		t.Fatalf("re-prompt must pre-fill the prior text, got %q", res.Form["long_text"].Value)
	}

	// Resubmit, then confirm with an affirmative token.
	res = mustTurn(t, svc, id, dialogue.TurnInput{Message: "설명", LongText: longText + " 그리고 Spring도 씁니다"})
	if res.State != domain.StateSummaryConfirmation {
		t.Fatalf("expected %q, got %q", domain.StateSummaryConfirmation, res.State)
	}
	res = mustTurn(t, svc, id, dialogue.TurnInput{Message: "맞아"})
	if res.State != domain.StateConcernInput {
		t.Fatalf("affirmation must advance to %q, got %q", domain.StateConcernInput, res.State)
	}
}

func TestFormValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	sess, _ := svc.CreateSession(ctx)
	id := sess.ID
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "hi"})
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "form_input"})

	// Each missing field leaves the state put.
	incomplete := []dialogue.TurnInput{
		{Message: "x", JobDuties: "b", TechSkills: "c"},
		{Message: "x", Career: "a", TechSkills: "c"},
		{Message: "x", Career: "a", JobDuties: "b"},
	}
	for i, in := range incomplete {
		res := mustTurn(t, svc, id, in)
		if !res.Err {
			t.Fatalf("case %d: incomplete form must flag an error", i)
		}
		if res.State != domain.StateFormInput {
			t.Fatalf("case %d: validation must not change state, got %q", i, res.State)
		}
	}

	// A complete resubmission recovers.
	res := mustTurn(t, svc, id, dialogue.TurnInput{Message: "x", Career: "a", JobDuties: "b", TechSkills: "c"})
	if res.State != domain.StateConcernInput {
		t.Fatalf("complete form must advance, got %q", res.State)
	}
}

func TestLongTextValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	sess, _ := svc.CreateSession(ctx)
	id := sess.ID
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "hi"})
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "long_text_input"})

	res := mustTurn(t, svc, id, dialogue.TurnInput{Message: "설명만 있고 본문이 없어요"})
	if !res.Err || res.State != domain.StateLongTextInput {
		t.Fatalf("missing long text must be a validation error in place, got %+v", res)
	}
}

func TestUnmatchedMessageKeepsState(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	sess, _ := svc.CreateSession(ctx)
	id := sess.ID
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "hi"})

	res := mustTurn(t, svc, id, dialogue.TurnInput{Message: "잘 모르겠는데요"})
	if !res.Err {
		t.Fatalf("unrecognized message must degrade to the generic reply")
	}
	if res.State != domain.StateInputMethodSelection {
		t.Fatalf("unmatched turn must not change state, got %q", res.State)
	}
}

func TestGenerationFailureDoesNotAdvance(t *testing.T) {
	ctx := context.Background()

	sessions := memory.NewSessionStore()
	histories := memory.NewHistoryStore()
	gen := &recordingGenerator{}
	svc := dialogue.NewService(sessions, histories, gen)

	sess, _ := svc.CreateSession(ctx)
	id := sess.ID
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "hi"})
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "long_text_input"})

	gen.fail = true
	_, err := svc.HandleTurn(ctx, id, dialogue.TurnInput{Message: "설명", LongText: "본문"})
	if !errors.Is(err, domain.ErrGenerationUnavailable) {
		t.Fatalf("expected ErrGenerationUnavailable, got %v", err)
	}

	stored, err := sessions.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.State != domain.StateLongTextInput {
		t.Fatalf("failed generation must not advance state, got %q", stored.State)
	}
	if stored.Summary != "" || stored.LongText != "" {
		t.Fatalf("failed generation must not store partial data: %+v", stored)
	}

	// Identical input succeeds once the collaborator recovers.
	gen.fail = false
	res := mustTurn(t, svc, id, dialogue.TurnInput{Message: "설명", LongText: "본문"})
	if res.State != domain.StateSummaryConfirmation {
		t.Fatalf("retry must advance, got %q", res.State)
	}
}

func TestPromptsNeverMixResumeSources(t *testing.T) {
	ctx := context.Background()

	// Form path: every prompt carries the structured render, never a summary.
	sessions := memory.NewSessionStore()
	gen := &recordingGenerator{}
	svc := dialogue.NewService(sessions, memory.NewHistoryStore(), gen)

	sess, _ := svc.CreateSession(ctx)
	id := sess.ID
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "hi"})
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "form_input"})
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "x", Career: "3년차", JobDuties: "API", TechSkills: "Go"})
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "걱정"})
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "questions_no"})
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "questions_yes"})

	if len(gen.prompts) != 3 {
		t.Fatalf("expected 3 generation prompts on the form path, got %d", len(gen.prompts))
	}
	for i, p := range gen.prompts {
		if !strings.Contains(p, "경력: 3년차, 수행 직무: API, 보유 기술: Go") {
			t.Fatalf("prompt %d missing structured resume context: %q", i, p)
		}
	}

	// Summary path: prompts after confirmation carry only the summary.
	gen2 := &recordingGenerator{}
	svc2 := dialogue.NewService(memory.NewSessionStore(), memory.NewHistoryStore(), gen2)

	sess2, _ := svc2.CreateSession(ctx)
	id2 := sess2.ID
	mustTurn(t, svc2, id2, dialogue.TurnInput{Message: "hi"})
	mustTurn(t, svc2, id2, dialogue.TurnInput{Message: "long_text_input"})
	mustTurn(t, svc2, id2, dialogue.TurnInput{Message: "설명", LongText: "데이터 파이프라인을 만들었습니다"})
	mustTurn(t, svc2, id2, dialogue.TurnInput{Message: "confirm_yes"})
	mustTurn(t, svc2, id2, dialogue.TurnInput{Message: "걱정"})

	questionsPrompt := gen2.prompts[len(gen2.prompts)-1]
	if !strings.Contains(questionsPrompt, "5년차 데이터 엔지니어로 정리했습니다") {
		t.Fatalf("summary-path prompt must embed the summary: %q", questionsPrompt)
	}
	if strings.Contains(questionsPrompt, "경력: ") {
		t.Fatalf("summary-path prompt must not carry structured fields: %q", questionsPrompt)
	}
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	svc, _, histories := newTestService(t)

	if err := svc.DeleteSession(ctx, "never-created"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("deleting an unknown session must be ErrSessionNotFound, got %v", err)
	}

	sess, _ := svc.CreateSession(ctx)
	mustTurn(t, svc, sess.ID, dialogue.TurnInput{Message: "hi"})

	if err := svc.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.SessionStatus(ctx, sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("status after delete must be ErrSessionNotFound, got %v", err)
	}
	msgs, _ := histories.GetOrCreate(ctx, sess.ID)
	if len(msgs) != 0 {
		t.Fatalf("history must be gone with the session, got %d messages", len(msgs))
	}
}

func TestSessionStatus(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	sess, _ := svc.CreateSession(ctx)
	id := sess.ID

	status, err := svc.SessionStatus(ctx, id)
	if err != nil {
		t.Fatalf("SessionStatus failed: %v", err)
	}
	if status.State != domain.StateStart || status.HasResumeInfo {
		t.Fatalf("fresh session status wrong: %+v", status)
	}

	mustTurn(t, svc, id, dialogue.TurnInput{Message: "hi"})
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "form_input"})
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "x", Career: "a", JobDuties: "b", TechSkills: "c"})

	status, _ = svc.SessionStatus(ctx, id)
	if !status.HasResumeInfo {
		t.Fatalf("structured fields must set has_resume_info")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	a, _ := svc.CreateSession(ctx)
	b, _ := svc.CreateSession(ctx)
	if a.ID == b.ID {
		t.Fatalf("sessions must get distinct ids")
	}

	var wg sync.WaitGroup
	for _, id := range []domain.SessionID{a.ID, b.ID} {
		wg.Add(1)
		go func(id domain.SessionID) {
			defer wg.Done()
			for _, msg := range []string{"hi", "form_input"} {
				if _, err := svc.HandleTurn(ctx, id, dialogue.TurnInput{Message: msg}); err != nil {
					t.Errorf("turn failed for %s: %v", id, err)
				}
			}
		}(id)
	}
	wg.Wait()

	for _, id := range []domain.SessionID{a.ID, b.ID} {
		status, err := svc.SessionStatus(ctx, id)
		if err != nil {
			t.Fatalf("SessionStatus failed: %v", err)
		}
		if status.State != domain.StateFormInput {
			t.Fatalf("session %s ended at %q, want %q", id, status.State, domain.StateFormInput)
		}
	}
}

func TestStatusDuringConcurrentTurns(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	sess, _ := svc.CreateSession(ctx)
	id := sess.ID
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "hi"})
	mustTurn(t, svc, id, dialogue.TurnInput{Message: "long_text_input"})

	// Bounce between long-text submission and rejection while a reader
	// polls the status of the same session.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if _, err := svc.HandleTurn(ctx, id, dialogue.TurnInput{Message: "설명", LongText: "본문"}); err != nil {
				t.Errorf("submit turn failed: %v", err)
				return
			}
			if _, err := svc.HandleTurn(ctx, id, dialogue.TurnInput{Message: "아니"}); err != nil {
				t.Errorf("reject turn failed: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			status, err := svc.SessionStatus(ctx, id)
			if err != nil {
				t.Errorf("SessionStatus failed: %v", err)
				return
			}
			if status.State != domain.StateLongTextInput && status.State != domain.StateSummaryConfirmation {
				t.Errorf("status observed an impossible state %q", status.State)
				return
			}
		}
	}()
	wg.Wait()
}

func mustTurn(t *testing.T, svc *dialogue.Service, id domain.SessionID, in dialogue.TurnInput) dialogue.TurnResult {
	t.Helper()
	res, err := svc.HandleTurn(context.Background(), id, in)
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	return res
}
