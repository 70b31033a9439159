package llm

import (
	"testing"

	"google.golang.org/genai"

	"github.com/devmoka/interview-coach/internal/domain"
)

func TestRequestContentsMapsRolesAndAppendsPrompt(t *testing.T) {
	history := []domain.Message{
		{Role: domain.RoleUser, Text: "요약해주세요"},
		{Role: domain.RoleAssistant, Text: "정리했습니다"},
	}

	contents := requestContents(history, "질문을 만들어주세요")
	if len(contents) != 3 {
		t.Fatalf("expected history plus prompt, got %d contents", len(contents))
	}

	wantRoles := []genai.Role{genai.RoleUser, genai.RoleModel, genai.RoleUser}
	wantTexts := []string{"요약해주세요", "정리했습니다", "질문을 만들어주세요"}
	for i, c := range contents {
		if c.Role != string(wantRoles[i]) {
			t.Fatalf("content %d role = %q, want %q", i, c.Role, wantRoles[i])
		}
		if len(c.Parts) != 1 || c.Parts[0].Text != wantTexts[i] {
			t.Fatalf("content %d text wrong: %+v", i, c.Parts)
		}
	}
}

func TestRequestContentsEmptyHistory(t *testing.T) {
	contents := requestContents(nil, "프롬프트")
	if len(contents) != 1 {
		t.Fatalf("expected only the prompt, got %d contents", len(contents))
	}
	if contents[0].Role != string(genai.RoleUser) {
		t.Fatalf("prompt must be sent as the user role, got %q", contents[0].Role)
	}
}
