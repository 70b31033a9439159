package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/devmoka/interview-coach/internal/domain"
)

// MockGenerator is a deterministic stand-in for the model, used in
// local development and tests. It recognizes the prompt kind by its
// instruction text and answers with structurally valid output.
type MockGenerator struct {
	mu    sync.Mutex
	calls int
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

const mockTrailingInstruction = "질문에 관해 음성메모로 답을 해본 후 답변한 내용이 잘 전달되는 것 같은지, 답변 내용에 아쉬운 점은 없는지 확인해보세요."

func (m *MockGenerator) Generate(ctx context.Context, system string, history []domain.Message, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	n := m.calls
	m.mu.Unlock()

	switch {
	case strings.Contains(prompt, "요약해주세요"):
		return "3년차 백엔드 개발자(경력), 커머스 API 개발(수행 직무), AWS, Spring 사용 가능(보유 기술 스킬 리스트)\n이렇게 이력서 핵심 내용을 정리했어. 이게 맞아?", nil

	case strings.Contains(prompt, "질문 5개"):
		var b strings.Builder
		for i := 1; i <= 5; i++ {
			dim := "경력"
			switch i % 3 {
			case 1:
				dim = "수행 직무"
			case 2:
				dim = "보유 기술 스킬"
			}
			fmt.Fprintf(&b, "%d. [모의 %d차] 면접 예상 질문입니다.(%s)\n", i, n, dim)
		}
		b.WriteString(mockTrailingInstruction)
		return b.String(), nil

	case strings.Contains(prompt, "학습 경로"):
		return fmt.Sprintf("맞춤 학습 경로 제안 %d: 기술 스택 심화 학습과 프로젝트 경험 쌓기를 추천합니다.", n), nil

	default:
		return fmt.Sprintf("요청하신 내용을 확인했습니다: %q", prompt), nil
	}
}
