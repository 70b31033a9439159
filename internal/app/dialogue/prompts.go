package dialogue

import (
	"fmt"

	"github.com/devmoka/interview-coach/internal/domain"
)

// SystemPrompt is the interview-counselor persona sent with every
// generation request.
const SystemPrompt = `당신은 IT 분야 취업 준비생을 위한 전문 면접 상담사입니다.
구직자의 이력서 정보를 바탕으로 실제 면접에서 나올 법한 심층적인 질문을 생성하고,
개인 맞춤형 자기 개발 학습 경로를 제안하는 것이 목표입니다.

모든 답변은 친근하고 도움이 되는 톤으로 한국어로 작성해주세요.`

// trailingInstruction must close every generated question set.
const trailingInstruction = "질문에 관해 음성메모로 답을 해본 후 답변한 내용이 잘 전달되는 것 같은지, 답변 내용에 아쉬운 점은 없는지 확인해보세요."

func summaryPrompt(longText string) string {
	return fmt.Sprintf(`다음 긴 설명을 이력서 핵심 정보로 요약해주세요:
"%s"

다음 형식으로 요약해주세요:
"X년차 [직무]개발자(경력), [구체적인 업무 내용](수행 직무), [기술 스택들] 사용 가능(보유 기술 스킬 리스트)"

요약 후에는 "이렇게 이력서 핵심 내용을 정리했어. 이게 맞아?"라고 물어보세요.`, longText)
}

func questionsPrompt(resume domain.ResumeContext, concern string) string {
	return fmt.Sprintf(`다음 이력서 정보를 바탕으로 실제 면접에서 나올 법한 심층적인 질문 5개를 생성해주세요:
%s

사용자의 걱정: %s

각 질문 뒤에는 괄호 안에 해당 질문이 경력, 수행 직무, 보유 기술 스킬 중 어떤 것과 연관되어 있는지 명시해주세요.

예시: "Spring Boot/Java를 기반으로 학부 시간표 개발했다고 하셨는데, 스프링 Bean의 Scope에 대해 설명해주세요.(수행 직무)"

5번째 질문 후에는 반드시 다음 문구를 추가해주세요:
"%s"`, resume, concern, trailingInstruction)
}

// regenerateQuestionsPrompt asks for a fresh set; the concern is not
// restated, the model already has it in history.
func regenerateQuestionsPrompt(resume domain.ResumeContext) string {
	return fmt.Sprintf(`다음 이력서 정보를 바탕으로 이전과는 다른 새로운 실제 면접에서 나올 법한 심층적인 질문 5개를 생성해주세요:
%s

각 질문 뒤에는 괄호 안에 해당 질문이 경력, 수행 직무, 보유 기술 스킬 중 어떤 것과 연관되어 있는지 명시해주세요.

5번째 질문 후에는 반드시 다음 문구를 추가해주세요:
"%s"`, resume, trailingInstruction)
}

func learningPathPrompt(resume domain.ResumeContext, concern string) string {
	return fmt.Sprintf(`다음 이력서 정보를 분석하여 개인 맞춤형 자기 개발 및 합격률 향상 학습 경로를 제안해주세요:
%s

사용자의 걱정: %s

다음과 같은 구체적인 방안들을 포함해주세요:
- 특정 기술 스택 심화 학습
- 관련 프로젝트 경험 쌓기
- 커뮤니케이션 스킬 강화
- 기타 면접 합격률을 높일 수 있는 구체적인 방법들

예시 형태로 자세하고 실용적인 조언을 제공해주세요.`, resume, concern)
}
