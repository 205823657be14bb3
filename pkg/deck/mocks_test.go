package deck

import (
	"context"
	"sync"

	"github.com/shouni/slide-deck-kit/pkg/domain"
)

// --- Mocks ---

// mockPlanner は Planner のテスト用モックなのだ。
type mockPlanner struct {
	result domain.PlanResult
	calls  int
}

func (m *mockPlanner) Plan(ctx context.Context, req domain.DeckRequest) domain.PlanResult {
	m.calls++
	return m.result
}

// mockRenderer は SlideRenderer のテスト用モックなのだ。
// 請求されたインデックスを記録して、重複請求の検査に使う。
type mockRenderer struct {
	renderFunc func(req domain.DeckRequest, prompt domain.SlidePrompt) (*domain.SlideArtifact, error)

	mu      sync.Mutex
	claimed []int
	calls   int
}

func (m *mockRenderer) Render(ctx context.Context, req domain.DeckRequest, prompt domain.SlidePrompt) (*domain.SlideArtifact, error) {
	m.mu.Lock()
	m.claimed = append(m.claimed, prompt.Position)
	m.calls++
	m.mu.Unlock()

	if m.renderFunc != nil {
		return m.renderFunc(req, prompt)
	}
	return &domain.SlideArtifact{
		Position: prompt.Position,
		Data:     []byte("img"),
		MimeType: "image/jpeg",
		AltText:  prompt.Text,
	}, nil
}

func (m *mockRenderer) claimedPositions() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.claimed...)
}

func planOf(subjects ...string) domain.PlanResult {
	prompts := []domain.SlidePrompt{{Position: 0, Text: "cover prompt"}}
	for i, s := range subjects {
		prompts = append(prompts, domain.SlidePrompt{Position: i + 1, Text: "slide prompt: " + s, Subject: s})
	}
	return domain.PlanResult{Prompts: prompts}
}
