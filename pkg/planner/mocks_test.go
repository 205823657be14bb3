package planner

import "context"

// mockTextGen は TextGenerator のテスト用モックなのだ。
type mockTextGen struct {
	response string
	err      error

	calls           int
	lastInstruction string
}

func (m *mockTextGen) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.lastInstruction = prompt
	return m.response, m.err
}
