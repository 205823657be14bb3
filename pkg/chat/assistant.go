package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/shouni/slide-deck-kit/pkg/domain"
)

// systemInstruction はアシスタントの役割を固定するシステム指示です。
const systemInstruction = "You are a professional business analyst and presentation assistant. You provide concise, professional advice on creating effective presentation slides. Help users refine topics for their presentations about companies and products."

// FallbackReply は上流障害時にそのまま返す定型応答です。
// エラー画面ではなく「劣化した返答」としてユーザーに提示されます。
const FallbackReply = "I seem to be having trouble connecting. Please try again shortly."

// Session は1つの継続的な会話チャネルです。
type Session interface {
	Send(ctx context.Context, message string) (string, error)
}

// SessionFactory はシステム指示からセッションを開く関数です。
type SessionFactory func(ctx context.Context, systemInstruction string) (Session, error)

// Assistant はトピック推敲用の会話アシスタントです。
// セッションは最初の Send で遅延生成され、以後のターンで再利用されます。
type Assistant struct {
	mu      sync.Mutex
	create  SessionFactory
	session Session
	history []domain.ChatMessage
}

// NewAssistant はセッションファクトリを注入して Assistant を初期化します。
func NewAssistant(create SessionFactory) (*Assistant, error) {
	if create == nil {
		return nil, fmt.Errorf("session factory is required")
	}
	return &Assistant{create: create}, nil
}

// Send は1ターンの対話を行い、モデル側のメッセージを返します。
// セッション生成・送信いずれの失敗も FallbackReply へ退避し、エラーを返しません。
func (a *Assistant) Send(ctx context.Context, message string) domain.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, domain.ChatMessage{
		ID:   uuid.NewString(),
		Role: domain.ChatRoleUser,
		Text: message,
	})

	reply, err := a.send(ctx, message)
	if err != nil {
		slog.WarnContext(ctx, "チャット応答の取得に失敗しました。定型応答へ退避します", "error", err)
		reply = FallbackReply
	}

	msg := domain.ChatMessage{
		ID:   uuid.NewString(),
		Role: domain.ChatRoleModel,
		Text: reply,
	}
	a.history = append(a.history, msg)
	return msg
}

func (a *Assistant) send(ctx context.Context, message string) (string, error) {
	if a.session == nil {
		session, err := a.create(ctx, systemInstruction)
		if err != nil {
			// 次のターンで作り直せるよう session は nil のままにする
			return "", err
		}
		a.session = session
	}
	return a.session.Send(ctx, message)
}

// History は会話の全メッセージを時系列で返します。
func (a *Assistant) History() []domain.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.ChatMessage(nil), a.history...)
}
