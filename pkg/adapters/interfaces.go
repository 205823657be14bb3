package adapters

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"
)

// GenerativeClient は Gemini との通信窓口を抽象化するインターフェースです。
// パイプライン側はこのインターフェースにのみ依存し、SDK の型には触れません。
type GenerativeClient interface {
	// GenerateText は単発のテキスト補完を実行します。
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateImage は1つのプロンプトから1枚の画像を生成します。
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
	// GenerateImageWithParts は参照画像付きのマルチモーダル生成を実行します。
	GenerateImageWithParts(ctx context.Context, parts []*genai.Part, seed *int64) ([]byte, string, error)
	// NewChatSession はシステム指示を固定した継続セッションを開始します。
	NewChatSession(ctx context.Context, systemInstruction string) (ChatSession, error)
}

// ChatSession は1つの継続的な会話を表します。
type ChatSession interface {
	Send(ctx context.Context, message string) (string, error)
}

// ImageCacher は、画像をキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// ErrNoImagePayload は、上流が応答したものの画像データが含まれていなかったことを示します。
var ErrNoImagePayload = errors.New("no image payload in response")
