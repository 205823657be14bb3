package adapters

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/shouni/slide-deck-kit/pkg/utils"
)

// ModelConfig は各用途で使用するモデル名の組です。
type ModelConfig struct {
	Text      string // 題材推定とチャット
	Image     string // スライド画像の生成
	ImageEdit string // 参照画像付きのマルチモーダル生成
}

// DefaultModels は既定のモデル構成を返します。
func DefaultModels() ModelConfig {
	return ModelConfig{
		Text:      "gemini-2.5-flash",
		Image:     "imagen-4.0-generate-001",
		ImageEdit: "gemini-2.5-flash-image",
	}
}

// GeminiClient は google.golang.org/genai を使った GenerativeClient の実装です。
type GeminiClient struct {
	client *genai.Client
	models ModelConfig
}

// NewGeminiClient は API キーとモデル構成から GeminiClient を初期化します。
func NewGeminiClient(ctx context.Context, apiKey string, models ModelConfig) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}
	if models.Text == "" || models.Image == "" {
		models = DefaultModels()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}

	return &GeminiClient{client: client, models: models}, nil
}

// GenerateText は単発のテキスト補完を実行します。
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.models.Text, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("テキスト生成リクエストに失敗しました: %w", err)
	}
	return resp.Text(), nil
}

// GenerateImage は1つのプロンプトから1枚の画像を生成します。
// 成功時は画像バイト列と MIME タイプを返します。
func (c *GeminiClient) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	resp, err := c.client.Models.GenerateImages(ctx, c.models.Image, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
		AspectRatio:    "1:1",
	})
	if err != nil {
		return nil, "", fmt.Errorf("画像生成リクエストに失敗しました: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, "", ErrNoImagePayload
	}

	img := resp.GeneratedImages[0].Image
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return img.ImageBytes, mimeType, nil
}

// GenerateImageWithParts は参照画像付きのマルチモーダル生成を実行します。
func (c *GeminiClient) GenerateImageWithParts(ctx context.Context, parts []*genai.Part, seed *int64) ([]byte, string, error) {
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		Seed:               utils.SeedToPtrInt32(seed),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.models.ImageEdit, contents, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("参照画像付き生成リクエストに失敗しました: %w", err)
	}
	return parseImageParts(resp)
}

// NewChatSession はシステム指示を固定したチャットセッションを開始します。
func (c *GeminiClient) NewChatSession(ctx context.Context, systemInstruction string) (ChatSession, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}
	chat, err := c.client.Chats.Create(ctx, c.models.Text, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("チャットセッションの作成に失敗しました: %w", err)
	}
	return &geminiChatSession{chat: chat}, nil
}

type geminiChatSession struct {
	chat *genai.Chat
}

func (s *geminiChatSession) Send(ctx context.Context, message string) (string, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("チャット送信に失敗しました: %w", err)
	}
	return resp.Text(), nil
}

// parseImageParts は GenerateContent 応答から最初の画像パーツを取り出します。
// 現在の仕様では最初の候補 (Candidate) のみを利用します。
func parseImageParts(resp *genai.GenerateContentResponse) ([]byte, string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, "", fmt.Errorf("Geminiからの有効な応答がありませんでした")
	}

	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, part.InlineData.MIMEType, nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, "", fmt.Errorf("画像生成が異常終了しました (FinishReason: %s): %w", candidate.FinishReason, ErrNoImagePayload)
	}
	return nil, "", ErrNoImagePayload
}
