package adapters

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/shouni/slide-deck-kit/pkg/domain"
)

// SlideRenderer は1つのプロンプトを1枚のスライド画像へ変換するアダプターです。
// 状態を持たず、異なるプロンプトに対して並行に呼び出せます。
// リトライは行いません。リトライ方針は呼び出し側（オーケストレーター）の責務です。
type SlideRenderer struct {
	client GenerativeClient
	refs   *RefImageSource // 参照画像を使わない運用では nil 可
}

// NewSlideRenderer は依存関係を注入して SlideRenderer を初期化します。
func NewSlideRenderer(client GenerativeClient, refs *RefImageSource) (*SlideRenderer, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	return &SlideRenderer{client: client, refs: refs}, nil
}

// Render はプロンプトからスライド画像を生成します。
// リクエストに参照画像が指定されていればマルチモーダル生成、なければ Imagen 生成です。
// 上流の失敗と画像ペイロード欠落はどちらもエラーとして返します。
func (r *SlideRenderer) Render(ctx context.Context, req domain.DeckRequest, prompt domain.SlidePrompt) (*domain.SlideArtifact, error) {
	data, mimeType, err := r.render(ctx, req, prompt)
	if err != nil {
		return nil, fmt.Errorf("スライド %d の生成に失敗しました: %w", prompt.Position, err)
	}
	return &domain.SlideArtifact{
		Position: prompt.Position,
		Data:     data,
		MimeType: mimeType,
		AltText:  prompt.Text,
	}, nil
}

func (r *SlideRenderer) render(ctx context.Context, req domain.DeckRequest, prompt domain.SlidePrompt) ([]byte, string, error) {
	if len(req.ReferenceData) == 0 && req.ReferenceURL == "" {
		return r.client.GenerateImage(ctx, prompt.Text)
	}

	parts := []*genai.Part{{Text: prompt.Text}}
	if len(req.ReferenceData) > 0 {
		if p := PartFromBytes(req.ReferenceData); p != nil {
			parts = append(parts, p)
		}
	} else if r.refs != nil {
		// 取得失敗は PreparePart 側で警告済み。テキストのみで続行する。
		if p := r.refs.PreparePart(ctx, req.ReferenceURL); p != nil {
			parts = append(parts, p)
		}
	}
	return r.client.GenerateImageWithParts(ctx, parts, req.Seed)
}
