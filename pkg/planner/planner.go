package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/slide-deck-kit/pkg/domain"
)

// TopicCount は1デッキあたりの題材数です。表紙を加えてプロンプトは TopicCount+1 枚になります。
const TopicCount = 5

// promptStyle は全スライド共通の画風指定です。
const promptStyle = "professional business presentation slide, infographic style, clean vector art, vibrant corporate color palette (blues, teals, grays), professional icons, minimalist design, on a clean white background. Contains space for a title and short descriptive text."

// フォールバック理由の定型文。UI 側はこの文字列をそのままバナーに表示します。
const (
	ReasonInferenceFailed = "could not infer topics for this product; using standard topics"
	ReasonUpstreamFailed  = "topic request failed; using standard topics"
)

// FallbackSubjects は上流からの題材推定が使えない場合に用いる固定リストです。
var FallbackSubjects = []string{
	"Overview and Purpose",
	"Key Features",
	"Benefits and Value",
	"Primary Use Cases",
	"Getting Started",
}

// TextGenerator は題材推定に使う上流のテキスト生成能力です。
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Planner は (product, audience) からスライドプロンプト列を立案するコンポーネントです。
type Planner struct {
	text TextGenerator
}

// New は依存関係を注入して Planner を初期化します。
func New(text TextGenerator) (*Planner, error) {
	if text == nil {
		return nil, fmt.Errorf("text generator is required")
	}
	return &Planner{text: text}, nil
}

// Plan はプロンプト列を組み立てます。上流の失敗は必ずフォールバックへ吸収し、
// エラーをこの境界の外へ出しません。
func (p *Planner) Plan(ctx context.Context, req domain.DeckRequest) domain.PlanResult {
	product := strings.TrimSpace(req.ProductName)
	audience := strings.TrimSpace(req.Audience)

	// 対象読者が未指定のときは文言ごと省略する。"for undefined audience" を作らないため。
	audienceContext := ""
	if audience != "" {
		audienceContext = fmt.Sprintf("The target audience is %s.", audience)
	}

	subjects, reason := p.inferSubjects(ctx, product, audienceContext)
	usedFallback := false
	if len(subjects) == 0 {
		subjects = append([]string(nil), FallbackSubjects...)
		usedFallback = true
		slog.InfoContext(ctx, "固定の題材リストへフォールバックします", "product", product, "reason", reason)
	}
	if len(subjects) > TopicCount {
		subjects = subjects[:TopicCount]
	}

	prompts := make([]domain.SlidePrompt, 0, len(subjects)+1)
	prompts = append(prompts, domain.SlidePrompt{
		Position: 0,
		Text:     coverPrompt(product),
	})
	for i, subject := range subjects {
		prompts = append(prompts, domain.SlidePrompt{
			Position: i + 1,
			Text:     slidePrompt(subject, product, audienceContext),
			Subject:  subject,
		})
	}

	result := domain.PlanResult{Prompts: prompts, UsedFallback: usedFallback}
	if usedFallback {
		result.FallbackReason = reason
	}
	return result
}

// inferSubjects は上流に題材リストを問い合わせます。
// 戻り値の reason は、題材が得られなかった場合のフォールバック理由です。
func (p *Planner) inferSubjects(ctx context.Context, product, audienceContext string) ([]string, string) {
	instruction := fmt.Sprintf(
		"List %d key topics for an introductory presentation about %q. The topics should be distinct and cover its purpose, key features, benefits, and primary use case. %s Just the list, comma separated.",
		TopicCount, product, audienceContext,
	)

	raw, err := p.text.GenerateText(ctx, instruction)
	if err != nil {
		slog.WarnContext(ctx, "題材の問い合わせに失敗しました", "product", product, "error", err)
		return nil, ReasonUpstreamFailed
	}

	subjects := ParseSubjects(raw)
	if len(subjects) == 0 {
		return nil, ReasonInferenceFailed
	}
	return subjects, ""
}

func coverPrompt(product string) string {
	return fmt.Sprintf(
		"Title slide for a presentation about %q. It should feature a clean, abstract logo representing technology and data, and the title \"%s: An Overview\". %s",
		product, product, promptStyle,
	)
}

func slidePrompt(subject, product, audienceContext string) string {
	if audienceContext == "" {
		return fmt.Sprintf("Presentation slide about %q for the product %q. %s", subject, product, promptStyle)
	}
	return fmt.Sprintf("Presentation slide about %q for the product %q. %s %s", subject, product, audienceContext, promptStyle)
}
