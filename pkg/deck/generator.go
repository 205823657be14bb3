package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/slide-deck-kit/pkg/domain"
)

// ErrEmptyDeck は全スライドの生成に失敗した場合の終端エラーです。
var ErrEmptyDeck = errors.New("no slides were generated")

// DefaultWorkers は描画ワーカープールの既定幅です。
const DefaultWorkers = 2

// Planner はトピック立案能力です。失敗を内部で吸収するためエラーを返しません。
type Planner interface {
	Plan(ctx context.Context, req domain.DeckRequest) domain.PlanResult
}

// SlideRenderer は1枚のスライドを描画する能力です。並行呼び出しに安全であること。
type SlideRenderer interface {
	Render(ctx context.Context, req domain.DeckRequest, prompt domain.SlidePrompt) (*domain.SlideArtifact, error)
}

// OutcomeCache は完全成功した生成結果のセッション内メモ化です。
type OutcomeCache interface {
	Get(key domain.RequestKey) (*domain.GenerationOutcome, bool)
	Put(key domain.RequestKey, outcome *domain.GenerationOutcome)
}

// ProgressFunc はワーカーの完了（成功・失敗とも）ごとに1回呼ばれます。
type ProgressFunc func(completed, total int)

// Option は Generator の構成オプションです。
type Option func(*Generator)

// WithWorkers はワーカープールの幅を指定します。
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithProgressFunc は進捗通知コールバックを設定します。
func WithProgressFunc(fn ProgressFunc) Option {
	return func(g *Generator) { g.onProgress = fn }
}

// Generator はデッキ生成のオーケストレーターです。
// キャッシュ照会 → 立案 → 固定幅ワーカープールでの描画 → 位置順の集約、を1回の
// Generate で行います。1つの Generate 呼び出しの共有状態（スロット・カーソル・
// 失敗リスト）はすべて呼び出しローカルに確保するため、異なるリクエストの
// 並行実行同士が干渉することはありません。
type Generator struct {
	planner  Planner
	renderer SlideRenderer
	cache    OutcomeCache
	workers  int

	onProgress ProgressFunc

	// 直近の Generate の進捗。Progress() から参照する。
	completed atomic.Int64
	total     atomic.Int64
}

// NewGenerator は依存関係を注入して Generator を初期化します。
func NewGenerator(planner Planner, renderer SlideRenderer, cache OutcomeCache, opts ...Option) (*Generator, error) {
	if planner == nil {
		return nil, fmt.Errorf("planner is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache is required")
	}

	g := &Generator{
		planner:  planner,
		renderer: renderer,
		cache:    cache,
		workers:  DefaultWorkers,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Progress は直近の Generate の完了枚数と要求総数を返します。
func (g *Generator) Progress() (completed, total int) {
	return int(g.completed.Load()), int(g.total.Load())
}

// Generate は1回のデッキ生成を実行します。
// 全スライドが失敗した場合のみ ErrEmptyDeck を返し、一部失敗は
// GenerationOutcome.PartialFailureCount へ吸収します。
// 部分失敗を含む結果はキャッシュしません。次回の同一リクエストで
// 失敗分を含めて再生成させるためです。
func (g *Generator) Generate(ctx context.Context, req domain.DeckRequest) (*domain.GenerationOutcome, error) {
	if strings.TrimSpace(req.ProductName) == "" {
		return nil, fmt.Errorf("product name is required")
	}

	key := req.Key()
	if cached, ok := g.cache.Get(key); ok {
		slog.InfoContext(ctx, "キャッシュ命中。生成をスキップします", "product", key.Product, "audience", key.Audience)
		return cached, nil
	}

	plan := g.planner.Plan(ctx, req)
	prompts := plan.Prompts
	if len(prompts) == 0 {
		return nil, ErrEmptyDeck
	}

	g.total.Store(int64(len(prompts)))
	g.completed.Store(0)

	slots := make([]*domain.SlideArtifact, len(prompts))
	var cursor atomic.Int64
	var mu sync.Mutex
	var failures []string

	workers := g.workers
	if workers > len(prompts) {
		workers = len(prompts)
	}
	slog.InfoContext(ctx, "スライド描画を開始します",
		"product", key.Product, "slides", len(prompts), "workers", workers, "fallback", plan.UsedFallback)

	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			for {
				// 未請求の次インデックスをアトミックに請求する。
				// 2つのワーカーが同じ位置を描画することはない。
				idx := int(cursor.Add(1)) - 1
				if idx >= len(prompts) {
					return nil
				}

				artifact, err := g.renderer.Render(ctx, req, prompts[idx])
				if err != nil {
					mu.Lock()
					failures = append(failures, err.Error())
					mu.Unlock()
					slog.WarnContext(ctx, "スライドの描画に失敗しました。残りは続行します",
						"position", prompts[idx].Position, "error", err)
				} else {
					slots[idx] = artifact
				}

				done := int(g.completed.Add(1))
				if g.onProgress != nil {
					g.onProgress(done, len(prompts))
				}
			}
		})
	}
	// ワーカーはエラーを返さない。ここは合流バリアとしてのみ使う。
	_ = eg.Wait()

	// 位置順に集約する。失敗した位置は詰めて除く。
	deck := make(domain.Deck, 0, len(prompts))
	for _, artifact := range slots {
		if artifact != nil {
			deck = append(deck, *artifact)
		}
	}
	if len(deck) == 0 {
		slog.ErrorContext(ctx, "1枚も生成できませんでした", "product", key.Product, "failures", len(failures))
		return nil, ErrEmptyDeck
	}

	outcome := &domain.GenerationOutcome{
		Deck:                deck,
		PartialFailureCount: len(failures),
	}
	if plan.UsedFallback {
		outcome.FallbackNotice = plan.FallbackReason
	}
	if len(failures) > 0 {
		outcome.FirstFailureMessage = failures[0]
	} else {
		g.cache.Put(key, outcome)
	}
	return outcome, nil
}
