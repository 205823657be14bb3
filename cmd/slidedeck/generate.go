package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/slide-deck-kit/pkg/adapters"
	"github.com/shouni/slide-deck-kit/pkg/cache"
	"github.com/shouni/slide-deck-kit/pkg/config"
	"github.com/shouni/slide-deck-kit/pkg/deck"
	"github.com/shouni/slide-deck-kit/pkg/domain"
	"github.com/shouni/slide-deck-kit/pkg/export"
	"github.com/shouni/slide-deck-kit/pkg/planner"
)

func newGenerateCmd() *cobra.Command {
	var (
		configPath string
		product    string
		audience   string
		refPath    string
		outDir     string
		workers    int
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a slide deck for a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if outDir != "" {
				cfg.OutputDir = outDir
			}
			if workers > 0 {
				cfg.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			setupLogger(cfg)

			ctx := cmd.Context()
			client, err := adapters.NewGeminiClient(ctx, cfg.APIKey, adapters.ModelConfig{
				Text:      cfg.Models.Text,
				Image:     cfg.Models.Image,
				ImageEdit: cfg.Models.ImageEdit,
			})
			if err != nil {
				return err
			}

			req := domain.DeckRequest{ProductName: product, Audience: audience}
			if refPath != "" {
				data, err := os.ReadFile(refPath)
				if err != nil {
					return fmt.Errorf("参照画像の読み込みに失敗しました: %w", err)
				}
				req.ReferenceData = data
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			pl, err := planner.New(client)
			if err != nil {
				return err
			}
			refs := adapters.NewRefImageSource(nil, nil, cache.NewMemoryStore(), cfg.RefCacheTTL)
			renderer, err := adapters.NewSlideRenderer(client, refs)
			if err != nil {
				return err
			}

			// セッションキャッシュの寿命はプロセス単位。1回きりのCLI実行では
			// 命中せず、Generator を保持し続けるライブラリ利用時に効く。
			gen, err := deck.NewGenerator(pl, renderer, cache.NewSessionCache(),
				deck.WithWorkers(cfg.Workers),
				deck.WithProgressFunc(func(completed, total int) {
					fmt.Fprintf(os.Stderr, "\rslides: %d/%d", completed, total)
				}),
			)
			if err != nil {
				return err
			}

			outcome, err := gen.Generate(ctx, req)
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}

			if outcome.FallbackNotice != "" {
				fmt.Fprintln(os.Stderr, "notice:", outcome.FallbackNotice)
			}
			if outcome.PartialFailureCount > 0 {
				fmt.Fprintf(os.Stderr, "notice: %d slide(s) failed (%s)\n",
					outcome.PartialFailureCount, outcome.FirstFailureMessage)
			}

			exporter := export.NewDirExporter(cfg.OutputDir)
			dir, err := exporter.Export(ctx, outcome.Deck, product)
			if err != nil {
				return err
			}
			fmt.Printf("wrote %d slide(s) to %s\n", len(outcome.Deck), dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&product, "product", "", "product name to present (required)")
	cmd.Flags().StringVar(&audience, "audience", "", "target audience for the deck")
	cmd.Flags().StringVar(&refPath, "ref", "", "path to a style reference image")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent image workers (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "generation seed for reproducible images")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}
