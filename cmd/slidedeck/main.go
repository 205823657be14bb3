package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/slide-deck-kit/pkg/config"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "slidedeck",
		Short:   "slidedeck — AI-generated product presentation decks",
		Version: version,
	}

	root.AddCommand(
		newGenerateCmd(),
		newChatCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
