package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/slide-deck-kit/pkg/adapters"
	"github.com/shouni/slide-deck-kit/pkg/chat"
	"github.com/shouni/slide-deck-kit/pkg/config"
)

func newChatCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the presentation assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
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

			assistant, err := chat.NewAssistant(func(ctx context.Context, systemInstruction string) (chat.Session, error) {
				return client.NewChatSession(ctx, systemInstruction)
			})
			if err != nil {
				return err
			}

			fmt.Println("Presentation assistant. Type 'exit' to leave.")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}
				reply := assistant.Send(ctx, line)
				fmt.Println(reply.Text)
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	return cmd
}
