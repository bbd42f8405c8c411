package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	gochat "aiupstart.com/go-chat"
	"aiupstart.com/go-chat/internal/agent"
	"aiupstart.com/go-chat/internal/chat"
	"aiupstart.com/go-chat/internal/config"
	"aiupstart.com/go-chat/internal/llm"
	"aiupstart.com/go-chat/internal/render"
	"aiupstart.com/go-chat/internal/utils"
	"aiupstart.com/go-chat/internal/web"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gochat",
		Short:         "Chat with a hosted model and pull code blocks out of its replies",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "YAML config file")
	root.AddCommand(newServeCmd(), newChatCmd(), newExtractCmd())
	return root
}

// loadConfig reads the config named by --config and sets up logging.
func loadConfig(cmd *cobra.Command) (*config.Config, io.Closer, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	closer, err := utils.SetupLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, closer, nil
}

func newChatManager(cfg *config.Config) *chat.ChatManager {
	client := llm.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Timeout)
	assistant := agent.NewAssistantAgent("Assistant", client, cfg.Chat.GreetingPrompt, cfg.Chat.DeveloperQuestions, cfg.Chat.DeveloperAnswer)
	return chat.NewChatManager(assistant, cfg.Chat.MaxTurns)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web chat UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			renderer := render.New(cfg.UI.DefaultLanguage, cfg.UI.CodeStyle)
			return web.NewServer(cfg, newChatManager(cfg), renderer).Run(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides config)")
	return cmd
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			chats := newChatManager(cfg)
			sess := chats.Open(ctx)
			user := agent.NewUserProxyAgent("You", cmd.InOrStdin(), cmd.OutOrStdout(), cfg.UI.DefaultLanguage)
			for _, m := range sess.History() {
				user.Show(m.Content)
			}
			return user.UserInputLoop(ctx, func(ctx context.Context, text string, onToken llm.StreamCallback) (string, error) {
				msg, err := chats.Send(ctx, sess.ID, text, onToken)
				return msg.Content, err
			})
		},
	}
}

type extractedBlock struct {
	Language string `json:"language,omitempty"`
	Code     string `json:"code"`
	Filename string `json:"filename"`
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Print the fenced code blocks of a markdown file (or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			data, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			blocks := gochat.ExtractCodeBlocks(string(data))
			outDir, _ := cmd.Flags().GetString("out")
			if outDir != "" {
				for _, b := range blocks {
					path, err := utils.WriteFile(outDir, b.Filename(), b.Code)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
				return nil
			}

			out := make([]extractedBlock, 0, len(blocks))
			for _, b := range blocks {
				out = append(out, extractedBlock{Language: b.Language, Code: b.Code, Filename: b.Filename()})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringP("out", "o", "", "write each block to this directory instead of printing JSON")
	return cmd
}
