package admin

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/questra-ai/questra/internal/config"
	"github.com/questra-ai/questra/internal/llm"
	"github.com/questra-ai/questra/internal/repository"
	"github.com/questra-ai/questra/internal/service"
)

// PromoteCmd promotes an approved answer into the verified-answer cache
// from the command line, the same operation the feedback endpoint runs.
func PromoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promote <question> <answer>",
		Short: "Promote an approved answer into the verified-answer cache",
		Args:  cobra.ExactArgs(2),
		RunE:  runPromote,
	}

	cmd.Flags().String("source", "", "Evidence source the answer was verified against")

	return cmd
}

func runPromote(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	source, _ := cmd.Flags().GetString("source")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasLLM() {
		return fmt.Errorf("QUESTRA_LLM_API_KEY is required to embed the question")
	}

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	llmClient := llm.NewClientWithConfig(llm.Config{
		APIKey:              cfg.LLMAPIKey,
		BaseURL:             cfg.LLMBaseURL,
		EmbeddingModel:      openai.EmbeddingModel(cfg.EmbeddingModel),
		ChatModel:           cfg.ChatModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	cache := service.NewAnswerCache(
		repository.NewVerifiedAnswerRepository(pool),
		llmClient,
		service.NewNormalizer(),
	)

	fingerprint, err := cache.Promote(ctx, args[0], args[1], source)
	if err != nil {
		return fmt.Errorf("failed to promote answer: %w", err)
	}

	cmd.Printf("promoted answer (fingerprint: %s)\n", fingerprint)
	return nil
}
