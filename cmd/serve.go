package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	httpadapter "resume-analyzer/internal/adapter/http"
	"resume-analyzer/internal/adapter/payment"
	repo "resume-analyzer/internal/adapter/repository"
	"resume-analyzer/internal/infrastructure/migration"
	applog "resume-analyzer/internal/logger"
	"resume-analyzer/internal/pdf"
	"resume-analyzer/internal/secrets"
	"resume-analyzer/pkg/ai"
	infra "resume-analyzer/pkg/infrastructure"
	"resume-analyzer/pkg/report"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the resume-analyzer API service",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address, e.g. :3000")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := applog.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-analyzer service", zap.String("version", version))

	if err := os.MkdirAll(config.UploadsDir, 0o755); err != nil {
		logger.Fatal("creating the uploads directory", zap.Error(err))
	}

	pool, err := infra.NewPool(ctx, config.DatabaseURL)
	if err != nil {
		logger.Warn("database not available; resume metadata is best-effort and payment recording will fail", zap.Error(err))
		pool = nil
	}
	if pool != nil {
		if err := migration.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("running migrations", zap.Error(err))
		}
	}

	gateway := payment.NewStripeGateway(func() (string, error) {
		return secrets.Load(secrets.Source{
			Name: "stripe api key",
			File: stripeKeyFile(config),
		})
	}, logger)

	generator, err := newGenerator(ctx, config.AI)
	if err != nil {
		logger.Fatal("building the feedback generator", zap.Error(err))
	}

	h := httpadapter.NewHandler(
		repo.NewResumesRepo(pool),
		gateway,
		repo.NewPaymentsRepo(pool),
		generator,
		pdf.NewFileInspector(),
		report.NewChromedpRenderer(),
		config.UploadsDir,
		config.BaseURL,
		logger,
	)

	fiberApp := fiber.New(fiber.Config{
		AppName:   app,
		BodyLimit: 10 * 1024 * 1024,
	})
	h.Register(fiberApp)

	logger.Info("listening", zap.String("addr", config.Listen))
	if err := fiberApp.Listen(config.Listen); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func stripeKeyFile(config *Config) string {
	if config.Stripe != nil && config.Stripe.APIKeyFile != "" {
		return config.Stripe.APIKeyFile
	}
	return viper.GetString("stripe.api-key-file")
}

// newGenerator selects the feedback backend from configuration. The
// completions backend is the default.
func newGenerator(ctx context.Context, cfg *AIConfig) (ai.Generator, error) {
	provider := "completion"
	if cfg != nil && cfg.Provider != "" {
		provider = strings.TrimSpace(strings.ToLower(cfg.Provider))
	}

	switch provider {
	case "completion":
		cc := &CompletionConfig{}
		if cfg != nil && cfg.Completion != nil {
			cc = cfg.Completion
		}
		apiKey := ""
		if cc.APIKeyFile != "" {
			key, err := secrets.Load(secrets.Source{
				Name: "completion api key",
				File: cc.APIKeyFile,
			})
			if err != nil {
				return nil, err
			}
			apiKey = key
		}
		return ai.NewCompletionClient(ai.CompletionConfig{
			BaseURL:     cc.BaseURL,
			APIKey:      apiKey,
			Model:       cc.Model,
			MaxTokens:   cc.MaxTokens,
			Temperature: cc.Temperature,
		}), nil

	case "gemini":
		if cfg == nil || cfg.Gemini == nil {
			return nil, fmt.Errorf("gemini configuration is required when the gemini provider is selected")
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, err
		}
		return ai.NewGeminiGenerator(ctx, apiKey, cfg.Gemini.Model)

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", provider)
	}
}
