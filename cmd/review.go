package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"resume-analyzer/internal/adapter/client"
	"resume-analyzer/internal/domain"
	applog "resume-analyzer/internal/logger"
	"resume-analyzer/internal/usecase"
	"resume-analyzer/internal/validate"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var reviewCmd = &cobra.Command{
	Use:   "review <resume.pdf>",
	Short: "Upload a resume, pay for a review and print the AI feedback",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		review(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringP("user", "u", "", "user id the upload and payment belong to")
	reviewCmd.Flags().StringP("payment-method", "m", "", "payment method id to charge")
	reviewCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before charging")
	reviewCmd.Flags().String("server", "", "base URL of a running resume-analyzer service")
}

// review drives the full upload, payment and feedback pipeline against a
// running service.
func review(cmd *cobra.Command, path string) {
	ctx := context.Background()

	logger, err := applog.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		logger.Fatal("a user id is required", zap.String("hint", "pass --user"))
	}
	paymentMethodID, _ := cmd.Flags().GetString("payment-method")
	if paymentMethodID == "" {
		logger.Fatal("a payment method is required", zap.String("hint", "pass --payment-method"))
	}

	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		server = config.BaseURL
	}

	selection, cleanup, err := selectFile(path)
	if err != nil {
		logger.Fatal("opening the resume", zap.Error(err))
	}
	defer cleanup()

	api := client.New(server, config.RequestTimeout)

	generator, err := newGenerator(ctx, config.AI)
	if err != nil {
		logger.Fatal("building the feedback generator", zap.Error(err))
	}

	session := usecase.NewSession()
	seq := usecase.NewSequencer(
		usecase.NewUploadOrchestrator(api, logger),
		usecase.NewPaymentOrchestrator(api, api, logger),
		usecase.NewFeedbackOrchestrator(generator, logger),
		session,
		userID,
		config.ReviewPrice,
		logger,
	)

	if err := seq.SelectFile(ctx, selection); err != nil {
		logger.Fatal("uploading the resume", zap.Error(err))
	}
	ref, _ := session.DocumentRef()
	logger.Info("resume uploaded", zap.String("file_url", ref))

	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	if !autoApprove {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Charge %d cents for the review?", config.ReviewPrice),
			Items: []string{PromptYes, PromptNo},
		}
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	if err := seq.Pay(ctx, paymentMethodID); err != nil {
		logger.Fatal("paying for the review", zap.Error(err))
	}
	logger.Info("payment confirmed", zap.Int64("amount", config.ReviewPrice))

	text, err := seq.GenerateFeedback(ctx)
	if err != nil {
		logger.Fatal("generating feedback", zap.Error(err))
	}

	if text == "" {
		logger.Warn("no feedback returned for this resume")
		return
	}

	fmt.Println()
	fmt.Println(text)

	history, err := api.List(ctx, userID)
	if err != nil {
		logger.Warn("loading payment history", zap.Error(err))
		return
	}
	logger.Info("payment history", zap.Int("count", len(history)))
}

// selectFile turns a local path into the selection the upload flow
// validates. The MIME type is derived from the extension so a non-PDF file
// is rejected before it ever leaves the machine.
func selectFile(path string) (domain.FileSelection, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.FileSelection{}, func() {}, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return domain.FileSelection{}, func() {}, err
	}

	mimeType := "application/octet-stream"
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		mimeType = validate.PDFMimeType
	}

	return domain.FileSelection{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Size:     info.Size(),
		Content:  f,
	}, func() { f.Close() }, nil
}
