package cmd

import (
	"log"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-analyzer"

	// review price in the smallest currency unit (USD cents)
	defaultReviewPrice = 500
)

type Config struct {
	Listen         string        `mapstructure:"listen"`
	BaseURL        string        `mapstructure:"base-url"`
	DatabaseURL    string        `mapstructure:"database-url"`
	UploadsDir     string        `mapstructure:"uploads-dir"`
	ReviewPrice    int64         `mapstructure:"review-price"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	AI             *AIConfig     `mapstructure:"ai"`
	Stripe         *StripeConfig `mapstructure:"stripe"`
}

type AIConfig struct {
	Provider   string            `mapstructure:"provider"`
	Completion *CompletionConfig `mapstructure:"completion"`
	Gemini     *GeminiConfig     `mapstructure:"gemini"`
}

type CompletionConfig struct {
	BaseURL     string  `mapstructure:"base-url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max-tokens"`
	Temperature float64 `mapstructure:"temperature"`
	APIKeyFile  string  `mapstructure:"api-key-file"`
}

type GeminiConfig struct {
	Model      string `mapstructure:"model"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type StripeConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-analyzer uploads resumes, charges for reviews and generates AI feedback",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("stripe.api-key-file", "STRIPE_API_KEY_FILE"); err != nil {
		log.Fatalf("binding STRIPE_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("database-url", "DATABASE_URL"); err != nil {
		log.Fatalf("binding DATABASE_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-analyzer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("listen", ":3000")
	viper.SetDefault("base-url", "http://localhost:3000")
	viper.SetDefault("uploads-dir", "uploads")
	viper.SetDefault("review-price", defaultReviewPrice)
	viper.SetDefault("request-timeout", 30*time.Second)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	// The config file is optional; defaults and env cover a local setup.
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	))
	if err != nil {
		return config, err
	}

	return config, nil
}
