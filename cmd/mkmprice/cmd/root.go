// Package cmd implements the mkmprice CLI commands.
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	charm "github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mkmtools/mkmprice/internal/config"
	"github.com/mkmtools/mkmprice/internal/engine"
	"github.com/mkmtools/mkmprice/internal/mkm"
	"github.com/mkmtools/mkmprice/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "mkmprice",
		Short: "Pricing assistant for a Cardmarket seller's stock",
		Long: "mkmprice reads your Cardmarket stock, computes recommended prices\n" +
			"from published trend values and live competing listings, and submits\n" +
			"the changes you approve.",
		SilenceUsage: true,
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "config.yaml", "config file")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(repriceCmd())
	rootCmd.AddCommand(articleCmd())
	rootCmd.AddCommand(stockCmd())
	rootCmd.AddCommand(competitionCmd())
	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(ordersCmd())
	rootCmd.AddCommand(wantslistsCmd())
	rootCmd.AddCommand(importCmd())
}

func initConfig() {
	// Credentials usually live in a .env next to the config; absence is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix("MKMPRICE")
	viper.AutomaticEnv()
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

// app bundles the wired components every command needs.
type app struct {
	cfg      *config.Config
	log      *charm.Logger
	client   *mkm.Client
	pricer   *engine.Pricer
	repricer *engine.Repricer
}

// newApp loads the config and builds the API client and pricing engine.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cliLog := charm.NewWithOptions(os.Stderr, charm.Options{
		Level: parseLogLevel(cfg.Logging.Level),
	})
	slogLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	signer := mkm.NewSigner(cfg.API.Credentials())
	limiter := mkm.NewRateLimiter(cfg.API.RateLimit.PerSecond, cfg.API.RateLimit.Burst)

	clientOpts := []mkm.ClientOption{
		mkm.WithRateLimiter(limiter),
		mkm.WithClientLogger(slogLog),
	}
	if cfg.API.BaseURL != "" {
		clientOpts = append(clientOpts, mkm.WithBaseURL(cfg.API.BaseURL))
	}
	client := mkm.NewClient(signer, clientOpts...)

	policy, err := cfg.RoundingPolicy()
	if err != nil {
		return nil, fmt.Errorf("building rounding policy: %w", err)
	}

	pricer := engine.NewPricer(client, policy, engine.WithPricerLogger(slogLog))
	repricer := engine.NewRepricer(client, pricer, engine.WithRepricerLogger(slogLog))

	return &app{
		cfg:      cfg,
		log:      cliLog,
		client:   client,
		pricer:   pricer,
		repricer: repricer,
	}, nil
}

// languageID resolves the configured search language; config validation has
// already rejected unknown names.
func (a *app) languageID() int {
	id, err := a.cfg.LanguageID()
	if err != nil {
		return 1
	}
	return id
}

// confirm asks a yes/no question on stdin and defaults to no.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func parseLogLevel(level string) charm.Level {
	switch level {
	case "debug":
		return charm.DebugLevel
	case "warn":
		return charm.WarnLevel
	case "error":
		return charm.ErrorLevel
	default:
		return charm.InfoLevel
	}
}
