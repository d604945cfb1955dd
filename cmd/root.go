package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Rana718/knockoff/internal/config"
)

var (
	cfgFile string
	force   bool
	Version = "0.4.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════╗",
		"║   _                   _          __  __              ║",
		"║  | | ___ __   ___  ___| | _____  / _|/ _|            ║",
		"║  | |/ / '_ \\ / _ \\/ __| |/ / _ \\| |_| |_             ║",
		"║  |   <| | | | (_) | (__|   < (_) |  _|  _|           ║",
		"║  |_|\\_\\_| |_|\\___/ \\___|_|\\_\\___/|_| |_|             ║",
		"║                                                      ║",
		"║        Synthetic test data from blueprints           ║",
		"╚══════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                  ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "knockoff",
	Short: "Generate and load synthetic test data from declarative blueprints",
	Long: `
knockoff builds consistent, constraint-satisfying test data from a blueprint
of parts, prototypes and tables, and loads it into your database.

Database Support:
- PostgreSQL (bulk COPY inserts)
- MySQL
- SQLite`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("knockoff version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		cmd.Help()
	},
}

// Execute runs the CLI. An interrupt cancels the run between nodes.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.FileName+")")
	rootCmd.PersistentFlags().BoolVarP(&force, "force", "f", false, "Skip confirmations")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("knockoff.config")
	}

	config.BindEnv(viper.GetViper())

	// a missing default config file leaves the defaults in place
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		color.Yellow("⚠️  Could not read config file %s: %v", cfgFile, err)
	}
}

// loadConfig returns the validated tool configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
