package commands

import (
	"fmt"
	"os"

	"go-inventory-pos/internal/config"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/obs"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/database"
	"go-inventory-pos/pkg/jwt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	dbURL   string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "posctl",
	Short: "Maintenance tasks for the inventory POS service",
	Long: `posctl runs one-shot maintenance tasks against the service database.

Configuration is read from the environment (and a .env file when present),
the same way the API server reads it.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		level := "warn"
		if verbose {
			level = "debug"
		}
		obs.InitLogger(level)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// openDB connects using --db or the environment configuration.
func openDB(cfg config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	if dbURL != "" {
		dsn = dbURL
	}
	level := database.ParseLogLevel(cfg.DBLogLevel)
	if verbose {
		level = database.ParseLogLevel("info")
	}
	return database.ConnectDB(dsn, level)
}

// newAuthService builds the auth service the maintenance commands run through.
func newAuthService(db *gorm.DB, cfg config.Config) service.AuthService {
	model.PasswordCost = cfg.BcryptCost
	return service.NewAuthService(
		repository.NewUserRepo(db),
		repository.NewAuthAuditRepo(db),
		jwt.NewSigner(cfg.JWTSecret, cfg.JWTExpires),
		cfg.TokenRetention,
	)
}
