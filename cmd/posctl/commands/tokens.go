package commands

import (
	"fmt"

	"go-inventory-pos/internal/config"

	"github.com/spf13/cobra"
)

// purgeTokensCmd deletes revoked tokens past the retention window
var purgeTokensCmd = &cobra.Command{
	Use:   "purge-tokens",
	Short: "Delete revoked tokens older than TOKEN_RETENTION",
	Long: `Delete revoked session tokens older than the retention window.

Examples:
  posctl purge-tokens                      # Use DATABASE_URL and TOKEN_RETENTION
  TOKEN_RETENTION=24h posctl purge-tokens  # Keep one day of revocations`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := openDB(cfg)
		if err != nil {
			return err
		}

		n, err := newAuthService(db, cfg).PurgeExpiredRevocations(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Se eliminaron %d tokens antiguos\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeTokensCmd)
}
