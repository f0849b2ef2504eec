package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dev-mohitbeniwal/neonvault/audit"
	"github.com/dev-mohitbeniwal/neonvault/config"
	"github.com/dev-mohitbeniwal/neonvault/db"
	"github.com/dev-mohitbeniwal/neonvault/model"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the objects and audit tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		pg, err := db.ConnectPostgres(config.GetConfig().Postgres.DSN)
		if err != nil {
			return err
		}
		defer pg.Close()

		return pg.Migrate(&model.ObjectMetadata{}, &audit.AuditRecord{})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
