package cmd

import (
	"context"

	"github.com/sanfx/clinc-app/colors"
	"github.com/spf13/cobra"
)

func createMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the clinic tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, _, err := openClinic(context.Background())
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Store.AutoMigrate(); err != nil {
				return err
			}

			cmd.Println(colors.Green("Clinic tables are up to date"))
			return nil
		},
	}
}
