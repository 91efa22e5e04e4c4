package cmd

import (
	"context"

	"github.com/sanfx/clinc-app/server"
	"github.com/spf13/cobra"
)

func createServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start a clinic server",
		Long: `The clinic server exposes patients, vitals and clinical history over HTTP and
retries removing the photos of deleted patients on a schedule`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, clinicConfig, logg, err := openClinic(context.Background())
			if err != nil {
				return err
			}
			defer c.Close()

			return server.Start(clinicConfig, c, logg)
		},
	}
}
