package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sanfx/clinc-app/colors"
	"github.com/sanfx/clinc-app/models"
	"github.com/spf13/cobra"
)

func createHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Record and read a patient's clinical history",
	}

	cmd.AddCommand(createHistoryAddCmd(), createHistoryListCmd())

	return cmd
}

func createHistoryAddCmd() *cobra.Command {
	var visitDate, notes, medicine string

	cmd := &cobra.Command{
		Use:   "add <patient-id>",
		Short: "Record a visit for a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePatientID(args[0])
			if err != nil {
				return err
			}

			date, err := time.Parse(models.VISIT_DATE_LAYOUT, visitDate)
			if err != nil {
				return formattedError("invalid argument \"%v\", --date must look like %v", visitDate, models.VISIT_DATE_LAYOUT)
			}

			c, _, _, err := openClinic(context.Background())
			if err != nil {
				return err
			}
			defer c.Close()

			added, err := c.History.Add(context.Background(), models.ClinicalHistory{
				PatientID:          id,
				VisitDate:          date,
				Notes:              notes,
				PrescribedMedicine: medicine,
			})
			if err != nil {
				return err
			}

			// Vitals are normally taken before a visit is recorded
			latest, err := c.Vitals.Latest(context.Background(), id)
			if err == nil && latest == nil {
				cmd.Printf("%s no vitals recorded for patient %v yet\n", colors.WarningLabel, id)
			}

			cmd.Println(colors.Green(fmt.Sprintf("Visit on %v has been recorded for patient %v", added.VisitDate.Format(models.VISIT_DATE_LAYOUT), id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&visitDate, "date", "d", time.Now().Format(models.VISIT_DATE_LAYOUT), "date of the visit e.g. 2022-01-31")
	cmd.Flags().StringVarP(&notes, "notes", "", "", "notes taken during the visit")
	cmd.Flags().StringVarP(&medicine, "medicine", "m", "", "medicine prescribed during the visit")

	return cmd
}

func createHistoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <patient-id>",
		Short: "List a patient's visits, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePatientID(args[0])
			if err != nil {
				return err
			}

			c, _, _, err := openClinic(context.Background())
			if err != nil {
				return err
			}
			defer c.Close()

			history, err := c.History.List(context.Background(), id)
			if err != nil {
				return err
			}

			if len(history) == 0 {
				cmd.Printf("%s no visits recorded for patient %v\n", colors.WarningLabel, id)
				return nil
			}

			for _, visit := range history {
				cmd.Printf("%v\t%v\t%v\n", colors.Bold(visit.VisitDate.Format(models.VISIT_DATE_LAYOUT)), visit.PrescribedMedicine, visit.Notes)
			}
			return nil
		},
	}
}
