package cmd

import (
	"context"
	"fmt"

	"github.com/sanfx/clinc-app/colors"
	"github.com/sanfx/clinc-app/models"
	"github.com/spf13/cobra"
)

func createVitalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vitals",
		Short: "Record and read a patient's vitals",
	}

	cmd.AddCommand(createVitalsAddCmd(), createVitalsListCmd())

	return cmd
}

func createVitalsAddCmd() *cobra.Command {
	vitals := models.Vitals{}

	cmd := &cobra.Command{
		Use:   "add <patient-id>",
		Short: "Record vitals measured for a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePatientID(args[0])
			if err != nil {
				return err
			}
			vitals.PatientID = id

			c, _, _, err := openClinic(context.Background())
			if err != nil {
				return err
			}
			defer c.Close()

			added, err := c.Vitals.Add(context.Background(), vitals)
			if err != nil {
				return err
			}

			printVitals(cmd, added)
			cmd.Println(colors.Green(fmt.Sprintf("Vitals have been recorded for patient %v", id)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&vitals.WeightInKg, "weight", 0, "weight in kg")
	cmd.Flags().Float64Var(&vitals.HeightInCm, "height", 0, "height in cm")
	cmd.Flags().IntVar(&vitals.SystolicBP, "systolic", 0, "systolic blood pressure")
	cmd.Flags().IntVar(&vitals.DiastolicBP, "diastolic", 0, "diastolic blood pressure")
	cmd.Flags().IntVar(&vitals.Pulse, "pulse", 0, "pulse in beats per minute")
	cmd.Flags().Float64Var(&vitals.TemperatureInCelsius, "temperature", 0, "temperature in °C")
	cmd.Flags().IntVar(&vitals.OxygenLevels, "oxygen", 0, "oxygen saturation in %")

	return cmd
}

func createVitalsListCmd() *cobra.Command {
	var latest bool

	cmd := &cobra.Command{
		Use:   "list <patient-id>",
		Short: "List vitals recorded for a patient, oldest first",
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

			vitals := []models.Vitals{}
			if latest {
				last, err := c.Vitals.Latest(context.Background(), id)
				if err != nil {
					return err
				}
				if last != nil {
					vitals = append(vitals, *last)
				}
			} else {
				vitals, err = c.Vitals.Read(context.Background(), id)
				if err != nil {
					return err
				}
			}

			if len(vitals) == 0 {
				cmd.Printf("%s no vitals recorded for patient %v\n", colors.WarningLabel, id)
				return nil
			}

			for i := range vitals {
				printVitals(cmd, &vitals[i])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "only show the most recent vitals")

	return cmd
}

func printVitals(cmd *cobra.Command, vitals *models.Vitals) {
	cmd.Printf("%v %v\n", colors.Bold("Measured at:"), vitals.MeasuredAt.Format("2006-01-02 15:04"))
	cmd.Printf("  Weight: %.1f kg (%.1f lbs)\n", vitals.WeightInKg, vitals.WeightInLbs())
	cmd.Printf("  Height: %.1f cm (%.2f ft, %.1f in)\n", vitals.HeightInCm, vitals.HeightInFeet(), vitals.HeightInInches())
	cmd.Printf("  Blood pressure: %v/%v\n", vitals.SystolicBP, vitals.DiastolicBP)
	cmd.Printf("  Pulse: %v\n", vitals.Pulse)
	cmd.Printf("  Temperature: %.1f °C (%.1f °F)\n", vitals.TemperatureInCelsius, vitals.TemperatureInFahrenheit())
	cmd.Printf("  Oxygen: %v%%\n", vitals.OxygenLevels)
}
