package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sanfx/clinc-app/colors"
	"github.com/sanfx/clinc-app/models"
	"github.com/spf13/cobra"
)

func createPatientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Register, look up and delete patients",
	}

	cmd.AddCommand(
		createPatientAddCmd(),
		createPatientShowCmd(),
		createPatientListCmd(),
		createPatientDeleteCmd(),
	)

	return cmd
}

func createPatientAddCmd() *cobra.Command {
	var (
		patient   models.Patient
		photoPath string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new patient",
		Long: `Register a new patient. A blank phone number or national id is replaced with a
generated placeholder, and the optional photo is stored under the patient's name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatientAdd(cmd, patient, photoPath)
		},
	}

	cmd.Flags().StringVarP(&patient.Name, "name", "n", "", "patient's full name")
	cmd.Flags().StringVarP(&patient.PhoneNumber, "phone", "p", "", "patient's phone number")
	cmd.Flags().StringVarP(&patient.HomeAddress, "address", "a", "", "patient's home address")
	cmd.Flags().StringVarP(&patient.Email, "email", "e", "", "patient's email")
	cmd.Flags().StringVar(&patient.NationalID, "national-id", "", "patient's national id")
	cmd.Flags().StringVar(&patient.DrivingLicenceNumber, "licence", "", "patient's driving licence number")
	cmd.Flags().StringVar(&photoPath, "photo", "", "path to the patient's photo")

	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("address")

	return cmd
}

func runPatientAdd(cmd *cobra.Command, patient models.Patient, photoPath string) error {
	ctx := context.Background()

	c, _, _, err := openClinic(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	var photo io.Reader
	if photoPath != "" {
		file, err := os.Open(photoPath)
		if err != nil {
			return formattedError("unable to read photo: %v", err)
		}
		defer file.Close()
		photo = file
	}

	missingPhone, missingNationalID := patient.PhoneNumber == "", patient.NationalID == ""

	added, err := c.RegisterPatient(ctx, patient, photo, photoPath)
	if err != nil {
		return err
	}

	if missingPhone {
		cmd.Printf("%s no phone number given, using placeholder %v\n", colors.WarningLabel, added.PhoneNumber)
	}
	if missingNationalID {
		cmd.Printf("%s no national id given, using placeholder %v\n", colors.WarningLabel, added.NationalID)
	}

	cmd.Println(colors.Green(fmt.Sprintf("Patient %v has been registered with id %v", added.Name, added.ID)))
	return nil
}

func createPatientShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <patient-id>",
		Short: "Show a patient's details",
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

			patient, err := c.Patients.Select(context.Background(), id)
			if err != nil {
				return err
			}

			if patient == nil {
				return formattedError("no patient with id %v", id)
			}

			printPatient(cmd, patient)
			return nil
		},
	}
}

func createPatientListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, _, err := openClinic(context.Background())
			if err != nil {
				return err
			}
			defer c.Close()

			patients, paging, err := c.Patients.List(context.Background(), page, pageSize)
			if err != nil {
				return err
			}

			for _, patient := range patients {
				cmd.Printf("%v\t%v\t%v\t%v\n", colors.Bold(patient.ID), patient.Name, patient.PhoneNumber, patient.NationalID)
			}
			cmd.Printf("page %v of %v (%v patients)\n", paging.Page, paging.Pages, paging.Total)

			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page to show")
	cmd.Flags().IntVar(&pageSize, "page-size", models.DEFAULT_PAGE_SIZE, "patients per page")

	return cmd
}

func createPatientDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <patient-id>",
		Short: "Delete a patient with their vitals, clinical history and photo",
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

			deleted, err := c.Patients.Delete(context.Background(), id)
			if err != nil {
				return err
			}

			if !deleted {
				return formattedError("no patient with id %v", id)
			}

			cmd.Println(colors.Green(fmt.Sprintf("Patient %v has been deleted", id)))
			return nil
		},
	}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func parsePatientID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, formattedError("invalid patient id %q", arg)
	}

	return uint(id), nil
}

func printPatient(cmd *cobra.Command, patient *models.Patient) {
	cmd.Printf("%v %v\n", colors.Bold("Id:"), patient.ID)
	cmd.Printf("%v %v\n", colors.Bold("Name:"), patient.Name)
	cmd.Printf("%v %v\n", colors.Bold("Phone number:"), patient.PhoneNumber)
	cmd.Printf("%v %v\n", colors.Bold("Home address:"), patient.HomeAddress)
	cmd.Printf("%v %v\n", colors.Bold("Email:"), patient.Email)
	cmd.Printf("%v %v\n", colors.Bold("National id:"), patient.NationalID)
	cmd.Printf("%v %v\n", colors.Bold("Driving licence:"), patient.DrivingLicenceNumber)
	cmd.Printf("%v %v\n", colors.Bold("Photo:"), patient.Photo)
}
