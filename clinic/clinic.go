package clinic

import (
	"context"
	"io"

	"github.com/sanfx/clinc-app/models"
	"github.com/sanfx/clinc-app/photos"
	"github.com/sanfx/clinc-app/shared"
	"github.com/sanfx/clinc-app/utils"
	"go.uber.org/zap"
)

// Clinic bundles the store, repositories and photo store used by the CLI and the
// HTTP server.
type Clinic struct {
	Store    *models.Store
	Patients *models.PatientRepository
	Vitals   *models.VitalsRepository
	History  *models.HistoryRepository
	Photos   photos.Store
	Logg     *zap.SugaredLogger
}

func Open(ctx context.Context, config shared.ClinicConfig, logg *zap.SugaredLogger) (*Clinic, error) {
	store, err := models.OpenStore(config.Database, logg)
	if err != nil {
		return nil, err
	}

	if config.Database.AutoMigrate {
		if err := store.AutoMigrate(); err != nil {
			store.Close()
			return nil, err
		}
	}

	photoStore, err := photos.New(ctx, config.Photos, logg)
	if err != nil {
		store.Close()
		return nil, err
	}

	return New(store, photoStore, logg), nil
}

func New(store *models.Store, photoStore photos.Store, logg *zap.SugaredLogger) *Clinic {
	return &Clinic{
		Store:    store,
		Patients: models.NewPatientRepository(store, photoStore),
		Vitals:   models.NewVitalsRepository(store),
		History:  models.NewHistoryRepository(store),
		Photos:   photoStore,
		Logg:     logg,
	}
}

// RegisterPatient fills blank phone number and national id placeholders, stores the
// optional photo under the patient's file name and adds the patient. A national id that
// is already registered is rejected before anything is stored. When the patient cannot
// be added the stored photo is removed again, unless a registered patient refers to it.
func (c *Clinic) RegisterPatient(ctx context.Context, patient models.Patient, photo io.Reader, photoName string) (*models.Patient, error) {
	// Photos only come from uploads
	patient.Photo = ""
	patient.TrimSpace()
	patient.PhoneNumber, patient.NationalID = utils.FillPlaceholders(patient.PhoneNumber, patient.NationalID)

	holder, err := c.Patients.FindByNationalID(ctx, patient.NationalID)
	if err != nil {
		return nil, err
	}
	if holder != nil {
		return nil, models.ErrDuplicateNationalID
	}

	if photo != nil {
		ref, err := c.Photos.Save(ctx, photos.FileName(patient.Name, patient.PhoneNumber, patient.NationalID, photoName), photo)
		if err != nil {
			return nil, err
		}
		patient.Photo = ref
	}

	added, err := c.Patients.Add(ctx, patient)
	if err != nil {
		if patient.Photo != "" {
			c.discardPhoto(ctx, patient.Photo, patient.NationalID)
		}
		return nil, err
	}

	return added, nil
}

// discardPhoto removes the photo of a rejected registration. A registration racing this
// one for the same national id may have stored its photo under the same name.
func (c *Clinic) discardPhoto(ctx context.Context, ref, nationalID string) {
	holder, err := c.Patients.FindByNationalID(ctx, nationalID)
	if err != nil {
		c.Logg.Warnf("Unable to check owner of photo %q: %v", ref, err)
		return
	}

	if holder != nil && holder.Photo == ref {
		return
	}

	if err := c.Photos.Remove(ctx, ref); err != nil {
		c.Logg.Warnf("Unable to remove photo %q of rejected patient: %v", ref, err)
	}
}

func (c *Clinic) Close() error {
	if closer, ok := c.Photos.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			c.Logg.Warnf("Unable to close photo store: %v", err)
		}
	}

	return c.Store.Close()
}
