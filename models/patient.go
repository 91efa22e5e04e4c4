package models

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sanfx/clinc-app/photos"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Patient struct {
	BaseModel
	Name                 string            `json:"name" validate:"required,max=255" gorm:"size:255;not null"`
	PhoneNumber          string            `json:"phone_number" validate:"required,max=20" gorm:"size:20;not null"`
	HomeAddress          string            `json:"home_address" validate:"required" gorm:"type:text;not null"`
	Email                string            `json:"email" validate:"max=255" gorm:"size:255"`
	NationalID           string            `json:"national_id" validate:"required,max=20" gorm:"size:20;not null;uniqueIndex"`
	DrivingLicenceNumber string            `json:"driving_licence_number" validate:"max=20" gorm:"size:20"`
	Photo                string            `json:"photo" validate:"max=255" gorm:"size:255"`
	ClinicalHistories    []ClinicalHistory `json:"clinical_histories,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Vitals               []Vitals          `json:"vitals,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// TrimSpace strips surrounding whitespace from the text fields so a blank-looking value
// counts as empty.
func (p *Patient) TrimSpace() {
	p.Name = strings.TrimSpace(p.Name)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	p.HomeAddress = strings.TrimSpace(p.HomeAddress)
	p.Email = strings.TrimSpace(p.Email)
	p.NationalID = strings.TrimSpace(p.NationalID)
	p.DrivingLicenceNumber = strings.TrimSpace(p.DrivingLicenceNumber)
}

// PatientRepository reads and writes patients together with the photo each one owns.
type PatientRepository struct {
	store  *Store
	photos photos.Store
	logg   *zap.SugaredLogger
}

func NewPatientRepository(store *Store, photoStore photos.Store) *PatientRepository {
	return &PatientRepository{store: store, photos: photoStore, logg: store.logg}
}

// Add inserts the patient and returns it with its generated id. A national id that is
// already registered fails with ErrDuplicateNationalID and nothing is written.
func (repo *PatientRepository) Add(ctx context.Context, patient Patient) (*Patient, error) {
	patient.ID = 0
	patient.TrimSpace()
	if err := validateRecord(&patient); err != nil {
		return nil, err
	}

	err := repo.store.Transaction(ctx, func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&Patient{}).Where("national_id = ?", patient.NationalID).Count(&count).Error
		if err != nil {
			return err
		}

		if count > 0 {
			return ErrDuplicateNationalID
		}

		return tx.Create(&patient).Error
	})
	if err != nil {
		return nil, translateError(err, "add patient")
	}

	repo.logg.Debugf("Added patient %v", patient.ID)
	return &patient, nil
}

// Select returns the patient with 'id', or nil when there is none.
func (repo *PatientRepository) Select(ctx context.Context, id uint) (*Patient, error) {
	patient := Patient{}
	err := repo.store.session(ctx).First(&patient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrap(err, "select patient")
	}

	return &patient, nil
}

// FindByNationalID returns the patient registered under 'nationalID', or nil when there is none.
func (repo *PatientRepository) FindByNationalID(ctx context.Context, nationalID string) (*Patient, error) {
	patient := Patient{}
	err := repo.store.session(ctx).First(&patient, "national_id = ?", strings.TrimSpace(nationalID)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrap(err, "find patient by national id")
	}

	return &patient, nil
}

// List returns one page of patients ordered by id.
func (repo *PatientRepository) List(ctx context.Context, page, pageSize int) ([]Patient, *Paging, error) {
	var total int64
	patients := []Patient{}

	db := repo.store.session(ctx)
	if err := db.Model(&Patient{}).Count(&total).Error; err != nil {
		return nil, nil, errors.Wrap(err, "count patients")
	}

	err := db.Scopes(paginate(page, pageSize)).Order("id").Find(&patients).Error
	if err != nil {
		return nil, nil, errors.Wrap(err, "list patients")
	}

	return patients, newPaging(page, pageSize, total), nil
}

// Delete removes the patient, its clinical history and vitals, then its photo.
// It returns false when there is no such patient.
//
// The rows go first, in one transaction that also records a PhotoDeletion marker.
// The photo is removed only after commit; if that fails the marker is kept and
// RetryPhotoDeletions picks it up later. A failed database delete never touches the photo.
func (repo *PatientRepository) Delete(ctx context.Context, id uint) (bool, error) {
	var marker *PhotoDeletion
	deleted := false

	err := repo.store.Transaction(ctx, func(tx *gorm.DB) error {
		patient := Patient{}
		err := tx.First(&patient, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Where("patient_id = ?", patient.ID).Delete(&ClinicalHistory{}).Error; err != nil {
			return err
		}

		if err := tx.Where("patient_id = ?", patient.ID).Delete(&Vitals{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&patient).Error; err != nil {
			return err
		}
		deleted = true

		if patient.Photo != "" {
			marker = &PhotoDeletion{PatientID: patient.ID, Photo: patient.Photo}
			return tx.Create(marker).Error
		}

		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, "delete patient")
	}

	if marker != nil {
		// The patient is gone either way; a leftover photo is retried from its marker
		_ = repo.removePhoto(ctx, marker)
	}

	return deleted, nil
}

// RetryPhotoDeletions removes photos whose patients were deleted but whose files
// could not be removed at the time. It returns how many photos were removed.
func (repo *PatientRepository) RetryPhotoDeletions(ctx context.Context) (int, error) {
	markers, err := repo.PendingPhotoDeletions(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := range markers {
		if err := repo.removePhoto(ctx, &markers[i]); err == nil {
			removed++
		}
	}

	return removed, nil
}

func (repo *PatientRepository) removePhoto(ctx context.Context, marker *PhotoDeletion) error {
	err := repo.photos.Remove(ctx, marker.Photo)
	if err != nil {
		repo.logg.Warnf("Unable to remove photo %q of deleted patient %v: %v", marker.Photo, marker.PatientID, err)

		updateErr := repo.store.session(ctx).Model(marker).Updates(map[string]interface{}{
			"attempts":   marker.Attempts + 1,
			"last_error": err.Error(),
		}).Error
		if updateErr != nil {
			repo.logg.Errorf("Unable to update photo deletion %v: %v", marker.ID, updateErr)
		}

		return err
	}

	if err := repo.store.session(ctx).Delete(marker).Error; err != nil {
		repo.logg.Errorf("Unable to clear photo deletion %v: %v", marker.ID, err)
		return err
	}

	return nil
}
