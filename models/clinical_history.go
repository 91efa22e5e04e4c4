package models

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// VISIT_DATE_LAYOUT is how visit dates are written and read by callers
const VISIT_DATE_LAYOUT = "2006-01-02"

// ClinicalHistory is one visit, optionally with the medicine prescribed during it.
type ClinicalHistory struct {
	BaseModel
	PatientID          uint      `json:"patient_id" validate:"required" gorm:"not null;index"`
	VisitDate          time.Time `json:"visit_date" validate:"required" gorm:"type:date;not null"`
	Notes              string    `json:"notes" gorm:"type:text"`
	PrescribedMedicine string    `json:"prescribed_medicine" validate:"max=255" gorm:"size:255"`
}

func (ClinicalHistory) TableName() string {
	return "clinical_history"
}

type HistoryRepository struct {
	store *Store
}

func NewHistoryRepository(store *Store) *HistoryRepository {
	return &HistoryRepository{store: store}
}

// Add records a visit for an existing patient. Only the calendar day of VisitDate is kept.
func (repo *HistoryRepository) Add(ctx context.Context, history ClinicalHistory) (*ClinicalHistory, error) {
	history.ID = 0
	if err := validateRecord(&history); err != nil {
		return nil, err
	}

	year, month, day := history.VisitDate.Date()
	history.VisitDate = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	err := repo.store.Transaction(ctx, func(tx *gorm.DB) error {
		if err := patientExists(tx, history.PatientID); err != nil {
			return err
		}

		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, translateError(err, "add clinical history")
	}

	return &history, nil
}

// List returns the patient's visits, oldest first.
func (repo *HistoryRepository) List(ctx context.Context, patientID uint) ([]ClinicalHistory, error) {
	history := []ClinicalHistory{}
	err := repo.store.session(ctx).
		Where("patient_id = ?", patientID).
		Order("visit_date").Order("id").
		Find(&history).Error
	if err != nil {
		return nil, errors.Wrap(err, "list clinical history")
	}

	return history, nil
}
