package models

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Vitals is one measurement event. Values are stored as given; range checks are
// left to whoever collects them.
type Vitals struct {
	BaseModel
	PatientID            uint      `json:"patient_id" validate:"required" gorm:"not null;index"`
	WeightInKg           float64   `json:"weight_in_kg"`
	HeightInCm           float64   `json:"height_in_cm"`
	SystolicBP           int       `json:"systolic_bp"`
	DiastolicBP          int       `json:"diastolic_bp"`
	Pulse                int       `json:"pulse"`
	TemperatureInCelsius float64   `json:"temperature_in_celsius"`
	OxygenLevels         int       `json:"oxygen_levels"`
	MeasuredAt           time.Time `json:"measured_at" gorm:"not null"`
}

func (Vitals) TableName() string {
	return "vitals"
}

func (v Vitals) WeightInLbs() float64 {
	return v.WeightInKg * 2.20462
}

func (v Vitals) HeightInFeet() float64 {
	return v.HeightInCm / 30.48
}

func (v Vitals) HeightInInches() float64 {
	return v.HeightInCm / 2.54
}

func (v Vitals) TemperatureInFahrenheit() float64 {
	return v.TemperatureInCelsius*9/5 + 32
}

// VitalsRepository is an append-only log of measurements per patient.
type VitalsRepository struct {
	store *Store
}

func NewVitalsRepository(store *Store) *VitalsRepository {
	return &VitalsRepository{store: store}
}

// Add records a measurement. A zero MeasuredAt is stamped with the current time.
func (repo *VitalsRepository) Add(ctx context.Context, vitals Vitals) (*Vitals, error) {
	vitals.ID = 0
	if vitals.MeasuredAt.IsZero() {
		vitals.MeasuredAt = time.Now()
	}

	if err := validateRecord(&vitals); err != nil {
		return nil, err
	}

	err := repo.store.Transaction(ctx, func(tx *gorm.DB) error {
		if err := patientExists(tx, vitals.PatientID); err != nil {
			return err
		}

		return tx.Create(&vitals).Error
	})
	if err != nil {
		return nil, translateError(err, "add vitals")
	}

	return &vitals, nil
}

// Read returns every measurement for the patient in the order they were added.
func (repo *VitalsRepository) Read(ctx context.Context, patientID uint) ([]Vitals, error) {
	vitals := []Vitals{}
	err := repo.store.session(ctx).Where("patient_id = ?", patientID).Order("id").Find(&vitals).Error
	if err != nil {
		return nil, errors.Wrap(err, "read vitals")
	}

	return vitals, nil
}

// Latest returns the most recently added measurement, or nil when there is none.
func (repo *VitalsRepository) Latest(ctx context.Context, patientID uint) (*Vitals, error) {
	vitals := Vitals{}
	err := repo.store.session(ctx).Where("patient_id = ?", patientID).Last(&vitals).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrap(err, "latest vitals")
	}

	return &vitals, nil
}

func patientExists(tx *gorm.DB, patientID uint) error {
	var count int64
	err := tx.Model(&Patient{}).Where("id = ?", patientID).Count(&count).Error
	if err != nil {
		return err
	}

	if count == 0 {
		return ErrPatientNotFound
	}

	return nil
}
