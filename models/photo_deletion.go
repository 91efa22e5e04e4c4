package models

import (
	"context"

	"github.com/pkg/errors"
)

// PhotoDeletion marks the photo of a deleted patient that still has to be removed
// from the photo store.
type PhotoDeletion struct {
	BaseModel
	PatientID uint   `json:"patient_id"`
	Photo     string `json:"photo" gorm:"size:255;not null"`
	Attempts  int    `json:"attempts"`
	LastError string `json:"last_error" gorm:"type:text"`
}

// PendingPhotoDeletions returns the photos still waiting to be removed, oldest first.
func (repo *PatientRepository) PendingPhotoDeletions(ctx context.Context) ([]PhotoDeletion, error) {
	markers := []PhotoDeletion{}
	err := repo.store.session(ctx).Order("id").Find(&markers).Error
	if err != nil {
		return nil, errors.Wrap(err, "find pending photo deletions")
	}

	return markers, nil
}
