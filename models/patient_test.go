package models

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sanfx/clinc-app/photos"
	"github.com/sanfx/clinc-app/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// photoStoreStub records removals and fails them while 'removeErr' is set
type photoStoreStub struct {
	removed   []string
	removeErr error
}

func (s *photoStoreStub) Save(ctx context.Context, fileName string, content io.Reader) (string, error) {
	return fileName, nil
}

func (s *photoStoreStub) Remove(ctx context.Context, ref string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, ref)
	return nil
}

func newPatient(nationalID string) Patient {
	return Patient{
		Name:                 "Asha",
		PhoneNumber:          "5550100123",
		HomeAddress:          "12 Elm St",
		Email:                "asha@example.com",
		NationalID:           nationalID,
		DrivingLicenceNumber: "DL-0042",
	}
}

func newLocalPhotoStore(t *testing.T) *photos.LocalStore {
	photoStore, err := photos.NewLocalStore(filepath.Join(t.TempDir(), "images"), zap.NewNop().Sugar())
	require.NoError(t, err)
	return photoStore
}

func TestPatientAddAndSelect(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepository(NewTestStore(t), newLocalPhotoStore(t))

	input := newPatient("NID-0001")
	input.Photo = "images/Asha_5550100123_NID-0001.png"

	patient, err := repo.Add(ctx, input)
	require.NoError(t, err)
	require.NotZero(t, patient.ID, "Should populate generated id")

	found, err := repo.Select(ctx, patient.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, patient.ID, found.ID)
	assert.Equal(t, input.Name, found.Name)
	assert.Equal(t, input.PhoneNumber, found.PhoneNumber)
	assert.Equal(t, input.HomeAddress, found.HomeAddress)
	assert.Equal(t, input.Email, found.Email)
	assert.Equal(t, input.NationalID, found.NationalID)
	assert.Equal(t, input.DrivingLicenceNumber, found.DrivingLicenceNumber)
	assert.Equal(t, input.Photo, found.Photo)
}

func TestPatientAddWithPlaceholders(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepository(NewTestStore(t), newLocalPhotoStore(t))

	phone, nationalID := utils.FillPlaceholders("", "")
	patient, err := repo.Add(ctx, Patient{
		Name:        "Asha",
		PhoneNumber: phone,
		HomeAddress: "12 Elm St",
		NationalID:  nationalID,
	})
	require.NoError(t, err)

	assert.NotZero(t, patient.ID)
	assert.Len(t, patient.PhoneNumber, 10)
	assert.Len(t, patient.NationalID, 12)
}

func TestPatientAddDuplicateNationalID(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepository(NewTestStore(t), newLocalPhotoStore(t))

	first, err := repo.Add(ctx, newPatient("NID-0001"))
	require.NoError(t, err)

	duplicate := newPatient("NID-0001")
	duplicate.Name = "Ravi"
	_, err = repo.Add(ctx, duplicate)
	assert.True(t, errors.Is(err, ErrDuplicateNationalID), "expected ErrDuplicateNationalID, got %v", err)

	found, err := repo.Select(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", found.Name, "First patient should be unaffected")

	patients, paging, err := repo.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, patients, 1)
	assert.Equal(t, int64(1), paging.Total)
}

func TestPatientAddValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepository(NewTestStore(t), newLocalPhotoStore(t))

	cases := []struct {
		description   string
		mutate        func(p *Patient)
		expectedField string
	}{
		{"Should require name", func(p *Patient) { p.Name = "" }, "name"},
		{"Should require phone number", func(p *Patient) { p.PhoneNumber = "" }, "phone_number"},
		{"Should require home address", func(p *Patient) { p.HomeAddress = "" }, "home_address"},
		{"Should require national id", func(p *Patient) { p.NationalID = "" }, "national_id"},
		{"Should reject whitespace-only name", func(p *Patient) { p.Name = "   " }, "name"},
		{"Should reject whitespace-only home address", func(p *Patient) { p.HomeAddress = "\t " }, "home_address"},
		{"Should reject whitespace-only national id", func(p *Patient) { p.NationalID = "  " }, "national_id"},
		{"Should limit national id length", func(p *Patient) { p.NationalID = strings.Repeat("9", 21) }, "national_id"},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			patient := newPatient("NID-0002")
			c.mutate(&patient)

			_, err := repo.Add(ctx, patient)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Contains(t, validationErr.Fields, c.expectedField)
		})
	}

	patients, _, err := repo.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, patients, "Nothing should be written for invalid patients")
}

func TestPatientFindByNationalID(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepository(NewTestStore(t), newLocalPhotoStore(t))

	added, err := repo.Add(ctx, newPatient(" NID-0003 "))
	require.NoError(t, err)
	assert.Equal(t, "NID-0003", added.NationalID, "Should store trimmed national id")

	found, err := repo.FindByNationalID(ctx, "NID-0003")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, added.ID, found.ID)

	missing, err := repo.FindByNationalID(ctx, "NID-MISSING")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPatientSelectMissing(t *testing.T) {
	repo := NewPatientRepository(NewTestStore(t), newLocalPhotoStore(t))

	patient, err := repo.Select(context.Background(), 404)
	assert.NoError(t, err)
	assert.Nil(t, patient)
}

func TestPatientDelete(t *testing.T) {
	ctx := context.Background()
	store := NewTestStore(t)
	photoStore := newLocalPhotoStore(t)
	repo := NewPatientRepository(store, photoStore)
	vitalsRepo := NewVitalsRepository(store)
	historyRepo := NewHistoryRepository(store)

	t.Run("Should return false for missing patient", func(t *testing.T) {
		keep, err := repo.Add(ctx, newPatient("NID-KEEP"))
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, 404)
		assert.NoError(t, err)
		assert.False(t, deleted)

		found, err := repo.Select(ctx, keep.ID)
		require.NoError(t, err)
		assert.NotNil(t, found, "Store should be unchanged")
	})

	t.Run("Should delete patient, owned rows and photo", func(t *testing.T) {
		input := newPatient("NID-0003")
		ref, err := photoStore.Save(ctx, photos.FileName(input.Name, input.PhoneNumber, input.NationalID, "me.png"),
			strings.NewReader("photo"))
		require.NoError(t, err)
		input.Photo = ref

		patient, err := repo.Add(ctx, input)
		require.NoError(t, err)

		_, err = vitalsRepo.Add(ctx, Vitals{PatientID: patient.ID, WeightInKg: 70})
		require.NoError(t, err)
		_, err = historyRepo.Add(ctx, ClinicalHistory{PatientID: patient.ID, VisitDate: time.Now(), Notes: "cough"})
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, patient.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		found, err := repo.Select(ctx, patient.ID)
		assert.NoError(t, err)
		assert.Nil(t, found)

		_, err = os.Stat(ref)
		assert.True(t, os.IsNotExist(err), "Photo should be removed")

		vitals, err := vitalsRepo.Read(ctx, patient.ID)
		assert.NoError(t, err)
		assert.Empty(t, vitals)

		history, err := historyRepo.List(ctx, patient.ID)
		assert.NoError(t, err)
		assert.Empty(t, history)

		pending, err := repo.PendingPhotoDeletions(ctx)
		assert.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("Should not fail when photo is already missing", func(t *testing.T) {
		input := newPatient("NID-0004")
		ref, err := photoStore.Save(ctx, "gone.png", strings.NewReader("photo"))
		require.NoError(t, err)
		require.NoError(t, os.Remove(ref))
		input.Photo = ref

		patient, err := repo.Add(ctx, input)
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, patient.ID)
		assert.NoError(t, err)
		assert.True(t, deleted)

		pending, err := repo.PendingPhotoDeletions(ctx)
		assert.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestPatientDeleteRetriesPhotoRemoval(t *testing.T) {
	ctx := context.Background()
	photoStore := &photoStoreStub{removeErr: errors.New("bucket unavailable")}
	repo := NewPatientRepository(NewTestStore(t), photoStore)

	input := newPatient("NID-0005")
	input.Photo = "Asha_5550100123_NID-0005.png"
	patient, err := repo.Add(ctx, input)
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, patient.ID)
	require.NoError(t, err)
	assert.True(t, deleted, "Row should be deleted even if the photo is not")

	pending, err := repo.PendingPhotoDeletions(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, input.Photo, pending[0].Photo)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Contains(t, pending[0].LastError, "bucket unavailable")

	// Photo store comes back
	photoStore.removeErr = nil

	removed, err := repo.RetryPhotoDeletions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{input.Photo}, photoStore.removed)

	pending, err = repo.PendingPhotoDeletions(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPatientList(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepository(NewTestStore(t), newLocalPhotoStore(t))

	for _, nationalID := range []string{"NID-A", "NID-B", "NID-C"} {
		_, err := repo.Add(ctx, newPatient(nationalID))
		require.NoError(t, err)
	}

	patients, paging, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, "NID-A", patients[0].NationalID)
	assert.Equal(t, &Paging{Total: 3, Page: 1, Pages: 2}, paging)

	patients, paging, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "NID-C", patients[0].NationalID)
	assert.Equal(t, int64(2), paging.Page)
}
