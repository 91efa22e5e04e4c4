package models

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVitalsAddAndRead(t *testing.T) {
	ctx := context.Background()
	store := NewTestStore(t)
	patients := NewPatientRepository(store, newLocalPhotoStore(t))
	repo := NewVitalsRepository(store)

	patient, err := patients.Add(ctx, newPatient("NID-V1"))
	require.NoError(t, err)

	t.Run("Should return empty list when nothing was measured", func(t *testing.T) {
		vitals, err := repo.Read(ctx, patient.ID)
		assert.NoError(t, err)
		assert.NotNil(t, vitals)
		assert.Empty(t, vitals)

		latest, err := repo.Latest(ctx, patient.ID)
		assert.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("Should read back a single measurement", func(t *testing.T) {
		measuredAt := time.Now()
		added, err := repo.Add(ctx, Vitals{
			PatientID:            patient.ID,
			WeightInKg:           70,
			HeightInCm:           170,
			SystolicBP:           120,
			DiastolicBP:          80,
			Pulse:                72,
			TemperatureInCelsius: 36.6,
			OxygenLevels:         98,
			MeasuredAt:           measuredAt,
		})
		require.NoError(t, err)
		assert.NotZero(t, added.ID)

		vitals, err := repo.Read(ctx, patient.ID)
		require.NoError(t, err)
		require.Len(t, vitals, 1)

		got := vitals[0]
		assert.Equal(t, patient.ID, got.PatientID)
		assert.Equal(t, 70.0, got.WeightInKg)
		assert.Equal(t, 170.0, got.HeightInCm)
		assert.Equal(t, 120, got.SystolicBP)
		assert.Equal(t, 80, got.DiastolicBP)
		assert.Equal(t, 72, got.Pulse)
		assert.Equal(t, 36.6, got.TemperatureInCelsius)
		assert.Equal(t, 98, got.OxygenLevels)
		assert.WithinDuration(t, measuredAt, got.MeasuredAt, time.Second)
	})

	t.Run("Should keep insertion order", func(t *testing.T) {
		for pulse := 60; pulse < 65; pulse++ {
			_, err := repo.Add(ctx, Vitals{PatientID: patient.ID, Pulse: pulse})
			require.NoError(t, err)
		}

		vitals, err := repo.Read(ctx, patient.ID)
		require.NoError(t, err)
		require.Len(t, vitals, 6)

		for i, pulse := range []int{72, 60, 61, 62, 63, 64} {
			assert.Equal(t, pulse, vitals[i].Pulse)
		}

		latest, err := repo.Latest(ctx, patient.ID)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, vitals[len(vitals)-1].ID, latest.ID)
	})

	t.Run("Should accept implausible values", func(t *testing.T) {
		added, err := repo.Add(ctx, Vitals{PatientID: patient.ID, WeightInKg: -5, OxygenLevels: 400})
		require.NoError(t, err)
		assert.Equal(t, -5.0, added.WeightInKg)
		assert.False(t, added.MeasuredAt.IsZero(), "Should stamp measurement time")
	})
}

func TestVitalsAddErrors(t *testing.T) {
	repo := NewVitalsRepository(NewTestStore(t))

	_, err := repo.Add(context.Background(), Vitals{WeightInKg: 70})
	assert.True(t, errors.Is(err, ErrValidation), "expected validation error, got %v", err)

	_, err = repo.Add(context.Background(), Vitals{PatientID: 404, WeightInKg: 70})
	assert.True(t, errors.Is(err, ErrPatientNotFound), "expected ErrPatientNotFound, got %v", err)
}

func TestVitalsConversions(t *testing.T) {
	vitals := Vitals{WeightInKg: 100, HeightInCm: 152.4, TemperatureInCelsius: 37}

	assert.InDelta(t, 220.462, vitals.WeightInLbs(), 0.0001)
	assert.InDelta(t, 5.0, vitals.HeightInFeet(), 0.0001)
	assert.InDelta(t, 60.0, vitals.HeightInInches(), 0.0001)
	assert.InDelta(t, 98.6, vitals.TemperatureInFahrenheit(), 0.0001)
}
