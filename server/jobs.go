package server

import (
	"context"

	"github.com/go-co-op/gocron"
	"github.com/sanfx/clinc-app/models"
	"go.uber.org/zap"
)

const (
	RETRY_PHOTO_DELETIONS_JOB = "retryPhotoDeletions"

	// Every 10 minutes
	DEFAULT_CLEANUP_SCHEDULE = "*/10 * * * *"
)

func retryPhotoDeletions(patients *models.PatientRepository, logg *zap.SugaredLogger) {
	removed, err := patients.RetryPhotoDeletions(context.Background())
	if err != nil {
		logg.Errorf("%v: %v", RETRY_PHOTO_DELETIONS_JOB, err)
		return
	}

	if removed > 0 {
		logg.Infof("%v: removed %v photo(s) of deleted patients", RETRY_PHOTO_DELETIONS_JOB, removed)
	}
}

func registerJobs(scheduler *gocron.Scheduler, patients *models.PatientRepository, cleanupSchedule string, logg *zap.SugaredLogger) error {
	if cleanupSchedule == "" {
		cleanupSchedule = DEFAULT_CLEANUP_SCHEDULE
	}

	_, err := scheduler.Cron(cleanupSchedule).Tag(RETRY_PHOTO_DELETIONS_JOB).Do(retryPhotoDeletions, patients, logg)
	return err
}
