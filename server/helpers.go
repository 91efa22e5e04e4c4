package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/gorilla/mux"
	"github.com/sanfx/clinc-app/models"
)

const (
	MAX_PHOTO_FORM_BYTES = 10 << 20
)

type ResponsePayload struct {
	Errors  []string    `json:"errors"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Paging  interface{} `json:"paging,omitempty"`
}

type historyRequest struct {
	VisitDate          string `json:"visit_date"`
	Notes              string `json:"notes"`
	PrescribedMedicine string `json:"prescribed_medicine"`
}

type photoUpload struct {
	file     multipart.File
	filename string
}

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func (s *Server) writeResponse(rw http.ResponseWriter, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		s.logg.Error(payLoad.Errors)
	} else if statusCode >= http.StatusBadRequest {
		s.logg.Info(payLoad.Errors)
	}

	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payLoad)
}

func (s *Server) writeError(rw http.ResponseWriter, err error) {
	s.writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, statusForError(err))
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrDuplicateNationalID):
		return http.StatusConflict
	case errors.Is(err, models.ErrPatientNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func patientID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid patient id %q", mux.Vars(r)["id"])
	}

	return uint(id), nil
}

func queryInt(r *http.Request, key string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}

	return value
}

// decodePatient reads a patient from a JSON body, or from a multipart form with an
// optional "photo" file. The caller closes the returned upload.
func decodePatient(r *http.Request) (models.Patient, *photoUpload, error) {
	patient := models.Patient{}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err := json.NewDecoder(r.Body).Decode(&patient)
		if err != nil && !errors.Is(err, io.EOF) {
			return patient, nil, err
		}
		// Photos only come from uploads
		patient.BaseModel = models.BaseModel{}
		patient.Photo = ""
		return patient, nil, nil
	}

	if err := r.ParseMultipartForm(MAX_PHOTO_FORM_BYTES); err != nil {
		return patient, nil, err
	}

	patient = models.Patient{
		Name:                 r.FormValue("name"),
		PhoneNumber:          r.FormValue("phone_number"),
		HomeAddress:          r.FormValue("home_address"),
		Email:                r.FormValue("email"),
		NationalID:           r.FormValue("national_id"),
		DrivingLicenceNumber: r.FormValue("driving_licence_number"),
	}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return patient, nil, nil
	}
	if err != nil {
		return patient, nil, err
	}

	return patient, &photoUpload{file: file, filename: header.Filename}, nil
}

func (req historyRequest) toClinicalHistory(patientID uint) (models.ClinicalHistory, error) {
	history := models.ClinicalHistory{
		PatientID:          patientID,
		Notes:              req.Notes,
		PrescribedMedicine: req.PrescribedMedicine,
		VisitDate:          time.Now(),
	}

	if req.VisitDate != "" {
		visitDate, err := time.Parse(models.VISIT_DATE_LAYOUT, req.VisitDate)
		if err != nil {
			return history, fmt.Errorf("visit_date must look like %v", models.VISIT_DATE_LAYOUT)
		}
		history.VisitDate = visitDate
	}

	return history, nil
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func (s *Server) serve(server *http.Server) {
	s.logg.Infof("Clinic server is listening on port%v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logg.Fatal(err)
	}
}

func (s *Server) cleanup(scheduler *gocron.Scheduler, server *http.Server) {
	// Stop scheduled jobs i.e. photo clean up
	scheduler.Stop()

	// Shutdown server gracefully
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		s.logg.Errorf("Clinic server shutdown failed:%+s", err)
		return
	}

	s.logg.Infof("Clinic server stopped properly")
}
