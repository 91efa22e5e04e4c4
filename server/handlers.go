package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sanfx/clinc-app/models"
)

// ---------------------------------------------------------------------------------//
// Patients
// --------------------------------------------------------------------------------//

func (s *Server) createPatient(rw http.ResponseWriter, r *http.Request) {
	patient, upload, err := decodePatient(r)
	if err != nil {
		s.writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	var photo io.Reader
	photoName := ""
	if upload != nil {
		defer upload.file.Close()
		photo = upload.file
		photoName = upload.filename
	}

	added, err := s.clinic.RegisterPatient(r.Context(), patient, photo, photoName)
	if err != nil {
		s.writeError(rw, err)
		return
	}

	s.writeResponse(rw, ResponsePayload{Success: true, Data: added}, http.StatusCreated)
}

func (s *Server) listPatients(rw http.ResponseWriter, r *http.Request) {
	patients, paging, err := s.clinic.Patients.List(r.Context(), queryInt(r, "page"), queryInt(r, "page_size"))
	if err != nil {
		s.writeError(rw, err)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: patients, Paging: paging})
}

func (s *Server) findPatient(rw http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	patient, err := s.clinic.Patients.Select(r.Context(), id)
	if err != nil {
		s.writeError(rw, err)
		return
	}

	if patient == nil {
		s.writeError(rw, models.ErrPatientNotFound)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: patient})
}

func (s *Server) deletePatient(rw http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	deleted, err := s.clinic.Patients.Delete(r.Context(), id)
	if err != nil {
		s.writeError(rw, err)
		return
	}

	if !deleted {
		s.writeError(rw, models.ErrPatientNotFound)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true})
}

// ---------------------------------------------------------------------------------//
// Vitals
// --------------------------------------------------------------------------------//

func (s *Server) createVitals(rw http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	vitals := models.Vitals{}
	if err := json.NewDecoder(r.Body).Decode(&vitals); err != nil && !errors.Is(err, io.EOF) {
		s.writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}
	vitals.BaseModel = models.BaseModel{}
	vitals.PatientID = id

	added, err := s.clinic.Vitals.Add(r.Context(), vitals)
	if err != nil {
		s.writeError(rw, err)
		return
	}

	s.writeResponse(rw, ResponsePayload{Success: true, Data: added}, http.StatusCreated)
}

func (s *Server) listVitals(rw http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	vitals, err := s.clinic.Vitals.Read(r.Context(), id)
	if err != nil {
		s.writeError(rw, err)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: vitals})
}

func (s *Server) latestVitals(rw http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	vitals, err := s.clinic.Vitals.Latest(r.Context(), id)
	if err != nil {
		s.writeError(rw, err)
		return
	}

	if vitals == nil {
		s.writeResponse(rw, ResponsePayload{Errors: []string{"no vitals recorded for patient"}}, http.StatusNotFound)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: vitals})
}

// ---------------------------------------------------------------------------------//
// Clinical history
// --------------------------------------------------------------------------------//

func (s *Server) createHistory(rw http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	req := historyRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	history, err := req.toClinicalHistory(id)
	if err != nil {
		s.writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	added, err := s.clinic.History.Add(r.Context(), history)
	if err != nil {
		s.writeError(rw, err)
		return
	}

	s.writeResponse(rw, ResponsePayload{Success: true, Data: added}, http.StatusCreated)
}

func (s *Server) listHistory(rw http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		s.writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	history, err := s.clinic.History.List(r.Context(), id)
	if err != nil {
		s.writeError(rw, err)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: history})
}
