package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	appreports "github.com/Hoblayerta/Loudao.aleph/internal/application/reports"
	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
	"github.com/Hoblayerta/Loudao.aleph/internal/middleware"
)

type submitRequest struct {
	AggressorName    string `json:"aggressorName"`
	Institution      string `json:"institution"`
	Description      string `json:"description"`
	IncidentYear     int    `json:"incidentYear"`
	City             string `json:"city"`
	TransactionHash  string `json:"transactionHash"`
	ReporterAddress  string `json:"reporterAddress"`
	VictimAge        string `json:"victimAge"`
	RelationshipType string `json:"relationshipType"`
	ViolenceType     string `json:"violenceType"`
	UrgencyLevel     string `json:"urgencyLevel"`
}

type submitResponse struct {
	Success bool           `json:"success"`
	Report  *domain.Report `json:"report"`
}

// decode fills the request field by field so that a wrongly typed field
// becomes a FieldError instead of failing the whole body.
func (body *submitRequest) decode(raw map[string]json.RawMessage) []domain.FieldError {
	targets := []struct {
		field string
		dst   any
		kind  string
	}{
		{"aggressorName", &body.AggressorName, "a string"},
		{"institution", &body.Institution, "a string"},
		{"description", &body.Description, "a string"},
		{"incidentYear", &body.IncidentYear, "an integer"},
		{"city", &body.City, "a string"},
		{"transactionHash", &body.TransactionHash, "a string"},
		{"reporterAddress", &body.ReporterAddress, "a string"},
		{"victimAge", &body.VictimAge, "a string"},
		{"relationshipType", &body.RelationshipType, "a string"},
		{"violenceType", &body.ViolenceType, "a string"},
		{"urgencyLevel", &body.UrgencyLevel, "a string"},
	}
	var typeErrs []domain.FieldError
	for _, t := range targets {
		v, ok := raw[t.field]
		if !ok || string(v) == "null" {
			continue
		}
		if err := json.Unmarshal(v, t.dst); err != nil {
			typeErrs = append(typeErrs, domain.FieldError{Field: t.field, Message: "must be " + t.kind})
		}
	}
	return typeErrs
}

func (body submitRequest) command() appreports.SubmitCommand {
	return appreports.SubmitCommand{
		AggressorName:   body.AggressorName,
		Institution:     body.Institution,
		Description:     body.Description,
		IncidentYear:    body.IncidentYear,
		City:            body.City,
		ReporterAddress: body.ReporterAddress,
		TransactionHash: body.TransactionHash,
		Private: domain.PrivateFields{
			VictimAge:        body.VictimAge,
			RelationshipType: body.RelationshipType,
			ViolenceType:     body.ViolenceType,
			UrgencyLevel:     body.UrgencyLevel,
		},
	}
}

// withTypeErrors merges type errors with the rule violations of the rest
// of the body. A mistyped field is reported once, as a type error.
func withTypeErrors(typeErrs []domain.FieldError, ruleErr error) error {
	mistyped := make(map[string]bool, len(typeErrs))
	for _, f := range typeErrs {
		mistyped[f.Field] = true
	}
	fields := append([]domain.FieldError(nil), typeErrs...)
	var verr *domain.ValidationError
	if errors.As(ruleErr, &verr) {
		for _, f := range verr.Fields {
			if !mistyped[f.Field] {
				fields = append(fields, f)
			}
		}
	}
	return &domain.ValidationError{Fields: fields}
}

// POST /api/reports
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil || raw == nil {
		r.metrics.IncReportsRejected()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return badRequest{msg: "request body too large"}
		}
		return badRequest{msg: "invalid JSON body"}
	}

	var body submitRequest
	if typeErrs := body.decode(raw); len(typeErrs) > 0 {
		r.metrics.IncReportsRejected()
		return withTypeErrors(typeErrs, r.reports.Rules.Validate(body.command()))
	}

	report, err := r.reports.Submit(req.Context(), body.command())
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			r.metrics.IncReportsRejected()
		}
		return err
	}

	r.metrics.IncReportsSubmitted()
	if report.LedgerStatus == domain.LedgerLocalOnly {
		r.metrics.IncReportsLocalOnly()
	}
	writeJSON(w, http.StatusOK, submitResponse{Success: true, Report: report})
	return nil
}

// GET /api/reports
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	list, err := r.reports.List(req.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

// GET /api/reports/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateReportID(id); err != nil {
		// Malformed ids can never exist.
		return domain.ErrNotFound
	}
	report, err := r.reports.Get(req.Context(), domain.ReportID(id))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, report)
	return nil
}

// GET /api/reports/aggressor/{name}/count
func (r *Router) handleAggressorCount(w http.ResponseWriter, req *http.Request) error {
	name := chi.URLParam(req, "name")
	if err := middleware.ValidateAggressorParam(name); err != nil {
		return badRequest{msg: err.Error()}
	}
	n, err := r.reports.CountForAggressor(req.Context(), name)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"aggressorName": name, "count": n})
	return nil
}
