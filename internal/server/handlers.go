package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fjacquet/fin-statements/internal/ingest"
	"fjacquet/fin-statements/internal/models"
	"fjacquet/fin-statements/internal/parsererror"
	"fjacquet/fin-statements/internal/pipeline"
	"fjacquet/fin-statements/internal/report"

	"github.com/shopspring/decimal"
)

// errorResponse is the body of every non-2xx response. Result is set when
// the pipeline ran but refused to generate statements.
type errorResponse struct {
	Error  string           `json:"error"`
	Result *report.Document `json:"result,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, false)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, true)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, validateOnly bool) {
	input, opts, err := s.parseRequest(w, r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts.ValidateOnly = validateOnly

	result, err := s.pipeline.Process(input, opts)
	if err != nil {
		if _, blocked := parsererror.IsBlocked(err); blocked && result != nil {
			doc := report.NewDocument(result)
			s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Result: &doc})
			return
		}
		s.writeError(w, statusFor(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, report.NewDocument(result))
}

// parseRequest reads the multipart form: files "tb" and "gl", and optional
// fields "mode", "remedies" and "scale".
func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (pipeline.Input, pipeline.Options, error) {
	var (
		input pipeline.Input
		opts  pipeline.Options
		err   error
	)
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		return input, opts, fmt.Errorf("invalid multipart form: %w", err)
	}

	if input.TB, err = s.readUpload(r, "tb"); err != nil {
		return input, opts, err
	}
	if input.GL, err = s.readUpload(r, "gl"); err != nil {
		return input, opts, err
	}
	if input.TB == nil && input.GL == nil {
		return input, opts, errors.New("upload a trial balance (tb), a general ledger (gl) or both")
	}

	if mode := strings.TrimSpace(r.FormValue("mode")); mode != "" {
		if input.Mode, err = models.ParseInputMode(mode); err != nil {
			return input, opts, err
		}
	}

	opts.Remedies = s.remedies
	if values, ok := r.MultipartForm.Value["remedies"]; ok {
		if opts.Remedies, err = models.ParseRemedySet(values); err != nil {
			return input, opts, err
		}
	}

	if scale := strings.TrimSpace(r.FormValue("scale")); scale != "" {
		opts.UnitScale, err = decimal.NewFromString(scale)
		if err != nil || !opts.UnitScale.IsPositive() {
			return input, opts, fmt.Errorf("scale must be a positive number, got %q", scale)
		}
	}
	return input, opts, nil
}

func (s *Server) readUpload(r *http.Request, field string) (*models.RawTable, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s upload: %w", field, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.log.WithError(err).Warn("Failed to close upload")
		}
	}()

	format, err := ingest.DetectFormat(header.Filename)
	if err != nil {
		return nil, err
	}
	return s.reader.Read(file, header.Filename, format)
}

func statusFor(err error) int {
	var invalidFormat *parsererror.InvalidFormatError
	switch {
	case errors.Is(err, parsererror.ErrInvalidMode),
		errors.Is(err, parsererror.ErrNoData),
		errors.Is(err, parsererror.ErrUnsupportedFormat),
		errors.As(err, &invalidFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
