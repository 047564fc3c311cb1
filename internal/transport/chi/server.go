// Package chi exposes the profiling service over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tabprep/internal/domain"
	"github.com/kailas-cloud/tabprep/internal/domain/colspec"
	"github.com/kailas-cloud/tabprep/internal/domain/frame"
	"github.com/kailas-cloud/tabprep/internal/ingest"
	healthuc "github.com/kailas-cloud/tabprep/internal/usecase/health"
	profileuc "github.com/kailas-cloud/tabprep/internal/usecase/profile"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest       = "bad_request"
	codeUnauthorized     = "unauthorized"
	codeNotFound         = "not_found"
	codeValidationFailed = "validation_failed"
	codeInternal         = "internal_error"
)

// Server handles the tabprep HTTP API.
type Server struct {
	profiles *profileuc.Service
	health   *healthuc.Service
	dataDir  string
	logger   *zap.Logger
}

// NewServer creates an HTTP API server. dataDir is the root under which
// dataset files named in profile requests are resolved.
func NewServer(profiles *profileuc.Service, health *healthuc.Service, dataDir string, logger *zap.Logger) *Server {
	return &Server{profiles: profiles, health: health, dataDir: dataDir, logger: logger}
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/specs/validate", s.handleValidateSpec)
	r.Post("/v1/datasets/{dataset}/profile", s.handleProfile)
	r.Get("/v1/datasets/{dataset}/report", s.handleGetReport)
	r.Delete("/v1/datasets/{dataset}/report", s.handleDeleteReport)
	r.Get("/v1/datasets", s.handleListDatasets)
	r.Get("/health", s.handleHealth)
}

type validateSpecRequest struct {
	Columns []colspec.Column `json:"columns"`
}

type validateSpecResponse struct {
	Valid bool `json:"valid"`
}

func (s *Server) handleValidateSpec(w http.ResponseWriter, r *http.Request) {
	var req validateSpecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	if err := s.profiles.ValidateColumns(r.Context(), req.Columns); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidationFailed, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, validateSpecResponse{Valid: true})
}

type profileRequest struct {
	// File is the dataset file name, resolved under the configured data dir.
	File string `json:"file"`
	// Format is "parquet" (default) or "csv". CSV requires Columns.
	Format  string           `json:"format,omitempty"`
	Columns []colspec.Column `json:"columns,omitempty"`
	// SkipHeader drops the first CSV record.
	SkipHeader bool `json:"skip_header,omitempty"`

	NullThreshold   float64  `json:"null_threshold,omitempty"`
	CorrThreshold   float64  `json:"corr_threshold,omitempty"`
	Check           []string `json:"check,omitempty"`
	Exclude         []string `json:"exclude,omitempty"`
	CountNaNAsValue bool     `json:"count_nan_as_value,omitempty"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	dataset := chi.URLParam(r, "dataset")

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	path, err := s.resolveDataFile(req.File)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	fm, err := loadMatrix(path, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	rep, err := s.profiles.Profile(r.Context(), dataset, fm, profileuc.Options{
		NullThreshold:   req.NullThreshold,
		CorrThreshold:   req.CorrThreshold,
		Check:           req.Check,
		Exclude:         req.Exclude,
		CountNaNAsValue: req.CountNaNAsValue,
	})
	if err != nil {
		s.writeDomainError(w, err, "profile dataset")
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// loadMatrix materializes the feature matrix named in a profile request.
func loadMatrix(path string, req *profileRequest) (*frame.Frame, error) {
	switch strings.ToLower(req.Format) {
	case "", "parquet":
		return ingest.ReadParquet(path)
	case "csv":
		if len(req.Columns) == 0 {
			return nil, fmt.Errorf("csv ingestion requires a column spec")
		}
		spec := colspec.New(req.Columns)
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("column spec: %w", err)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
		}
		defer func() { _ = f.Close() }()
		return ingest.ReadCSV(f, spec, ingest.Options{SkipHeader: req.SkipHeader})
	default:
		return nil, fmt.Errorf("unknown format %q", req.Format)
	}
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	dataset := chi.URLParam(r, "dataset")

	rep, err := s.profiles.Report(r.Context(), dataset)
	if err != nil {
		s.writeDomainError(w, err, "get report")
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	dataset := chi.URLParam(r, "dataset")

	if err := s.profiles.Forget(r.Context(), dataset); err != nil {
		s.writeDomainError(w, err, "delete report")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type listDatasetsResponse struct {
	Datasets []string `json:"datasets"`
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	names, err := s.profiles.Datasets(r.Context())
	if err != nil {
		s.writeDomainError(w, err, "list datasets")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, listDatasetsResponse{Datasets: names})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	rep := s.health.Check(r.Context())

	checks := make(map[string]string, len(rep.Checks))
	for name, res := range rep.Checks {
		checks[name] = string(res)
	}

	status := http.StatusOK
	if rep.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(rep.Status), Checks: checks})
}

// resolveDataFile joins the requested file with the data dir and rejects
// traversal outside it.
func (s *Server) resolveDataFile(file string) (string, error) {
	if file == "" {
		return "", fmt.Errorf("file is required")
	}
	path := filepath.Join(s.dataDir, filepath.Clean("/"+file))
	if !strings.HasPrefix(path, filepath.Clean(s.dataDir)+string(filepath.Separator)) {
		return "", fmt.Errorf("file %q escapes data dir", file)
	}
	return path, nil
}

// writeDomainError maps domain errors to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidSpec):
		writeError(w, http.StatusUnprocessableEntity, codeValidationFailed, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
	default:
		s.logger.Error(msg, zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
