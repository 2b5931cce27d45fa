package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ignite/search-attribution/internal/etl"
	"github.com/ignite/search-attribution/internal/hitdata"
	"github.com/ignite/search-attribution/internal/pkg/logger"
)

// Handlers holds the HTTP handlers for the attribution API.
type Handlers struct {
	job       *etl.Job
	startTime time.Time
}

// NewHandlers creates handlers around the given job.
func NewHandlers(job *etl.Job) *Handlers {
	return &Handlers{job: job, startTime: time.Now()}
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// CreateReport runs attribution over a TSV request body. The default response is the
// JSON run result including the rendered report; clients that accept
// text/tab-separated-values get the raw report instead.
func (h *Handlers) CreateReport(w http.ResponseWriter, r *http.Request) {
	src, err := hitdata.NewReader(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.job.RunSource(src)
	if err != nil {
		// The only analyzer failure on an in-memory body is a schema violation.
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/tab-separated-values") {
		w.Header().Set("Content-Type", "text/tab-separated-values")
		w.Header().Set("X-Run-Id", res.RunID)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(res.Report)); err != nil {
			logger.Error("writing report response", "error", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, res)
}

type s3RunRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// TriggerS3Run runs attribution over an S3 object, the HTTP equivalent of the
// bucket-notification trigger.
func (h *Handlers) TriggerS3Run(w http.ResponseWriter, r *http.Request) {
	var req s3RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Bucket == "" || req.Key == "" {
		respondError(w, http.StatusBadRequest, "bucket and key are required")
		return
	}

	res, err := h.job.RunS3(r.Context(), req.Bucket, req.Key)
	if err != nil {
		logger.Error("S3 run failed", "bucket", req.Bucket, "key", req.Key, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Inline reports are not returned for S3 runs; the report lives in the bucket.
	res.Report = ""
	respondJSON(w, http.StatusOK, res)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
