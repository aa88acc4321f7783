package capture

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zinct/zinct/internal/extraction"
	"github.com/zinct/zinct/internal/ledger"
)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleCreateSession starts a new capture session with an empty ledger
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	slog.Info("Session created", "session_id", sess.ID)
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

// handleEndSession discards a session and its ledger
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.sessions.End(id); err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	slog.Info("Session ended", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// captureResponse is the JSON shape returned for a processed capture.
// SinkError is present when the record was appended to the ledger but
// mirroring to the sink failed.
type captureResponse struct {
	Index     int           `json:"index"`
	Record    ledger.Record `json:"record"`
	SinkError string        `json:"sink_error,omitempty"`
}

// handleCapture runs one uploaded receipt through the pipeline
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	// 50MB to handle high-resolution phone photos
	maxFormSize := int64(50 << 20)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		msg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			msg = "File is too large. Maximum size is 50MB."
		}
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file was selected. Please choose a file to upload.")
		return
	}
	defer f.Close()

	if header.Size > maxFormSize {
		writeError(w, http.StatusBadRequest, "File is too large. Maximum size is 50MB.")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	// multipart writers that don't know the type send
	// application/octet-stream; sniff the extension for those too so
	// PDFs and PNGs hit their dedicated preparation branches.
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFromExt(header.Filename)
	}

	result, err := s.service.ProcessCapture(r.Context(), sess, header.Filename, data, contentType)
	if err != nil {
		var parseErr *extraction.ParseError
		if errors.As(err, &parseErr) {
			// Preserve the raw reply so the user can diagnose and retry
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":        "Model response could not be parsed",
				"raw_response": parseErr.Raw,
			})
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	resp := captureResponse{Index: result.Index, Record: result.Record}
	if result.SinkErr != nil {
		resp.SinkError = result.SinkErr.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleListRecords returns the session's ledger in insertion order
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, sess.Ledger.All())
}

// summaryResponse carries the derived aggregates, recomputed on read.
type summaryResponse struct {
	Count      int               `json:"count"`
	Total      string            `json:"total"`
	ByCategory map[string]string `json:"by_category"`
}

// handleSummary returns count, total value and per-category totals
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	byCategory := make(map[string]string)
	for category, pence := range sess.Ledger.ByCategory() {
		byCategory[category] = ledger.Pounds(pence)
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Count:      sess.Ledger.Count(),
		Total:      ledger.Pounds(sess.Ledger.TotalPence()),
		ByCategory: byCategory,
	})
}

// handleExport streams the ledger as a CSV download
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="ledger.csv"`)
	if err := ledger.WriteCSV(w, sess.Ledger.All()); err != nil {
		slog.Error("Error writing CSV export", "session_id", sess.ID, "error", err)
	}
}

func contentTypeFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".heic", ".heif":
		return "image/heic"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
