package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/sheetdeck/internal/deck"
	"github.com/dgallion1/sheetdeck/internal/llm"
	"github.com/dgallion1/sheetdeck/internal/pipeline"
	"github.com/dgallion1/sheetdeck/internal/workbook"
)

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	req := pipeline.Request{
		Data:     data,
		Filename: filename,
		Audience: r.FormValue("targetAudience"),
		Format:   strings.ToLower(strings.TrimSpace(r.FormValue("format"))),
	}
	if req.Format != "" {
		if _, err := deck.ForFormat(req.Format); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if v := r.FormValue("charts"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, fmt.Sprintf("invalid charts value %q", v), http.StatusBadRequest)
			return
		}
		req.IncludeCharts = &b
	}

	res, err := s.converter.Convert(r.Context(), req)
	if err != nil {
		s.log.Warn("conversion failed", "filename", filename, "error", err)
		jsonError(w, err.Error(), errorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Document)))
	w.Header().Set("X-Conversion-ID", res.ID)
	w.WriteHeader(http.StatusOK)
	w.Write(res.Document)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	res, err := s.converter.Analyze(r.Context(), data, filename)
	if err != nil {
		jsonError(w, err.Error(), errorStatus(err))
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(res); err != nil {
		s.log.Error("encode analysis failed", "filename", filename, "error", err)
		jsonError(w, "failed to encode analysis", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

// readUpload reads the "file" part of a multipart form. On failure it has
// already written the error response.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	// Limit total request size; extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return nil, "", false
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !workbook.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %q", filepath.Ext(filename)), http.StatusUnsupportedMediaType)
		return nil, "", false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, "", false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, "", false
	}
	if len(data) == 0 {
		jsonError(w, "file is empty", http.StatusBadRequest)
		return nil, "", false
	}
	return data, filename, true
}

// errorStatus maps pipeline errors to HTTP status codes.
func errorStatus(err error) int {
	var (
		formatErr   *workbook.FormatError
		upstreamErr *llm.UpstreamError
		renderErr   *deck.RenderError
	)
	switch {
	case errors.Is(err, workbook.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &formatErr), errors.Is(err, deck.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.As(err, &upstreamErr):
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.As(err, &renderErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
