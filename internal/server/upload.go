package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joseph-ayodele/quotes-importer/constants"
	"github.com/joseph-ayodele/quotes-importer/internal/common"
)

// Response headers set by Upload when persisting.
const (
	HeaderImportStatus = "X-Import-Status"
	HeaderQuoteID      = "X-Quote-Id"
)

// Upload accepts a quote document in the multipart field "file" and responds
// with the assembled records. With ?persist=true the records are also
// normalized and persisted and the outcome is reported in X-Import-Status.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.logger.With("request_id", common.RequestIDFromContext(ctx))

	if r.ContentLength > s.cfg.MaxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		logger.Warn("upload without file", "error", err)
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if _, ok := constants.DocumentExtensions[ext]; !ok {
		ext = "pdf"
	}
	tmpPath, err := spool(file, ext)
	if err != nil {
		logger.Error("failed to store upload", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer func() { _ = os.Remove(tmpPath) }()

	source := header.Filename
	ctx = common.WithSource(ctx, source)
	bundle, res, err := s.importer.ParseDocument(ctx, tmpPath)
	if err != nil {
		if errors.Is(err, common.ErrDecode) {
			logger.Warn("upload not decodable", "file", source, "error", err)
			writeError(w, http.StatusUnprocessableEntity, "document could not be decoded")
			return
		}
		logger.Error("upload parse failed", "file", source, "error", err)
		writeError(w, http.StatusInternalServerError, "parse failed")
		return
	}
	logger.Info("upload parsed", "file", source, "method", res.Method, "products", len(bundle.Products))

	if persist, _ := strconv.ParseBool(r.URL.Query().Get("persist")); persist {
		result := s.importer.ImportBundle(ctx, source, bundle)
		w.Header().Set(HeaderImportStatus, string(result.Status))
		if result.QuoteID != nil {
			w.Header().Set(HeaderQuoteID, strconv.FormatInt(*result.QuoteID, 10))
		}
	}

	writeJSON(w, http.StatusOK, bundle)
}

// spool copies the upload to a temp file so the text extractor can read it by path.
func spool(src io.Reader, ext string) (string, error) {
	f, err := os.CreateTemp("", "quote-upload-*."+ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("copy upload: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
