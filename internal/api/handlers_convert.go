package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/inkwelldocs/md2docx/internal/branding"
	"github.com/inkwelldocs/md2docx/internal/markdown"
	"github.com/inkwelldocs/md2docx/internal/metrics"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type convertRequest struct {
	Markdown string          `json:"markdown"`
	Branding json.RawMessage `json:"branding,omitempty"`
	Filename string          `json:"filename,omitempty"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	// Limit total request size; branding and JSON overhead get an extra MB.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxMarkdownBytes+1024*1024)

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Markdown == "" {
		jsonError(w, "markdown is required", http.StatusBadRequest)
		return
	}
	if int64(len(req.Markdown)) > s.cfg.MaxMarkdownBytes {
		jsonError(w, fmt.Sprintf("markdown exceeds max size (%d bytes)", s.cfg.MaxMarkdownBytes), http.StatusRequestEntityTooLarge)
		return
	}

	s.convert(r.Context(), w, []byte(req.Markdown), req.Branding, req.Filename)
}

func (s *Server) handleConvertFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxMarkdownBytes+2*1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	md, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxMarkdownBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(md)) > s.cfg.MaxMarkdownBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxMarkdownBytes), http.StatusRequestEntityTooLarge)
		return
	}

	var overrides []byte
	if bf, _, err := r.FormFile("branding"); err == nil {
		defer bf.Close()
		overrides, err = io.ReadAll(io.LimitReader(bf, 1024*1024))
		if err != nil {
			jsonError(w, "failed to read branding", http.StatusInternalServerError)
			return
		}
	} else if v := r.FormValue("branding"); v != "" {
		overrides = []byte(v)
	}

	filename := r.FormValue("filename")
	if filename == "" {
		filename = header.Filename
	}
	s.convert(r.Context(), w, md, overrides, filename)
}

// convert runs the full pipeline and writes either the document attachment
// or a JSON error. Degraded content is reported via a response header so
// the caller still gets a document.
func (s *Server) convert(ctx context.Context, w http.ResponseWriter, md, overrides []byte, filename string) {
	start := time.Now()

	cfg := s.defaults
	if len(overrides) > 0 {
		over, err := branding.Load(overrides)
		if err != nil {
			var ve *branding.ValidationError
			if errors.As(err, &ve) {
				jsonFieldError(w, ve.Reason, ve.Field, http.StatusBadRequest)
				return
			}
			jsonError(w, "invalid branding: "+err.Error(), http.StatusBadRequest)
			return
		}
		cfg = branding.Merge(s.defaults, over)
	}

	root := markdown.Parse(md)
	doc, warnings, err := s.gen.Generate(ctx, root, cfg)
	if err != nil {
		s.rec.ObserveConversion(metrics.OutcomeError, time.Since(start))
		s.log.Error("conversion failed", "error", err)
		jsonError(w, "conversion failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	data, err := doc.Bytes()
	if err != nil {
		s.rec.ObserveConversion(metrics.OutcomeError, time.Since(start))
		s.log.Error("packaging failed", "error", err)
		jsonError(w, "packaging failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	outcome := metrics.OutcomeOK
	if len(warnings) > 0 {
		outcome = metrics.OutcomeDegraded
		w.Header().Set("X-Conversion-Warnings", strings.Join(warnings, "; "))
	}
	s.rec.ObserveConversion(outcome, time.Since(start))

	w.Header().Set("Content-Type", docxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachmentName(filename)))
	w.Write(data)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxMarkdownBytes+1024)
	md, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read body", http.StatusRequestEntityTooLarge)
		return
	}
	root := markdown.Parse(md)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"ast": root.Dump()})
}

func (s *Server) handleBrandingSample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(branding.SampleJSON))
}

// attachmentName sanitizes a caller-supplied filename and forces the
// document extension.
func attachmentName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." {
		name = "document"
	}
	return name + ".docx"
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func jsonFieldError(w http.ResponseWriter, msg, field string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "field": field})
}
