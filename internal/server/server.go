// Package server exposes the intake HTTP API: upload, listing, metadata,
// preview rendering and per-slice inspection.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mrsinham/dicomgate/internal/dicom"
	"github.com/mrsinham/dicomgate/internal/format"
	"github.com/mrsinham/dicomgate/internal/observability"
	"github.com/mrsinham/dicomgate/internal/render"
	"github.com/mrsinham/dicomgate/internal/store"
)

// Options carries the knobs the handlers need.
type Options struct {
	Service        string
	Version        string
	MaxUploadBytes int64
	PreviewMaxDim  int
	WindowCenter   float64
	WindowWidth    float64
}

// Server wires the store and observability into HTTP handlers.
type Server struct {
	store   *store.Store
	metrics *observability.Metrics
	logger  *observability.Logger
	opts    Options
}

// New builds a server. Zero-valued window defaults fall back to the
// standard soft-tissue window.
func New(st *store.Store, m *observability.Metrics, l *observability.Logger, opts Options) *Server {
	if opts.WindowWidth <= 0 {
		opts.WindowCenter = render.DefaultWindowCenter
		opts.WindowWidth = render.DefaultWindowWidth
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 256 << 20
	}
	return &Server{store: st, metrics: m, logger: l, opts: opts}
}

// RegisterHTTP registers REST routes on mux.
func (s *Server) RegisterHTTP(mux *http.ServeMux) {
	mux.HandleFunc("/", s.instrument("/", s.handleHealth))
	mux.HandleFunc("/health", s.instrument("/health", s.handleHealth))
	mux.HandleFunc("/upload", s.instrument("/upload", s.handleUpload))
	mux.HandleFunc("/files", s.instrument("/files", s.handleListFiles))
	mux.HandleFunc("/files/", s.instrument("/files/{id}", s.handleFilePrefix))
	mux.Handle("/metrics", s.metrics.Handler())
}

// instrument records request duration and an access log line per call.
func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r)
		elapsed := time.Since(start)
		s.metrics.RequestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())
		s.logger.RequestCompleted(r.Method, r.URL.Path, sw.status, elapsed)
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/health" {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no such route")
		return
	}
	writeJSON(w, http.StatusOK, &HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   s.opts.Service,
		Version:   s.opts.Version,
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use POST")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "multipart field \"file\" is required")
		return
	}
	defer func() { _ = file.Close() }()

	entry, err := s.store.Save(header.Filename, file)
	if err != nil {
		var unsupported *format.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			s.metrics.RecordUpload(format.FormatUnknown.String(), false)
			s.logger.UploadRejected(header.Filename, err)
			writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", unsupported.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	s.metrics.RecordUpload(entry.Format.String(), true)
	s.metrics.FilesStored.Inc()
	s.logger.UploadAccepted(entry.ID, entry.Format.String(), entry.Size)

	writeJSON(w, http.StatusOK, &UploadResponse{
		Message:    "file uploaded",
		FileID:     entry.ID,
		Format:     entry.Format.String(),
		Size:       entry.Size,
		ValidDICOM: entry.ValidDICOM,
	})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use GET")
		return
	}

	entries, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	s.metrics.FilesStored.Set(float64(len(entries)))

	writeJSON(w, http.StatusOK, &FileListResponse{Files: entries, Count: len(entries)})
}

// handleFilePrefix dispatches /files/{id}, /files/{id}/preview,
// /files/{id}/slices/{index} and /files/{id}/segment.
func (s *Server) handleFilePrefix(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/files/"), "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "missing file id")
		return
	}

	entry, err := s.store.Resolve(parts[0])
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("file %s not found", parts[0]))
		return
	}

	switch {
	case len(parts) == 1:
		s.handleFileDetail(w, r, entry)
	case len(parts) == 2 && parts[1] == "preview":
		s.handlePreview(w, r, entry)
	case len(parts) == 3 && parts[1] == "slices":
		s.handleSlice(w, r, entry, parts[2])
	case len(parts) == 2 && parts[1] == "segment":
		s.handleSegment(w, r, entry)
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no such route")
	}
}

func (s *Server) handleFileDetail(w http.ResponseWriter, r *http.Request, entry store.Entry) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use GET")
		return
	}

	resp := &FileDetailResponse{Entry: entry}

	if entry.Format == format.FormatDICOM {
		ds, err := dicom.ReadMetadata(entry.Path)
		if err != nil {
			s.metrics.RecordExtraction(observability.OutcomeNoData)
			resp.Message = "no data available"
		} else {
			md := dicom.Extract(ds)
			resp.Metadata = &md
			s.metrics.RecordExtraction(observability.OutcomeOK)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request, entry store.Entry) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use GET")
		return
	}
	if entry.Format != format.FormatDICOM {
		writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "previews are only rendered for DICOM files")
		return
	}

	ds, err := dicom.ReadFile(entry.Path)
	if err != nil {
		s.metrics.RecordPreview(observability.OutcomeNoData)
		writeJSON(w, http.StatusOK, &PreviewResponse{Image: nil, Message: "no data available"})
		return
	}

	grid, err := dicom.PixelGrid(ds, 0)
	if err != nil {
		s.metrics.RecordPreview(observability.OutcomeError)
		writeError(w, http.StatusUnprocessableEntity, "DECODE_FAILED", err.Error())
		return
	}

	center, width := s.resolveWindow(r, ds, grid)

	if grid == nil {
		s.metrics.RecordPreview(observability.OutcomeNoImage)
		writeJSON(w, http.StatusOK, &PreviewResponse{
			Image:        nil,
			WindowCenter: center,
			WindowWidth:  width,
			Message:      "file has no pixel data",
		})
		return
	}

	uri, ok := render.EncodePreview(grid, center, width, s.opts.PreviewMaxDim)
	if !ok {
		s.metrics.RecordPreview(observability.OutcomeError)
		writeJSON(w, http.StatusOK, &PreviewResponse{
			Image:        nil,
			WindowCenter: center,
			WindowWidth:  width,
			Message:      "preview encoding failed",
		})
		return
	}

	s.metrics.RecordPreview(observability.OutcomeOK)
	writeJSON(w, http.StatusOK, &PreviewResponse{
		Image:        &uri,
		WindowCenter: center,
		WindowWidth:  width,
	})
}

// resolveWindow picks the windowing parameters for a preview: explicit
// query parameters win, then window=auto, then the file's own window
// attributes, then the configured defaults.
func (s *Server) resolveWindow(r *http.Request, ds *dicom.Dataset, grid *render.Grid) (center, width float64) {
	q := r.URL.Query()

	if q.Get("window") == "auto" && grid != nil {
		return render.AutoWindow(*grid)
	}

	center, width = s.opts.WindowCenter, s.opts.WindowWidth
	if md := dicom.Extract(ds); md.WindowCenter != nil && md.WindowWidth != nil {
		center, width = *md.WindowCenter, *md.WindowWidth
	}

	if v := q.Get("center"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			center = f
		}
	}
	if v := q.Get("width"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			width = f
		}
	}
	return center, width
}

func (s *Server) handleSlice(w http.ResponseWriter, r *http.Request, entry store.Entry, rawIndex string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use GET")
		return
	}

	index, err := strconv.Atoi(rawIndex)
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", fmt.Sprintf("invalid slice index %q", rawIndex))
		return
	}

	s.metrics.SlicesTotal.Inc()

	if entry.Format != format.FormatDICOM {
		writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "slice inspection is only available for DICOM files")
		return
	}

	ds, err := dicom.ReadFile(entry.Path)
	if err != nil {
		writeJSON(w, http.StatusOK, &SliceResponse{
			SliceInfo: dicom.SliceInfo{Index: index},
			Message:   "no data available",
		})
		return
	}

	writeJSON(w, http.StatusOK, &SliceResponse{SliceInfo: dicom.SliceAt(ds, index)})
}

// handleSegment is a placeholder: it acknowledges the request with a
// canned result instead of running a real segmentation model.
func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request, entry store.Entry) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use POST")
		return
	}

	s.metrics.SegmentationsTotal.Inc()

	writeJSON(w, http.StatusOK, &SegmentationResponse{
		FileID:     entry.ID,
		Status:     "completed",
		Organ:      "liver",
		MaskVoxels: 0,
		Confidence: 0,
		Message:    "segmentation model not deployed; returning empty mask",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, &ErrorResponse{
		Message:   msg,
		ErrorCode: code,
		Timestamp: time.Now().UTC(),
	})
}
