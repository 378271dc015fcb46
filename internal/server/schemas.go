package server

import (
	"time"

	"github.com/mrsinham/dicomgate/internal/dicom"
	"github.com/mrsinham/dicomgate/internal/store"
)

// HTTP contract types

type (
	HealthResponse struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
		Service   string    `json:"service"`
		Version   string    `json:"version"`
	}

	ErrorResponse struct {
		Message   string    `json:"message"`
		ErrorCode string    `json:"error_code,omitempty"`
		Timestamp time.Time `json:"timestamp"`
	}

	UploadResponse struct {
		Message    string `json:"message"`
		FileID     string `json:"file_id"`
		Format     string `json:"format"`
		Size       int64  `json:"size_bytes"`
		ValidDICOM *bool  `json:"valid_dicom,omitempty"`
	}

	FileListResponse struct {
		Files []store.Entry `json:"files"`
		Count int           `json:"count"`
	}

	FileDetailResponse struct {
		store.Entry
		// Metadata is null for non-DICOM files and for DICOM files
		// that could not be parsed.
		Metadata *dicom.Metadata `json:"metadata"`
		Message  string          `json:"message,omitempty"`
	}

	PreviewResponse struct {
		// Image is a PNG data URI, or null when the file has no
		// renderable pixel data.
		Image        *string `json:"image"`
		WindowCenter float64 `json:"window_center"`
		WindowWidth  float64 `json:"window_width"`
		Message      string  `json:"message,omitempty"`
	}

	SliceResponse struct {
		dicom.SliceInfo
		Message string `json:"message,omitempty"`
	}

	SegmentationResponse struct {
		FileID     string  `json:"file_id"`
		Status     string  `json:"status"`
		Organ      string  `json:"organ"`
		MaskVoxels int     `json:"mask_voxels"`
		Confidence float64 `json:"confidence"`
		Message    string  `json:"message"`
	}
)
