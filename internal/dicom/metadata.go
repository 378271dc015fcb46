package dicom

import "github.com/suyashkumar/dicom/pkg/tag"

// Metadata is the display-safe attribute record extracted from a DICOM
// file. Every field is independently optional: absence means the source
// lacked the attribute or carried a malformed value, never that the
// extraction failed.
type Metadata struct {
	SOPInstanceUID    string    `json:"sop_instance_uid,omitempty"`
	SeriesInstanceUID string    `json:"series_instance_uid,omitempty"`
	StudyInstanceUID  string    `json:"study_instance_uid,omitempty"`
	Modality          Modality  `json:"modality"`
	SeriesDescription string    `json:"series_description,omitempty"`
	Rows              *int      `json:"rows,omitempty"`
	Columns           *int      `json:"columns,omitempty"`
	BitsAllocated     *int      `json:"bits_allocated,omitempty"`
	BitsStored        *int      `json:"bits_stored,omitempty"`
	SliceThickness    *float64  `json:"slice_thickness,omitempty"`
	SliceLocation     *float64  `json:"slice_location,omitempty"`
	PixelSpacing      []float64 `json:"pixel_spacing,omitempty"`
	RescaleIntercept  *float64  `json:"rescale_intercept,omitempty"`
	RescaleSlope      *float64  `json:"rescale_slope,omitempty"`
	WindowCenter      *float64  `json:"window_center,omitempty"`
	WindowWidth       *float64  `json:"window_width,omitempty"`
}

// Extract pulls the recognized attribute set out of a parsed file. Each
// field is attempted independently through the tolerant accessors, so one
// malformed attribute never aborts the rest. Extract itself cannot fail.
func Extract(ds *Dataset) Metadata {
	md := Metadata{Modality: Unknown}

	if v, ok := ds.String(tag.SOPInstanceUID); ok {
		md.SOPInstanceUID = v
	}
	if v, ok := ds.String(tag.SeriesInstanceUID); ok {
		md.SeriesInstanceUID = v
	}
	if v, ok := ds.String(tag.StudyInstanceUID); ok {
		md.StudyInstanceUID = v
	}
	if v, ok := ds.String(tag.Modality); ok {
		md.Modality = ParseModality(v)
	}
	if v, ok := ds.String(tag.SeriesDescription); ok {
		md.SeriesDescription = v
	}

	if v, ok := ds.Int(tag.Rows); ok {
		md.Rows = &v
	}
	if v, ok := ds.Int(tag.Columns); ok {
		md.Columns = &v
	}
	if v, ok := ds.Int(tag.BitsAllocated); ok {
		md.BitsAllocated = &v
	}
	if v, ok := ds.Int(tag.BitsStored); ok {
		md.BitsStored = &v
	}

	if v, ok := ds.Float(tag.SliceThickness); ok {
		md.SliceThickness = &v
	}
	if v, ok := ds.Float(tag.SliceLocation); ok {
		md.SliceLocation = &v
	}
	// Row spacing and column spacing; anything short of two values is
	// dropped whole rather than half-filled.
	if v, ok := ds.FloatList(tag.PixelSpacing, 2); ok {
		md.PixelSpacing = v
	}
	if v, ok := ds.Float(tag.RescaleIntercept); ok {
		md.RescaleIntercept = &v
	}
	if v, ok := ds.Float(tag.RescaleSlope); ok {
		md.RescaleSlope = &v
	}
	if v, ok := ds.Float(tag.WindowCenter); ok {
		md.WindowCenter = &v
	}
	if v, ok := ds.Float(tag.WindowWidth); ok {
		md.WindowWidth = &v
	}

	return md
}
