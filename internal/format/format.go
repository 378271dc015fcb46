// Package format classifies uploaded files by filename extension.
package format

import (
	"fmt"
	"strings"
)

// Format represents the detected imaging file format.
type Format int

const (
	// FormatUnknown represents an unrecognized format.
	FormatUnknown Format = iota
	// FormatDICOM represents DICOM files.
	FormatDICOM
	// FormatNIfTI represents uncompressed NIfTI volumes.
	FormatNIfTI
	// FormatNIfTIGZ represents gzip-compressed NIfTI volumes.
	FormatNIfTIGZ
)

// String returns the canonical name of the format.
func (f Format) String() string {
	switch f {
	case FormatDICOM:
		return "DICOM"
	case FormatNIfTI:
		return "NIFTI"
	case FormatNIfTIGZ:
		return "NIFTI_GZ"
	default:
		return "UNKNOWN"
	}
}

// Extensions returns the recognized file extensions for this format.
// The first entry is the canonical extension used for stored files.
func (f Format) Extensions() []string {
	switch f {
	case FormatDICOM:
		return []string{".dcm", ".dicom"}
	case FormatNIfTI:
		return []string{".nii"}
	case FormatNIfTIGZ:
		return []string{".nii.gz"}
	default:
		return nil
	}
}

// All returns every supported format.
func All() []Format {
	return []Format{FormatDICOM, FormatNIfTI, FormatNIfTIGZ}
}

// UnsupportedFormatError is returned when a filename carries an extension
// the service does not handle.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// Detect classifies a file by its name alone. The suffix match is
// case-insensitive, and .nii.gz is checked before .nii so the compressed
// variant is never misread as plain NIfTI. An unrecognized suffix is an
// error, never a default.
func Detect(filename string) (Format, error) {
	lower := strings.ToLower(filename)

	switch {
	case strings.HasSuffix(lower, ".nii.gz"):
		return FormatNIfTIGZ, nil
	case strings.HasSuffix(lower, ".nii"):
		return FormatNIfTI, nil
	case strings.HasSuffix(lower, ".dcm"), strings.HasSuffix(lower, ".dicom"):
		return FormatDICOM, nil
	}

	return FormatUnknown, &UnsupportedFormatError{
		Path:   filename,
		Reason: fmt.Sprintf("expected one of %s", strings.Join(allExtensions(), ", ")),
	}
}

func allExtensions() []string {
	var exts []string
	for _, f := range All() {
		exts = append(exts, f.Extensions()...)
	}
	return exts
}

// MarshalText encodes the format name for JSON responses.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes a format name produced by MarshalText.
func (f *Format) UnmarshalText(text []byte) error {
	switch string(text) {
	case "DICOM":
		*f = FormatDICOM
	case "NIFTI":
		*f = FormatNIfTI
	case "NIFTI_GZ":
		*f = FormatNIfTIGZ
	case "UNKNOWN":
		*f = FormatUnknown
	default:
		return fmt.Errorf("unknown format %q", text)
	}
	return nil
}
