package dicom

import "strings"

// Modality represents the imaging technique that produced a file.
type Modality string

const (
	CT      Modality = "CT" // Computed Tomography
	MR      Modality = "MR" // Magnetic Resonance
	XR      Modality = "XR" // X-Ray
	Unknown Modality = "UNKNOWN"
)

// KnownModalities returns the modalities the service recognizes.
func KnownModalities() []Modality {
	return []Modality{CT, MR, XR}
}

// ParseModality maps a raw modality string to the enum. Matching is
// case-insensitive; anything unrecognized (or empty) maps to Unknown.
func ParseModality(s string) Modality {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, m := range KnownModalities() {
		if string(m) == upper {
			return m
		}
	}
	return Unknown
}
