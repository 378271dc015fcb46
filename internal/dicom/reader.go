// Package dicom reads DICOM files and extracts display-safe metadata,
// per-slice information and raw pixel frames. All accessors are tolerant:
// a missing or malformed attribute yields an absent value, never a panic
// or an error that aborts the surrounding extraction.
package dicom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Dataset wraps a parsed DICOM dataset behind a bounded set of typed
// accessors. Every accessor reports presence with a bool instead of
// erroring, so callers compose per-field lookups without scattered
// failure handling.
type Dataset struct {
	ds   dicom.Dataset
	path string
}

// Wrap adapts an already-parsed dataset, mainly for tests.
func Wrap(ds dicom.Dataset) *Dataset {
	return &Dataset{ds: ds}
}

// Path returns the file path the dataset was read from, if any.
func (d *Dataset) Path() string {
	return d.path
}

// ReadFile parses a DICOM file including pixel data. Parse failures are
// logged once and returned; callers treat them as "no data available".
func ReadFile(path string) (*Dataset, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("dicom parse failed")
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &Dataset{ds: ds, path: path}, nil
}

// ReadMetadata parses a DICOM file skipping pixel data, which keeps
// metadata-only requests cheap on large series.
func ReadMetadata(path string) (*Dataset, error) {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("dicom metadata parse failed")
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &Dataset{ds: ds, path: path}, nil
}

// Has reports whether the dataset carries an element for the tag.
func (d *Dataset) Has(t tag.Tag) bool {
	elem, err := d.ds.FindElementByTag(t)
	return err == nil && elem != nil
}

// String returns the first string value for a tag, trimmed of the space
// padding DICOM writers add to odd-length values.
func (d *Dataset) String(t tag.Tag) (string, bool) {
	elem, err := d.ds.FindElementByTag(t)
	if err != nil || elem == nil || elem.Value == nil {
		return "", false
	}

	switch v := elem.Value.GetValue().(type) {
	case []string:
		if len(v) > 0 {
			s := strings.TrimSpace(v[0])
			if s != "" {
				return s, true
			}
		}
	case string:
		s := strings.TrimSpace(v)
		if s != "" {
			return s, true
		}
	}
	return "", false
}

// Int returns the first integer value for a tag. Integer String (IS)
// elements arrive as strings and are parsed; a malformed value is treated
// as absent.
func (d *Dataset) Int(t tag.Tag) (int, bool) {
	elem, err := d.ds.FindElementByTag(t)
	if err != nil || elem == nil || elem.Value == nil {
		return 0, false
	}

	switch v := elem.Value.GetValue().(type) {
	case []int:
		if len(v) > 0 {
			return v[0], true
		}
	case []string:
		if len(v) > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(v[0])); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// Float returns the first float value for a tag. Multi-valued elements
// (window center/width may carry several values) yield their first entry.
func (d *Dataset) Float(t tag.Tag) (float64, bool) {
	vals, ok := d.FloatList(t, 1)
	if !ok {
		return 0, false
	}
	return vals[0], true
}

// FloatList returns the first n float values for a tag. It fails when the
// element is missing, holds fewer than n values, or any of the first n
// values does not parse as a number.
func (d *Dataset) FloatList(t tag.Tag, n int) ([]float64, bool) {
	elem, err := d.ds.FindElementByTag(t)
	if err != nil || elem == nil || elem.Value == nil {
		return nil, false
	}

	var vals []float64
	switch v := elem.Value.GetValue().(type) {
	case []float64:
		vals = v
	case []int:
		vals = make([]float64, len(v))
		for i, x := range v {
			vals[i] = float64(x)
		}
	case []string:
		vals = make([]float64, 0, len(v))
		for _, s := range v {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				break
			}
			vals = append(vals, f)
		}
	}

	if len(vals) < n {
		return nil, false
	}
	return vals[:n], true
}

// HasPixelData reports whether the dataset carries at least one decodable
// pixel frame.
func (d *Dataset) HasPixelData() bool {
	elem, err := d.ds.FindElementByTag(tag.PixelData)
	if err != nil || elem == nil || elem.Value == nil {
		return false
	}
	info, ok := elem.Value.GetValue().(dicom.PixelDataInfo)
	if !ok || info.IntentionallySkipped {
		return false
	}
	return len(info.Frames) > 0
}

// LooksLikeDICOM reports whether the file at path is a usable DICOM file:
// a recognized extension, a parseable dataset, and both mandatory
// identifying UIDs present. It never returns an error; anything that goes
// wrong means "not a DICOM file".
func LooksLikeDICOM(path string) bool {
	lower := strings.ToLower(path)
	if !strings.HasSuffix(lower, ".dcm") && !strings.HasSuffix(lower, ".dicom") {
		return false
	}

	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return false
	}

	wrapped := &Dataset{ds: ds, path: path}
	return wrapped.Has(tag.SOPClassUID) && wrapped.Has(tag.SOPInstanceUID)
}
