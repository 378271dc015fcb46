package dicom

import (
	"fmt"
	"os"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// mustNewElement creates a DICOM element, panicking on error.
func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

// writeTestFile writes a dataset to path. VR verification is skipped so
// fixtures can carry deliberately malformed values.
func writeTestFile(t *testing.T, path string, elements []*dicom.Element) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	err = dicom.Write(f, dicom.Dataset{Elements: elements},
		dicom.SkipVRVerification(), dicom.SkipValueTypeVerification())
	if err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// baseElements returns the minimal identifying element set for a valid
// test file.
func baseElements() []*dicom.Element {
	return []*dicom.Element{
		mustNewElement(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		mustNewElement(tag.SOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.2"}),
		mustNewElement(tag.SOPInstanceUID, []string{"1.2.840.113619.2.1.1"}),
	}
}

// pixelElements returns the pixel-module elements plus a 2x3 native
// 16-bit frame with the provided samples.
func pixelElements(rows, cols int, samples []uint16) []*dicom.Element {
	nativeFrame := frame.NewNativeFrame[uint16](16, rows, cols, rows*cols, 1)
	copy(nativeFrame.RawData, samples)

	pixelDataInfo := dicom.PixelDataInfo{
		Frames: []*frame.Frame{
			{
				Encapsulated: false,
				NativeData:   nativeFrame,
			},
		},
	}

	return []*dicom.Element{
		mustNewElement(tag.Rows, []int{rows}),
		mustNewElement(tag.Columns, []int{cols}),
		mustNewElement(tag.BitsAllocated, []int{16}),
		mustNewElement(tag.BitsStored, []int{16}),
		mustNewElement(tag.HighBit, []int{15}),
		mustNewElement(tag.PixelRepresentation, []int{0}),
		mustNewElement(tag.SamplesPerPixel, []int{1}),
		mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
		mustNewElement(tag.PixelData, pixelDataInfo),
	}
}

// parseTestFile writes elements to a temp file and reads them back
// through ReadFile.
func parseTestFile(t *testing.T, elements []*dicom.Element) *Dataset {
	t.Helper()

	path := t.TempDir() + "/fixture.dcm"
	writeTestFile(t, path, elements)

	ds, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	return ds
}
