package dicom

import (
	"fmt"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/dicomgate/internal/render"
)

// SliceInfo describes a single slice of a parsed file: geometry, optional
// physical location, and whether pixel data is present. Size is
// [width, height] and defaults to [0, 0] when the dimensions are missing.
type SliceInfo struct {
	Index    int      `json:"slice_index"`
	Location *float64 `json:"slice_location"`
	Size     [2]int   `json:"image_size"`
	HasImage bool     `json:"has_image"`
}

// SliceAt derives slice information for the given index. It is pure and
// total: a file lacking every geometry attribute still yields a valid
// (zeroed) record.
func SliceAt(ds *Dataset, index int) SliceInfo {
	info := SliceInfo{
		Index:    index,
		HasImage: ds.HasPixelData(),
	}

	if cols, ok := ds.Int(tag.Columns); ok {
		info.Size[0] = cols
	}
	if rows, ok := ds.Int(tag.Rows); ok {
		info.Size[1] = rows
	}
	if loc, ok := ds.Float(tag.SliceLocation); ok {
		info.Location = &loc
	}

	return info
}

// PixelGrid extracts one frame's raw samples. A dataset without usable
// pixel data returns (nil, nil) — the explicit no-image signal, distinct
// from a decode error.
func PixelGrid(ds *Dataset, frameIndex int) (*render.Grid, error) {
	elem, err := ds.ds.FindElementByTag(tag.PixelData)
	if err != nil || elem == nil || elem.Value == nil {
		return nil, nil
	}

	info, ok := elem.Value.GetValue().(dicom.PixelDataInfo)
	if !ok || info.IntentionallySkipped || len(info.Frames) == 0 {
		return nil, nil
	}

	if frameIndex < 0 || frameIndex >= len(info.Frames) {
		return nil, fmt.Errorf("frame index %d out of range (file has %d frames)", frameIndex, len(info.Frames))
	}

	img, err := info.Frames[frameIndex].GetImage()
	if err != nil {
		return nil, fmt.Errorf("decode frame %d: %w", frameIndex, err)
	}

	grid := render.GridFromImage(img)
	return &grid, nil
}
