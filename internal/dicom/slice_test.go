package dicom

import (
	"testing"

	"github.com/suyashkumar/dicom/pkg/tag"
)

func TestSliceAt(t *testing.T) {
	t.Run("no geometry at all", func(t *testing.T) {
		ds := parseTestFile(t, baseElements())

		info := SliceAt(ds, 0)

		if info.Index != 0 {
			t.Errorf("Index = %d", info.Index)
		}
		if info.Size != [2]int{0, 0} {
			t.Errorf("Size = %v, want [0 0]", info.Size)
		}
		if info.HasImage {
			t.Error("HasImage = true for a metadata-only file")
		}
		if info.Location != nil {
			t.Errorf("Location = %v, want nil", *info.Location)
		}
	})

	t.Run("with pixel data and location", func(t *testing.T) {
		elements := append(baseElements(),
			mustNewElement(tag.SliceLocation, []string{"42.5"}),
		)
		elements = append(elements, pixelElements(4, 3, make([]uint16, 12))...)
		ds := parseTestFile(t, elements)

		info := SliceAt(ds, 2)

		if info.Index != 2 {
			t.Errorf("Index = %d, want 2", info.Index)
		}
		// Size is [width, height], i.e. [Columns, Rows]
		if info.Size != [2]int{3, 4} {
			t.Errorf("Size = %v, want [3 4]", info.Size)
		}
		if !info.HasImage {
			t.Error("HasImage = false for a file with a native frame")
		}
		if info.Location == nil || *info.Location != 42.5 {
			t.Errorf("Location = %v, want 42.5", info.Location)
		}
	})
}

func TestPixelGrid(t *testing.T) {
	t.Run("no pixel data is a nil grid", func(t *testing.T) {
		ds := parseTestFile(t, baseElements())

		grid, err := PixelGrid(ds, 0)
		if err != nil {
			t.Fatalf("PixelGrid returned an error for a metadata-only file: %v", err)
		}
		if grid != nil {
			t.Errorf("grid = %+v, want nil", grid)
		}
	})

	t.Run("native frame round trip", func(t *testing.T) {
		samples := []uint16{0, 100, 1000, 4095, 255, 1}
		elements := append(baseElements(), pixelElements(2, 3, samples)...)
		ds := parseTestFile(t, elements)

		grid, err := PixelGrid(ds, 0)
		if err != nil {
			t.Fatalf("PixelGrid failed: %v", err)
		}
		if grid == nil {
			t.Fatal("grid is nil for a file with pixel data")
		}
		if grid.Rows != 2 || grid.Cols != 3 {
			t.Fatalf("grid is %dx%d, want 2x3", grid.Rows, grid.Cols)
		}
		for i, want := range samples {
			if grid.Data[i] != float64(want) {
				t.Errorf("Data[%d] = %v, want %d", i, grid.Data[i], want)
			}
		}
	})

	t.Run("frame index out of range", func(t *testing.T) {
		elements := append(baseElements(), pixelElements(2, 2, make([]uint16, 4))...)
		ds := parseTestFile(t, elements)

		if _, err := PixelGrid(ds, 5); err == nil {
			t.Error("PixelGrid should fail for an out-of-range frame index")
		}
		if _, err := PixelGrid(ds, -1); err == nil {
			t.Error("PixelGrid should fail for a negative frame index")
		}
	})
}
