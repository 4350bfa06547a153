package types

import "image"

// Model describes segmentation weights discovered on disk.
type Model struct {
	// Stable identifier for the weights file (file name including extension).
	// example: bodypix-mobilenetv1-075-stride16.onnx
	ID string `json:"id" example:"bodypix-mobilenetv1-075-stride16.onnx"`
	// Absolute path to the weights file.
	// example: /home/user/models/segmentation/bodypix-mobilenetv1-075-stride16.onnx
	Path string `json:"path" example:"/home/user/models/segmentation/bodypix-mobilenetv1-075-stride16.onnx"`
	// Size of the weights file in bytes.
	// example: 5242880
	SizeBytes int64 `json:"size_bytes" example:"5242880"`
}

// ImageAsset is a fully decoded raster. The pixel buffer is never mutated
// once decoding has finished; bounds always start at the origin.
type ImageAsset struct {
	// Name is the original upload file name.
	Name string
	// Format is the decoder that accepted the bytes (png, jpeg, webp, ...).
	Format string
	Image  *image.NRGBA
}

// Width returns the asset width in pixels.
func (a ImageAsset) Width() int {
	if a.Image == nil {
		return 0
	}
	return a.Image.Rect.Dx()
}

// Height returns the asset height in pixels.
func (a ImageAsset) Height() int {
	if a.Image == nil {
		return 0
	}
	return a.Image.Rect.Dy()
}

// Mask is a row-major visibility grid: Bits[y*Width+x] is true for subject
// pixels and false for background.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask allocates an all-background mask of the given size.
func NewMask(w, h int) Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Mask{Width: w, Height: h, Bits: make([]bool, w*h)}
}

// At reports whether pixel (x, y) belongs to the subject.
func (m Mask) At(x, y int) bool { return m.Bits[y*m.Width+x] }

// Count returns the number of subject pixels.
func (m Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Matches reports whether the mask covers exactly the asset's pixels.
func (m Mask) Matches(a ImageAsset) bool {
	return m.Width == a.Width() && m.Height == a.Height() && len(m.Bits) == m.Width*m.Height
}
