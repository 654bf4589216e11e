package paywall

import "math"

const (
	DefaultScreenWidth  = 800
	DefaultScreenHeight = 600

	maxPopupWidth  = 800
	maxPopupHeight = 600
	screenMargin   = 32
)

// Viewport is the host screen size. Non-positive sides fall back to
// DefaultScreenWidth and DefaultScreenHeight.
type Viewport struct {
	Width  int `json:"screenWidth,omitempty"`
	Height int `json:"screenHeight,omitempty"`
}

// Geometry places a popup window in screen coordinates.
type Geometry struct {
	Width  int
	Height int
	Left   int
	Top    int
}

// Geometry returns a popup of at most 800x600 that keeps a 32px margin and is
// centered on the viewport.
func (v Viewport) Geometry() Geometry {
	sw, sh := v.Width, v.Height
	if sw <= 0 {
		sw = DefaultScreenWidth
	}
	if sh <= 0 {
		sh = DefaultScreenHeight
	}

	w := max(min(sw-screenMargin, maxPopupWidth), 1)
	h := max(min(sh-screenMargin, maxPopupHeight), 1)

	return Geometry{
		Width:  w,
		Height: h,
		Left:   center(sw, w),
		Top:    center(sh, h),
	}
}

func center(outer, inner int) int {
	return int(math.Floor(float64(outer-inner)/2 + 0.5))
}
