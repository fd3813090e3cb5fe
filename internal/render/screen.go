package render

// A4 page dimensions in CSS pixels at 96 DPI. Both backends draw on
// this canvas; screen mode scales it, print mode emits it as-is.
const (
	BaseWidth  = 794
	BaseHeight = 1122
)

// Canvas is the screen backend's output: the layout tree plus the
// scaled page box the client should draw it in. Scaling fits the page
// into the container without reflowing the internal layout.
type Canvas struct {
	Tree   *Tree
	Scale  float64
	Width  int
	Height int
}

// Screen sizes the page for a container of the given width. A
// non-positive width means no container constraint and yields scale 1.
func Screen(tree *Tree, containerWidth int) Canvas {
	scale := 1.0
	if containerWidth > 0 {
		scale = float64(containerWidth) / float64(BaseWidth)
	}
	return Canvas{
		Tree:   tree,
		Scale:  scale,
		Width:  int(float64(BaseWidth)*scale + 0.5),
		Height: int(float64(BaseHeight)*scale + 0.5),
	}
}
