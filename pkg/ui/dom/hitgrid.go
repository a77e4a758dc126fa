package dom

// HitGrid maps screen cells to elements for pointer hit testing.
type HitGrid struct {
	width    int
	height   int
	cells    []int
	elements []*Element
}

// NewHitGrid creates a new hit grid with the given dimensions.
func NewHitGrid(width, height int) *HitGrid {
	grid := &HitGrid{}
	grid.Resize(width, height)
	return grid
}

// Size returns the grid dimensions.
func (g *HitGrid) Size() (int, int) {
	return g.width, g.height
}

// Resize updates the hit grid dimensions.
func (g *HitGrid) Resize(width, height int) {
	if width == g.width && height == g.height {
		return
	}
	g.width = width
	g.height = height
	size := width * height
	if size <= 0 {
		g.cells = nil
		g.elements = nil
		return
	}
	g.cells = make([]int, size)
	g.Clear()
}

// Clear resets the grid contents.
func (g *HitGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = -1
	}
	g.elements = g.elements[:0]
}

// Add records an element occupying its bounds. Later additions win.
func (g *HitGrid) Add(el *Element) {
	if el == nil || g.width <= 0 || g.height <= 0 {
		return
	}
	bounds := el.Bounds.Intersection(Rect{Width: g.width, Height: g.height})
	if bounds.Empty() {
		return
	}

	id := len(g.elements)
	g.elements = append(g.elements, el)

	for y := bounds.Y; y < bounds.Y+bounds.Height; y++ {
		row := y * g.width
		for x := bounds.X; x < bounds.X+bounds.Width; x++ {
			g.cells[row+x] = id
		}
	}
}

// ElementAt returns the element at the given screen position.
func (g *HitGrid) ElementAt(x, y int) *Element {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return nil
	}
	idx := g.cells[y*g.width+x]
	if idx < 0 || idx >= len(g.elements) {
		return nil
	}
	return g.elements[idx]
}
