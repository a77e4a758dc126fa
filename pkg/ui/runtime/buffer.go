package runtime

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/overui/pkg/ui/backend"
	"github.com/odvcencio/overui/pkg/ui/dom"
)

// Cell is a single character cell in the buffer. The cell to the right of
// a wide rune holds rune 0.
type Cell struct {
	Rune  rune
	Style backend.Style
}

// Buffer is a grid of cells flushed to a backend. It tracks which cells
// changed since the last flush so only those are redrawn.
type Buffer struct {
	cells  []Cell
	width  int
	height int

	dirty      []bool
	dirtyCount int
	dirtyRect  dom.Rect
}

// NewBuffer creates a buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	w, h = max(w, 0), max(h, 0)
	return &Buffer{
		cells:  make([]Cell, w*h),
		dirty:  make([]bool, w*h),
		width:  w,
		height: h,
	}
}

func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Resize changes the dimensions, keeping content that still fits, and marks
// everything dirty.
func (b *Buffer) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if w == b.width && h == b.height {
		return
	}
	cells := make([]Cell, w*h)
	for y := 0; y < min(h, b.height); y++ {
		copy(cells[y*w:y*w+min(w, b.width)], b.cells[y*b.width:])
	}
	b.cells = cells
	b.dirty = make([]bool, w*h)
	b.width = w
	b.height = h
	b.MarkAllDirty()
}

// Clear fills the buffer with spaces in the default style.
func (b *Buffer) Clear() {
	style := backend.DefaultStyle()
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.Set(x, y, ' ', style)
		}
	}
}

// Get returns the cell at (x, y), or a blank cell when out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Cell{Rune: ' '}
	}
	return b.cells[y*b.width+x]
}

// Set writes r at (x, y). Out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, r rune, s backend.Style) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	idx := y*b.width + x
	if c := b.cells[idx]; c.Rune != r || c.Style != s {
		b.cells[idx] = Cell{Rune: r, Style: s}
		b.markCellDirty(x, y, idx)
	}
}

// SetString writes s starting at (x, y), clipped to the buffer. Wide runes
// take two columns. It returns the column after the last rune.
func (b *Buffer) SetString(x, y int, s string, style backend.Style) int {
	for _, r := range s {
		width := runewidth.RuneWidth(r)
		if width == 0 {
			width = 1
		}
		b.Set(x, y, r, style)
		if width == 2 {
			b.Set(x+1, y, 0, style)
		}
		x += width
	}
	return x
}

func (b *Buffer) markCellDirty(x, y, idx int) {
	if b.dirty[idx] {
		return
	}
	b.dirty[idx] = true
	b.dirtyCount++
	if b.dirtyCount == 1 {
		b.dirtyRect = dom.NewRect(x, y, 1, 1)
		return
	}
	x0, y0 := min(b.dirtyRect.X, x), min(b.dirtyRect.Y, y)
	x1 := max(b.dirtyRect.X+b.dirtyRect.Width, x+1)
	y1 := max(b.dirtyRect.Y+b.dirtyRect.Height, y+1)
	b.dirtyRect = dom.NewRect(x0, y0, x1-x0, y1-y0)
}

// MarkAllDirty forces every cell to be flushed.
func (b *Buffer) MarkAllDirty() {
	for i := range b.dirty {
		b.dirty[i] = true
	}
	b.dirtyCount = len(b.dirty)
	b.dirtyRect = dom.NewRect(0, 0, b.width, b.height)
}

// ClearDirty resets all dirty flags.
func (b *Buffer) ClearDirty() {
	clear(b.dirty)
	b.dirtyCount = 0
	b.dirtyRect = dom.ZeroRect
}

func (b *Buffer) IsDirty() bool       { return b.dirtyCount > 0 }
func (b *Buffer) DirtyCount() int     { return b.dirtyCount }
func (b *Buffer) DirtyRect() dom.Rect { return b.dirtyRect }

// ForEachDirtyCell calls fn for each dirty cell within the dirty rect.
func (b *Buffer) ForEachDirtyCell(fn func(x, y int, cell Cell)) {
	if b.dirtyCount == 0 {
		return
	}
	r := b.dirtyRect
	for y := r.Y; y < r.Y+r.Height && y < b.height; y++ {
		for x := r.X; x < r.X+r.Width && x < b.width; x++ {
			idx := y*b.width + x
			if b.dirty[idx] {
				fn(x, y, b.cells[idx])
			}
		}
	}
}
