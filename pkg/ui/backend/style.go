package backend

// Color is a palette index (0-255), a true color, or ColorDefault.
type Color int32

const (
	ColorDefault Color = -1
	ColorBlack   Color = 0
	ColorRed     Color = 1
	ColorGreen   Color = 2
	ColorYellow  Color = 3
	ColorBlue    Color = 4
	ColorMagenta Color = 5
	ColorCyan    Color = 6
	ColorWhite   Color = 7

	ColorBrightBlack Color = 8
)

const rgbFlag = 0x01000000

// ColorRGB creates a true color.
func ColorRGB(r, g, b uint8) Color {
	return Color(int32(r)<<16 | int32(g)<<8 | int32(b) | rgbFlag)
}

// IsRGB reports whether c is a true color.
func (c Color) IsRGB() bool { return c&rgbFlag != 0 }

// RGB returns the components of a true color, or zeros for palette colors.
func (c Color) RGB() (r, g, b uint8) {
	if !c.IsRGB() {
		return 0, 0, 0
	}
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// AttrMask is a set of text attributes.
type AttrMask uint32

const (
	AttrBold AttrMask = 1 << iota
	AttrReverse
	AttrUnderline
	AttrDim
)

// Style combines colors and attributes. The zero value is not the default
// style; use DefaultStyle.
type Style struct {
	fg    Color
	bg    Color
	attrs AttrMask
}

// DefaultStyle uses the terminal's colors and no attributes.
func DefaultStyle() Style {
	return Style{fg: ColorDefault, bg: ColorDefault}
}

func (s Style) Foreground(c Color) Style { s.fg = c; return s }
func (s Style) Background(c Color) Style { s.bg = c; return s }

func (s Style) Bold(on bool) Style      { return s.with(AttrBold, on) }
func (s Style) Reverse(on bool) Style   { return s.with(AttrReverse, on) }
func (s Style) Underline(on bool) Style { return s.with(AttrUnderline, on) }
func (s Style) Dim(on bool) Style       { return s.with(AttrDim, on) }

func (s Style) with(a AttrMask, on bool) Style {
	if on {
		s.attrs |= a
	} else {
		s.attrs &^= a
	}
	return s
}

// Decompose returns the foreground, background and attributes.
func (s Style) Decompose() (fg, bg Color, attrs AttrMask) {
	return s.fg, s.bg, s.attrs
}
