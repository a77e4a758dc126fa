package dom

// Display mirrors the CSS display property. Only "none" is meaningful to
// the engines; everything else counts as rendered.
type Display string

const (
	DisplayDefault Display = ""
	DisplayBlock   Display = "block"
	DisplayNone    Display = "none"
)

// Visibility mirrors the CSS visibility property.
type Visibility string

const (
	VisibilityInherit Visibility = ""
	VisibilityVisible Visibility = "visible"
	VisibilityHidden  Visibility = "hidden"
)

// Style holds the declared style of an element.
type Style struct {
	Display    Display
	Visibility Visibility
}

// ComputedStyle resolves the style the way getComputedStyle does for the two
// properties we model: display is not inherited, visibility is.
func ComputedStyle(el *Element) Style {
	if el == nil {
		return Style{}
	}
	computed := Style{Display: el.Style.Display, Visibility: VisibilityVisible}
	for n := el; n != nil; n = n.parent {
		if n.Style.Visibility != VisibilityInherit {
			computed.Visibility = n.Style.Visibility
			break
		}
	}
	return computed
}

// Rendered reports whether el takes part in layout: it is not hidden, and
// neither it nor any ancestor is display:none or visibility:hidden.
func (el *Element) Rendered() bool {
	if el == nil {
		return false
	}
	if ComputedStyle(el).Visibility == VisibilityHidden {
		return false
	}
	for n := el; n != nil; n = n.parent {
		if n.Hidden || n.Style.Display == DisplayNone {
			return false
		}
	}
	return true
}
