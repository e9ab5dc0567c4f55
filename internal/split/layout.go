package split

// Rect is a pane's area in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Layout divides a width x height area among the live panes. Beside splits
// the width into columns, Below splits the height into rows. Leftover cells
// go to the leading panes, one each.
func (s *Split) Layout(width, height int) []Rect {
	return Divide(width, height, len(s.panes), s.props.Orientation)
}

// Divide divides a width x height area into n rectangles.
func Divide(width, height, n int, o Orientation) []Rect {
	if n <= 0 || width < 0 || height < 0 {
		return nil
	}
	total := width
	if o == Below {
		total = height
	}
	base, extra := total/n, total%n

	rects := make([]Rect, n)
	offset := 0
	for i := range rects {
		size := base
		if i < extra {
			size++
		}
		if o == Below {
			rects[i] = Rect{X: 0, Y: offset, Width: width, Height: size}
		} else {
			rects[i] = Rect{X: offset, Y: 0, Width: size, Height: height}
		}
		offset += size
	}
	return rects
}
