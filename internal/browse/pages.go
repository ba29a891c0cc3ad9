package browse

// ControlKind distinguishes the prev/next arrows from numbered page buttons.
type ControlKind int

const (
	ControlPrev ControlKind = iota
	ControlPage
	ControlNext
)

// PageControl is one element of the pagination bar.
type PageControl struct {
	Kind   ControlKind
	Page   int
	Active bool
}

// PageControls produces the pagination bar model for the last rendered result:
// a numbered control for every page with the current page marked active,
// Prev omitted on the first page and Next omitted on the last.
//
// When totalPages <= 1 the entire control region is suppressed (nil), not
// merely the arrows: a lone page-1 button is meaningless.
func (b *Browser) PageControls() []PageControl {
	if !b.hasResult || b.result.TotalPages <= 1 {
		return nil
	}
	current := b.result.CurrentPage
	total := b.result.TotalPages

	controls := make([]PageControl, 0, total+2)
	if current > 1 {
		controls = append(controls, PageControl{Kind: ControlPrev, Page: current - 1})
	}
	for i := 1; i <= total; i++ {
		controls = append(controls, PageControl{Kind: ControlPage, Page: i, Active: i == current})
	}
	if current < total {
		controls = append(controls, PageControl{Kind: ControlNext, Page: current + 1})
	}
	return controls
}
