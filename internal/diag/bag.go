package diag

// Bag accumulates the diagnostics of one run. It only grows: there is no
// way to remove or reset entries once added.
type Bag struct {
	items []Diagnostic
}

func NewBag(capacity int) *Bag {
	if capacity < 0 {
		capacity = 0
	}
	return &Bag{items: make([]Diagnostic, 0, capacity)}
}

// Add appends a diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// HasErrors reports whether at least one diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	return b != nil && len(b.items) > 0
}

// длина
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// Items returns the read-only slice of diagnostics in emission order.
// Do not modify it: it aliases the bag's storage.
func (b *Bag) Items() []Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}

// CountByCode returns how many diagnostics carry each code.
func (b *Bag) CountByCode() map[Code]int {
	out := make(map[Code]int)
	for _, d := range b.Items() {
		out[d.Code]++
	}
	return out
}
