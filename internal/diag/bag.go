package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag collects diagnostics up to a fixed maximum.
type Bag struct {
	items []*Diagnostic
	max   uint16
}

func NewBag(maxItems int) *Bag {
	limit, err := safecast.Conv[uint16](maxItems)
	if err != nil {
		limit = ^uint16(0)
	}
	return &Bag{
		items: make([]*Diagnostic, 0, min(int(limit), 64)),
		max:   limit,
	}
}

// Add stores d unless the limit is reached; it reports whether d was kept.
func (b *Bag) Add(d *Diagnostic) bool {
	if d == nil || len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic is a warning or worse.
func (b *Bag) HasWarnings() bool {
	for _, d := range b.items {
		if d.Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the internal slice; callers must not modify it.
func (b *Bag) Items() []*Diagnostic {
	return b.items
}

// Merge appends other's diagnostics, growing the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if newTotal > int(b.max) {
		if limit, err := safecast.Conv[uint16](newTotal); err == nil {
			b.max = limit
		} else {
			b.max = ^uint16(0)
		}
	}
	for _, d := range other.items {
		b.Add(d)
	}
}

// Sort orders diagnostics by file, start, end, severity (desc) and code.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops repeated diagnostics with the same code and primary span.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	kept := make([]*Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.ID(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, d)
	}
	b.items = kept
}
