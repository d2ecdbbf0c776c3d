package repository

import "errors"

// ErrNotFound is returned by all repositories when a lookup misses,
// regardless of backend. Services translate it into a domain error naming
// the id.
var ErrNotFound = errors.New("entity not found")

// Page bounds a list query. Zero values fall back to the first page of 20.
type Page struct {
	Number int
	Size   int
}

// Normalize returns the effective page number and size.
func (p Page) Normalize() (int, int) {
	number := p.Number
	if number <= 0 {
		number = 1
	}
	size := p.Size
	if size <= 0 {
		size = 20
	}
	return number, size
}

// Slice applies the page bounds to a total item count, returning the
// half-open [from, to) window.
func (p Page) Slice(total int) (int, int) {
	number, size := p.Normalize()
	from := (number - 1) * size
	if from > total {
		from = total
	}
	to := from + size
	if to > total {
		to = total
	}
	return from, to
}
