// Package pager splits search results into fixed-size pages and computes
// circular page navigation.
package pager

import (
	"errors"
	"fmt"
)

// ErrUnknownDirection is returned by Flip for anything but Left or Right.
// Buttons only ever carry those two, so this indicates a defect.
var ErrUnknownDirection = errors.New("unknown page flipping direction")

// Direction of a page flip.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
)

// Paginate splits items into consecutive pages of size items, preserving
// order. The last page may be shorter; no items yields no pages.
func Paginate[T any](items []T, size int) [][]T {
	if size <= 0 {
		panic(fmt.Sprintf("pager: page size must be positive, got %d", size))
	}
	pages := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		pages = append(pages, items[start:end:end])
	}
	return pages
}

// Flip returns the page reached from current in direction dir, wrapping from
// the first page to the last and from the last back to the first.
func Flip(dir Direction, current, total int) (int, error) {
	switch dir {
	case Left:
		if current > 1 {
			return current - 1, nil
		}
		return total, nil
	case Right:
		if current < total {
			return current + 1, nil
		}
		return 1, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, dir)
}
