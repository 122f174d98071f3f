package pagination

import (
	"context"
	"fmt"
	"strconv"
)

const DefaultPerPage = 10

// Sequence is a finite ordered collection that can be re-queried.
// Every call observes the state of the store at query time.
type Sequence[T any] interface {
	Count(ctx context.Context) (int, error)
	Slice(ctx context.Context, offset, limit int) ([]T, error)
}

// Page is one numbered window of a Sequence.
type Page[T any] struct {
	Items           []T
	Number          int
	NumPages        int
	Count           int
	HasNextPage     bool
	HasPreviousPage bool
}

// NumPages never returns less than 1: an empty sequence still has one empty page.
func NumPages(count, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 1
	}
	return (count + perPage - 1) / perPage
}

// ParsePageNumber maps anything that is not an integer to the first page.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}

// GetPage returns page number of seq. Any out of range number, zero and
// negatives included, yields the last page instead of failing.
func GetPage[T any](ctx context.Context, seq Sequence[T], perPage, number int) (Page[T], error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	count, err := seq.Count(ctx)
	if err != nil {
		return Page[T]{}, fmt.Errorf("count: %w", err)
	}

	numPages := NumPages(count, perPage)
	if number < 1 || number > numPages {
		number = numPages
	}

	page := Page[T]{
		Number:          number,
		NumPages:        numPages,
		Count:           count,
		HasNextPage:     number < numPages,
		HasPreviousPage: number > 1,
	}
	if count == 0 {
		return page, nil
	}

	items, err := seq.Slice(ctx, (number-1)*perPage, perPage)
	if err != nil {
		return Page[T]{}, fmt.Errorf("slice: %w", err)
	}
	page.Items = items
	return page, nil
}

// SliceSequence adapts an already materialized slice.
type SliceSequence[T any] []T

func (s SliceSequence[T]) Count(context.Context) (int, error) {
	return len(s), nil
}

func (s SliceSequence[T]) Slice(_ context.Context, offset, limit int) ([]T, error) {
	if offset >= len(s) {
		return nil, nil
	}
	end := min(offset+limit, len(s))
	return s[offset:end], nil
}
