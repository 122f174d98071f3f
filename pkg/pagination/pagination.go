package pagination

type PageRequest struct {
	BeforeCursor *string
	AfterCursor  *string
	Limit        int
}

// CursorPage is a keyset window over a newest-first list.
type CursorPage[T any] struct {
	Count           int
	Items           []T
	StartCursor     *string
	EndCursor       *string
	HasNextPage     bool
	HasPreviousPage bool
}
