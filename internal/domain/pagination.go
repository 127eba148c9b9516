package domain

// DefaultLimit is the default page size when none is specified.
const DefaultLimit = 100

// MaxLimit is the maximum allowed page size.
const MaxLimit = 1000

// PageRequest holds offset pagination parameters for list operations.
type PageRequest struct {
	Skip  int
	Limit int
}

// Offset returns the effective offset, clamped to non-negative.
func (p PageRequest) Offset() int {
	if p.Skip < 0 {
		return 0
	}
	return p.Skip
}

// Size returns the effective page size, clamped to [1, MaxLimit].
func (p PageRequest) Size() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	if p.Limit > MaxLimit {
		return MaxLimit
	}
	return p.Limit
}
