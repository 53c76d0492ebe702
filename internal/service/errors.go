package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials indicates malformed or mismatched login input.
	ErrInvalidCredentials = errors.New("email or password do not match")
	// ErrCredentialsShape is the malformed-input case of
	// ErrInvalidCredentials: missing fields or a non-email login. It
	// wraps ErrInvalidCredentials so errors.Is still matches, while the
	// HTTP boundary can map it to 400 instead of 401.
	ErrCredentialsShape = fmt.Errorf("%w: email and password are required in a valid format", ErrInvalidCredentials)
	// ErrUserInactive indicates a soft-deleted account.
	ErrUserInactive = errors.New("user inactive")
	// ErrInvalidID indicates a missing or non-positive identifier.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidPage indicates a page number below 1.
	ErrInvalidPage = errors.New("page number must be greater than 0")
)

// ValidationError aggregates field-level failures so the caller can
// report them all at once.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

// PageSize is the fixed number of items per listing page.
const PageSize = 10

// PageInfo describes one page of a listing.
type PageInfo struct {
	Page    int
	Total   int64
	Pages   int
	HasNext bool
	HasPrev bool
}

func pageInfo(page int, total int64) PageInfo {
	pages := int((total + PageSize - 1) / PageSize)
	return PageInfo{
		Page:    page,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1 && page-1 <= pages,
	}
}
