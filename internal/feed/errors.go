package feed

import (
	"errors"
	"fmt"
)

// ErrEmptyFeedList is returned when an aggregate request names no feeds.
var ErrEmptyFeedList = errors.New("empty feed list")

// FetchError reports a non-success upstream status.
type FetchError struct {
	URL    string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: upstream returned %d", e.URL, e.Status)
}
