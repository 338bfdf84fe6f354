package feed

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned by the emitters when there is nothing to write.
// It signals a skip, not a failure.
var ErrEmpty = errors.New("no records to emit")

// Record is a normalized product keyed by the Field constants. Fields with
// empty values are absent.
type Record map[string]string

// Compact drops every empty field.
func (r Record) Compact() Record {
	compacted := make(Record, len(r))
	for k, v := range r {
		if v != "" {
			compacted[k] = v
		}
	}
	return compacted
}

type RecordError struct {
	ProductID int64
	Err       error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("product %d: %v", e.ProductID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

type Result struct {
	Records []Record
	// SavedImages lists the public IDs uploaded during this run. Callers
	// persist them so later runs treat them as known.
	SavedImages []string
	Failures    []*RecordError
}

// Shop identifies the feed owner in the generated document.
type Shop struct {
	// Name is the shop name or platform domain.
	Name string
	// FeedURL is the public address of the feed, written as the atom self
	// link. Defaults to the shop's app proxy path.
	FeedURL string
}
