package hosts

import (
	"errors"
	"regexp"
	"strings"
)

// ErrTimestampNotFound is returned when a document carries no usable
// "# Update time:" line.
var ErrTimestampNotFound = errors.New("update time not found in document")

var updateTimePattern = regexp.MustCompile(`# Update time:\s+([^\n]+)`)

// ExtractUpdateTime returns the trimmed value of the first "# Update time:"
// line. The value is an opaque marker and is never parsed as a date.
func ExtractUpdateTime(doc string) (string, error) {
	m := updateTimePattern.FindStringSubmatch(doc)
	if m == nil {
		return "", ErrTimestampNotFound
	}
	marker := strings.TrimSpace(m[1])
	if marker == "" {
		return "", ErrTimestampNotFound
	}
	return marker, nil
}
