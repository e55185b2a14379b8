package hosts

import (
	"fmt"
	"regexp"
)

// hostLinePattern matches "<a>.<b>.<c>.<d><ws><name>" lines. Octets are not
// range checked and the whitespace class may span a line break.
var hostLinePattern = regexp.MustCompile(`(?m)^(\d+\.\d+\.\d+\.\d+)\s+([a-zA-Z0-9.-]+)$`)

// HostEntry is one hostname/address pair taken from the source document.
type HostEntry struct {
	Hostname string
	Address  string
}

// String renders the entry as a plugin body line, without the newline.
func (e HostEntry) String() string {
	return fmt.Sprintf("%s = %s", e.Hostname, e.Address)
}

// ParseEntries returns every host entry in document order. Duplicates are
// kept and lines that do not match are skipped.
func ParseEntries(doc string) []HostEntry {
	matches := hostLinePattern.FindAllStringSubmatch(doc, -1)
	entries := make([]HostEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, HostEntry{Hostname: m[2], Address: m[1]})
	}
	return entries
}
