package hosts

import (
	"strings"

	"github.com/auto-dns/github-host-sync/internal/util"
)

const (
	pluginName    = "GitHub Host"
	hostSection   = "[Host]"
	descTimeLabel = "# Update time: "
)

// Header returns the three fixed plugin header lines for the given marker.
func Header(marker string) string {
	var b strings.Builder
	b.WriteString("#!name= " + pluginName + "\n")
	b.WriteString("#!desc= " + descTimeLabel + marker + "\n")
	b.WriteString(hostSection + "\n")
	return b.String()
}

// Format renders doc into the plugin format. It is deterministic: the same
// document and marker always produce the same bytes.
func Format(doc, marker string) string {
	return Render(ParseEntries(doc), marker)
}

// Render builds the plugin text from already parsed entries.
func Render(entries []HostEntry, marker string) string {
	lines := util.Map(entries, HostEntry.String)

	var b strings.Builder
	b.WriteString(Header(marker))
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
