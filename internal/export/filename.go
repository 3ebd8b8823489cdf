package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"amdashboard/internal/models"
)

const (
	timestampLayout = "2006-01-02_150405"
	fallbackBase    = "export"
)

var (
	disallowed = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	separators = regexp.MustCompile(`[_-]{2,}`)
)

// Extra is an additional key/value pair appended to a filename.
type Extra struct {
	Key   string
	Value any
}

func sanitize(s string) string {
	s = disallowed.ReplaceAllString(s, "_")
	s = separators.ReplaceAllString(s, "_")
	return strings.Trim(s, "_-")
}

// filterSuffix renders the non-empty filter dimensions as
// _filters_tech-3_mat-1, or "" when no filter is active.
func filterSuffix(f models.FilterState) string {
	var parts []string
	for _, d := range models.FilterDimensions {
		if n := len(d.Values(f)); n > 0 {
			parts = append(parts, fmt.Sprintf("%s-%d", d.Label, n))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "_filters_" + strings.Join(parts, "_")
}

// BuildFilename derives {base}_{timestamp}{filters}{extras}.{ext}. The
// timestamp is in the local time zone of at.
func BuildFilename(base, ext string, filters models.FilterState, at time.Time, extras ...Extra) string {
	name := sanitize(base)
	if name == "" {
		name = fallbackBase
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('_')
	b.WriteString(at.Local().Format(timestampLayout))
	b.WriteString(filterSuffix(filters))
	for _, e := range extras {
		key, value := sanitize(e.Key), sanitize(fmt.Sprint(e.Value))
		if key == "" || value == "" {
			continue
		}
		fmt.Fprintf(&b, "_%s-%s", key, value)
	}
	b.WriteByte('.')
	b.WriteString(strings.TrimPrefix(ext, "."))
	return b.String()
}
