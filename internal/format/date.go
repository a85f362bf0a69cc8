package format

import (
	"strings"
	"time"
)

// MediumDate is the display layout for dates.
const MediumDate = "Jan 2, 2006"

//nolint:gochecknoglobals // Read-only list of accepted input layouts.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Date renders an API date string in medium style, for example "Mar 1, 2024".
// Input that does not parse is returned unchanged.
func Date(value string) string {
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(MediumDate)
		}
	}
	return value
}
