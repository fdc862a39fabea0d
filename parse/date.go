package parse

import (
	"strings"
	"time"
)

// dateLayouts is the ordered list of formats tried when parsing a date.
// The order matters for ambiguous inputs: day-first forms are tried before
// month-first, matching the documents this engine ingests.
var dateLayouts = []string{
	"2006-01-02",       // 2023-01-30
	"02-01-2006",       // 30-01-2023
	"02/01/2006",       // 30/01/2023
	"01/02/2006",       // 01/30/2023
	"02-Jan-2006",      // 30-Jan-2023
	"02 Jan 2006",      // 30 Jan 2023
	"02 January 2006",  // 30 January 2023
	"January 02, 2006", // January 30, 2023
	"Jan 02, 2006",     // Jan 30, 2023
}

// Date parses a date string against the known layouts in order. It returns
// nil when no layout matches and never panics.
func Date(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
