package parse

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "iso", input: "2023-01-30", want: "2023-01-30"},
		{name: "day first dashes", input: "30-01-2023", want: "2023-01-30"},
		{name: "day first slashes", input: "30/01/2023", want: "2023-01-30"},
		{name: "month name short", input: "30-Jan-2023", want: "2023-01-30"},
		{name: "month name spaced", input: "30 Jan 2023", want: "2023-01-30"},
		{name: "month name long", input: "30 January 2023", want: "2023-01-30"},
		{name: "us long form", input: "January 30, 2023", want: "2023-01-30"},
		{name: "padded", input: "  2023-01-30  ", want: "2023-01-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Date(tt.input)
			assert.NotZero(t, got)
			assert.Equal(t, tt.want, got.Format(time.DateOnly))
		})
	}
}

func TestDateAmbiguousPrefersDayFirst(t *testing.T) {
	// Both day-first and month-first layouts match; day-first wins.
	got := Date("05/01/2023")
	assert.NotZero(t, got)
	assert.Equal(t, "2023-01-05", got.Format(time.DateOnly))
}

func TestDateUnparsable(t *testing.T) {
	assert.Zero(t, Date(""))
	assert.Zero(t, Date("not a date"))
	assert.Zero(t, Date("2023-13-45"))
}
