package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/tallyops/advicenorm/advice"
	"github.com/tallyops/advicenorm/normalize"
)

var tableHeaderStyle = infoStyle.Bold(true)

var lineColumns = []string{"#", "TYPE", "DOC TYPE", "DOC NUMBER", "REF 1", "REF 2", "REF 3", "DR/CR", "AMOUNT"}

// renderResult writes one normalized advice as an aligned table followed by
// its warnings. Widths are measured with runewidth so wide characters in
// vendor references don't break the columns.
func renderResult(w io.Writer, result *normalize.Result) {
	printInfof(w, "Group: %s", result.Group)
	if result.AdviceUUID != "" {
		printInfof(w, "Advice: %s", result.AdviceUUID)
	}
	_, _ = fmt.Fprintln(w)

	if len(result.Lines) == 0 {
		printWarning(w, "no lines emitted")
	} else {
		renderLines(w, result.Lines)
	}

	for _, warning := range result.Warnings {
		printWarning(w, warning.String())
	}
}

func renderLines(w io.Writer, lines []advice.Line) {
	rows := make([][]string, 0, len(lines)+1)
	rows = append(rows, lineColumns)
	for i, line := range lines {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			string(line.AccountType),
			line.DocType,
			line.DocNumber,
			advice.RefValue(line.Ref1),
			advice.RefValue(line.Ref2),
			advice.RefValue(line.Ref3),
			string(line.DrCr),
			amountCell(line),
		})
	}

	widths := make([]int, len(lineColumns))
	for _, row := range rows {
		for col, cell := range row {
			if width := runewidth.StringWidth(cell); width > widths[col] {
				widths[col] = width
			}
		}
	}

	last := len(lineColumns) - 1
	for i, row := range rows {
		cells := make([]string, len(row))
		for col, cell := range row {
			pad := strings.Repeat(" ", widths[col]-runewidth.StringWidth(cell))
			if col == last || col == 0 {
				// Numbers read right-aligned.
				cells[col] = pad + cell
			} else {
				cells[col] = cell + pad
			}
		}
		rendered := strings.TrimRight(strings.Join(cells, "  "), " ")
		if i == 0 {
			rendered = tableHeaderStyle.Render(rendered)
		}
		_, _ = fmt.Fprintln(w, "  "+rendered)
	}
}

func amountCell(line advice.Line) string {
	amount := line.CrAmt
	if line.DrCr == advice.Dr {
		amount = line.DrAmt
	}
	return amount.Round(2).StringFixed(2)
}
