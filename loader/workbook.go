package loader

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tallyops/advicenorm/advice"
)

// Distributor settlement workbooks carry one payment advice per row. Column
// headers vary between exports, so each logical column is located by keyword
// match on the normalized header text.
var workbookColumns = map[string][]string{
	"invoice_ref":       {"invoiceno", "invoicenumber", "invoiceref", "billno"},
	"after_tax_amount":  {"aftertax"},
	"debit_note_amount": {"debitnote", "drnote"},
	"grn_diff_amount":   {"grndiff", "grn"},
	"tds_amount":        {"tds"},
	"utr":               {"utr", "paymentref", "referenceno"},
	"payment_amount":    {"paymentamount", "amountpaid", "netpayment"},
	"payee_name":        {"payee", "legalentity", "vendorname"},
	"payer_name":        {"payer", "buyer", "customer"},
	"payment_date":      {"paymentdate", "settlementdate"},
}

// loadWorkbook reads a settlement workbook and returns one Extraction per
// data row. Rows without an invoice reference and a UTR are silently
// ignored; they are spacer or total rows, not advices.
func (l *Loader) loadWorkbook(filename string) ([]Extraction, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", filename, err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	columns, headerIdx := locateColumns(rows)
	if columns == nil {
		return nil, fmt.Errorf("no recognizable header row in sheet %q", sheet)
	}

	var extractions []Extraction
	for _, row := range rows[headerIdx+1:] {
		cell := func(field string) string {
			idx, ok := columns[field]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		invoiceRef := cell("invoice_ref")
		utr := cell("utr")
		if invoiceRef == "" && utr == "" {
			continue
		}

		extractions = append(extractions, Extraction{
			Group: advice.GroupDistributor.String(),
			Meta: advice.MetaHeader{
				AdviceNumber:   utr,
				SettlementDate: cell("payment_date"),
				PayerName:      cell("payer_name"),
				PayeeName:      cell("payee_name"),
				AdviceAmount:   cell("payment_amount"),
			},
			Rows: []advice.RawRow{{
				InvoiceRef:      invoiceRef,
				AfterTaxAmount:  cell("after_tax_amount"),
				DebitNoteAmount: cell("debit_note_amount"),
				GRNDiffAmount:   cell("grn_diff_amount"),
				TDSAmount:       cell("tds_amount"),
				UTR:             utr,
				PaymentAmount:   cell("payment_amount"),
				PayeeName:       cell("payee_name"),
			}},
		})
	}

	return extractions, nil
}

// locateColumns finds the header row (the first row matching at least three
// known columns) and maps each logical field to its column index.
func locateColumns(rows [][]string) (map[string]int, int) {
	for idx, row := range rows {
		columns := make(map[string]int)
		for col, header := range row {
			key := normalizeHeader(header)
			if key == "" {
				continue
			}
			for field, needles := range workbookColumns {
				if _, done := columns[field]; done {
					continue
				}
				for _, needle := range needles {
					if strings.Contains(key, needle) {
						columns[field] = col
						break
					}
				}
			}
		}
		if len(columns) >= 3 {
			return columns, idx
		}
	}
	return nil, 0
}

func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
