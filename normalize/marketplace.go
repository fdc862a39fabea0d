package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tallyops/advicenorm/advice"
	"github.com/tallyops/advicenorm/parse"
)

// marketplace normalizes remittance advices whose rows carry no document
// type, only a free-text invoice description. Classification is by keyword
// matching on that description, in precedence order: co-op advertising
// (BDPO), returns/contra (credit note), bank receipt, and invoice as the
// default. Rows describing TDS are excluded from the main loop and summed
// into one aggregate withholding line.
//
// Invoice numbers split across a line break in the source document are
// rejoined by the extraction stage before they reach this engine; that is an
// input precondition and is not re-validated here.
type marketplace struct{}

// Keyword sets for the credit-note classification.
var (
	creditKeywords   = []string{"rtv", "vret in credit", "contra"}
	creditExclusions = []string{"tds", "co-op", "bank receipt", "invoice"}
)

func (marketplace) Group() advice.VendorGroup { return advice.GroupMarketplace }

func (marketplace) Normalize(meta advice.MetaHeader, rows []advice.RawRow) (*Result, error) {
	res := &Result{Group: advice.GroupMarketplace}

	// First pass: sum every TDS-tagged row into the aggregate.
	var tdsTotal decimal.Decimal
	tdsSeen := false
	for i, row := range rows {
		if row.AmountPaid == nil || !parse.ContainsFold(row.InvoiceDescription, "tds") {
			continue
		}
		amt, ok := parse.Amount(*row.AmountPaid)
		if !ok {
			res.warnf(i, "unparsable amount %q on TDS row", *row.AmountPaid)
			continue
		}
		tdsSeen = true
		tdsTotal = tdsTotal.Add(amt)
	}

	for i, row := range rows {
		desc := row.InvoiceDescription

		if row.AmountPaid == nil {
			res.warnf(i, "missing amount paid")
			continue
		}
		amount, ok := parse.Amount(*row.AmountPaid)
		if !ok {
			res.warnf(i, "unparsable amount paid %q", *row.AmountPaid)
			continue
		}

		// TDS rows were aggregated in the first pass.
		if parse.ContainsFold(desc, "tds") {
			continue
		}

		docNumber := strings.TrimSpace(row.InvoiceNumber)

		line := advice.Line{
			AccountType: advice.AccountBP,
			Customer:    meta.PayerName,
		}
		var ref1, ref2, ref3 string

		switch {
		case parse.ContainsFold(desc, "co-op"):
			line.DocType = advice.DocTypeBDPO
			ref1 = docNumber
			ref2 = ref1
			ref3 = "BDPO"
			line.SetDebit(amount)

		case parse.ContainsAnyFold(desc, creditKeywords...) && !parse.ContainsAnyFold(desc, creditExclusions...):
			line.DocType = advice.DocTypeCreditNote
			ref1 = docNumber
			if parse.ContainsFold(desc, "vret") {
				ref2 = parse.AfterLast(ref1, "-")
			} else {
				ref2 = ref1
			}
			ref3 = "RTV"
			line.SetDebit(amount)

		case parse.ContainsFold(desc, "bank receipt"):
			line.DocType = advice.DocTypeBankReceipt
			docNumber = meta.AdviceNumber
			ref1 = docNumber
			ref2 = ref1
			ref3 = "REC"
			line.SetDebit(amount)

		default:
			line.DocType = advice.DocTypeInvoice
			ref1 = docNumber
			if strings.Contains(ref1, "/") {
				ref2 = parse.AfterFirst(ref1, "/")
			} else {
				ref2 = ref1
			}
			ref3 = "INV"
			if amount.IsPositive() {
				line.SetCredit(amount)
			} else {
				line.SetDebit(amount)
			}
		}

		line.DocNumber = docNumber
		line.Ref1 = advice.Ref(ref1)
		line.Ref2 = advice.Ref(ref2)
		line.Ref3 = advice.Ref(ref3)

		res.Lines = append(res.Lines, line)
	}

	// One aggregate TDS line for the whole advice: a negative sum debits.
	if tdsSeen && !tdsTotal.IsZero() {
		res.Lines = append(res.Lines, tdsLine(meta, tdsTotal, false))
	}

	return res, nil
}
