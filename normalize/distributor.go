package normalize

import (
	"strings"

	"github.com/tallyops/advicenorm/advice"
	"github.com/tallyops/advicenorm/parse"
)

// distributor normalizes settlement spreadsheets where each row is a
// complete payment advice. A row expands into up to four fixed lines:
// a credit note for the debit-note total (when positive), a withholding
// line for the TDS amount (when positive), the invoice itself, and the bank
// receipt for the paid amount.
//
// The sheets mix several legal entities; rows whose payee does not match the
// configured client identity are skipped.
type distributor struct {
	// client is the legal-entity identity to keep. When empty, no rows
	// are filtered.
	client string
}

func (*distributor) Group() advice.VendorGroup { return advice.GroupDistributor }

func (d *distributor) Normalize(meta advice.MetaHeader, rows []advice.RawRow) (*Result, error) {
	res := &Result{Group: advice.GroupDistributor}

	for i, row := range rows {
		if d.client != "" && row.PayeeName != "" && !entityMatches(d.client, row.PayeeName) {
			res.warnf(i, "row belongs to %q, not configured client %q", row.PayeeName, d.client)
			continue
		}

		invoiceRef := strings.TrimSpace(row.InvoiceRef)
		if invoiceRef == "" {
			res.warnf(i, "missing invoice reference")
			continue
		}

		afterTax, ok := parse.Amount(row.AfterTaxAmount)
		if !ok {
			res.warnf(i, "unparsable after-tax amount %q", row.AfterTaxAmount)
			continue
		}
		payment, ok := parse.Amount(row.PaymentAmount)
		if !ok {
			res.warnf(i, "unparsable payment amount %q", row.PaymentAmount)
			continue
		}
		debitNote := parse.AmountOrZero(row.DebitNoteAmount)
		grnDiff := parse.AmountOrZero(row.GRNDiffAmount)
		tdsAmount := parse.AmountOrZero(row.TDSAmount)

		utr := strings.TrimSpace(row.UTR)
		if utr == "" {
			utr = meta.AdviceNumber
		}

		if debitNote.IsPositive() {
			creditNote := advice.Line{
				AccountType: advice.AccountBP,
				Customer:    meta.PayerName,
				DocType:     advice.DocTypeCreditNote,
				DocNumber:   invoiceRef,
				Ref1:        advice.Ref(invoiceRef),
				Ref2:        advice.Ref(invoiceRef),
				Ref3:        advice.Ref("RTV"),
			}
			creditNote.SetDebit(debitNote)
			res.Lines = append(res.Lines, creditNote)
		}

		if tdsAmount.IsPositive() {
			tds := advice.Line{
				AccountType: advice.AccountGL,
				Customer:    meta.PayerName,
				DocType:     advice.DocTypeTDS,
				DocNumber:   utr,
				Ref1:        advice.Ref(utr),
				Ref2:        advice.Ref(utr),
				Ref3:        advice.Ref(advice.DocTypeTDS),
			}
			tds.SetDebit(tdsAmount)
			res.Lines = append(res.Lines, tds)
		}

		// Invoice amount is the settled value: after-tax total plus the
		// debit note, less the GRN shortfall.
		invoice := advice.Line{
			AccountType: advice.AccountBP,
			Customer:    meta.PayerName,
			DocType:     advice.DocTypeInvoice,
			DocNumber:   invoiceRef,
			Ref1:        advice.Ref(parse.AfterLast(invoiceRef, "/")),
			Ref2:        advice.Ref(invoiceRef),
			Ref3:        advice.Ref("INV"),
		}
		invoice.SetCredit(afterTax.Add(debitNote).Sub(grnDiff).Round(2))
		res.Lines = append(res.Lines, invoice)

		receipt := advice.Line{
			AccountType: advice.AccountBP,
			Customer:    meta.PayerName,
			DocType:     advice.DocTypeBankReceipt,
			DocNumber:   utr,
			Ref1:        advice.Ref(utr),
			Ref2:        advice.Ref(utr),
			Ref3:        advice.Ref("REC"),
		}
		receipt.SetDebit(payment)
		res.Lines = append(res.Lines, receipt)
	}

	return res, nil
}

// entityMatches reports whether a row's payee refers to the configured
// client: an exact case-insensitive match, or at least three shared
// whitespace-delimited tokens between the two names.
func entityMatches(client, payee string) bool {
	if strings.EqualFold(strings.TrimSpace(client), strings.TrimSpace(payee)) {
		return true
	}

	clientTokens := tokenSet(client)
	shared := 0
	for _, tok := range strings.Fields(strings.ToLower(payee)) {
		if clientTokens[tok] {
			shared++
			delete(clientTokens, tok)
		}
	}
	return shared >= 3
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = true
	}
	return set
}
