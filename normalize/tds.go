package normalize

import (
	"github.com/shopspring/decimal"

	"github.com/tallyops/advicenorm/advice"
)

// tdsNet accumulates withholding-tax amounts across all rows of one advice.
// Quick-commerce advices carry TDS in a dedicated column and net the invoice
// bucket against everything else; marketplace advices tag whole rows as TDS
// and sum them into the other bucket.
type tdsNet struct {
	invoice decimal.Decimal
	other   decimal.Decimal
	seen    bool
}

func (t *tdsNet) addInvoice(d decimal.Decimal) {
	t.invoice = t.invoice.Add(d)
	t.seen = true
}

func (t *tdsNet) addOther(d decimal.Decimal) {
	t.other = t.other.Add(d)
	t.seen = true
}

// net is the aggregate signed amount: invoice-bucket total minus the rest.
func (t *tdsNet) net() decimal.Decimal {
	return t.invoice.Sub(t.other)
}

// tdsLine synthesizes the single aggregate TDS line appended after the main
// lines. It posts to a GL account; the document number and both primary
// references carry the advice number. Direction conventions differ per
// group: quick-commerce debits a positive net, marketplace debits a negative
// sum, so the caller states which sign debits.
func tdsLine(meta advice.MetaHeader, net decimal.Decimal, debitWhenPositive bool) advice.Line {
	docNumber := meta.AdviceNumber

	line := advice.Line{
		AccountType: advice.AccountGL,
		Customer:    meta.PayerName,
		DocType:     advice.DocTypeTDS,
		DocNumber:   docNumber,
		Ref1:        advice.Ref(docNumber),
		Ref2:        advice.Ref(docNumber),
		Ref3:        advice.Ref(advice.DocTypeTDS),
	}

	// Callers only synthesize a line for a non-zero net.
	debit := net.IsPositive() == debitWhenPositive
	if debit {
		line.SetDebit(net)
	} else {
		line.SetCredit(net)
	}
	return line
}
