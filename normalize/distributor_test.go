package normalize

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/tallyops/advicenorm/advice"
)

var distMeta = advice.MetaHeader{
	SettlementDate: "2023-02-14",
	AdviceNumber:   "UTR230214",
	PayerName:      "House of Trading Co",
}

func TestDistributorFullExpansion(t *testing.T) {
	rows := []advice.RawRow{
		{
			InvoiceRef:      "HOT/22-23/1182",
			AfterTaxAmount:  "12,000.00",
			DebitNoteAmount: "500",
			GRNDiffAmount:   "150",
			TDSAmount:       "120",
			UTR:             "N052231234567",
			PaymentAmount:   "11,230.00",
		},
	}

	res, err := (&distributor{}).Normalize(distMeta, rows)
	assert.NoError(t, err)
	assert.Equal(t, 4, len(res.Lines))

	creditNote := res.Lines[0]
	assert.Equal(t, advice.DocTypeCreditNote, creditNote.DocType)
	assert.Equal(t, advice.AccountBP, creditNote.AccountType)
	assert.Equal(t, "HOT/22-23/1182", creditNote.DocNumber)
	assert.Equal(t, "RTV", advice.RefValue(creditNote.Ref3))
	assert.Equal(t, advice.Dr, creditNote.DrCr)
	assert.Equal(t, "500", creditNote.DrAmt.String())

	tds := res.Lines[1]
	assert.Equal(t, advice.DocTypeTDS, tds.DocType)
	assert.Equal(t, advice.AccountGL, tds.AccountType)
	assert.Equal(t, "N052231234567", tds.DocNumber)
	assert.Equal(t, advice.Dr, tds.DrCr)
	assert.Equal(t, "120", tds.DrAmt.String())

	// Settled invoice value: 12000 + 500 - 150.
	invoice := res.Lines[2]
	assert.Equal(t, advice.DocTypeInvoice, invoice.DocType)
	assert.Equal(t, "HOT/22-23/1182", invoice.DocNumber)
	assert.Equal(t, "1182", advice.RefValue(invoice.Ref1))
	assert.Equal(t, "HOT/22-23/1182", advice.RefValue(invoice.Ref2))
	assert.Equal(t, "INV", advice.RefValue(invoice.Ref3))
	assert.Equal(t, advice.Cr, invoice.DrCr)
	assert.Equal(t, "12350", invoice.CrAmt.String())

	receipt := res.Lines[3]
	assert.Equal(t, advice.DocTypeBankReceipt, receipt.DocType)
	assert.Equal(t, "N052231234567", receipt.DocNumber)
	assert.Equal(t, "REC", advice.RefValue(receipt.Ref3))
	assert.Equal(t, advice.Dr, receipt.DrCr)
	assert.Equal(t, "11230", receipt.DrAmt.String())

	assert.NoError(t, advice.ValidateLines(res.Lines))
}

func TestDistributorOmitsZeroLines(t *testing.T) {
	rows := []advice.RawRow{
		{InvoiceRef: "INV-1", AfterTaxAmount: "1000", PaymentAmount: "1000"},
	}

	res, err := (&distributor{}).Normalize(distMeta, rows)
	assert.NoError(t, err)
	// No debit note, no TDS: just invoice and receipt.
	assert.Equal(t, 2, len(res.Lines))
	assert.Equal(t, advice.DocTypeInvoice, res.Lines[0].DocType)
	assert.Equal(t, advice.DocTypeBankReceipt, res.Lines[1].DocType)
}

func TestDistributorUTRFallsBackToAdviceNumber(t *testing.T) {
	rows := []advice.RawRow{
		{InvoiceRef: "INV-1", AfterTaxAmount: "1000", PaymentAmount: "1000"},
	}

	res, err := (&distributor{}).Normalize(distMeta, rows)
	assert.NoError(t, err)
	assert.Equal(t, "UTR230214", res.Lines[1].DocNumber)
}

func TestDistributorEntityFilter(t *testing.T) {
	d := &distributor{client: "Example Foods India Private Limited"}

	rows := []advice.RawRow{
		{InvoiceRef: "KEEP-1", AfterTaxAmount: "100", PaymentAmount: "100", PayeeName: "EXAMPLE FOODS INDIA PRIVATE LIMITED"},
		{InvoiceRef: "KEEP-2", AfterTaxAmount: "100", PaymentAmount: "100", PayeeName: "Example Foods India Pvt Ltd"},
		{InvoiceRef: "SKIP-1", AfterTaxAmount: "100", PaymentAmount: "100", PayeeName: "Someone Else Entirely"},
		{InvoiceRef: "KEEP-3", AfterTaxAmount: "100", PaymentAmount: "100"},
	}

	res, err := d.Normalize(distMeta, rows)
	assert.NoError(t, err)
	// Exact match, three-token overlap, and missing payee all pass; the
	// foreign entity is skipped with a warning.
	assert.Equal(t, 6, len(res.Lines))
	assert.Equal(t, 1, len(res.Warnings))
	assert.Equal(t, 2, res.Warnings[0].Row)
}

func TestDistributorSkipsMalformedRows(t *testing.T) {
	rows := []advice.RawRow{
		{InvoiceRef: "", AfterTaxAmount: "100", PaymentAmount: "100"},
		{InvoiceRef: "INV-1", AfterTaxAmount: "bad", PaymentAmount: "100"},
		{InvoiceRef: "INV-2", AfterTaxAmount: "100", PaymentAmount: "bad"},
	}

	res, err := (&distributor{}).Normalize(distMeta, rows)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(res.Lines))
	assert.Equal(t, 3, len(res.Warnings))
}

func TestEntityMatches(t *testing.T) {
	tests := []struct {
		name   string
		client string
		payee  string
		want   bool
	}{
		{name: "exact", client: "Example Foods Ltd", payee: "Example Foods Ltd", want: true},
		{name: "case insensitive", client: "Example Foods Ltd", payee: "EXAMPLE FOODS LTD", want: true},
		{name: "three shared tokens", client: "Example Foods India Private Limited", payee: "Example Foods India Pvt Ltd", want: true},
		{name: "two shared tokens insufficient", client: "Example Foods Ltd", payee: "Example Foods Corporation", want: false},
		{name: "unrelated", client: "Example Foods Ltd", payee: "Acme Traders", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entityMatches(tt.client, tt.payee))
		})
	}
}
