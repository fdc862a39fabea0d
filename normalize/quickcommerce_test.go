package normalize

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/tallyops/advicenorm/advice"
)

var quickMeta = advice.MetaHeader{
	SettlementDate: "2023-01-30",
	AdviceNumber:   "PA-7001",
	PayerName:      "Zepto Marketplace Private Limited",
}

func TestQuickCommerceCreditMemoKK(t *testing.T) {
	rows := []advice.RawRow{
		{DocumentType: "Credit Memo", DocNumber: "100024216", RefDoc: "KK10009485", Amount: "-2,95,000"},
	}

	res, err := quickCommerce{}.Normalize(quickMeta, rows)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(res.Lines))
	assert.Equal(t, 0, len(res.Warnings))

	line := res.Lines[0]
	assert.Equal(t, advice.AccountBP, line.AccountType)
	assert.Equal(t, advice.DocTypeCreditNote, line.DocType)
	// The KK reference document takes over as document number and both
	// primary references.
	assert.Equal(t, "KK10009485", line.DocNumber)
	assert.Equal(t, "KK10009485", advice.RefValue(line.Ref1))
	assert.Equal(t, "KK10009485", advice.RefValue(line.Ref2))
	assert.Equal(t, "RTV", advice.RefValue(line.Ref3))
	assert.Equal(t, advice.Dr, line.DrCr)
	assert.Equal(t, "295000", line.DrAmt.String())
	assert.True(t, line.CrAmt.IsZero())
}

func TestQuickCommerceCreditMemoInvoiceReference(t *testing.T) {
	tests := []struct {
		name           string
		refDoc         string
		wantRefInvoice string
	}{
		{name: "underscore keeps first segment", refDoc: "INV9921_RTV01", wantRefInvoice: "INV9921"},
		{name: "plain reference kept whole", refDoc: "INV9921", wantRefInvoice: "INV9921"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []advice.RawRow{
				{DocumentType: "Credit Memo", DocNumber: "100024216", RefDoc: tt.refDoc, Amount: "-500"},
			}
			res, err := quickCommerce{}.Normalize(quickMeta, rows)
			assert.NoError(t, err)
			assert.Equal(t, 1, len(res.Lines))

			line := res.Lines[0]
			assert.Equal(t, "100024216", line.DocNumber)
			assert.Equal(t, tt.wantRefInvoice, advice.RefValue(line.RefInvoiceNo))
			assert.Equal(t, "100024216", advice.RefValue(line.Ref1))
			assert.Equal(t, "100024216", advice.RefValue(line.Ref2))
			assert.Equal(t, advice.Dr, line.DrCr)
		})
	}
}

func TestQuickCommerceInvoicePaymentWithTDS(t *testing.T) {
	rows := []advice.RawRow{
		{DocumentType: "Invoice Payment", DocNumber: "1900165619", RefDoc: "B2BOS24/22468", Amount: "39,012.76", TDS: "33.06"},
	}

	res, err := quickCommerce{}.Normalize(quickMeta, rows)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(res.Lines))

	invoice := res.Lines[0]
	assert.Equal(t, advice.DocTypeInvoice, invoice.DocType)
	assert.Equal(t, "B2BOS24/22468", invoice.DocNumber)
	assert.Equal(t, "B2BOS24/22468", advice.RefValue(invoice.Ref1))
	assert.Equal(t, "22468", advice.RefValue(invoice.Ref2))
	assert.Equal(t, "INV", advice.RefValue(invoice.Ref3))
	assert.Equal(t, advice.Cr, invoice.DrCr)
	assert.Equal(t, "39012.76", invoice.CrAmt.String())

	// TDS against invoice payments nets positive, so the aggregate debits.
	tds := res.Lines[1]
	assert.Equal(t, advice.AccountGL, tds.AccountType)
	assert.Equal(t, advice.DocTypeTDS, tds.DocType)
	assert.Equal(t, "PA-7001", tds.DocNumber)
	assert.Equal(t, "PA-7001", advice.RefValue(tds.Ref1))
	assert.Equal(t, "TDS", advice.RefValue(tds.Ref3))
	assert.Equal(t, advice.Dr, tds.DrCr)
	assert.Equal(t, "33.06", tds.DrAmt.String())
}

func TestQuickCommerceBankReceipt(t *testing.T) {
	rows := []advice.RawRow{
		{DocumentType: "Bank receipt", DocNumber: "UTR202301", Amount: "1,000.00"},
	}

	res, err := quickCommerce{}.Normalize(quickMeta, rows)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(res.Lines))

	line := res.Lines[0]
	assert.Equal(t, advice.DocTypeBankReceipt, line.DocType)
	assert.Equal(t, "UTR202301", line.DocNumber)
	assert.Equal(t, "UTR202301", advice.RefValue(line.Ref1))
	assert.Equal(t, "UTR202301", advice.RefValue(line.Ref2))
	assert.Equal(t, "REC", advice.RefValue(line.Ref3))
	assert.Equal(t, advice.Dr, line.DrCr)
	assert.Equal(t, "1000", line.DrAmt.String())
}

func TestQuickCommerceAPARAdjustment(t *testing.T) {
	rows := []advice.RawRow{
		{DocumentType: "AP-AR Adjustment", DocNumber: "ADJ-9", RefDoc: "INV-881", Amount: "-250"},
	}

	res, err := quickCommerce{}.Normalize(quickMeta, rows)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(res.Lines))

	line := res.Lines[0]
	assert.Equal(t, advice.DocTypeBDPO, line.DocType)
	assert.Equal(t, "ADJ-9", line.DocNumber)
	assert.Equal(t, "INV-881", advice.RefValue(line.RefInvoiceNo))
	assert.Equal(t, "BDPO", advice.RefValue(line.Ref3))
	assert.Equal(t, advice.Dr, line.DrCr)
	assert.Equal(t, "250", line.DrAmt.String())
}

func TestQuickCommerceUnknownDocType(t *testing.T) {
	rows := []advice.RawRow{
		{DocumentType: "Settlement Fee", DocNumber: "FEE-1", Amount: "42"},
	}

	res, err := quickCommerce{}.Normalize(quickMeta, rows)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(res.Lines))

	line := res.Lines[0]
	assert.Equal(t, "SET", line.DocType)
	// Defaults: advice number and settlement date back-fill the references.
	assert.Equal(t, "PA-7001", advice.RefValue(line.Ref2))
	assert.Equal(t, "2023-01-30", advice.RefValue(line.Ref3))
	assert.Equal(t, advice.Cr, line.DrCr)
}

func TestQuickCommerceSkipsMalformedRows(t *testing.T) {
	rows := []advice.RawRow{
		{DocumentType: "", DocNumber: "X", Amount: "10"},
		{DocumentType: "Invoice Payment", DocNumber: "", Amount: "10"},
		{DocumentType: "Invoice Payment", DocNumber: "OK-1", RefDoc: "R-1", Amount: "garbage"},
		{DocumentType: "Invoice Payment", DocNumber: "OK-2", RefDoc: "R-2", Amount: "100"},
	}

	res, err := quickCommerce{}.Normalize(quickMeta, rows)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(res.Lines))
	assert.Equal(t, 3, len(res.Warnings))
	assert.Equal(t, 0, res.Warnings[0].Row)
	assert.Equal(t, 1, res.Warnings[1].Row)
	assert.Equal(t, 2, res.Warnings[2].Row)
}

func TestQuickCommerceTDSNetting(t *testing.T) {
	t.Run("invoice bucket nets against other rows", func(t *testing.T) {
		rows := []advice.RawRow{
			{DocumentType: "Invoice Payment", DocNumber: "I-1", RefDoc: "R-1", Amount: "1000", TDS: "50"},
			{DocumentType: "Credit Memo", DocNumber: "C-1", RefDoc: "KK1", Amount: "-100", TDS: "20"},
		}

		res, err := quickCommerce{}.Normalize(quickMeta, rows)
		assert.NoError(t, err)
		assert.Equal(t, 3, len(res.Lines))

		tds := res.Lines[2]
		assert.Equal(t, advice.DocTypeTDS, tds.DocType)
		assert.Equal(t, advice.Dr, tds.DrCr)
		assert.Equal(t, "30", tds.DrAmt.String())
	})

	t.Run("negative net credits", func(t *testing.T) {
		rows := []advice.RawRow{
			{DocumentType: "Invoice Payment", DocNumber: "I-1", RefDoc: "R-1", Amount: "1000", TDS: "10"},
			{DocumentType: "Credit Memo", DocNumber: "C-1", RefDoc: "KK1", Amount: "-100", TDS: "25"},
		}

		res, err := quickCommerce{}.Normalize(quickMeta, rows)
		assert.NoError(t, err)
		tds := res.Lines[2]
		assert.Equal(t, advice.Cr, tds.DrCr)
		assert.Equal(t, "15", tds.CrAmt.String())
	})

	t.Run("zero net emits no line", func(t *testing.T) {
		rows := []advice.RawRow{
			{DocumentType: "Invoice Payment", DocNumber: "I-1", RefDoc: "R-1", Amount: "1000", TDS: "30"},
			{DocumentType: "Credit Memo", DocNumber: "C-1", RefDoc: "KK1", Amount: "-100", TDS: "30"},
		}

		res, err := quickCommerce{}.Normalize(quickMeta, rows)
		assert.NoError(t, err)
		assert.Equal(t, 2, len(res.Lines))
	})

	t.Run("dedicated TDS rows fold into the net", func(t *testing.T) {
		rows := []advice.RawRow{
			{DocumentType: "Invoice Payment", DocNumber: "I-1", RefDoc: "R-1", Amount: "1000", TDS: "50"},
			{DocumentType: "TDS u/s 194Q", DocNumber: "T-1", Amount: "20"},
		}

		res, err := quickCommerce{}.Normalize(quickMeta, rows)
		assert.NoError(t, err)
		// The typed TDS row emits no line of its own.
		assert.Equal(t, 2, len(res.Lines))
		tds := res.Lines[1]
		assert.Equal(t, "30", tds.DrAmt.String())
	})
}

func TestQuickCommerceEmittedLinesValidate(t *testing.T) {
	rows := []advice.RawRow{
		{DocumentType: "Credit Memo", DocNumber: "100024216", RefDoc: "KK10009485", Amount: "-2,95,000"},
		{DocumentType: "Invoice Payment", DocNumber: "1900165619", RefDoc: "B2BOS24/22468", Amount: "39,012.76", TDS: "33.06"},
		{DocumentType: "Bank receipt", DocNumber: "UTR1", Amount: "500"},
	}

	res, err := quickCommerce{}.Normalize(quickMeta, rows)
	assert.NoError(t, err)
	assert.NoError(t, advice.ValidateLines(res.Lines))
}
