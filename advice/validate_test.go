package advice

import (
	stdErrors "errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func validLine(docType string) Line {
	l := Line{
		AccountType: AccountBP,
		DocType:     docType,
		DocNumber:   "DOC-1",
	}
	l.SetCredit(decimal.NewFromInt(100))
	return l
}

func TestValidateLines(t *testing.T) {
	t.Run("valid lines pass", func(t *testing.T) {
		lines := []Line{validLine(DocTypeInvoice), validLine(DocTypeBankReceipt)}
		assert.NoError(t, ValidateLines(lines))
	})

	t.Run("empty list passes", func(t *testing.T) {
		assert.NoError(t, ValidateLines(nil))
	})

	t.Run("missing doc type", func(t *testing.T) {
		lines := []Line{validLine("")}
		err := ValidateLines(lines)
		assert.Error(t, err)

		var missing *MissingFieldError
		assert.True(t, stdErrors.As(unwrapFirst(t, err), &missing))
		assert.Equal(t, "doc_type", missing.Field)
	})

	t.Run("invalid account type", func(t *testing.T) {
		line := validLine(DocTypeInvoice)
		line.AccountType = "XX"
		err := ValidateLines([]Line{line})
		assert.Error(t, err)
	})

	t.Run("both sides set", func(t *testing.T) {
		line := validLine(DocTypeInvoice)
		line.DrAmt = decimal.NewFromInt(50)
		line.CrAmt = decimal.NewFromInt(50)
		err := ValidateLines([]Line{line})
		assert.Error(t, err)

		var sign *SignInvariantError
		assert.True(t, stdErrors.As(unwrapFirst(t, err), &sign))
		assert.Equal(t, 0, sign.Index)
	})

	t.Run("amount mismatch", func(t *testing.T) {
		line := validLine(DocTypeInvoice)
		line.Amount = decimal.NewFromInt(99)
		err := ValidateLines([]Line{line})
		assert.Error(t, err)
	})

	t.Run("negative amount", func(t *testing.T) {
		line := validLine(DocTypeInvoice)
		line.Amount = decimal.NewFromInt(-100)
		line.CrAmt = decimal.NewFromInt(-100)
		err := ValidateLines([]Line{line})
		assert.Error(t, err)
	})

	t.Run("zero amount line passes", func(t *testing.T) {
		line := Line{AccountType: AccountGL, DocType: DocTypeTDS, DrCr: Dr}
		assert.NoError(t, ValidateLines([]Line{line}))
	})

	t.Run("single TDS line passes", func(t *testing.T) {
		lines := []Line{validLine(DocTypeInvoice), tdsTestLine()}
		assert.NoError(t, ValidateLines(lines))
	})

	t.Run("duplicate TDS lines fail", func(t *testing.T) {
		lines := []Line{tdsTestLine(), tdsTestLine()}
		err := ValidateLines(lines)
		assert.Error(t, err)

		var dup *DuplicateTDSError
		assert.True(t, stdErrors.As(err, &dup))
		assert.Equal(t, 2, dup.Count)
	})

	t.Run("all violations reported at once", func(t *testing.T) {
		bad := Line{} // no doc type, no account type, but zero amounts hold
		err := ValidateLines([]Line{bad, bad})
		assert.Error(t, err)

		var verrs *ValidationErrors
		assert.True(t, stdErrors.As(err, &verrs))
		assert.Equal(t, 4, len(verrs.Errors))
	})
}

func tdsTestLine() Line {
	l := Line{AccountType: AccountGL, DocType: DocTypeTDS, DocNumber: "PA-1"}
	l.SetDebit(decimal.NewFromFloat(33.06))
	return l
}

// unwrapFirst digs the first collected error out of a ValidationErrors.
func unwrapFirst(t *testing.T, err error) error {
	t.Helper()
	var verrs *ValidationErrors
	assert.True(t, stdErrors.As(err, &verrs))
	assert.True(t, len(verrs.Errors) > 0)
	return verrs.Errors[0]
}

func TestSetters(t *testing.T) {
	t.Run("debit takes magnitude", func(t *testing.T) {
		var l Line
		l.SetDebit(decimal.NewFromInt(-295000))
		assert.Equal(t, Dr, l.DrCr)
		assert.Equal(t, "295000", l.Amount.String())
		assert.Equal(t, "295000", l.DrAmt.String())
		assert.True(t, l.CrAmt.IsZero())
	})

	t.Run("credit takes magnitude", func(t *testing.T) {
		var l Line
		l.SetCredit(decimal.NewFromFloat(-39012.76))
		assert.Equal(t, Cr, l.DrCr)
		assert.Equal(t, "39012.76", l.CrAmt.String())
		assert.True(t, l.DrAmt.IsZero())
	})

	t.Run("by sign", func(t *testing.T) {
		var debit, credit Line
		debit.SetBySign(decimal.NewFromInt(-10))
		credit.SetBySign(decimal.NewFromInt(10))
		assert.Equal(t, Dr, debit.DrCr)
		assert.Equal(t, Cr, credit.DrCr)
	})
}

func TestRefHelpers(t *testing.T) {
	assert.Zero(t, Ref(""))
	assert.Equal(t, "X", *Ref("X"))
	assert.Equal(t, "", RefValue(nil))
	assert.Equal(t, "X", RefValue(Ref("X")))
}
