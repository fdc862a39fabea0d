package advice

import "github.com/shopspring/decimal"

// AccountType classifies a line for downstream account-code enrichment.
type AccountType string

const (
	// AccountBP marks a counterparty (business partner) line.
	AccountBP AccountType = "BP"
	// AccountGL marks an internal general-ledger line, e.g. tax withholding.
	AccountGL AccountType = "GL"
)

// DrCr is the debit/credit indicator of a line.
type DrCr string

const (
	Dr DrCr = "Dr"
	Cr DrCr = "Cr"
)

// Canonical document type codes emitted by the engine.
const (
	DocTypeInvoice     = "Invoice"
	DocTypeCreditNote  = "Credit note"
	DocTypeBankReceipt = "Bank receipt"
	DocTypeBDPO        = "BDPO"
	DocTypeTDS         = "TDS"
)

// DefaultBranch is the branch name applied when a line's group rules leave it
// unset.
const DefaultBranch = "Maharashtra"

// EnrichmentStatus values attached by the enrichment stage. The engine emits
// lines with an empty status; only later stages set it.
const (
	EnrichmentPending  = "pending"
	EnrichmentPartial  = "partial"
	EnrichmentComplete = "enriched"
)

// Line is one canonical payment-advice line, the engine's sole output shape.
// A line is immutable once emitted: the enrichment stage only fills the nil
// BPCode/GLCode fields and the status tag, never overwriting set values.
//
// Invariants, checked by ValidateLines:
//   - Amount, DrAmt, CrAmt are non-negative
//   - exactly one of DrAmt/CrAmt is non-zero (unless Amount is zero)
//   - Amount == DrAmt + CrAmt
//   - at most one line per advice has DocType "TDS"
type Line struct {
	LineUUID   string `json:"payment_advice_line_uuid,omitempty"`
	AdviceUUID string `json:"payment_advice_uuid,omitempty"`

	BPCode *string `json:"bp_code"`
	GLCode *string `json:"gl_code"`

	AccountType  AccountType `json:"account_type"`
	Customer     string      `json:"customer"`
	DocType      string      `json:"doc_type"`
	DocNumber    string      `json:"doc_number"`
	RefInvoiceNo *string     `json:"ref_invoice_no"`
	Ref1         *string     `json:"ref_1"`
	Ref2         *string     `json:"ref_2"`
	Ref3         *string     `json:"ref_3"`

	Amount decimal.Decimal `json:"amount"`
	DrCr   DrCr            `json:"dr_cr"`
	DrAmt  decimal.Decimal `json:"dr_amt"`
	CrAmt  decimal.Decimal `json:"cr_amt"`

	BranchName       string `json:"branch_name"`
	EnrichmentStatus string `json:"enrichment_status,omitempty"`
}

// SetDebit stores amount as a debit. The magnitude is taken, so callers may
// pass signed values directly.
func (l *Line) SetDebit(amount decimal.Decimal) {
	abs := amount.Abs()
	l.Amount = abs
	l.DrCr = Dr
	l.DrAmt = abs
	l.CrAmt = decimal.Zero
}

// SetCredit stores amount as a credit.
func (l *Line) SetCredit(amount decimal.Decimal) {
	abs := amount.Abs()
	l.Amount = abs
	l.DrCr = Cr
	l.DrAmt = decimal.Zero
	l.CrAmt = abs
}

// SetBySign stores a debit when amount is negative and a credit otherwise.
// This is the common sign convention across the group rule tables; groups
// with inverted or fixed directions call SetDebit/SetCredit directly.
func (l *Line) SetBySign(amount decimal.Decimal) {
	if amount.IsNegative() {
		l.SetDebit(amount)
	} else {
		l.SetCredit(amount)
	}
}

// Ref returns a pointer for a nullable reference field, mapping the empty
// string to nil.
func Ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// RefValue unwraps a nullable reference field for display.
func RefValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
