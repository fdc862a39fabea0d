// Package advice defines the canonical data model for vendor payment advices:
// the raw extraction shapes that arrive from the extraction service, the
// resolved meta header, and the ERP-ready PaymentAdviceLine records the
// normalization engine emits.
//
// The model is deliberately free of behaviour beyond field resolution and
// invariant validation; all group-specific transformation lives in the
// normalize package.
package advice

// VendorGroup identifies the vendor ("group") whose rule table applies to a
// payment advice. The set is closed so per-group rule sets stay exhaustively
// checkable; unknown external identifiers map to GroupUnknown.
type VendorGroup int

const (
	// GroupUnknown means no group-specific rules apply. Normalizing an
	// advice for GroupUnknown yields an empty line list, not an error.
	GroupUnknown VendorGroup = iota

	// GroupMarketplace covers marketplace remittance advices whose rows
	// carry a free-text invoice description instead of a document type.
	GroupMarketplace

	// GroupQuickCommerce covers quick-commerce advices with an explicit
	// document-type column per row.
	GroupQuickCommerce

	// GroupDistributor covers distributor settlement spreadsheets with one
	// row per payment advice.
	GroupDistributor
)

var groupNames = map[VendorGroup]string{
	GroupUnknown:       "unknown",
	GroupMarketplace:   "marketplace",
	GroupQuickCommerce: "quickcommerce",
	GroupDistributor:   "distributor",
}

func (g VendorGroup) String() string {
	if name, ok := groupNames[g]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the group as its canonical name.
func (g VendorGroup) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a canonical group name. Unrecognized names decode
// to GroupUnknown rather than failing, mirroring ParseVendorGroup.
func (g *VendorGroup) UnmarshalText(text []byte) error {
	*g = ParseVendorGroup(string(text))
	return nil
}

// ParseVendorGroup maps a group name to its VendorGroup. Matching is exact;
// external identifiers (group UUIDs and the like) are translated to these
// names by configuration before they reach the engine. Unrecognized names
// return GroupUnknown.
func ParseVendorGroup(name string) VendorGroup {
	for g, n := range groupNames {
		if n == name {
			return g
		}
	}
	return GroupUnknown
}

// Groups returns all known vendor groups, excluding GroupUnknown.
func Groups() []VendorGroup {
	return []VendorGroup{GroupMarketplace, GroupQuickCommerce, GroupDistributor}
}

// RawRow is one row of the extraction output's body table. It carries the
// union of the per-group shapes; loaders populate the fields their source
// provides and leave the rest empty.
//
// All numeric fields are kept as strings at this layer. They may contain
// thousands separators or a parenthesized negative and are parsed tolerantly
// by the parse package.
type RawRow struct {
	// Quick-commerce shape: explicit document type per row.
	DocumentType  string `json:"document_type,omitempty"`
	DocNumber     string `json:"doc_number,omitempty"`
	RefDoc        string `json:"ref_doc,omitempty"`
	Amount        string `json:"amount,omitempty"`
	PaymentAmount string `json:"payment_amount,omitempty"` // defaults to Amount
	TDS           string `json:"tds,omitempty"`

	// Marketplace shape: classification happens on the description text.
	// AmountPaid is a pointer so a null amount (row to be skipped) stays
	// distinguishable from an explicit zero.
	InvoiceNumber      string  `json:"invoice_number,omitempty"`
	InvoiceDate        string  `json:"invoice_date,omitempty"`
	InvoiceDescription string  `json:"invoice_description,omitempty"`
	DiscountTaken      string  `json:"discount_taken,omitempty"`
	AmountPaid         *string `json:"amount_paid,omitempty"`
	AmountRemaining    string  `json:"amount_remaining,omitempty"`

	// Distributor shape: one settlement row per payment advice.
	InvoiceRef      string `json:"invoice_ref,omitempty"`
	AfterTaxAmount  string `json:"after_tax_amount,omitempty"`
	DebitNoteAmount string `json:"debit_note_amount,omitempty"`
	GRNDiffAmount   string `json:"grn_diff_amount,omitempty"`
	TDSAmount       string `json:"tds_amount,omitempty"`
	UTR             string `json:"utr,omitempty"`
	PayeeName       string `json:"payee_name,omitempty"`
}

// MetaHeader holds the advice-level fields resolved from the extraction
// output's meta table. All fields are optional; a missing field is the empty
// string and never blocks line generation.
type MetaHeader struct {
	SettlementDate string `json:"settlement_date,omitempty"`
	AdviceNumber   string `json:"payment_advice_number,omitempty"`
	PayerName      string `json:"payer_legal_name,omitempty"`
	PayeeName      string `json:"payee_legal_name,omitempty"`
	AdviceAmount   string `json:"payment_advice_amount,omitempty"`
}
