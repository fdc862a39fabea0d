// Package loader adapts extraction output into the canonical input shape the
// engine consumes. Two sources are supported:
//
//   - extraction payloads (JSON): one advice per payload, with the meta and
//     body tables accessible under any of the historical key conventions
//     (canonical snake_case, legacy camelCase, free-text header labels)
//   - distributor settlement workbooks (xlsx): one advice per spreadsheet
//     row, loaded directly with excelize
//
// Undefined optional fields are resolved to the empty string (or a nil
// pointer where null must stay distinguishable from zero); a missing field
// never raises.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tallyops/advicenorm/advice"
	"github.com/tallyops/advicenorm/telemetry"
)

// Extraction is one payment advice as delivered by the extraction stage:
// the resolved meta header plus the raw body rows, and the external group
// identifier it was extracted under.
type Extraction struct {
	AdviceUUID string
	Group      string
	Meta       advice.MetaHeader
	Rows       []advice.RawRow
}

// Loader reads extraction payloads and settlement workbooks.
type Loader struct {
	// sheet restricts workbook loading to a named sheet. Empty means the
	// first sheet.
	sheet string
}

// Option configures a Loader.
type Option func(*Loader)

// WithSheet selects the workbook sheet to load instead of the first one.
func WithSheet(name string) Option {
	return func(l *Loader) {
		l.sheet = name
	}
}

// New creates a Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads filename and returns the advices it contains. Workbooks
// (.xlsx/.xlsm) yield one advice per row; any other file is parsed as a
// single JSON extraction payload.
func (l *Loader) Load(ctx context.Context, filename string) ([]Extraction, error) {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("load %s", filepath.Base(filename)))
	defer timer.End()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return l.loadWorkbook(filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	extraction, err := ParsePayload(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return []Extraction{*extraction}, nil
}

// LoadBytes parses in-memory payload data (e.g. from stdin or an HTTP
// request body) as a single extraction payload.
func (l *Loader) LoadBytes(ctx context.Context, name string, data []byte) ([]Extraction, error) {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("load %s", name))
	defer timer.End()

	extraction, err := ParsePayload(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return []Extraction{*extraction}, nil
}

// Alias tables for the payload's top-level keys, in priority order.
var (
	metaTableKeys = []string{"meta_table", "metaTable", "Meta Table"}
	bodyTableKeys = []string{"body_table", "bodyTable", "l2_table", "l2Table", "Body Table"}
	groupKeys     = []string{"group_uuid", "groupUuid", "group"}
	adviceKeys    = []string{"payment_advice_uuid", "paymentAdviceUuid"}
)

// ParsePayload decodes one extraction payload. The meta and body tables are
// located by alias, and each row's fields resolve through the row alias
// tables below.
func ParsePayload(data []byte) (*Extraction, error) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid extraction payload: %w", err)
	}

	extraction := &Extraction{
		AdviceUUID: advice.FirstNonEmpty(payload, adviceKeys...),
		Group:      advice.FirstNonEmpty(payload, groupKeys...),
	}

	if metaRaw := tableAt(payload, metaTableKeys); metaRaw != nil {
		extraction.Meta = advice.ResolveMeta(metaRaw)
	}

	for _, rowAny := range rowsAt(payload, bodyTableKeys) {
		row, ok := rowAny.(map[string]any)
		if !ok {
			// Non-object rows carry nothing resolvable and are dropped
			// before the engine sees them.
			continue
		}
		extraction.Rows = append(extraction.Rows, resolveRow(row))
	}

	return extraction, nil
}

func tableAt(payload map[string]any, keys []string) map[string]any {
	for _, key := range keys {
		if m, ok := payload[key].(map[string]any); ok {
			return m
		}
	}
	return nil
}

func rowsAt(payload map[string]any, keys []string) []any {
	for _, key := range keys {
		if rows, ok := payload[key].([]any); ok {
			return rows
		}
	}
	return nil
}

// Row field aliases, in priority order: snake_case, camelCase, then the
// column labels that appear on the printed advices.
var rowAliases = map[string][]string{
	"document_type":       {"document_type", "documentType", "Type of Document"},
	"doc_number":          {"doc_number", "docNumber", "Doc No"},
	"ref_doc":             {"ref_doc", "refDoc", "Ref Doc"},
	"amount":              {"amount", "Amount"},
	"payment_amount":      {"payment_amount", "paymentAmount", "Payment Amt."},
	"tds":                 {"tds", "TDS"},
	"invoice_number":      {"invoice_number", "invoiceNumber"},
	"invoice_date":        {"invoice_date", "invoiceDate"},
	"invoice_description": {"invoice_description", "invoiceDescription"},
	"discount_taken":      {"discount_taken", "discountTaken"},
	"amount_paid":         {"amount_paid", "amountPaid"},
	"amount_remaining":    {"amount_remaining", "amountRemaining"},
	"invoice_ref":         {"invoice_ref", "invoiceRef"},
	"after_tax_amount":    {"after_tax_amount", "afterTaxAmount"},
	"debit_note_amount":   {"debit_note_amount", "debitNoteAmount"},
	"grn_diff_amount":     {"grn_diff_amount", "grnDiffAmount"},
	"tds_amount":          {"tds_amount", "tdsAmount"},
	"utr":                 {"utr", "UTR"},
	"payee_name":          {"payee_name", "payeeName"},
}

func resolveRow(row map[string]any) advice.RawRow {
	return advice.RawRow{
		DocumentType:  advice.FirstNonEmpty(row, rowAliases["document_type"]...),
		DocNumber:     advice.FirstNonEmpty(row, rowAliases["doc_number"]...),
		RefDoc:        advice.FirstNonEmpty(row, rowAliases["ref_doc"]...),
		Amount:        advice.FirstNonEmpty(row, rowAliases["amount"]...),
		PaymentAmount: advice.FirstNonEmpty(row, rowAliases["payment_amount"]...),
		TDS:           advice.FirstNonEmpty(row, rowAliases["tds"]...),

		InvoiceNumber:      advice.FirstNonEmpty(row, rowAliases["invoice_number"]...),
		InvoiceDate:        advice.FirstNonEmpty(row, rowAliases["invoice_date"]...),
		InvoiceDescription: advice.FirstNonEmpty(row, rowAliases["invoice_description"]...),
		DiscountTaken:      advice.FirstNonEmpty(row, rowAliases["discount_taken"]...),
		AmountPaid:         optionalAt(row, rowAliases["amount_paid"]),
		AmountRemaining:    advice.FirstNonEmpty(row, rowAliases["amount_remaining"]...),

		InvoiceRef:      advice.FirstNonEmpty(row, rowAliases["invoice_ref"]...),
		AfterTaxAmount:  advice.FirstNonEmpty(row, rowAliases["after_tax_amount"]...),
		DebitNoteAmount: advice.FirstNonEmpty(row, rowAliases["debit_note_amount"]...),
		GRNDiffAmount:   advice.FirstNonEmpty(row, rowAliases["grn_diff_amount"]...),
		TDSAmount:       advice.FirstNonEmpty(row, rowAliases["tds_amount"]...),
		UTR:             advice.FirstNonEmpty(row, rowAliases["utr"]...),
		PayeeName:       advice.FirstNonEmpty(row, rowAliases["payee_name"]...),
	}
}

// optionalAt resolves a field whose null must stay distinguishable from
// zero: a present non-null value yields a pointer (even to "0"), while an
// absent or explicitly null field yields nil.
func optionalAt(row map[string]any, keys []string) *string {
	for _, key := range keys {
		v, ok := row[key]
		if !ok {
			continue
		}
		if v == nil {
			return nil
		}
		s := asString(v)
		return &s
	}
	return nil
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
