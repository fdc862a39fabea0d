package advice

import "strconv"

// Meta header fields arrive under several historical key conventions:
// canonical snake_case keys, legacy camelCase keys, and the free-text labels
// that appear verbatim on the printed advices. Each logical field resolves
// through one explicit ordered alias table instead of per-call-site fallback
// chains; the first alias with a non-empty value wins.

var metaAliases = map[string][]string{
	"settlement_date": {
		"payment_advice_date",
		"settlement_date",
		"paymentAdviceDate",
		"Settlement Date",
	},
	"payment_advice_number": {
		"payment_advice_number",
		"paymentAdviceNumber",
		"Payment Advice Number",
	},
	"payer_legal_name": {
		"payer_legal_name",
		"payer_name",
		"payersLegalName",
		"Payer's Name",
	},
	"payee_legal_name": {
		"payee_legal_name",
		"payee_name",
		"payeesLegalName",
		"Payee's Legal Name",
	},
	"payment_advice_amount": {
		"payment_advice_amount",
		"payment_amount",
		"paymentAdviceAmount",
		"Payment Advice Amount",
	},
}

// ResolveMeta builds a MetaHeader from a raw meta table, trying each field's
// aliases in priority order.
func ResolveMeta(raw map[string]any) MetaHeader {
	return MetaHeader{
		SettlementDate: FirstNonEmpty(raw, metaAliases["settlement_date"]...),
		AdviceNumber:   FirstNonEmpty(raw, metaAliases["payment_advice_number"]...),
		PayerName:      FirstNonEmpty(raw, metaAliases["payer_legal_name"]...),
		PayeeName:      FirstNonEmpty(raw, metaAliases["payee_legal_name"]...),
		AdviceAmount:   FirstNonEmpty(raw, metaAliases["payment_advice_amount"]...),
	}
}

// FirstNonEmpty returns the value of the first key present in m with a
// non-empty string representation. Non-string scalars are accepted and
// stringified by stringValue; nil values and missing keys are skipped.
func FirstNonEmpty(m map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		if s := stringValue(v); s != "" {
			return s
		}
	}
	return ""
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64. Preserve integral values without
		// a trailing fraction.
		return formatJSONNumber(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func formatJSONNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
