package normalize

import (
	"strings"

	"github.com/tallyops/advicenorm/advice"
	"github.com/tallyops/advicenorm/parse"
)

// quickCommerce normalizes advices whose body table carries an explicit
// document type per row ("Credit Memo", "Invoice Payment", "Bank receipt",
// "AP-AR Adjustment"). Withholding tax arrives in a dedicated TDS column and
// is netted across the whole advice: TDS against Invoice-Payment rows minus
// TDS against everything else.
type quickCommerce struct{}

func (quickCommerce) Group() advice.VendorGroup { return advice.GroupQuickCommerce }

func (quickCommerce) Normalize(meta advice.MetaHeader, rows []advice.RawRow) (*Result, error) {
	res := &Result{Group: advice.GroupQuickCommerce}
	var tds tdsNet

	for i, row := range rows {
		docType := strings.TrimSpace(row.DocumentType)
		docNumber := strings.TrimSpace(row.DocNumber)
		refDoc := strings.TrimSpace(row.RefDoc)

		if docType == "" || docNumber == "" {
			res.warnf(i, "missing document type or document number")
			continue
		}

		// Rows typed as TDS fold into the net aggregate instead of the
		// main line loop.
		if parse.ContainsFold(docType, "tds") {
			if amt, ok := parse.Amount(row.Amount); ok {
				tds.addOther(amt)
			} else {
				res.warnf(i, "unparsable amount %q on TDS row", row.Amount)
			}
			continue
		}

		amount, ok := parse.Amount(row.Amount)
		if !ok {
			res.warnf(i, "unparsable amount %q", row.Amount)
			continue
		}
		payment := amount
		if row.PaymentAmount != "" {
			payment, ok = parse.Amount(row.PaymentAmount)
			if !ok {
				res.warnf(i, "unparsable payment amount %q", row.PaymentAmount)
				continue
			}
		}

		// The TDS column contributes to the net regardless of which rule
		// branch the row takes.
		if row.TDS != "" {
			if t, ok := parse.Amount(row.TDS); ok {
				if strings.EqualFold(docType, "invoice payment") {
					tds.addInvoice(t)
				} else {
					tds.addOther(t)
				}
			} else {
				res.warnf(i, "unparsable TDS amount %q", row.TDS)
			}
		}

		line := advice.Line{
			AccountType: advice.AccountBP,
			Customer:    meta.PayerName,
		}

		// Field defaults before the rule branches: secondary references
		// fall back to the advice header.
		var refInvoiceNo string
		var ref1 string
		ref2 := meta.AdviceNumber
		ref3 := meta.SettlementDate

		switch {
		case strings.EqualFold(docType, "credit memo"):
			line.DocType = advice.DocTypeCreditNote
			if strings.HasPrefix(refDoc, "KK") {
				// KK-coded credit note: the reference document becomes
				// the document number and both primary references.
				docNumber = refDoc
				ref1 = docNumber
				ref2 = docNumber
			} else {
				if strings.Contains(refDoc, "_") {
					refInvoiceNo = parse.FirstSegment(refDoc, "_")
				} else {
					refInvoiceNo = refDoc
				}
				ref1 = docNumber
				ref2 = ref1
			}
			ref3 = "RTV"
			line.SetBySign(payment)

		case strings.EqualFold(docType, "invoice payment"):
			line.DocType = advice.DocTypeInvoice
			docNumber = refDoc
			ref1 = docNumber
			if strings.Contains(ref1, "/") {
				ref2 = parse.AfterFirst(ref1, "/")
			}
			ref3 = "INV"
			line.SetCredit(payment)

		case strings.EqualFold(docType, "bank receipt"):
			line.DocType = advice.DocTypeBankReceipt
			ref1 = docNumber
			ref2 = ref1
			ref3 = "REC"
			line.SetDebit(payment)

		case strings.EqualFold(docType, "ap-ar adjustment"):
			line.DocType = advice.DocTypeBDPO
			refInvoiceNo = refDoc
			ref1 = docNumber
			ref2 = ref1
			ref3 = "BDPO"
			// Negative adjustments post as debits here. This reads
			// inverted, but it is what this vendor's settlement matrix
			// wants; do not flip it without ERP-side confirmation.
			line.SetBySign(payment)

		default:
			line.DocType = parse.ShortCode(docType, 3)
			line.SetBySign(payment)
		}

		line.DocNumber = docNumber
		line.RefInvoiceNo = advice.Ref(refInvoiceNo)
		line.Ref1 = advice.Ref(ref1)
		line.Ref2 = advice.Ref(ref2)
		line.Ref3 = advice.Ref(ref3)

		res.Lines = append(res.Lines, line)
	}

	if net := tds.net(); tds.seen && !net.IsZero() {
		res.Lines = append(res.Lines, tdsLine(meta, net, true))
	}

	return res, nil
}
