package model

import (
	"fmt"
	"strings"
)

// historyWindow is how many prior turns are quoted back to the backend.
const historyWindow = 5

// PurchaseOrderActions are the canned tasks offered when a purchase order
// is detected. Menu numbering is 1-based over this list.
var PurchaseOrderActions = []string{
	"Convert this purchase order into a CSV format with columns: Item No, Description, Quantity, Unit Price, Total Amount",
	"Extract all line items from this PO and format them as a spreadsheet",
	"List all products and their quantities from this purchase order",
	"Calculate the total order value and provide a breakdown by item",
}

var purchaseOrderKeywords = []string{
	"purchase order",
	"po number",
	"order date",
	"unit price",
	"quantity",
	"total amount",
	"bill to",
	"ship to",
}

const (
	noDocumentText = "Please upload a purchase order document first."
	menuHeader     = "I've detected this is a Purchase Order document. Would you like me to:\n\n"
)

// IsPurchaseOrder reports whether text contains any purchase-order keyword,
// case-insensitively.
func IsPurchaseOrder(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range purchaseOrderKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// PurchaseOrderMenu renders the numbered action menu.
func PurchaseOrderMenu() string {
	var b strings.Builder
	b.WriteString(menuHeader)
	for i, action := range PurchaseOrderActions {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, action)
	}
	return b.String()
}

// menuChoice returns the zero-based action index when text, trimmed, is a
// single ASCII digit within the menu range.
func menuChoice(text string) (int, bool) {
	t := strings.TrimSpace(text)
	if len(t) != 1 || t[0] < '1' || t[0] > '9' {
		return 0, false
	}
	idx := int(t[0] - '1')
	if idx >= len(PurchaseOrderActions) {
		return 0, false
	}
	return idx, true
}

func actionIndex(action string) int {
	for i, a := range PurchaseOrderActions {
		if a == action {
			return i
		}
	}
	return -1
}

// renderHistory formats turns as "role: text" lines, oldest first.
func renderHistory(turns []Turn) string {
	lines := make([]string, len(turns))
	for i, t := range turns {
		lines[i] = fmt.Sprintf("%s: %s", t.Role, t.Text())
	}
	return strings.Join(lines, "\n")
}

func contextPrompt(doc DocumentContext, history []Turn, task string) string {
	return fmt.Sprintf("\nContext (Purchase Order Document):\n%s\n\nPrevious conversation context:\n%s\n\nTask:\n%s\n\nPlease process this purchase order according to the requested format.",
		doc.RawText, renderHistory(history), task)
}

func freeFormPrompt(doc *DocumentContext, history []Turn, request string) string {
	var b strings.Builder
	if doc != nil {
		b.WriteString("Document Context:\n")
		b.WriteString(doc.RawText)
		b.WriteString("\n\n")
	}
	b.WriteString("Previous conversation:\n")
	b.WriteString(renderHistory(history))
	b.WriteString("\n\nUser's request:\n")
	b.WriteString(request)
	return b.String()
}
