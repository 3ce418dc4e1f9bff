package testutil

import "poassist/model"

// PurchaseOrderText is extracted text of a small purchase order
const PurchaseOrderText = `ACME Supplies Inc.
PURCHASE ORDER
PO Number: PO-2024-0042
Order Date: 2024-03-01
Bill To: Globex Corp, 1 Main St
Ship To: Globex Warehouse, 9 Dock Rd

Item No  Description        Quantity  Unit Price  Total Amount
1        Steel bolts M8     500       0.12        60.00
2        Hex nuts M8        500       0.05        25.00
3        Washers 8mm        1000      0.02        20.00

Total: 105.00`

// PlainDocumentText contains no purchase-order keyword
const PlainDocumentText = `Meeting notes
We discussed the roadmap for next year and agreed to revisit in March.`

// DocumentTurn returns the items of a turn uploading text as name
func DocumentTurn(text, name string) []model.ContentItem {
	return []model.ContentItem{model.NewDocumentItem(text, name)}
}

// TextTurn returns the items of a plain text turn
func TextTurn(text string) []model.ContentItem {
	return []model.ContentItem{model.NewTextItem(text)}
}
