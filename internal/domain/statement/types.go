// Package statement produces point-in-time stock statements from the ledger:
// opening, receipts, issues and closing per item over a date range.
package statement

import (
	"time"

	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
)

// Row is one item's line in the statement.
type Row struct {
	ItemID   id.ID  `json:"itemId"`
	ItemName string `json:"itemName"`
	Unit     string `json:"unit"`

	OpeningQty    types.Quantity `json:"openingQty"`
	OpeningAmount types.Money    `json:"openingAmount"`

	ReceiptQty    types.Quantity `json:"receiptQty"`
	ReceiptAmount types.Money    `json:"receiptAmount"`

	IssueQty    types.Quantity `json:"issueQty"`
	IssueAmount types.Money    `json:"issueAmount"`

	ClosingQty    types.Quantity `json:"closingQty"`
	ClosingAmount types.Money    `json:"closingAmount"`

	// ClosingRate is closing amount / closing quantity, or the costing
	// default when the closing quantity is zero.
	ClosingRate types.Money `json:"closingRate"`
}

// Statement is the full report for a window [FromDate, ToDate).
type Statement struct {
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`
	Rows     []Row     `json:"rows"`

	TotalReceiptAmount types.Money `json:"totalReceiptAmount"`
	TotalIssueAmount   types.Money `json:"totalIssueAmount"`
	TotalClosingAmount types.Money `json:"totalClosingAmount"`
}

// Filter selects what the statement covers.
type Filter struct {
	FromDate time.Time
	ToDate   time.Time

	// ItemID restricts the report to a single item when set.
	ItemID *id.ID
}
