package models

import "time"

// SettlementCategoryID is the sentinel category every settlement transaction carries.
const SettlementCategoryID = "settlement"

// NewSettlement builds the transaction recorded when a debtor repays a creditor.
// The debtor is the payer; the amount is always in the reporting currency.
func NewSettlement(projectID, debtorID string, amount float64, date time.Time, createdBy string) Transaction {
	return Transaction{
		ProjectID:    projectID,
		Title:        "Settlement",
		Amount:       amount,
		Currency:     ReportingCurrency,
		PayerID:      debtorID,
		SplitType:    SplitSettlement,
		CategoryID:   SettlementCategoryID,
		Date:         date,
		IsSettlement: true,
		CreatedBy:    createdBy,
	}
}
