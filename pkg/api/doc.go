// Package api defines the request and response messages of the
// duoledger.v1 Connect services. Messages travel as JSON with lowerCamel
// field names; dates are "YYYY-MM-DD" strings in the ledger's calendar.
package api

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// MonthLayout is the wire format of report months.
const MonthLayout = "2006-01"
