package calculator

import (
	"math"

	"github.com/mmynk/duoledger/internal/models"
)

// Share is one participant's view of a single transaction, in the
// reporting currency.
type Share struct {
	Paid      float64 // cash the participant put down
	Liability float64 // the participant's fair share
}

// Resolve computes viewerID's paid amount and liability for tx, converting
// with the project's rates.
//
// Split rules (n is the number of project participants, 2 in the common case):
//
//	even         paid: amount if payer   liability: amount / n
//	custom       paid: split[viewer]     liability: split[viewer]
//	host_all     paid: amount if payer   liability: amount if viewer is host
//	guest_all    paid: amount if payer   liability: amount if viewer is guest
//	self         paid: amount if payer   liability: amount if payer
//	partner      paid: amount if payer   liability: amount if not payer
//	multi_payer  paid: split[viewer]     liability: amount / n
//
// In a private project the liability is always the full amount. Settlement
// transactions and unknown split types resolve to zero.
func Resolve(tx models.Transaction, viewerID string, roles map[string]models.Role, project models.Project) Share {
	if tx.Settles() {
		return Share{}
	}

	amount := finite(ToReportingCurrency(tx.Amount, tx.Currency, project.Rates))
	isPayer := tx.PayerID == viewerID
	paidIfPayer := 0.0
	if isPayer {
		paidIfPayer = amount
	}

	var s Share
	switch tx.SplitType {
	case models.SplitEven:
		s = Share{Paid: paidIfPayer, Liability: amount / participantCount(roles)}
	case models.SplitCustom:
		part := splitShare(tx, viewerID, project.Rates)
		s = Share{Paid: part, Liability: part}
	case models.SplitHostAll:
		s = Share{Paid: paidIfPayer, Liability: amountIf(roles[viewerID] == models.RoleHost, amount)}
	case models.SplitGuestAll:
		s = Share{Paid: paidIfPayer, Liability: amountIf(roles[viewerID] == models.RoleGuest, amount)}
	case models.SplitSelf:
		s = Share{Paid: paidIfPayer, Liability: amountIf(isPayer, amount)}
	case models.SplitPartner:
		s = Share{Paid: paidIfPayer, Liability: amountIf(!isPayer, amount)}
	case models.SplitMultiPayer:
		s = Share{Paid: splitShare(tx, viewerID, project.Rates), Liability: amount / participantCount(roles)}
	default:
		return Share{}
	}

	if project.IsPrivate() {
		s.Liability = amount
	}
	return s
}

// PaidBy returns only the cash outlay of participantID, the figure
// contribution reporting is built on.
func PaidBy(tx models.Transaction, participantID string, rates map[string]float64) float64 {
	if tx.Settles() {
		return 0
	}
	switch tx.SplitType {
	case models.SplitCustom, models.SplitMultiPayer:
		return splitShare(tx, participantID, rates)
	case models.SplitEven, models.SplitHostAll, models.SplitGuestAll, models.SplitSelf, models.SplitPartner:
		if tx.PayerID == participantID {
			return finite(ToReportingCurrency(tx.Amount, tx.Currency, rates))
		}
	}
	return 0
}

// splitShare converts the participant's CustomSplit entry. Missing, NaN and
// infinite entries count as zero so one corrupt record cannot poison a report.
func splitShare(tx models.Transaction, participantID string, rates map[string]float64) float64 {
	return finite(ToReportingCurrency(tx.CustomSplit[participantID], tx.Currency, rates))
}

func participantCount(roles map[string]models.Role) float64 {
	if len(roles) < 2 {
		return 2
	}
	return float64(len(roles))
}

func amountIf(cond bool, amount float64) float64 {
	if cond {
		return amount
	}
	return 0
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
