package calculator

import (
	"math"
	"time"

	"github.com/mmynk/duoledger/internal/models"
)

// staleTolerance is how far a historical debt may exceed the current one
// before it is treated as already partly repaid.
const staleTolerance = 1.0

// Settlement is a directional payment instruction.
type Settlement struct {
	Amount     float64 // always >= 0
	CreditorID string
	DebtorID   string
}

// HistoricalSettlement is a settlement computed as of a past date, with the
// figures that decided its amount.
type HistoricalSettlement struct {
	Settlement

	// RawPeriodAmount is |balance| as of the cutoff.
	RawPeriodAmount float64

	// CurrentTotalAmount is |balance| today.
	CurrentTotalAmount float64

	// ShowWarning is set when the debtor has already paid part of the
	// historical debt; Amount is then clamped to CurrentTotalAmount.
	ShowWarning bool
}

// Counterpart returns the other participant of a two-person ledger.
func Counterpart(roles map[string]models.Role, viewerID string) (string, error) {
	if _, ok := roles[viewerID]; !ok {
		return "", ErrNotParticipant
	}
	if len(roles) != 2 {
		return "", ErrTwoPartyOnly
	}
	for id := range roles {
		if id != viewerID {
			return id, nil
		}
	}
	return "", ErrTwoPartyOnly
}

// CurrentSettlement returns who owes whom across every transaction in the
// snapshot.
func CurrentSettlement(snap Snapshot, viewerID string) (Settlement, error) {
	other, err := Counterpart(snap.Roles, viewerID)
	if err != nil {
		return Settlement{}, err
	}
	net := Aggregate(snap, viewerID, time.Time{}).NetBalance
	return direct(net, viewerID, other), nil
}

// HistoricalSettlementAsOf settles the ledger as it stood at the end of
// cutoff's day.
//
// Direction always comes from the cutoff balance. The amount is the cutoff
// debt unless the viewer was the debtor and the debt has since shrunk by
// more than staleTolerance, in which case only the current debt is asked
// for. This keeps a debtor from paying the same money twice.
func HistoricalSettlementAsOf(snap Snapshot, viewerID string, cutoff time.Time) (HistoricalSettlement, error) {
	other, err := Counterpart(snap.Roles, viewerID)
	if err != nil {
		return HistoricalSettlement{}, err
	}

	period := Aggregate(snap, viewerID, cutoff).NetBalance
	current := Aggregate(snap, viewerID, time.Time{}).NetBalance

	h := HistoricalSettlement{
		Settlement:         direct(period, viewerID, other),
		RawPeriodAmount:    math.Abs(period),
		CurrentTotalAmount: math.Abs(current),
	}
	if period < 0 && h.RawPeriodAmount > h.CurrentTotalAmount+staleTolerance {
		h.ShowWarning = true
		h.Amount = h.CurrentTotalAmount
	}
	return h, nil
}

// direct orients a net balance. A zero balance is ordered by ID so both
// participants see the same direction.
func direct(net float64, viewerID, otherID string) Settlement {
	switch {
	case net > 0:
		return Settlement{Amount: net, CreditorID: viewerID, DebtorID: otherID}
	case net < 0:
		return Settlement{Amount: -net, CreditorID: otherID, DebtorID: viewerID}
	}
	debtor, creditor := viewerID, otherID
	if creditor < debtor {
		debtor, creditor = creditor, debtor
	}
	return Settlement{CreditorID: creditor, DebtorID: debtor}
}
