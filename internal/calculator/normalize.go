package calculator

import (
	"github.com/mmynk/duoledger/internal/models"
)

// Normalize rewrites the self and partner shorthands before a transaction
// is stored, so stored data only carries split types whose resolved
// balances match the shorthand:
//
//	self     custom split with the whole amount on the payer
//	partner  host_all or guest_all, naming the non-payer's role
//
// partner is left unchanged unless roles hold exactly one host and one
// guest; Validate rejects it in that case. Other split types are returned
// unchanged.
func Normalize(tx models.Transaction, roles map[string]models.Role) models.Transaction {
	switch tx.SplitType {
	case models.SplitSelf:
		tx.SplitType = models.SplitCustom
		tx.CustomSplit = map[string]float64{tx.PayerID: tx.Amount}
	case models.SplitPartner:
		if !hostGuestPair(roles) {
			return tx
		}
		switch roles[tx.PayerID] {
		case models.RoleHost:
			tx.SplitType = models.SplitGuestAll
		case models.RoleGuest:
			tx.SplitType = models.SplitHostAll
		default:
			return tx
		}
		tx.CustomSplit = nil
	}
	return tx
}

// hostGuestPair reports whether roles are exactly one host and one guest.
func hostGuestPair(roles map[string]models.Role) bool {
	if len(roles) != 2 {
		return false
	}
	var hosts, guests int
	for _, r := range roles {
		switch r {
		case models.RoleHost:
			hosts++
		case models.RoleGuest:
			guests++
		}
	}
	return hosts == 1 && guests == 1
}
