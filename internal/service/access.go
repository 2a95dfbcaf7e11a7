package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/duoledger/internal/auth"
	"github.com/mmynk/duoledger/internal/calculator"
	"github.com/mmynk/duoledger/internal/middleware"
	"github.com/mmynk/duoledger/internal/models"
	"github.com/mmynk/duoledger/internal/storage"
)

// requireUser returns the authenticated caller.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", auth.ErrMissingToken
	}
	return userID, nil
}

// requireMember loads the project and its members and checks that userID
// belongs to it.
func requireMember(ctx context.Context, projects storage.ProjectStore, projectID, userID string) (*models.Project, []models.Member, error) {
	if projectID == "" {
		return nil, nil, &calculator.ValidationError{Field: "project_id", Reason: fmt.Errorf("required")}
	}
	project, err := projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	members, err := projects.ListMembers(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if !isMember(members, userID) {
		return nil, nil, errNotMember
	}
	return project, members, nil
}

func isMember(members []models.Member, userID string) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// loadSnapshot reads one consistent ledger for a member of the project.
func loadSnapshot(ctx context.Context, store storage.TransactionStore, projectID, userID string) (calculator.Snapshot, error) {
	if projectID == "" {
		return calculator.Snapshot{}, &calculator.ValidationError{Field: "project_id", Reason: fmt.Errorf("required")}
	}
	ledger, err := store.LoadLedger(ctx, projectID)
	if err != nil {
		return calculator.Snapshot{}, err
	}
	if !isMember(ledger.Members, userID) {
		return calculator.Snapshot{}, errNotMember
	}
	return calculator.Snapshot{
		Project:      *ledger.Project,
		Roles:        models.Roles(ledger.Members),
		Transactions: ledger.Transactions,
	}, nil
}

// warnMissingRates logs currencies counted at rate 1 and returns them.
func warnMissingRates(ctx context.Context, logger *slog.Logger, snap calculator.Snapshot) []string {
	missing := calculator.MissingRates(snap.Transactions, snap.Project.Rates)
	if len(missing) > 0 {
		logger.WarnContext(ctx, "Missing exchange rates, amounts counted unconverted",
			"project_id", snap.Project.ID,
			"currencies", missing,
		)
	}
	return missing
}
