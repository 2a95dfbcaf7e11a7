package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/duoledger/internal/calculator"
	"github.com/mmynk/duoledger/internal/models"
	"github.com/mmynk/duoledger/internal/notify"
	"github.com/mmynk/duoledger/internal/storage"
	"github.com/mmynk/duoledger/pkg/api"
	"github.com/mmynk/duoledger/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService: the write path for
// transactions and subscriptions.
type LedgerService struct {
	store     storage.Store
	publisher notify.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewLedgerService creates a LedgerService. Events for every write go to
// publisher.
func NewLedgerService(store storage.Store, publisher notify.Publisher, logger *slog.Logger) *LedgerService {
	return &LedgerService{store: store, publisher: publisher, logger: logger, now: time.Now}
}

// CreateTransaction validates, normalizes and stores a new transaction.
func (s *LedgerService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Transaction == nil {
		return nil, invalidArgument("transaction", fmt.Errorf("required"))
	}

	project, members, err := requireMember(ctx, s.store, req.Msg.Transaction.ProjectID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	tx, err := transactionFromProto(req.Msg.Transaction, s.now())
	if err != nil {
		return nil, toConnectError(err)
	}
	tx, err = prepare(tx, project, members)
	if err != nil {
		return nil, toConnectError(err)
	}
	tx.CreatedBy = userID

	if err := s.store.CreateTransaction(ctx, &tx); err != nil {
		s.logger.ErrorContext(ctx, "CreateTransaction failed", "project_id", project.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Transaction created",
		"project_id", project.ID,
		"transaction_id", tx.ID,
		"split_type", tx.SplitType,
	)
	s.publish(ctx, notify.TransactionCreated, tx, userID)
	return connect.NewResponse(&api.TransactionResponse{Transaction: transactionToProto(&tx)}), nil
}

// GetTransaction returns one transaction of a project the caller belongs to.
func (s *LedgerService) GetTransaction(ctx context.Context, req *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	tx, err := s.memberTransaction(ctx, req.Msg.TransactionID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.TransactionResponse{Transaction: transactionToProto(tx)}), nil
}

// UpdateTransaction replaces the editable fields of a transaction. The
// project, creator and creation time never change.
func (s *LedgerService) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Transaction == nil || req.Msg.Transaction.ID == "" {
		return nil, invalidArgument("transaction", fmt.Errorf("id is required"))
	}

	existing, err := s.memberTransaction(ctx, req.Msg.Transaction.ID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	project, members, err := requireMember(ctx, s.store, existing.ProjectID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	tx, err := transactionFromProto(req.Msg.Transaction, s.now())
	if err != nil {
		return nil, toConnectError(err)
	}
	tx.ID = existing.ID
	tx.ProjectID = existing.ProjectID
	tx.CreatedBy = existing.CreatedBy
	tx.CreatedAt = existing.CreatedAt
	tx, err = prepare(tx, project, members)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.UpdateTransaction(ctx, &tx); err != nil {
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Transaction updated", "project_id", tx.ProjectID, "transaction_id", tx.ID)
	s.publish(ctx, notify.TransactionUpdated, tx, userID)
	return connect.NewResponse(&api.TransactionResponse{Transaction: transactionToProto(&tx)}), nil
}

// DeleteTransaction removes a transaction.
func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	tx, err := s.memberTransaction(ctx, req.Msg.TransactionID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteTransaction(ctx, tx.ID); err != nil {
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Transaction deleted", "project_id", tx.ProjectID, "transaction_id", tx.ID)
	s.publish(ctx, notify.TransactionDeleted, *tx, userID)
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

// ListTransactions returns the project's transactions, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, _, err := requireMember(ctx, s.store, req.Msg.ProjectID, userID); err != nil {
		return nil, toConnectError(err)
	}

	txs, err := s.store.ListTransactions(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Transaction, len(txs))
	for i := range txs {
		out[i] = transactionToProto(&txs[i])
	}
	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: out}), nil
}

// CreateSubscription stores a recurring charge. Its first charge is
// materialized by the worker once NextPaymentDate arrives.
func (s *LedgerService) CreateSubscription(ctx context.Context, req *connect.Request[api.CreateSubscriptionRequest]) (*connect.Response[api.CreateSubscriptionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	in := req.Msg.Subscription
	if in == nil {
		return nil, invalidArgument("subscription", fmt.Errorf("required"))
	}
	project, members, err := requireMember(ctx, s.store, in.ProjectID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	cycle := models.Cycle(in.Cycle)
	if cycle != models.CycleMonthly && cycle != models.CycleWeekly {
		return nil, invalidArgument("cycle", fmt.Errorf("must be monthly or weekly, got %q", in.Cycle))
	}
	if in.Title == "" {
		return nil, invalidArgument("title", fmt.Errorf("required"))
	}
	next, err := parseDate("next_payment_date", in.NextPaymentDate)
	if err != nil {
		return nil, toConnectError(err)
	}

	// The charge template passes the same checks as a hand-entered transaction.
	template, err := transactionFromProto(&api.Transaction{
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Amount:      in.Amount,
		Currency:    in.Currency,
		PayerID:     in.PayerID,
		SplitType:   in.SplitType,
		CustomSplit: in.CustomSplit,
		CategoryID:  in.CategoryID,
		Date:        in.NextPaymentDate,
	}, s.now())
	if err != nil {
		return nil, toConnectError(err)
	}
	if template.SplitType == models.SplitSettlement {
		return nil, invalidArgument("split_type", fmt.Errorf("a subscription cannot be a settlement"))
	}
	template, err = prepare(template, project, members)
	if err != nil {
		return nil, toConnectError(err)
	}

	sub := &models.Subscription{
		ProjectID:       project.ID,
		Title:           template.Title,
		Amount:          template.Amount,
		Currency:        template.Currency,
		PayerID:         template.PayerID,
		SplitType:       template.SplitType,
		CustomSplit:     template.CustomSplit,
		CategoryID:      template.CategoryID,
		Cycle:           cycle,
		NextPaymentDate: next,
		CreatedBy:       userID,
	}
	if cycle == models.CycleMonthly {
		sub.BillingDay = next.Day()
	}
	if err := s.store.CreateSubscription(ctx, sub); err != nil {
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Subscription created",
		"project_id", project.ID,
		"subscription_id", sub.ID,
		"cycle", cycle,
		"next_payment_date", formatDate(next),
	)
	return connect.NewResponse(&api.CreateSubscriptionResponse{Subscription: subscriptionToProto(sub)}), nil
}

// ListSubscriptions returns the project's subscriptions.
func (s *LedgerService) ListSubscriptions(ctx context.Context, req *connect.Request[api.ListSubscriptionsRequest]) (*connect.Response[api.ListSubscriptionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, _, err := requireMember(ctx, s.store, req.Msg.ProjectID, userID); err != nil {
		return nil, toConnectError(err)
	}

	subs, err := s.store.ListSubscriptions(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Subscription, len(subs))
	for i := range subs {
		out[i] = subscriptionToProto(&subs[i])
	}
	return connect.NewResponse(&api.ListSubscriptionsResponse{Subscriptions: out}), nil
}

// memberTransaction loads a transaction and checks the caller belongs to
// its project.
func (s *LedgerService) memberTransaction(ctx context.Context, transactionID, userID string) (*models.Transaction, error) {
	if transactionID == "" {
		return nil, &calculator.ValidationError{Field: "transaction_id", Reason: fmt.Errorf("required")}
	}
	tx, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, tx.ProjectID)
	if err != nil {
		return nil, err
	}
	if !isMember(members, userID) {
		return nil, errNotMember
	}
	return tx, nil
}

func (s *LedgerService) publish(ctx context.Context, kind notify.Kind, tx models.Transaction, actorID string) {
	publishEvent(ctx, s.publisher, s.logger, kind, tx, actorID)
}

// prepare validates tx against the project and rewrites shorthand splits.
func prepare(tx models.Transaction, project *models.Project, members []models.Member) (models.Transaction, error) {
	roles := models.Roles(members)
	if err := calculator.Validate(tx, *project, roles); err != nil {
		return tx, err
	}
	return calculator.Normalize(tx, roles), nil
}

// publishEvent delivers a ledger event. Delivery failures are logged and
// never fail the write that caused them.
func publishEvent(ctx context.Context, publisher notify.Publisher, logger *slog.Logger, kind notify.Kind, tx models.Transaction, actorID string) {
	event := notify.Event{
		Kind:          kind,
		ProjectID:     tx.ProjectID,
		TransactionID: tx.ID,
		ActorID:       actorID,
		Title:         tx.Title,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		Timestamp:     time.Now().UTC(),
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish event",
			"kind", kind,
			"project_id", tx.ProjectID,
			"transaction_id", tx.ID,
			"error", err,
		)
	}
}
