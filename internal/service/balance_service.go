package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/duoledger/internal/calculator"
	"github.com/mmynk/duoledger/internal/metrics"
	"github.com/mmynk/duoledger/internal/models"
	"github.com/mmynk/duoledger/internal/notify"
	"github.com/mmynk/duoledger/internal/storage"
	"github.com/mmynk/duoledger/pkg/api"
	"github.com/mmynk/duoledger/pkg/api/apiconnect"
)

var _ apiconnect.BalanceServiceHandler = (*BalanceService)(nil)

// minSettlement is the smallest debt settle up will record.
const minSettlement = 0.01

// BalanceService implements the Connect BalanceService. Every query reads
// one consistent ledger snapshot and hands it to the calculator.
type BalanceService struct {
	store     storage.Store
	publisher notify.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewBalanceService creates a BalanceService.
func NewBalanceService(store storage.Store, publisher notify.Publisher, m *metrics.Metrics, logger *slog.Logger) *BalanceService {
	return &BalanceService{store: store, publisher: publisher, metrics: m, logger: logger, now: time.Now}
}

// GetBalance returns the caller's balance, optionally as of a cutoff day.
func (s *BalanceService) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	snap, userID, err := s.snapshot(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(err)
	}
	cutoff, err := parseOptionalDate("cutoff", req.Msg.Cutoff)
	if err != nil {
		return nil, toConnectError(err)
	}

	balance := calculator.Aggregate(snap, userID, cutoff)
	return connect.NewResponse(&api.GetBalanceResponse{
		Balance:      balanceToProto(balance),
		MissingRates: s.missingRates(ctx, snap),
	}), nil
}

// GetSettlement returns who owes whom today.
func (s *BalanceService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	snap, userID, err := s.snapshot(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(err)
	}

	settlement, err := calculator.CurrentSettlement(snap, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetSettlementResponse{
		Settlement:   settlementToProto(settlement),
		MissingRates: s.missingRates(ctx, snap),
	}), nil
}

// GetHistoricalSettlement settles the ledger as it stood at the end of the
// cutoff day.
func (s *BalanceService) GetHistoricalSettlement(ctx context.Context, req *connect.Request[api.GetHistoricalSettlementRequest]) (*connect.Response[api.GetHistoricalSettlementResponse], error) {
	snap, userID, err := s.snapshot(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(err)
	}
	cutoff, err := parseDate("cutoff", req.Msg.Cutoff)
	if err != nil {
		return nil, toConnectError(err)
	}

	h, err := calculator.HistoricalSettlementAsOf(snap, userID, cutoff)
	if err != nil {
		return nil, toConnectError(err)
	}
	if h.ShowWarning {
		s.metrics.SettlementWarnings.Inc()
		s.logger.InfoContext(ctx, "Historical settlement clamped to current debt",
			"project_id", snap.Project.ID,
			"user_id", userID,
			"period_amount", h.RawPeriodAmount,
			"current_amount", h.CurrentTotalAmount,
		)
	}

	return connect.NewResponse(&api.GetHistoricalSettlementResponse{
		Settlement:         settlementToProto(h.Settlement),
		RawPeriodAmount:    calculator.RoundMoney(h.RawPeriodAmount),
		CurrentTotalAmount: calculator.RoundMoney(h.CurrentTotalAmount),
		ShowWarning:        h.ShowWarning,
		MissingRates:       s.missingRates(ctx, snap),
	}), nil
}

// SettleUp records the repayment that clears the current debt, or the debt
// as of a cutoff day. The debtor is the payer of the new transaction.
func (s *BalanceService) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	snap, userID, err := s.snapshot(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(err)
	}
	cutoff, err := parseOptionalDate("cutoff", req.Msg.Cutoff)
	if err != nil {
		return nil, toConnectError(err)
	}
	date := today(s.now())
	if req.Msg.Date != "" {
		if date, err = parseDate("date", req.Msg.Date); err != nil {
			return nil, toConnectError(err)
		}
	}

	var settlement calculator.Settlement
	var warned bool
	if cutoff.IsZero() {
		settlement, err = calculator.CurrentSettlement(snap, userID)
	} else {
		var h calculator.HistoricalSettlement
		h, err = calculator.HistoricalSettlementAsOf(snap, userID, cutoff)
		settlement, warned = h.Settlement, h.ShowWarning
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	amount := calculator.RoundMoney(settlement.Amount)
	if amount < minSettlement {
		return nil, toConnectError(errNothingToSettle)
	}

	tx := models.NewSettlement(snap.Project.ID, settlement.DebtorID, amount, date, userID)
	if err := calculator.Validate(tx, snap.Project, snap.Roles); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.CreateTransaction(ctx, &tx); err != nil {
		s.logger.ErrorContext(ctx, "SettleUp failed", "project_id", snap.Project.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.metrics.SettlementsCreated.Inc()
	if warned {
		s.metrics.SettlementWarnings.Inc()
	}
	s.logger.InfoContext(ctx, "Settlement recorded",
		"project_id", snap.Project.ID,
		"transaction_id", tx.ID,
		"debtor_id", settlement.DebtorID,
		"creditor_id", settlement.CreditorID,
		"amount", amount,
	)
	publishEvent(ctx, s.publisher, s.logger, notify.SettlementCreated, tx, userID)

	return connect.NewResponse(&api.SettleUpResponse{
		Settlement:  settlementToProto(settlement),
		Transaction: transactionToProto(&tx),
		ShowWarning: warned,
	}), nil
}

// GetGroupBalances returns every member's balance and the payments that
// would clear them.
func (s *BalanceService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	snap, _, err := s.snapshot(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(err)
	}
	cutoff, err := parseOptionalDate("cutoff", req.Msg.Cutoff)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.missingRates(ctx, snap)

	balances, edges := calculator.GroupBalances(snap, cutoff)
	resp := &api.GetGroupBalancesResponse{
		Balances: make([]*api.MemberBalance, len(balances)),
		Debts:    make([]*api.DebtEdge, len(edges)),
	}
	for i, b := range balances {
		resp.Balances[i] = &api.MemberBalance{MemberID: b.MemberID, Balance: balanceToProto(b.Balance)}
	}
	for i, e := range edges {
		resp.Debts[i] = &api.DebtEdge{From: e.From, To: e.To, Amount: calculator.RoundMoney(e.Amount)}
	}
	return connect.NewResponse(resp), nil
}

// GetContributionReport aggregates a month or a day range for charts.
func (s *BalanceService) GetContributionReport(ctx context.Context, req *connect.Request[api.GetContributionReportRequest]) (*connect.Response[api.GetContributionReportResponse], error) {
	snap, _, err := s.snapshot(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(err)
	}
	mode, err := parseMode(req.Msg.Mode)
	if err != nil {
		return nil, toConnectError(err)
	}
	period, err := parsePeriod(req.Msg.Month, req.Msg.From, req.Msg.To)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.missingRates(ctx, snap)

	report := calculator.ContributionReport(snap, period, mode)
	return connect.NewResponse(&api.GetContributionReportResponse{
		Report: reportToProto(report, participantIDs(snap)),
	}), nil
}

// GetTrend returns the trailing six months of reports ending at the given
// month, oldest first.
func (s *BalanceService) GetTrend(ctx context.Context, req *connect.Request[api.GetTrendRequest]) (*connect.Response[api.GetTrendResponse], error) {
	snap, _, err := s.snapshot(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(err)
	}
	mode, err := parseMode(req.Msg.Mode)
	if err != nil {
		return nil, toConnectError(err)
	}
	month := req.Msg.Month
	if month == "" {
		month = s.now().UTC().Format(api.MonthLayout)
	}

	points, err := calculator.Trend(snap, month, mode)
	if err != nil {
		return nil, invalidArgument("month", err)
	}
	s.missingRates(ctx, snap)

	ids := participantIDs(snap)
	resp := &api.GetTrendResponse{Points: make([]*api.TrendPoint, len(points))}
	for i, p := range points {
		resp.Points[i] = &api.TrendPoint{Month: p.Month, Report: reportToProto(p.Report, ids)}
	}
	return connect.NewResponse(resp), nil
}

func (s *BalanceService) snapshot(ctx context.Context, projectID string) (calculator.Snapshot, string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return calculator.Snapshot{}, "", err
	}
	snap, err := loadSnapshot(ctx, s.store, projectID, userID)
	if err != nil {
		return calculator.Snapshot{}, "", err
	}
	return snap, userID, nil
}

func (s *BalanceService) missingRates(ctx context.Context, snap calculator.Snapshot) []string {
	missing := warnMissingRates(ctx, s.logger, snap)
	for _, code := range missing {
		s.metrics.MissingRates.WithLabelValues(code).Inc()
	}
	return missing
}

func parseMode(mode string) (calculator.Mode, error) {
	switch calculator.Mode(mode) {
	case "":
		return calculator.ModePaid, nil
	case calculator.ModePaid, calculator.ModeShare, calculator.ModePersonal:
		return calculator.Mode(mode), nil
	}
	return "", &calculator.ValidationError{Field: "mode", Reason: fmt.Errorf("must be paid, share or personal, got %q", mode)}
}

// parsePeriod accepts a month or a from/to range, not both.
func parsePeriod(month, from, to string) (calculator.Period, error) {
	if month != "" {
		if from != "" || to != "" {
			return calculator.Period{}, &calculator.ValidationError{Field: "month", Reason: fmt.Errorf("use either month or from/to")}
		}
		if _, err := time.Parse(api.MonthLayout, month); err != nil {
			return calculator.Period{}, &calculator.ValidationError{Field: "month", Reason: fmt.Errorf("want YYYY-MM, got %q", month)}
		}
		return calculator.Period{Month: month}, nil
	}

	f, err := parseOptionalDate("from", from)
	if err != nil {
		return calculator.Period{}, err
	}
	t, err := parseOptionalDate("to", to)
	if err != nil {
		return calculator.Period{}, err
	}
	if !f.IsZero() && !t.IsZero() && t.Before(f) {
		return calculator.Period{}, &calculator.ValidationError{Field: "to", Reason: fmt.Errorf("must not be before from")}
	}
	return calculator.Period{From: f, To: t}, nil
}

func participantIDs(snap calculator.Snapshot) []string {
	ids := make([]string, 0, len(snap.Roles))
	for id := range snap.Roles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
