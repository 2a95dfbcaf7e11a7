package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/duoledger/pkg/api"
)

// BalanceServiceName is the fully-qualified name of the BalanceService.
const BalanceServiceName = "duoledger.v1.BalanceService"

const (
	BalanceServiceGetBalanceProcedure              = "/duoledger.v1.BalanceService/GetBalance"
	BalanceServiceGetSettlementProcedure           = "/duoledger.v1.BalanceService/GetSettlement"
	BalanceServiceGetHistoricalSettlementProcedure = "/duoledger.v1.BalanceService/GetHistoricalSettlement"
	BalanceServiceSettleUpProcedure                = "/duoledger.v1.BalanceService/SettleUp"
	BalanceServiceGetGroupBalancesProcedure        = "/duoledger.v1.BalanceService/GetGroupBalances"
	BalanceServiceGetContributionReportProcedure   = "/duoledger.v1.BalanceService/GetContributionReport"
	BalanceServiceGetTrendProcedure                = "/duoledger.v1.BalanceService/GetTrend"
)

// BalanceServiceHandler is the server side of the BalanceService, which answers balance, settlement and report queries.
type BalanceServiceHandler interface {
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	GetHistoricalSettlement(context.Context, *connect.Request[api.GetHistoricalSettlementRequest]) (*connect.Response[api.GetHistoricalSettlementResponse], error)
	SettleUp(context.Context, *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetContributionReport(context.Context, *connect.Request[api.GetContributionReportRequest]) (*connect.Response[api.GetContributionReportResponse], error)
	GetTrend(context.Context, *connect.Request[api.GetTrendRequest]) (*connect.Response[api.GetTrendResponse], error)
}

// NewBalanceServiceHandler returns the mount path and handler for svc.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(BalanceServiceGetBalanceProcedure, connect.NewUnaryHandler(BalanceServiceGetBalanceProcedure, svc.GetBalance, opts...))
	mux.Handle(BalanceServiceGetSettlementProcedure, connect.NewUnaryHandler(BalanceServiceGetSettlementProcedure, svc.GetSettlement, opts...))
	mux.Handle(BalanceServiceGetHistoricalSettlementProcedure, connect.NewUnaryHandler(BalanceServiceGetHistoricalSettlementProcedure, svc.GetHistoricalSettlement, opts...))
	mux.Handle(BalanceServiceSettleUpProcedure, connect.NewUnaryHandler(BalanceServiceSettleUpProcedure, svc.SettleUp, opts...))
	mux.Handle(BalanceServiceGetGroupBalancesProcedure, connect.NewUnaryHandler(BalanceServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...))
	mux.Handle(BalanceServiceGetContributionReportProcedure, connect.NewUnaryHandler(BalanceServiceGetContributionReportProcedure, svc.GetContributionReport, opts...))
	mux.Handle(BalanceServiceGetTrendProcedure, connect.NewUnaryHandler(BalanceServiceGetTrendProcedure, svc.GetTrend, opts...))
	return "/" + BalanceServiceName + "/", mux
}

// BalanceServiceClient calls a remote BalanceService.
type BalanceServiceClient interface {
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	GetHistoricalSettlement(context.Context, *connect.Request[api.GetHistoricalSettlementRequest]) (*connect.Response[api.GetHistoricalSettlementResponse], error)
	SettleUp(context.Context, *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetContributionReport(context.Context, *connect.Request[api.GetContributionReportRequest]) (*connect.Response[api.GetContributionReportResponse], error)
	GetTrend(context.Context, *connect.Request[api.GetTrendRequest]) (*connect.Response[api.GetTrendResponse], error)
}

// NewBalanceServiceClient creates a client for the service mounted at baseURL.
func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BalanceServiceClient {
	opts = clientOptions(opts)
	return &balanceServiceClient{
		getBalance:              connect.NewClient[api.GetBalanceRequest, api.GetBalanceResponse](httpClient, baseURL+BalanceServiceGetBalanceProcedure, opts...),
		getSettlement:           connect.NewClient[api.GetSettlementRequest, api.GetSettlementResponse](httpClient, baseURL+BalanceServiceGetSettlementProcedure, opts...),
		getHistoricalSettlement: connect.NewClient[api.GetHistoricalSettlementRequest, api.GetHistoricalSettlementResponse](httpClient, baseURL+BalanceServiceGetHistoricalSettlementProcedure, opts...),
		settleUp:                connect.NewClient[api.SettleUpRequest, api.SettleUpResponse](httpClient, baseURL+BalanceServiceSettleUpProcedure, opts...),
		getGroupBalances:        connect.NewClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](httpClient, baseURL+BalanceServiceGetGroupBalancesProcedure, opts...),
		getContributionReport:   connect.NewClient[api.GetContributionReportRequest, api.GetContributionReportResponse](httpClient, baseURL+BalanceServiceGetContributionReportProcedure, opts...),
		getTrend:                connect.NewClient[api.GetTrendRequest, api.GetTrendResponse](httpClient, baseURL+BalanceServiceGetTrendProcedure, opts...),
	}
}

type balanceServiceClient struct {
	getBalance              *connect.Client[api.GetBalanceRequest, api.GetBalanceResponse]
	getSettlement           *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
	getHistoricalSettlement *connect.Client[api.GetHistoricalSettlementRequest, api.GetHistoricalSettlementResponse]
	settleUp                *connect.Client[api.SettleUpRequest, api.SettleUpResponse]
	getGroupBalances        *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
	getContributionReport   *connect.Client[api.GetContributionReportRequest, api.GetContributionReportResponse]
	getTrend                *connect.Client[api.GetTrendRequest, api.GetTrendResponse]
}

func (c *balanceServiceClient) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetHistoricalSettlement(ctx context.Context, req *connect.Request[api.GetHistoricalSettlementRequest]) (*connect.Response[api.GetHistoricalSettlementResponse], error) {
	return c.getHistoricalSettlement.CallUnary(ctx, req)
}

func (c *balanceServiceClient) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetContributionReport(ctx context.Context, req *connect.Request[api.GetContributionReportRequest]) (*connect.Response[api.GetContributionReportResponse], error) {
	return c.getContributionReport.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetTrend(ctx context.Context, req *connect.Request[api.GetTrendRequest]) (*connect.Response[api.GetTrendResponse], error) {
	return c.getTrend.CallUnary(ctx, req)
}
