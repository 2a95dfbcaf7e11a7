package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/duoledger/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "duoledger.v1.LedgerService"

const (
	LedgerServiceCreateTransactionProcedure  = "/duoledger.v1.LedgerService/CreateTransaction"
	LedgerServiceGetTransactionProcedure     = "/duoledger.v1.LedgerService/GetTransaction"
	LedgerServiceUpdateTransactionProcedure  = "/duoledger.v1.LedgerService/UpdateTransaction"
	LedgerServiceDeleteTransactionProcedure  = "/duoledger.v1.LedgerService/DeleteTransaction"
	LedgerServiceListTransactionsProcedure   = "/duoledger.v1.LedgerService/ListTransactions"
	LedgerServiceCreateSubscriptionProcedure = "/duoledger.v1.LedgerService/CreateSubscription"
	LedgerServiceListSubscriptionsProcedure  = "/duoledger.v1.LedgerService/ListSubscriptions"
)

// LedgerServiceHandler is the server side of the LedgerService, which records transactions and subscriptions.
type LedgerServiceHandler interface {
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.TransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.TransactionResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.TransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	CreateSubscription(context.Context, *connect.Request[api.CreateSubscriptionRequest]) (*connect.Response[api.CreateSubscriptionResponse], error)
	ListSubscriptions(context.Context, *connect.Request[api.ListSubscriptionsRequest]) (*connect.Response[api.ListSubscriptionsResponse], error)
}

// NewLedgerServiceHandler returns the mount path and handler for svc.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(LedgerServiceCreateTransactionProcedure, connect.NewUnaryHandler(LedgerServiceCreateTransactionProcedure, svc.CreateTransaction, opts...))
	mux.Handle(LedgerServiceGetTransactionProcedure, connect.NewUnaryHandler(LedgerServiceGetTransactionProcedure, svc.GetTransaction, opts...))
	mux.Handle(LedgerServiceUpdateTransactionProcedure, connect.NewUnaryHandler(LedgerServiceUpdateTransactionProcedure, svc.UpdateTransaction, opts...))
	mux.Handle(LedgerServiceDeleteTransactionProcedure, connect.NewUnaryHandler(LedgerServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...))
	mux.Handle(LedgerServiceListTransactionsProcedure, connect.NewUnaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts...))
	mux.Handle(LedgerServiceCreateSubscriptionProcedure, connect.NewUnaryHandler(LedgerServiceCreateSubscriptionProcedure, svc.CreateSubscription, opts...))
	mux.Handle(LedgerServiceListSubscriptionsProcedure, connect.NewUnaryHandler(LedgerServiceListSubscriptionsProcedure, svc.ListSubscriptions, opts...))
	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient calls a remote LedgerService.
type LedgerServiceClient interface {
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.TransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.TransactionResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.TransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	CreateSubscription(context.Context, *connect.Request[api.CreateSubscriptionRequest]) (*connect.Response[api.CreateSubscriptionResponse], error)
	ListSubscriptions(context.Context, *connect.Request[api.ListSubscriptionsRequest]) (*connect.Response[api.ListSubscriptionsResponse], error)
}

// NewLedgerServiceClient creates a client for the service mounted at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		createTransaction:  connect.NewClient[api.CreateTransactionRequest, api.TransactionResponse](httpClient, baseURL+LedgerServiceCreateTransactionProcedure, opts...),
		getTransaction:     connect.NewClient[api.GetTransactionRequest, api.TransactionResponse](httpClient, baseURL+LedgerServiceGetTransactionProcedure, opts...),
		updateTransaction:  connect.NewClient[api.UpdateTransactionRequest, api.TransactionResponse](httpClient, baseURL+LedgerServiceUpdateTransactionProcedure, opts...),
		deleteTransaction:  connect.NewClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL+LedgerServiceDeleteTransactionProcedure, opts...),
		listTransactions:   connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL+LedgerServiceListTransactionsProcedure, opts...),
		createSubscription: connect.NewClient[api.CreateSubscriptionRequest, api.CreateSubscriptionResponse](httpClient, baseURL+LedgerServiceCreateSubscriptionProcedure, opts...),
		listSubscriptions:  connect.NewClient[api.ListSubscriptionsRequest, api.ListSubscriptionsResponse](httpClient, baseURL+LedgerServiceListSubscriptionsProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createTransaction  *connect.Client[api.CreateTransactionRequest, api.TransactionResponse]
	getTransaction     *connect.Client[api.GetTransactionRequest, api.TransactionResponse]
	updateTransaction  *connect.Client[api.UpdateTransactionRequest, api.TransactionResponse]
	deleteTransaction  *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
	listTransactions   *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	createSubscription *connect.Client[api.CreateSubscriptionRequest, api.CreateSubscriptionResponse]
	listSubscriptions  *connect.Client[api.ListSubscriptionsRequest, api.ListSubscriptionsResponse]
}

func (c *ledgerServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetTransaction(ctx context.Context, req *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	return c.getTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.TransactionResponse], error) {
	return c.updateTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateSubscription(ctx context.Context, req *connect.Request[api.CreateSubscriptionRequest]) (*connect.Response[api.CreateSubscriptionResponse], error) {
	return c.createSubscription.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListSubscriptions(ctx context.Context, req *connect.Request[api.ListSubscriptionsRequest]) (*connect.Response[api.ListSubscriptionsResponse], error) {
	return c.listSubscriptions.CallUnary(ctx, req)
}
