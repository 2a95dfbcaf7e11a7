package api

type Transaction struct {
	ID           string             `json:"id"`
	ProjectID    string             `json:"projectId"`
	Title        string             `json:"title"`
	Amount       float64            `json:"amount"`
	Currency     string             `json:"currency"`
	PayerID      string             `json:"payerId"`
	SplitType    string             `json:"splitType"`
	CustomSplit  map[string]float64 `json:"customSplit,omitempty"`
	CategoryID   string             `json:"categoryId,omitempty"`
	Date         string             `json:"date"`
	IsSettlement bool               `json:"isSettlement,omitempty"`
	CreatedBy    string             `json:"createdBy,omitempty"`
	CreatedAt    int64              `json:"createdAt,omitempty"`
	UpdatedAt    int64              `json:"updatedAt,omitempty"`
}

type CreateTransactionRequest struct {
	Transaction *Transaction `json:"transaction"`
}

type UpdateTransactionRequest struct {
	Transaction *Transaction `json:"transaction"`
}

type GetTransactionRequest struct {
	TransactionID string `json:"transactionId"`
}

// TransactionResponse is returned by every RPC that yields one transaction.
type TransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transactionId"`
}

type DeleteTransactionResponse struct{}

type ListTransactionsRequest struct {
	ProjectID string `json:"projectId"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type Subscription struct {
	ID              string             `json:"id"`
	ProjectID       string             `json:"projectId"`
	Title           string             `json:"title"`
	Amount          float64            `json:"amount"`
	Currency        string             `json:"currency"`
	PayerID         string             `json:"payerId"`
	SplitType       string             `json:"splitType"`
	CustomSplit     map[string]float64 `json:"customSplit,omitempty"`
	CategoryID      string             `json:"categoryId,omitempty"`
	Cycle           string             `json:"cycle"`
	NextPaymentDate string             `json:"nextPaymentDate"`
	CreatedBy       string             `json:"createdBy,omitempty"`
}

type CreateSubscriptionRequest struct {
	Subscription *Subscription `json:"subscription"`
}

type CreateSubscriptionResponse struct {
	Subscription *Subscription `json:"subscription"`
}

type ListSubscriptionsRequest struct {
	ProjectID string `json:"projectId"`
}

type ListSubscriptionsResponse struct {
	Subscriptions []*Subscription `json:"subscriptions"`
}
