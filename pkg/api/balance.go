package api

type Balance struct {
	Paid       float64 `json:"paid"`
	Liability  float64 `json:"liability"`
	SettledNet float64 `json:"settledNet"`
	NetBalance float64 `json:"netBalance"`
}

// GetBalanceRequest asks for the caller's balance. An empty cutoff means
// all time.
type GetBalanceRequest struct {
	ProjectID string `json:"projectId"`
	Cutoff    string `json:"cutoff,omitempty"`
}

type GetBalanceResponse struct {
	Balance      *Balance `json:"balance"`
	MissingRates []string `json:"missingRates,omitempty"`
}

type Settlement struct {
	Amount     float64 `json:"amount"`
	CreditorID string  `json:"creditorId"`
	DebtorID   string  `json:"debtorId"`
}

type GetSettlementRequest struct {
	ProjectID string `json:"projectId"`
}

type GetSettlementResponse struct {
	Settlement   *Settlement `json:"settlement"`
	MissingRates []string    `json:"missingRates,omitempty"`
}

type GetHistoricalSettlementRequest struct {
	ProjectID string `json:"projectId"`
	Cutoff    string `json:"cutoff"`
}

type GetHistoricalSettlementResponse struct {
	Settlement         *Settlement `json:"settlement"`
	RawPeriodAmount    float64     `json:"rawPeriodAmount"`
	CurrentTotalAmount float64     `json:"currentTotalAmount"`
	ShowWarning        bool        `json:"showWarning"`
	MissingRates       []string    `json:"missingRates,omitempty"`
}

// SettleUpRequest records the repayment that clears the debt. With a
// cutoff the historical settlement as of that day is used. Date is the
// repayment's own date and defaults to today.
type SettleUpRequest struct {
	ProjectID string `json:"projectId"`
	Cutoff    string `json:"cutoff,omitempty"`
	Date      string `json:"date,omitempty"`
}

type SettleUpResponse struct {
	Settlement  *Settlement  `json:"settlement"`
	Transaction *Transaction `json:"transaction"`
	ShowWarning bool         `json:"showWarning"`
}

type MemberBalance struct {
	MemberID string   `json:"memberId"`
	Balance  *Balance `json:"balance"`
}

type DebtEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type GetGroupBalancesRequest struct {
	ProjectID string `json:"projectId"`
	Cutoff    string `json:"cutoff,omitempty"`
}

type GetGroupBalancesResponse struct {
	Balances []*MemberBalance `json:"balances"`
	Debts    []*DebtEdge      `json:"debts"`
}

type CategoryShare struct {
	CategoryID string  `json:"categoryId"`
	Amount     float64 `json:"amount"`
	Percent    float64 `json:"percent"`
}

type ParticipantShare struct {
	ParticipantID string  `json:"participantId"`
	Amount        float64 `json:"amount"`
	Ratio         float64 `json:"ratio"`
}

type Report struct {
	Mode         string              `json:"mode"`
	Participants []*ParticipantShare `json:"participants"`
	Categories   []*CategoryShare    `json:"categories"`
	TotalExpense float64             `json:"totalExpense"`
}

// GetContributionReportRequest selects either a month ("2024-05") or an
// inclusive from/to day range. Mode is paid, share or personal.
type GetContributionReportRequest struct {
	ProjectID string `json:"projectId"`
	Month     string `json:"month,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

type GetContributionReportResponse struct {
	Report *Report `json:"report"`
}

type GetTrendRequest struct {
	ProjectID string `json:"projectId"`
	Month     string `json:"month"`
	Mode      string `json:"mode,omitempty"`
}

type TrendPoint struct {
	Month  string  `json:"month"`
	Report *Report `json:"report"`
}

type GetTrendResponse struct {
	Points []*TrendPoint `json:"points"`
}
