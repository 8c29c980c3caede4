package models

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type StatsResponse struct {
	Users              int    `json:"users"`
	BlockedUsers       int    `json:"blocked_users"`
	PendingOrders      int    `json:"pending_orders"`
	DecidedOrders      int    `json:"decided_orders"`
	PendingWithdrawals int    `json:"pending_withdrawals"`
	PaidWithdrawals    int    `json:"paid_withdrawals"`
	TotalBalance       string `json:"total_balance"`
}
