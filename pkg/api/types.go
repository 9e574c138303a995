// Package api defines the Settleup RPC surface: message types, the JSON
// codec, Connect handler constructors and typed clients.
//
// Amounts are decimal.Decimal and are encoded as JSON strings ("33.34") so
// no precision is lost in transit.
//
// # Wire format
//
// Messages are plain Go structs, not protoc-generated protobuf messages.
// They travel only as JSON through Codec, registered under Connect's "json"
// codec name, so clients must send Content-Type application/json (Connect
// protocol) or application/grpc+json. The binary protobuf codec is not
// available for these procedures; field names are the camelCase json tags
// below rather than a .proto schema.
package api

import "github.com/shopspring/decimal"

// User is a registered account without credentials.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	User      User   `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	InviteToken string `json:"inviteToken"`
	CreatedBy   string `json:"createdBy"`
	CreatedAt   int64  `json:"createdAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	JoinedAt    int64  `json:"joinedAt"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
	// MemberIDs are added alongside the caller, who is always a member.
	MemberIDs []string `json:"memberIds,omitempty"`
}

type GroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group   Group    `json:"group"`
	Members []Member `json:"members"`
}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type JoinGroupRequest struct {
	InviteToken string `json:"inviteToken"`
}

type ListMembersRequest struct {
	GroupID string `json:"groupId"`
}

type ListMembersResponse struct {
	Members []Member `json:"members"`
}

// SplitInput is one participant of a new expense. Value is the owed amount
// for EXACT, the percentage for PERCENTAGE, and ignored for EQUAL.
type SplitInput struct {
	UserID string          `json:"userId"`
	Value  decimal.Decimal `json:"value"`
}

type AddExpenseRequest struct {
	GroupID     string          `json:"groupId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paidBy"`
	// SplitMethod is EQUAL, EXACT or PERCENTAGE. Empty means EXACT.
	// EQUAL with no splits divides among the whole group.
	SplitMethod string       `json:"splitMethod,omitempty"`
	Splits      []SplitInput `json:"splits"`
}

type ExpenseSplit struct {
	UserID     string          `json:"userId"`
	UserName   string          `json:"userName"`
	OwedAmount decimal.Decimal `json:"owedAmount"`
}

type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"groupId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paidBy"`
	PaidByName  string          `json:"paidByName"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   int64           `json:"createdAt"`
	Splits      []ExpenseSplit  `json:"splits"`
}

type ExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type RecordSettlementRequest struct {
	GroupID    string          `json:"groupId"`
	FromUserID string          `json:"fromUserId"`
	ToUserID   string          `json:"toUserId"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
}

type Settlement struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"groupId"`
	FromUserID   string          `json:"fromUserId"`
	FromUserName string          `json:"fromUserName"`
	ToUserID     string          `json:"toUserId"`
	ToUserName   string          `json:"toUserName"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	CreatedAt    int64           `json:"createdAt"`
	SettledAt    int64           `json:"settledAt"`
	Note         string          `json:"note,omitempty"`
}

type SettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"groupId"`
}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

// MemberBalance is one member's position. NetBalance is positive when the
// group owes the member and negative when the member owes the group.
type MemberBalance struct {
	UserID     string          `json:"userId"`
	UserName   string          `json:"userName"`
	NetBalance decimal.Decimal `json:"netBalance"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	TotalOwed  decimal.Decimal `json:"totalOwed"`
}

type GetGroupBalancesResponse struct {
	Balances []MemberBalance `json:"balances"`
}

type GetGroupDebtsRequest struct {
	GroupID string `json:"groupId"`
}

// Debt is a suggested payment from one member to another.
type Debt struct {
	FromUserID   string          `json:"fromUserId"`
	FromUserName string          `json:"fromUserName"`
	ToUserID     string          `json:"toUserId"`
	ToUserName   string          `json:"toUserName"`
	Amount       decimal.Decimal `json:"amount"`
}

type GetGroupDebtsResponse struct {
	Debts []Debt `json:"debts"`
}
