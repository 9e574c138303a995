package calculator

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balancesOf(kv ...string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		out[kv[i]] = d(kv[i+1])
	}
	return out
}

// assertPlanSettles checks every property a plan must have against its input.
func assertPlanSettles(t *testing.T, balances map[string]decimal.Decimal, plan []Transfer) {
	t.Helper()

	var debtors, creditors int
	for _, b := range balances {
		switch b.Sign() {
		case -1:
			debtors++
		case 1:
			creditors++
		}
	}
	if debtors+creditors > 0 {
		assert.LessOrEqual(t, len(plan), debtors+creditors-1, "too many transfers")
	}

	for _, tr := range plan {
		assert.True(t, tr.Amount.IsPositive(), "transfer %s->%s has non-positive amount %s", tr.From, tr.To, tr.Amount)
		assert.NotEqual(t, tr.From, tr.To, "transfer to self")
	}

	for id, b := range Replay(balances, plan) {
		assert.True(t, b.IsZero(), "%s not settled after replay: %s", id, b)
	}
}

func TestComputeDebtPlan(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]decimal.Decimal
		want     []Transfer
	}{
		{
			name:     "one creditor, two equal debtors",
			balances: balancesOf("A", "60", "B", "-30", "C", "-30"),
			want: []Transfer{
				{From: "B", To: "A", Amount: d("30")},
				{From: "C", To: "A", Amount: d("30")},
			},
		},
		{
			name:     "all settled",
			balances: balancesOf("A", "0", "B", "0"),
			want:     []Transfer{},
		},
		{
			name:     "empty",
			balances: map[string]decimal.Decimal{},
			want:     []Transfer{},
		},
		{
			name:     "largest debtor pays largest creditor first",
			balances: balancesOf("A", "70", "B", "30", "C", "-80", "D", "-20"),
			want: []Transfer{
				{From: "C", To: "A", Amount: d("70")},
				{From: "C", To: "B", Amount: d("10")},
				{From: "D", To: "B", Amount: d("20")},
			},
		},
		{
			name:     "tie advances both cursors",
			balances: balancesOf("A", "50", "B", "25", "C", "-50", "D", "-25"),
			want: []Transfer{
				{From: "C", To: "A", Amount: d("50")},
				{From: "D", To: "B", Amount: d("25")},
			},
		},
		{
			name:     "equal balances ordered by member ID",
			balances: balancesOf("z", "10", "y", "10", "b", "-10", "a", "-10"),
			want: []Transfer{
				{From: "a", To: "y", Amount: d("10")},
				{From: "b", To: "z", Amount: d("10")},
			},
		},
		{
			name:     "cents stay exact",
			balances: balancesOf("A", "66.67", "B", "-33.33", "C", "-33.34"),
			want: []Transfer{
				{From: "C", To: "A", Amount: d("33.34")},
				{From: "B", To: "A", Amount: d("33.33")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ComputeDebtPlan(tt.balances)
			require.NoError(t, err)
			require.Len(t, plan, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want.From, plan[i].From, "transfer %d from", i)
				assert.Equal(t, want.To, plan[i].To, "transfer %d to", i)
				assert.True(t, want.Amount.Equal(plan[i].Amount), "transfer %d amount = %s, want %s", i, plan[i].Amount, want.Amount)
			}
			assertPlanSettles(t, tt.balances, plan)
		})
	}
}

func TestComputeDebtPlan_DoesNotMutateInput(t *testing.T) {
	balances := balancesOf("A", "60", "B", "-30", "C", "-30")

	_, err := ComputeDebtPlan(balances)
	require.NoError(t, err)

	assert.True(t, balances["A"].Equal(d("60")))
	assert.True(t, balances["B"].Equal(d("-30")))
	assert.True(t, balances["C"].Equal(d("-30")))
}

func TestComputeDebtPlan_Deterministic(t *testing.T) {
	balances := balancesOf("A", "10", "B", "10", "C", "10", "D", "-15", "E", "-15")

	first, err := ComputeDebtPlan(balances)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := ComputeDebtPlan(balances)
		require.NoError(t, err)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].From, again[j].From)
			assert.Equal(t, first[j].To, again[j].To)
			assert.True(t, first[j].Amount.Equal(again[j].Amount))
		}
	}
}

func TestComputeDebtPlan_UnbalancedInput(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]decimal.Decimal
	}{
		{name: "debt left over", balances: balancesOf("A", "10", "B", "-15")},
		{name: "credit left over", balances: balancesOf("A", "15", "B", "-10")},
		{name: "only creditors", balances: balancesOf("A", "5")},
		{name: "only debtors", balances: balancesOf("A", "-5", "B", "-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ComputeDebtPlan(tt.balances)
			require.ErrorIs(t, err, ErrDataIntegrity)
			assert.Nil(t, plan)
		})
	}
}

func TestComputeDebtPlan_FromLedger(t *testing.T) {
	// A larger group folded through the aggregator first.
	members := roster("A", "B", "C", "D", "E")
	expenses := []ExpenseForBalance{
		evenSplit("e1", "A", "250", "A", "B", "C", "D", "E"),
		evenSplit("e2", "B", "60", "B", "C", "D"),
		{ID: "e3", Amount: d("100.00"), PayerID: "C", Splits: []SplitEntry{
			{MemberID: "A", Amount: d("33.33")},
			{MemberID: "D", Amount: d("33.33")},
			{MemberID: "E", Amount: d("33.34")},
		}},
		evenSplit("e4", "E", "17.50", "A", "E"),
	}
	settlements := []SettlementForBalance{
		{ID: "s1", FromUserID: "D", ToUserID: "A", Amount: d("12.25")},
		{ID: "s2", FromUserID: "B", ToUserID: "C", Amount: d("5")},
	}

	balances, err := ComputeGroupBalances(members, expenses, settlements)
	require.NoError(t, err)

	plan, err := ComputeDebtPlan(balances)
	require.NoError(t, err)
	assertPlanSettles(t, balances, plan)
}

func TestReplay(t *testing.T) {
	balances := balancesOf("A", "60", "B", "-30", "C", "-30")
	plan := []Transfer{{From: "B", To: "A", Amount: d("30")}}

	after := Replay(balances, plan)

	assert.True(t, after["A"].Equal(d("30")), fmt.Sprintf("A = %s", after["A"]))
	assert.True(t, after["B"].IsZero())
	assert.True(t, after["C"].Equal(d("-30")))
	// Original untouched
	assert.True(t, balances["A"].Equal(d("60")))
}
