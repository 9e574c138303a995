package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func roster(ids ...string) []Member {
	members := make([]Member, len(ids))
	for i, id := range ids {
		members[i] = Member{ID: id, Name: id}
	}
	return members
}

func evenSplit(id, payer, amount string, members ...string) ExpenseForBalance {
	share := d(amount).Div(decimal.NewFromInt(int64(len(members))))
	splits := make([]SplitEntry, len(members))
	for i, m := range members {
		splits[i] = SplitEntry{MemberID: m, Amount: share}
	}
	return ExpenseForBalance{ID: id, Amount: d(amount), PayerID: payer, Splits: splits}
}

func assertBalance(t *testing.T, balances map[string]decimal.Decimal, member, want string) {
	t.Helper()
	got, ok := balances[member]
	require.True(t, ok, "missing balance for %s", member)
	assert.True(t, got.Equal(d(want)), "%s balance = %s, want %s", member, got, want)
}

func TestComputeGroupBalances(t *testing.T) {
	tests := []struct {
		name        string
		roster      []Member
		expenses    []ExpenseForBalance
		settlements []SettlementForBalance
		want        map[string]string
	}{
		{
			name:     "single expense, even split",
			roster:   roster("A", "B", "C"),
			expenses: []ExpenseForBalance{evenSplit("e1", "A", "90", "A", "B", "C")},
			want:     map[string]string{"A": "60", "B": "-30", "C": "-30"},
		},
		{
			name:     "settlement nets a balance",
			roster:   roster("A", "B"),
			expenses: []ExpenseForBalance{{ID: "e1", Amount: d("50"), PayerID: "A", Splits: []SplitEntry{{MemberID: "B", Amount: d("50")}}}},
			settlements: []SettlementForBalance{
				{ID: "s1", FromUserID: "B", ToUserID: "A", Amount: d("50")},
			},
			want: map[string]string{"A": "0", "B": "0"},
		},
		{
			name:   "three-way cycle collapses",
			roster: roster("A", "B", "C"),
			expenses: []ExpenseForBalance{
				{ID: "e1", Amount: d("20"), PayerID: "B", Splits: []SplitEntry{{MemberID: "A", Amount: d("20")}}},
				{ID: "e2", Amount: d("20"), PayerID: "C", Splits: []SplitEntry{{MemberID: "B", Amount: d("20")}}},
				{ID: "e3", Amount: d("20"), PayerID: "A", Splits: []SplitEntry{{MemberID: "C", Amount: d("20")}}},
			},
			want: map[string]string{"A": "0", "B": "0", "C": "0"},
		},
		{
			name:   "unequal split remainder stays exact",
			roster: roster("A", "B", "C"),
			expenses: []ExpenseForBalance{{
				ID: "e1", Amount: d("100.00"), PayerID: "A",
				Splits: []SplitEntry{
					{MemberID: "A", Amount: d("33.33")},
					{MemberID: "B", Amount: d("33.33")},
					{MemberID: "C", Amount: d("33.34")},
				},
			}},
			want: map[string]string{"A": "66.67", "B": "-33.33", "C": "-33.34"},
		},
		{
			name:     "members without transactions still appear",
			roster:   roster("A", "B", "C", "D"),
			expenses: []ExpenseForBalance{evenSplit("e1", "A", "10", "A", "B")},
			want:     map[string]string{"A": "5", "B": "-5", "C": "0", "D": "0"},
		},
		{
			name:   "payer outside the split",
			roster: roster("A", "B", "C"),
			expenses: []ExpenseForBalance{{
				ID: "e1", Amount: d("40"), PayerID: "A",
				Splits: []SplitEntry{{MemberID: "B", Amount: d("25")}, {MemberID: "C", Amount: d("15")}},
			}},
			want: map[string]string{"A": "40", "B": "-25", "C": "-15"},
		},
		{
			name:   "many small entries do not drift",
			roster: roster("A", "B", "C"),
			expenses: func() []ExpenseForBalance {
				var es []ExpenseForBalance
				for i := 0; i < 1000; i++ {
					es = append(es, ExpenseForBalance{
						ID: "e", Amount: d("0.10"), PayerID: "A",
						Splits: []SplitEntry{
							{MemberID: "A", Amount: d("0.03")},
							{MemberID: "B", Amount: d("0.03")},
							{MemberID: "C", Amount: d("0.04")},
						},
					})
				}
				return es
			}(),
			want: map[string]string{"A": "70", "B": "-30", "C": "-40"},
		},
		{
			name:   "empty ledger",
			roster: roster("A", "B"),
			want:   map[string]string{"A": "0", "B": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances, err := ComputeGroupBalances(tt.roster, tt.expenses, tt.settlements)
			require.NoError(t, err)
			assert.Len(t, balances, len(tt.roster))
			for member, want := range tt.want {
				assertBalance(t, balances, member, want)
			}
			assert.True(t, sumBalances(balances).IsZero(), "balances must sum to zero")
		})
	}
}

func TestComputeGroupBalances_Idempotent(t *testing.T) {
	members := roster("A", "B", "C")
	expenses := []ExpenseForBalance{
		evenSplit("e1", "A", "90", "A", "B", "C"),
		evenSplit("e2", "B", "12.50", "B", "C"),
	}
	settlements := []SettlementForBalance{{ID: "s1", FromUserID: "C", ToUserID: "A", Amount: d("10")}}

	first, err := ComputeGroupBalances(members, expenses, settlements)
	require.NoError(t, err)
	second, err := ComputeGroupBalances(members, expenses, settlements)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for id, bal := range first {
		assert.True(t, bal.Equal(second[id]), "balance for %s changed between calls", id)
	}
}

func TestComputeGroupBalances_InvalidInput(t *testing.T) {
	members := roster("A", "B")

	tests := []struct {
		name        string
		roster      []Member
		expenses    []ExpenseForBalance
		settlements []SettlementForBalance
	}{
		{
			name:     "splits do not sum to amount",
			roster:   members,
			expenses: []ExpenseForBalance{{ID: "e1", Amount: d("100"), PayerID: "A", Splits: []SplitEntry{{MemberID: "B", Amount: d("60")}}}},
		},
		{
			name:     "negative expense amount",
			roster:   members,
			expenses: []ExpenseForBalance{{ID: "e1", Amount: d("-10"), PayerID: "A", Splits: []SplitEntry{{MemberID: "B", Amount: d("-10")}}}},
		},
		{
			name: "negative split offset by a larger one",
			roster: members,
			expenses: []ExpenseForBalance{{ID: "e1", Amount: d("10"), PayerID: "A", Splits: []SplitEntry{
				{MemberID: "A", Amount: d("-5")},
				{MemberID: "B", Amount: d("15")},
			}}},
		},
		{
			name:     "payer not in roster",
			roster:   members,
			expenses: []ExpenseForBalance{evenSplit("e1", "Z", "10", "A", "B")},
		},
		{
			name:     "split member not in roster",
			roster:   members,
			expenses: []ExpenseForBalance{evenSplit("e1", "A", "10", "A", "Z")},
		},
		{
			name:        "negative settlement",
			roster:      members,
			settlements: []SettlementForBalance{{ID: "s1", FromUserID: "A", ToUserID: "B", Amount: d("-1")}},
		},
		{
			name:        "settlement receiver not in roster",
			roster:      members,
			settlements: []SettlementForBalance{{ID: "s1", FromUserID: "A", ToUserID: "Z", Amount: d("1")}},
		},
		{
			name:        "settlement to self",
			roster:      members,
			settlements: []SettlementForBalance{{ID: "s1", FromUserID: "A", ToUserID: "A", Amount: d("1")}},
		},
		{
			name:   "duplicate roster entry",
			roster: roster("A", "A"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances, err := ComputeGroupBalances(tt.roster, tt.expenses, tt.settlements)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, balances)
		})
	}
}

func TestBalanceSheet(t *testing.T) {
	members := []Member{{ID: "u1", Name: "Alice"}, {ID: "u2", Name: "Bob"}, {ID: "u3", Name: "Charlie"}}
	expenses := []ExpenseForBalance{evenSplit("e1", "u1", "90", "u1", "u2", "u3")}
	settlements := []SettlementForBalance{{ID: "s1", FromUserID: "u2", ToUserID: "u1", Amount: d("30")}}

	sheet, err := BalanceSheet(members, expenses, settlements)
	require.NoError(t, err)
	require.Len(t, sheet, 3)

	// Roster order is preserved
	assert.Equal(t, "Alice", sheet[0].MemberName)
	assert.Equal(t, "Bob", sheet[1].MemberName)
	assert.Equal(t, "Charlie", sheet[2].MemberName)

	alice := sheet[0]
	assert.True(t, alice.TotalPaid.Equal(d("90")), "Alice paid %s", alice.TotalPaid)
	assert.True(t, alice.TotalOwed.Equal(d("60")), "Alice owed %s", alice.TotalOwed)
	assert.True(t, alice.NetBalance.Equal(d("30")), "Alice net %s", alice.NetBalance)

	bob := sheet[1]
	assert.True(t, bob.TotalPaid.Equal(d("30")), "Bob paid %s", bob.TotalPaid)
	assert.True(t, bob.TotalOwed.Equal(d("30")), "Bob owed %s", bob.TotalOwed)
	assert.True(t, bob.NetBalance.IsZero(), "Bob net %s", bob.NetBalance)

	for _, mb := range sheet {
		assert.True(t, mb.NetBalance.Equal(mb.TotalPaid.Sub(mb.TotalOwed)), "%s net != paid - owed", mb.MemberName)
	}
}
