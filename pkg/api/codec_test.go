package api

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"
)

func TestCodec_AmountsAreDecimalStrings(t *testing.T) {
	data, err := Codec{}.Marshal(&Debt{
		FromUserID: "b",
		ToUserID:   "a",
		Amount:     decimal.RequireFromString("33.34"),
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount":"33.34"`)

	var debt Debt
	require.NoError(t, Codec{}.Unmarshal(data, &debt))
	assert.True(t, debt.Amount.Equal(decimal.RequireFromString("33.34")))
}

func TestCodec_AcceptsNumericAmounts(t *testing.T) {
	var req RecordSettlementRequest
	require.NoError(t, Codec{}.Unmarshal([]byte(`{"groupId":"g","amount":12.5}`), &req))
	assert.Equal(t, "g", req.GroupID)
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("12.5")))
}

func TestCodec_ProtoMessages(t *testing.T) {
	data, err := Codec{}.Marshal(&emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	require.NoError(t, Codec{}.Unmarshal([]byte(`{}`), &emptypb.Empty{}))
	require.NoError(t, Codec{}.Unmarshal(nil, &emptypb.Empty{}))
}

func TestCodec_RejectsMalformed(t *testing.T) {
	var req AddExpenseRequest
	assert.Error(t, Codec{}.Unmarshal([]byte(`{"amount":"twelve"}`), &req))
}
