package protocol

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Inbound
		wantErr bool
	}{
		{
			name: "login",
			line: "LOGIN:Mumbai",
			want: Inbound{Kind: KindLogin, Name: "Mumbai"},
		},
		{
			name: "login trims whitespace",
			line: "  LOGIN: Chennai \n",
			want: Inbound{Kind: KindLogin, Name: "Chennai"},
		},
		{
			name:    "login without team name",
			line:    "LOGIN:",
			wantErr: true,
		},
		{
			name: "bid with integer amount",
			line: "BID:150",
			want: Inbound{Kind: KindBid, Amount: decimal.NewFromInt(150)},
		},
		{
			name: "bid with decimal amount",
			line: "BID:150.50",
			want: Inbound{Kind: KindBid, Amount: decimal.RequireFromString("150.50")},
		},
		{
			name:    "bid with garbage amount",
			line:    "BID:abc",
			wantErr: true,
		},
		{
			name: "ready",
			line: "READY",
			want: Inbound{Kind: KindReady},
		},
		{
			name: "finalize",
			line: "FINALIZE_PLAYER",
			want: Inbound{Kind: KindFinalize},
		},
		{
			name: "summary",
			line: "DISPLAY_TEAMS",
			want: Inbound{Kind: KindSummary},
		},
		{
			name: "exit",
			line: "EXIT",
			want: Inbound{Kind: KindExit},
		},
		{
			name:    "unknown verb",
			line:    "HELLO",
			wantErr: true,
		},
		{
			name:    "empty line",
			line:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.True(t, tt.want.Amount.Equal(got.Amount))
		})
	}
}

func TestOutboundMessages(t *testing.T) {
	assert.Equal(t, "LOGIN_SUCCESS:Welcome Mumbai!", LoginSuccess("Mumbai"))
	assert.Equal(t, "LOGIN_REJECTED:Team name already exists", LoginRejected("Team name already exists"))
	assert.Equal(t, "NEW_PLAYER:V Kohli:2000.00:Type:Batsman:Nationality:Indian",
		NewPlayer("V Kohli", decimal.NewFromInt(2000), "Batsman", "Indian"))
	assert.Equal(t, "NEW_BID:Mumbai:2010.00", NewBid("Mumbai", decimal.NewFromInt(2010)))
	assert.Equal(t, "BID_REJECTED:Bid must be at least 2010.00", BidRejectedTooLow(decimal.NewFromInt(2010)))
	assert.Equal(t, "BID_REJECTED:Insufficient funds (Available: 500.00)",
		BidRejectedInsufficientFunds(decimal.NewFromInt(500)))
	assert.Equal(t, "PLAYER_SOLD:Mumbai:2010.00:Remaining purse: 9990.00",
		PlayerSold("Mumbai", decimal.NewFromInt(2010), decimal.NewFromInt(9990)))
	assert.Equal(t, "PLAYER_UNSOLD:V Kohli", PlayerUnsold("V Kohli"))
	assert.Equal(t, "FINALIZATION_PROGRESS:1/2", FinalizationProgress(1, 2))
	assert.Equal(t, "BIDDING_TIMEOUT:Moving to finalization", BiddingTimeout())
	assert.Equal(t, "FINALIZATION_TIMEOUT:Auto-finalizing", FinalizationTimeout())
	assert.Equal(t, "ERROR:Login required", ErrorMessage("Login required"))
}
