package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountString(t *testing.T) {
	assert.Equal(t, "$25", Dollars(25).String())
	assert.Equal(t, "$12.50", Amount(1250).String())
	assert.Equal(t, "$0.05", Amount(5).String())
	assert.Equal(t, "-$3", Dollars(-3).String())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{in: "25", want: Dollars(25)},
		{in: "$5", want: Dollars(5)},
		{in: "12.5", want: 1250},
		{in: "12.05", want: 1205},
		{in: "", wantErr: true},
		{in: "-4", wantErr: true},
		{in: "-0.50", wantErr: true},
		{in: "$-0.50", wantErr: true},
		{in: " -0.5", wantErr: true},
		{in: "+3", wantErr: true},
		{in: "1.-5", wantErr: true},
		{in: "0.50", want: 50},
		{in: "1.234", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMulRatioBlackjack(t *testing.T) {
	assert.Equal(t, Amount(1100), Dollars(5).MulRatio(11, 5))
	assert.Equal(t, Amount(2), Amount(1).MulRatio(11, 5), "rounds toward zero")
}
