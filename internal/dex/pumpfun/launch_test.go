package pumpfun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaunchValidation(t *testing.T) {
	tests := []struct {
		name    string
		params  LaunchParams
		wantErr error
	}{
		{
			name:   "valid",
			params: LaunchParams{Decimals: 6, TokenSupply: 1_000_000_000_000, ReserveAmount: 30_000_000_000},
		},
		{
			name:    "fractional supply",
			params:  LaunchParams{Decimals: 6, TokenSupply: 1_000_000_000_001, ReserveAmount: 30_000_000_000},
			wantErr: ErrValueInvalid,
		},
		{
			// fractional supply is reported before the oversized reserve
			name:    "fractional supply wins over reserve",
			params:  LaunchParams{Decimals: 6, TokenSupply: 1_500_000, ReserveAmount: 500_000_000_000},
			wantErr: ErrValueInvalid,
		},
		{
			name:    "reserve too large",
			params:  LaunchParams{Decimals: 6, TokenSupply: 1_000_000_000_000, ReserveAmount: 500_000_000_000},
			wantErr: ErrValueTooLarge,
		},
		{
			name:    "supply too small",
			params:  LaunchParams{Decimals: 6, TokenSupply: 999_000_000, ReserveAmount: 0},
			wantErr: ErrValueTooSmall,
		},
		{
			// supply is checked before decimals
			name:    "supply wins over decimals",
			params:  LaunchParams{Decimals: 2, TokenSupply: 900, ReserveAmount: 0},
			wantErr: ErrValueTooSmall,
		},
		{
			name:    "decimals not allowed",
			params:  LaunchParams{Decimals: 2, TokenSupply: 1_000_000, ReserveAmount: 0},
			wantErr: ErrValueInvalid,
		},
		{
			name:    "decimals overflow",
			params:  LaunchParams{Decimals: 20, TokenSupply: 1, ReserveAmount: 0},
			wantErr: ErrValueInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.params.Mint = newKey(t)
			creator := newKey(t)

			curve, err := Launch(cfg, creator, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, curve)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.params.TokenSupply, curve.ReserveToken)
			assert.Equal(t, tt.params.ReserveAmount, curve.ReserveLamport)
			assert.Equal(t, curve.InitLamport, curve.ReserveLamport)
			assert.False(t, curve.IsCompleted)
			assert.Equal(t, StageActive, curve.Stage)
			assert.Equal(t, creator, curve.Creator)
			assert.Equal(t, tt.params.Mint, curve.TokenMint)
		})
	}
}
