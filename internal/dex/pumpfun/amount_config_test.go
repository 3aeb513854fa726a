package pumpfun

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  AmountConfig[uint64]
		value   uint64
		wantErr error
	}{
		{"unbounded range", RangeConfig[uint64](nil, nil), 0, nil},
		{"inside range", RangeConfig[uint64](Bound[uint64](10), Bound[uint64](20)), 15, nil},
		{"at min", RangeConfig[uint64](Bound[uint64](10), Bound[uint64](20)), 10, nil},
		{"at max", RangeConfig[uint64](Bound[uint64](10), Bound[uint64](20)), 20, nil},
		{"below min", RangeConfig[uint64](Bound[uint64](10), nil), 9, ErrValueTooSmall},
		{"above max", RangeConfig[uint64](nil, Bound[uint64](20)), 21, ErrValueTooLarge},
		{"enum member", EnumConfig[uint64](1, 5, 9), 5, nil},
		{"enum non member", EnumConfig[uint64](1, 5, 9), 4, ErrValueInvalid},
		{"empty enum", EnumConfig[uint64](), 0, ErrValueInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate(tt.value)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAmountConfigBorsh(t *testing.T) {
	t.Run("range with one bound", func(t *testing.T) {
		in := RangeConfig[uint64](nil, Bound[uint64](42))
		buf := new(bytes.Buffer)
		require.NoError(t, in.MarshalWithEncoder(bin.NewBorshEncoder(buf)))
		// variant, None, Some(42)
		assert.Equal(t, []byte{0, 0, 1, 42, 0, 0, 0, 0, 0, 0, 0}, buf.Bytes())

		var out AmountConfig[uint64]
		require.NoError(t, out.UnmarshalWithDecoder(bin.NewBorshDecoder(buf.Bytes())))
		assert.Equal(t, AmountRange, out.Kind)
		assert.Nil(t, out.Min)
		require.NotNil(t, out.Max)
		assert.Equal(t, uint64(42), *out.Max)
	})

	t.Run("enum of uint8", func(t *testing.T) {
		in := EnumConfig[uint8](6, 9)
		buf := new(bytes.Buffer)
		require.NoError(t, in.MarshalWithEncoder(bin.NewBorshEncoder(buf)))
		assert.Equal(t, []byte{1, 2, 0, 0, 0, 6, 9}, buf.Bytes())

		var out AmountConfig[uint8]
		require.NoError(t, out.UnmarshalWithDecoder(bin.NewBorshDecoder(buf.Bytes())))
		assert.Equal(t, AmountEnum, out.Kind)
		assert.Equal(t, []uint8{6, 9}, out.Values)
	})

	t.Run("unknown variant", func(t *testing.T) {
		var out AmountConfig[uint64]
		assert.Error(t, out.UnmarshalWithDecoder(bin.NewBorshDecoder([]byte{7})))
	})
}

func TestAmountConfigString(t *testing.T) {
	assert.Equal(t, "[-inf, 20]", RangeConfig[uint64](nil, Bound[uint64](20)).String())
	assert.Equal(t, "enum[6 9]", EnumConfig[uint8](6, 9).String())
}
