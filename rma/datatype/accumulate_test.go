package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/rmakit/internal/buf"
)

func TestAccumulate_PerType(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		dst := int32s(1, 2)
		require.NoError(t, Accumulate(dst, int32s(10, -20), 8, AccInt))
		assert.Equal(t, int32(11), buf.I32(dst, 0))
		assert.Equal(t, int32(-18), buf.I32(dst, 4))
	})
	t.Run("long", func(t *testing.T) {
		dst := int64s(1 << 40)
		require.NoError(t, Accumulate(dst, int64s(1), 8, AccLong))
		assert.Equal(t, int64(1<<40+1), buf.I64(dst, 0))
	})
	t.Run("float", func(t *testing.T) {
		dst := float32s(0.5)
		require.NoError(t, Accumulate(dst, float32s(0.25), 4, AccFloat))
		assert.Equal(t, float32(0.75), buf.F32(dst, 0))
	})
	t.Run("double", func(t *testing.T) {
		dst := float64s(1, 2)
		require.NoError(t, Accumulate(dst, float64s(3, 4), 16, AccDouble))
		assert.Equal(t, 4.0, buf.F64(dst, 0))
		assert.Equal(t, 6.0, buf.F64(dst, 8))
	})
	t.Run("complex", func(t *testing.T) {
		dst := complex64s(complex(1, 1))
		require.NoError(t, Accumulate(dst, complex64s(complex(-1, 4)), 8, AccComplex))
		assert.Equal(t, complex64(complex(0, 5)), buf.C64(dst, 0))
	})
	t.Run("dcomplex", func(t *testing.T) {
		dst := complex128s(complex(1, 1))
		require.NoError(t, Accumulate(dst, complex128s(complex(2, -1)), 16, AccDComplex))
		assert.Equal(t, complex(3, 0), buf.C128(dst, 0))
	})
}

func TestAccumulate_PartialTransfer(t *testing.T) {
	dst := int32s(1, 1, 1)
	require.NoError(t, Accumulate(dst, int32s(5, 5, 5), 4, AccInt))
	assert.Equal(t, int32(6), buf.I32(dst, 0))
	assert.Equal(t, int32(1), buf.I32(dst, 4), "bytes past size are untouched")
}

func TestAccumulate_Errors(t *testing.T) {
	require.ErrorIs(t, Accumulate(make([]byte, 8), make([]byte, 8), 6, AccDouble), ErrSizeMismatch)
	require.ErrorIs(t, Accumulate(make([]byte, 4), make([]byte, 8), 8, AccDouble), ErrSizeMismatch)
	require.ErrorIs(t, Accumulate(make([]byte, 8), make([]byte, 8), 8, Datatype(7)), ErrUnknownDatatype)
}
