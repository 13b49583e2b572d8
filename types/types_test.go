package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindCapabilities(t *testing.T) {
	tests := []struct {
		kind      Kind
		name      string
		value     bool
		indexable bool
		callable  bool
	}{
		{Scalar, "scalar", true, false, false},
		{Array, "array", false, true, false},
		{Func, "function", false, false, true},
	}

	for _, tt := range tests {
		require.Equal(t, tt.name, tt.kind.String())
		require.Equal(t, tt.value, tt.kind.IsValue(), tt.name)
		require.Equal(t, tt.indexable, tt.kind.Indexable(), tt.name)
		require.Equal(t, tt.callable, tt.kind.Callable(), tt.name)
	}
	require.Equal(t, "unknown", Kind(7).String())
}
