package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapFormatsCause(t *testing.T) {
	err := Wrap("transport_error", "prediction service unreachable", errors.New("dial tcp: refused"))
	require.Equal(t, "prediction service unreachable: dial tcp: refused", err.Error())
	require.True(t, IsCode(err, "transport_error"))
}

func TestCodeOfFindsWrappedAppError(t *testing.T) {
	inner := Wrap("decoding_error", "invalid prediction index", nil)
	outer := fmt.Errorf("recommend: %w", inner)
	require.Equal(t, "decoding_error", CodeOf(outer))
	require.Equal(t, "", CodeOf(errors.New("plain")))
	require.Equal(t, "invalid prediction index", inner.Error())
}
