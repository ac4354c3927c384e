package sentry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type codedErr int32

func (c codedErr) Error() string  { return "coded" }
func (c codedErr) GetCode() int32 { return int32(c) }

func TestShouldReport(t *testing.T) {
	require.True(t, shouldReport(codedErr(50000)))
	require.True(t, shouldReport(codedErr(50001)))
	require.False(t, shouldReport(codedErr(40900)))
	require.False(t, shouldReport(codedErr(40100)))
	require.True(t, shouldReport(errors.New("plain")))
}
