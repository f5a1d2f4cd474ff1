package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
		ok       bool
	}{
		{in: "$1,299.99", expected: "1299.99", ok: true},
		{in: "€59.49", expected: "59.49", ok: true},
		{in: "£10", expected: "10", ok: true},
		{in: "USD 42.00 each", expected: "42.00", ok: true},
		{in: "  $0.99  ", expected: "0.99", ok: true},
		{in: "12.", expected: "12", ok: true},
		{in: "free shipping", ok: false},
		{in: "", ok: false},
	}

	for _, test := range testCases {
		d, ok := Parse(test.in)
		require.Equal(t, test.ok, ok, "input %q", test.in)
		if !test.ok {
			continue
		}
		require.Equal(t, test.expected, d.String(), "input %q", test.in)
	}
}

func TestIsRange(t *testing.T) {
	require.True(t, IsRange("$10.00 to $24.99"))
	require.True(t, IsRange("$10.00 - $24.99"))
	require.False(t, IsRange("$10.00"))
	require.False(t, IsRange("$10.00-$24.99 special"))
}
