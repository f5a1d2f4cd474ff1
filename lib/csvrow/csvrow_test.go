package csvrow

import (
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
		fails    bool
	}{
		{in: "100", expected: "100"},
		{in: " 15.5 ", expected: "15.5"},
		{in: "3,5", expected: "3.5"},
		{in: "-2,75", expected: "-2.75"},
		// a comma next to a dot is a thousands separator, not coerced
		{in: "1,234.5", fails: true},
		{in: "abc", fails: true},
		{in: "", fails: true},
	}

	for _, test := range testCases {
		d, err := ParseCell(test.in)
		if test.fails {
			require.Error(t, err, "input %q", test.in)
			continue
		}
		require.NoError(t, err, "input %q", test.in)
		expected, err := decimal.NewFromString(test.expected)
		require.NoError(t, err)
		require.True(t, d.Equal(expected), "input %q: got %s", test.in, d)
	}
}

func TestReader(t *testing.T) {
	input := strings.Join([]string{
		"100,50,50,50",
		"",
		"  , ,",
		"15.5,5.5,10.0,4.0",
		"oops,1,2",
		"42",
		"7,3,4",
	}, "\n")

	r := NewReader(strings.NewReader(input))

	row, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, 1, row.Index)
	require.True(t, row.Target.Equal(decimal.NewFromInt(100)))
	require.Len(t, row.Candidates, 3)

	// the empty line is dropped by the csv layer entirely, the
	// whitespace-only record is counted but skipped
	row, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, 3, row.Index)
	require.Len(t, row.Candidates, 3)

	_, err = r.Next()
	var rowErr RowError
	require.ErrorAs(t, err, &rowErr)
	require.Equal(t, 4, rowErr.Index)

	// a single-column row is rejected, reader keeps going
	_, err = r.Next()
	require.ErrorAs(t, err, &rowErr)
	require.Equal(t, 5, rowErr.Index)

	row, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, 6, row.Index)

	_, err = r.Next()
	require.Equal(t, io.EOF, err)
}

func TestFormatDecimal(t *testing.T) {
	testCases := map[string]string{
		"100":    "100",
		"100.00": "100",
		"15.5":   "15.5",
		"15.50":  "15.5",
		"0":      "0",
		"-3.25":  "-3.25",
	}
	for in, expected := range testCases {
		d, err := decimal.NewFromString(in)
		require.NoError(t, err)
		require.Equal(t, expected, FormatDecimal(d), "input %s", in)
	}
}

func TestFormatLine(t *testing.T) {
	target, _ := decimal.NewFromString("15.5")
	a, _ := decimal.NewFromString("5.5")
	b, _ := decimal.NewFromString("10.0")

	line := FormatLine(
		Row{Index: 3, Target: target},
		[]decimal.Decimal{a, b},
		a.Add(b),
	)
	require.Equal(t, "Row 3: chosen=[5.5, 10] sum=15.5 / target=15.5", line)

	line = FormatLine(Row{Index: 1, Target: target}, nil, decimal.Zero)
	require.Equal(t, "Row 1: chosen=[] sum=0 / target=15.5", line)
}
