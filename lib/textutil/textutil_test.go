package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "a b c", CollapseWhitespace("  a \t b\n\nc "))
	require.Equal(t, "", CollapseWhitespace("   "))
}

func TestFirstWords(t *testing.T) {
	require.Equal(t, "Samsung SSD 970", FirstWords("Samsung SSD 970 EVO Plus 1TB", 3))
	require.Equal(t, "short", FirstWords("short", 5))
	require.Equal(t, "", FirstWords("", 4))
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "samsungssd", NormalizeName("  Samsung  SSD\t"))
}
