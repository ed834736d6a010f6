package badwords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndMatch(t *testing.T) {
	n, err := Load(strings.NewReader("# comment\nscam\n\n  Fraud \n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.True(t, ContainsBadWords("This studio is a SCAM!"))
	assert.False(t, ContainsBadWords("Scampi for lunch after the shoot"))
	assert.Equal(t, []string{"fraud", "scam"}, Matches("fraud, pure fraud and a scam"))
}

func TestCensor(t *testing.T) {
	_, err := Load(strings.NewReader("scam\n"))
	require.NoError(t, err)

	assert.Equal(t, "Total ****, avoid.", Censor("Total scam, avoid."))
	assert.Equal(t, "Lovely lighting", Censor("Lovely lighting"))
}

func TestLoadBadWordsFile(t *testing.T) {
	require.NoError(t, LoadBadWords("en.txt"))
	assert.Greater(t, Count(), 10)

	assert.Error(t, LoadBadWords("missing.txt"))
}

func TestAddBadWord(t *testing.T) {
	_, _ = Load(strings.NewReader(""))
	assert.False(t, ContainsBadWords("rubbish service"))
	require.NoError(t, AddBadWord("Rubbish"))
	assert.True(t, ContainsBadWords("rubbish service"))
	assert.Error(t, AddBadWord("  "))
}
