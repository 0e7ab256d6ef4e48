package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCommandTrackLimit(t *testing.T) {
	cmd := newSeedCommand()

	flag := cmd.Flags().Lookup("track-limit")
	require.NotNil(t, flag)
	assert.Equal(t, "50", flag.DefValue)

	require.NoError(t, cmd.Flags().Set("track-limit", "10"))
	limit, err := cmd.Flags().GetInt("track-limit")
	require.NoError(t, err)
	assert.Equal(t, 10, limit)
}
