package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderrusich/waveviz/internal/xerrors"
)

func TestFormatAndParseIDChRoundTrip(t *testing.T) {
	s := FormatIDCh(12, 3)
	assert.Equal(t, "12_3", s)

	id, ch, err := ParseIDCh(s)
	require.NoError(t, err)
	assert.Equal(t, 12, id)
	assert.Equal(t, 3, ch)
}

func TestParseIDChRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"abc", "1_2_3", "1", "1_", "_1", "-1_2"} {
		_, _, err := ParseIDCh(bad)
		require.Error(t, err, bad)
		assert.True(t, xerrors.Is(err, xerrors.InvalidInput), bad)
	}
}
