package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	got, err := NormalizePhone("+1 650-253-0000", DefaultPhoneRegion)
	require.NoError(t, err)
	assert.Equal(t, "+16502530000", got)

	got, err = NormalizePhone("(650) 253-0000", "US")
	require.NoError(t, err)
	assert.Equal(t, "+16502530000", got)

	got, err = NormalizePhone("   ", DefaultPhoneRegion)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = NormalizePhone("not a phone", DefaultPhoneRegion)
	assert.ErrorIs(t, err, ErrInvalidPhone)

	_, err = NormalizePhone("+1 123", DefaultPhoneRegion)
	assert.ErrorIs(t, err, ErrInvalidPhone)
}
