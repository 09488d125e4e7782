package pathkey

import (
	"testing"

	"github.com/3leaps/hermes/pkg/kerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("valid nested key", func(t *testing.T) {
		segs, err := Validate("/root/status/sub1", "root")
		require.NoError(t, err)
		assert.Equal(t, []string{"root", "status", "sub1"}, segs)
	})

	t.Run("valid root-only key", func(t *testing.T) {
		segs, err := Validate("/root", "root")
		require.NoError(t, err)
		assert.Equal(t, []string{"root"}, segs)
	})

	t.Run("collapses repeated slashes", func(t *testing.T) {
		segs, err := Validate("/root//status", "root")
		require.NoError(t, err)
		assert.Equal(t, []string{"root", "status"}, segs)
	})

	t.Run("missing leading slash", func(t *testing.T) {
		_, err := Validate("root/status", "root")
		require.Error(t, err)
		assert.True(t, kerr.Is(err, kerr.InvalidKey))
	})

	t.Run("empty after trimming", func(t *testing.T) {
		_, err := Validate("/", "root")
		require.Error(t, err)
		assert.True(t, kerr.Is(err, kerr.InvalidKey))
	})

	t.Run("wrong root", func(t *testing.T) {
		_, err := Validate("/other/status", "root")
		require.Error(t, err)
		assert.True(t, kerr.Is(err, kerr.InvalidKey))
	})
}

func TestValidateRoot(t *testing.T) {
	require.NoError(t, ValidateRoot("root"))

	err := ValidateRoot("")
	require.Error(t, err)
	assert.True(t, kerr.Is(err, kerr.InvalidRoot))

	err = ValidateRoot("ro/ot")
	require.Error(t, err)
	assert.True(t, kerr.Is(err, kerr.InvalidRoot))
}
