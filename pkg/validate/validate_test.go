package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronuchit/predicators/pkg/core"
)

func TestFieldValue(t *testing.T) {
	assert.NoError(t, FieldValue("env", "cover"))
	assert.NoError(t, FieldValue("env", "pybullet_cover-v2.1"))
	assert.NoError(t, FieldValue("seed", "456"))
}

func TestFieldValue_Rejections(t *testing.T) {
	cases := map[string]error{
		"":                                core.ErrInvalidFieldValue,
		"has space":                       core.ErrInvalidFieldValue,
		"_leading":                        core.ErrInvalidFieldValue,
		"a__b":                            core.ErrSeparatorInField,
		strings.Repeat("x", MaxFieldValueLength+1): core.ErrFieldValueTooLong,
	}
	for value, want := range cases {
		err := FieldValue("env", value)
		require.Error(t, err, "value %q", value)
		assert.ErrorIs(t, err, want, "value %q", value)

		var identityErr *core.IdentityError
		assert.ErrorAs(t, err, &identityErr)
	}
}

func TestSanitizeReason(t *testing.T) {
	assert.Equal(t, "", SanitizeReason(""))
	assert.Equal(t, "plain message", SanitizeReason("plain message"))
	assert.Equal(t, "nobyte", SanitizeReason("no\x00byte"))
	assert.Equal(t, "tab\tkept\nline", SanitizeReason("tab\tkept\nline"))

	long := SanitizeReason(strings.Repeat("a", MaxReasonLength*2))
	assert.LessOrEqual(t, len(long), MaxReasonLength)
	assert.True(t, strings.HasSuffix(long, "..."))
}

func TestClampSeedCount(t *testing.T) {
	assert.Equal(t, 1, ClampSeedCount(0))
	assert.Equal(t, 1, ClampSeedCount(-5))
	assert.Equal(t, 50, ClampSeedCount(50))
	assert.Equal(t, MaxSeeds, ClampSeedCount(MaxSeeds+1))
}
