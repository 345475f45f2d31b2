package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToolIDAccepts(t *testing.T) {
	for _, in := range []string{"samtools", "bwa-mem2", "tool_1.2", "A", "  msa  ", "-", "..", "lint-all"} {
		got, err := ValidateToolID(in)
		require.NoError(t, err, in)
		assert.NotContains(t, got, " ")
	}
}

func TestValidateToolIDRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"tool name",
		"tool;rm -rf /",
		"$(id)",
		"tool/other",
		"naïve",
		"--lint-all",
		"x--lint-all",
		"tool\n--lint-all",
	} {
		_, err := ValidateToolID(in)
		assert.ErrorIs(t, err, ErrValidation, in)
	}
}

func TestValidateToolIDTrims(t *testing.T) {
	got, err := ValidateToolID("\tsamtools \n")
	require.NoError(t, err)
	assert.Equal(t, "samtools", got)
}
