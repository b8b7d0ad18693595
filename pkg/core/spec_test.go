package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhase(t *testing.T) {
	p, err := ParsePhase("generate")
	require.NoError(t, err)
	assert.Equal(t, PhaseGenerate, p)

	p, err = ParsePhase("load")
	require.NoError(t, err)
	assert.Equal(t, PhaseLoad, p)

	_, err = ParsePhase("both")
	assert.ErrorIs(t, err, ErrUnknownPhase)
	_, err = ParsePhase("")
	assert.ErrorIs(t, err, ErrUnknownPhase)
}

func TestPhase_AppliesTo(t *testing.T) {
	assert.True(t, PhaseBoth.AppliesTo(PhaseGenerate))
	assert.True(t, Phase("").AppliesTo(PhaseLoad))
	assert.True(t, PhaseLoad.AppliesTo(PhaseLoad))
	assert.False(t, PhaseLoad.AppliesTo(PhaseGenerate))
}

func TestMethod_BaseName(t *testing.T) {
	assert.Equal(t, "direct_bc", Method{Name: "direct_bc"}.BaseName())
	assert.Equal(t, "direct_bc", Method{Name: "direct_bc_load", Base: "direct_bc"}.BaseName())
}

func TestSubmissionRecord_Accepted(t *testing.T) {
	var nilRec *SubmissionRecord
	assert.False(t, nilRec.Accepted())
	assert.False(t, (&SubmissionRecord{Outcome: OutcomeSkipped}).Accepted())
	assert.True(t, (&SubmissionRecord{Outcome: OutcomeSubmitted}).Accepted())
}
