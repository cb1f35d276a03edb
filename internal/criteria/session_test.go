package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoarseSetterCommitsImmediately(t *testing.T) {
	var commits []Criteria
	s := NewSession(Default(), func(c Criteria) { commits = append(commits, c) })

	s.SetCategory("villa")

	require.Len(t, commits, 1)
	assert.Equal(t, "villa", commits[0].Category)
	assert.Equal(t, PhaseCommitted, s.Phase())
	assert.Equal(t, "villa", s.Committed().Category)
}

func TestFineSettersBatchUntilApply(t *testing.T) {
	var commits []Criteria
	s := NewSession(Default(), func(c Criteria) { commits = append(commits, c) })

	s.SetPriceRange(1000000, 3000000)
	s.SetBedrooms("3")
	s.SetAmenities([]string{"gym"})

	assert.Empty(t, commits, "fine edits must not publish before Apply")
	assert.Equal(t, PhaseEditing, s.Phase())
	assert.True(t, s.Committed().AllDefault())

	s.Apply()

	require.Len(t, commits, 1)
	assert.Equal(t, "3", commits[0].Bedrooms)
	assert.True(t, commits[0].PriceEnabled)
	assert.Equal(t, PhaseCommitted, s.Phase())
}

func TestApplyOutsideEditingIsNoop(t *testing.T) {
	var commits []Criteria
	s := NewSession(Default(), func(c Criteria) { commits = append(commits, c) })

	s.Apply()
	assert.Empty(t, commits)
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestCommitResetsPage(t *testing.T) {
	initial := Default().WithPage(4)
	s := NewSession(initial, nil)

	s.SetCategory("penthouse")
	assert.Equal(t, 1, s.Committed().Page, "any filter change invalidates the current page")
}

func TestApplyResetsPage(t *testing.T) {
	s := NewSession(Default().WithPage(5), nil)

	s.SetKeyword("marina")
	s.Apply()
	assert.Equal(t, 1, s.Committed().Page)
}

func TestEditBackToCommittedReturnsToIdle(t *testing.T) {
	s := NewSession(Default(), nil)

	s.SetKeyword("marina")
	assert.Equal(t, PhaseEditing, s.Phase())

	s.SetKeyword("")
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestResetRestoresDefaultsAndPublishes(t *testing.T) {
	var commits []Criteria
	s := NewSession(Default().WithCategory("villa").WithPage(3), func(c Criteria) {
		commits = append(commits, c)
	})

	s.SetKeyword("pending-draft")
	s.Reset()

	require.Len(t, commits, 1)
	assert.True(t, commits[0].AllDefault())
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.True(t, s.Draft().AllDefault(), "the pending draft is discarded, not committed")
}

func TestCoarseCommitKeepsPendingDraftEdits(t *testing.T) {
	s := NewSession(Default(), nil)

	s.SetBedrooms("2")
	s.SetCategory("apartment")

	// The coarse change commits the draft it found, batched edits included
	assert.Equal(t, "2", s.Committed().Bedrooms)
	assert.Equal(t, "apartment", s.Committed().Category)
}
