package listing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalPagesCeiling(t *testing.T) {
	s := New(15)

	s.SetCount(0)
	require.Equal(t, 1, s.TotalPages())

	s.SetCount(15)
	require.Equal(t, 1, s.TotalPages())

	s.SetCount(16)
	require.Equal(t, 2, s.TotalPages())

	s.SetCount(31)
	require.Equal(t, 3, s.TotalPages())
}

func TestPageClampedWhenCountShrinks(t *testing.T) {
	s := New(10)
	s.SetCount(55)
	s.SetPage(6)
	require.Equal(t, 6, s.Page())

	// a deletion shrinks the set below the current offset
	s.SetCount(41)
	require.Equal(t, 5, s.Page())
}

func TestBoundaryNavigation(t *testing.T) {
	s := New(10)
	s.SetCount(25)

	require.False(t, s.PrevPage())
	require.Equal(t, 1, s.Page())

	require.True(t, s.NextPage())
	require.True(t, s.NextPage())
	require.Equal(t, 3, s.Page())

	require.False(t, s.NextPage())
	require.Equal(t, 3, s.Page())
}

func TestFilterChangeResetsPage(t *testing.T) {
	active := true

	cases := []struct {
		name   string
		mutate func(*State)
	}{
		{"search", func(s *State) { s.SetSearch("maria") }},
		{"ordering", func(s *State) { s.SetOrdering("-data_hour") }},
		{"is_active", func(s *State) { s.SetIsActive(&active) }},
		{"period", func(s *State) { s.SetPeriod("2024-01-01", "2024-01-31") }},
		{"page_size", func(s *State) { s.SetPageSize(12) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(10)
			s.SetCount(100)
			s.SetPage(4)

			tc.mutate(s)
			require.Equal(t, 1, s.Page())
		})
	}
}

func TestUnchangedFilterKeepsPage(t *testing.T) {
	s := New(10)
	s.SetCount(100)
	s.SetSearch("bolo")
	s.SetPage(3)

	s.SetSearch("bolo")
	s.SetPeriod("", "")
	require.Equal(t, 3, s.Page())
}

func TestStaleResponseDiscarded(t *testing.T) {
	s := New(10)

	first := s.Begin()
	second := s.Begin()

	// the newer request resolves first
	require.True(t, s.Accept(second))
	require.False(t, s.Accept(first))

	// replay of an already accepted stamp is also rejected
	require.False(t, s.Accept(second))
}

func TestAcceptOnlyCurrentStamp(t *testing.T) {
	s := New(10)
	old := s.Begin()
	s.Begin()
	current := s.Begin()

	require.False(t, s.Accept(old))
	require.True(t, s.Accept(current))
}
