package catalog

import (
	"time"

	"thriftshop/internal/domain"
)

// SearchQuiet is how long search input must stay unchanged before it filters.
const SearchQuiet = 300 * time.Millisecond

// State is a shopper's catalog session: applied criteria, pending search input and
// how many "other" items are showing. Methods return a new State.
type State struct {
	Criteria      Criteria  `json:"criteria"`
	Visible       int       `json:"visible"`
	PendingSearch string    `json:"pendingSearch"`
	TypedAt       time.Time `json:"typedAt"`
}

func NewState() State {
	return State{Criteria: DefaultCriteria(), Visible: PageSize}
}

// Apply replaces the criteria. Any change resets paging to the first page.
func (s State) Apply(c Criteria) State {
	if !s.Criteria.Equal(c) {
		s.Visible = PageSize
	}
	s.Criteria = c
	s.PendingSearch = c.Search
	return s
}

func (s State) LoadMore() State {
	if s.Visible < PageSize {
		s.Visible = PageSize
	}
	s.Visible += PageSize
	return s
}

// Reset is "clear all filters".
func (s State) Reset() State {
	return NewState()
}

// SetSearch records search input typed at at. It only takes effect through Settle.
func (s State) SetSearch(term string, at time.Time) State {
	s.PendingSearch = term
	s.TypedAt = at
	return s
}

// EffectiveSearch is the search term that should filter at now: the pending input once
// it has been quiet long enough, otherwise the last applied term.
func (s State) EffectiveSearch(now time.Time) string {
	if s.PendingSearch != s.Criteria.Search && now.Sub(s.TypedAt) >= SearchQuiet {
		return s.PendingSearch
	}
	return s.Criteria.Search
}

// Settle applies a pending search term whose quiet period has elapsed.
func (s State) Settle(now time.Time) State {
	if term := s.EffectiveSearch(now); term != s.Criteria.Search {
		c := s.Criteria
		c.Search = term
		pending, typed := s.PendingSearch, s.TypedAt
		s = s.Apply(c)
		s.PendingSearch, s.TypedAt = pending, typed
	}
	return s
}

// View derives the catalog page for this state at now.
func (s State) View(products []domain.Product, now time.Time) View {
	c, visible := s.Criteria, s.Visible
	if term := s.EffectiveSearch(now); term != c.Search {
		c.Search = term
		visible = PageSize
	}
	return Derive(products, c, visible, now)
}
