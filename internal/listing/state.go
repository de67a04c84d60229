// Package listing reconciles pagination, filtering and search state for the
// collection views. Every list screen owns one State; loaders stamp requests
// with Begin() and drop responses whose stamp is stale, so a slow page-2
// response can never overwrite page-3 data.
package listing

import "time"

// DebounceInterval is how long search input must be quiet before a request
// fires.
const DebounceInterval = 500 * time.Millisecond

// State is the query state of one paginated list.
type State struct {
	page      int
	pageSize  int
	count     int
	ordering  string
	search    string
	isActive  *bool
	startDate string
	endDate   string

	seq      uint64
	accepted uint64
}

// New returns a State positioned on page 1.
func New(pageSize int) *State {
	if pageSize < 1 {
		pageSize = 1
	}
	return &State{page: 1, pageSize: pageSize}
}

func (s *State) Page() int        { return s.page }
func (s *State) PageSize() int    { return s.pageSize }
func (s *State) Count() int       { return s.count }
func (s *State) Ordering() string { return s.ordering }
func (s *State) Search() string   { return s.search }
func (s *State) IsActive() *bool  { return s.isActive }
func (s *State) Period() (start, end string) {
	return s.startDate, s.endDate
}

// TotalPages is ceil(count / pageSize), never below 1.
func (s *State) TotalPages() int {
	if s.count <= 0 {
		return 1
	}
	pages := (s.count + s.pageSize - 1) / s.pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// SetCount records the collection size reported by the server and clamps the
// current page into the valid range.
func (s *State) SetCount(count int) {
	if count < 0 {
		count = 0
	}
	s.count = count
	if s.page > s.TotalPages() {
		s.page = s.TotalPages()
	}
}

// NextPage advances one page; no-op on the last page.
func (s *State) NextPage() bool {
	if s.page >= s.TotalPages() {
		return false
	}
	s.page++
	return true
}

// PrevPage steps back one page; no-op on the first page.
func (s *State) PrevPage() bool {
	if s.page <= 1 {
		return false
	}
	s.page--
	return true
}

// SetPage jumps to a page, clamped to [1, TotalPages].
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	if max := s.TotalPages(); page > max {
		page = max
	}
	s.page = page
}

// Filter mutations reset to page 1: the old offset is meaningless against a
// different result set.

func (s *State) SetOrdering(ordering string) {
	if s.ordering == ordering {
		return
	}
	s.ordering = ordering
	s.page = 1
}

func (s *State) SetSearch(search string) {
	if s.search == search {
		return
	}
	s.search = search
	s.page = 1
}

func (s *State) SetIsActive(active *bool) {
	if equalBoolPtr(s.isActive, active) {
		return
	}
	s.isActive = active
	s.page = 1
}

func (s *State) SetPeriod(startDate, endDate string) {
	if s.startDate == startDate && s.endDate == endDate {
		return
	}
	s.startDate = startDate
	s.endDate = endDate
	s.page = 1
}

func (s *State) SetPageSize(pageSize int) {
	if pageSize < 1 || s.pageSize == pageSize {
		return
	}
	s.pageSize = pageSize
	s.page = 1
}

// Begin stamps a new request. Each stamp supersedes all earlier ones.
func (s *State) Begin() uint64 {
	s.seq++
	return s.seq
}

// Accept reports whether a response with the given stamp is still current,
// and records it if so. Out-of-order stale responses return false and must be
// discarded by the caller.
func (s *State) Accept(seq uint64) bool {
	if seq != s.seq || seq <= s.accepted {
		return false
	}
	s.accepted = seq
	return true
}

func equalBoolPtr(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
