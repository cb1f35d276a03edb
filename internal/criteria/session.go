package criteria

// Phase is the session lifecycle state.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseEditing   Phase = "editing"
	PhaseCommitted Phase = "committed"
)

// CommitFunc receives newly committed criteria. Callers typically re-encode
// it into the URL or re-filter an already-fetched collection.
type CommitFunc func(Criteria)

// Session owns draft filter state over a committed baseline. Coarse
// dimensions (category, lifestyle, developer, market type) commit on every
// change; fine dimensions (ranges, multi-select lists and the rest) batch in
// the draft until Apply, so a slider tick never triggers a refetch on its own.
// The committed criteria is always what the URL encodes: the URL stays the
// single source of truth and the session is a draft layer over it.
type Session struct {
	committed Criteria
	draft     Criteria
	phase     Phase
	onCommit  CommitFunc
}

// NewSession starts a session from criteria decoded out of the current URL.
func NewSession(initial Criteria, onCommit CommitFunc) *Session {
	return &Session{
		committed: initial,
		draft:     initial,
		phase:     PhaseIdle,
		onCommit:  onCommit,
	}
}

func (s *Session) Committed() Criteria { return s.committed }
func (s *Session) Draft() Criteria     { return s.draft }
func (s *Session) Phase() Phase        { return s.phase }

// Coarse setters: each commits immediately.

func (s *Session) SetCategory(category string) {
	s.commit(s.draft.WithCategory(category))
}

func (s *Session) SetLifestyle(lifestyle string) {
	s.commit(s.draft.WithLifestyle(lifestyle))
}

func (s *Session) SetDeveloper(developer string) {
	s.commit(s.draft.WithDeveloper(developer))
}

func (s *Session) SetMarketType(marketType string) {
	s.commit(s.draft.WithMarketType(marketType))
}

// Fine setters: each edits the draft; nothing is published until Apply.

func (s *Session) SetKeyword(keyword string) {
	s.edit(s.draft.WithKeyword(keyword))
}

func (s *Session) SetLocations(locations []string) {
	s.edit(s.draft.WithLocations(locations))
}

func (s *Session) SetNeighborhoods(neighborhoods []string) {
	s.edit(s.draft.WithNeighborhoods(neighborhoods))
}

func (s *Session) SetPriceRange(min, max float64) {
	s.edit(s.draft.WithPriceRange(min, max))
}

func (s *Session) ClearPriceRange() {
	s.edit(s.draft.WithoutPriceRange())
}

func (s *Session) SetAreaRange(min, max float64) {
	s.edit(s.draft.WithAreaRange(min, max))
}

func (s *Session) ClearAreaRange() {
	s.edit(s.draft.WithoutAreaRange())
}

func (s *Session) SetBedrooms(bedrooms string) {
	s.edit(s.draft.WithBedrooms(bedrooms))
}

func (s *Session) SetBathrooms(bathrooms string) {
	s.edit(s.draft.WithBathrooms(bathrooms))
}

func (s *Session) SetAmenities(amenities []string) {
	s.edit(s.draft.WithAmenities(amenities))
}

func (s *Session) SetViews(views []string) {
	s.edit(s.draft.WithViews(views))
}

func (s *Session) SetCompletionYear(year string) {
	s.edit(s.draft.WithCompletionYear(year))
}

func (s *Session) SetFurnishingStatus(status string) {
	s.edit(s.draft.WithFurnishingStatus(status))
}

func (s *Session) SetRentalPeriod(period string) {
	s.edit(s.draft.WithRentalPeriod(period))
}

// Apply publishes the batched draft.
func (s *Session) Apply() {
	if s.phase != PhaseEditing {
		return
	}
	s.commit(s.draft)
}

// Reset restores every dimension to its default and publishes the cleared
// state, which maps to navigating to the bare path. A session in Editing
// returns to Idle without its draft ever committing.
func (s *Session) Reset() {
	s.committed = Default()
	s.draft = s.committed
	s.phase = PhaseIdle
	if s.onCommit != nil {
		s.onCommit(s.committed)
	}
}

// commit publishes new criteria. Any filter change invalidates the current
// page, so page resets to 1 on commit.
func (s *Session) commit(next Criteria) {
	s.draft = next.WithPage(1)
	s.committed = s.draft
	s.phase = PhaseCommitted
	if s.onCommit != nil {
		s.onCommit(s.committed)
	}
}

func (s *Session) edit(next Criteria) {
	s.draft = next
	if s.draft.Equal(s.committed) {
		s.phase = PhaseIdle
		return
	}
	s.phase = PhaseEditing
}
