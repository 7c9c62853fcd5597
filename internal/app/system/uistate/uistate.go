// Package uistate holds the interactive page state of one live session:
// the catalog query, the preview modal, the contact status line, the
// dashboard popup and counter tiles.
//
// State changes only through the transition methods on Store. Each
// transition notifies subscribers with the kind of change so the UI layer
// can re-render just that part. A Store belongs to a single goroutine (the
// live session loop) and does no locking of its own.
package uistate

import "github.com/dalemusser/coursehub/internal/app/system/courseq"

// ChangeKind names the part of the state a transition touched.
type ChangeKind int

const (
	ChangeQuery ChangeKind = iota + 1
	ChangeModal
	ChangeStatus
	ChangePopup
	ChangeTile
	ChangeSubmitting
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeQuery:
		return "query"
	case ChangeModal:
		return "modal"
	case ChangeStatus:
		return "status"
	case ChangePopup:
		return "popup"
	case ChangeTile:
		return "tile"
	case ChangeSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Change is passed to subscribers after a transition.
type Change struct {
	Kind ChangeKind
	Tile string // set for ChangeTile
}

// Subscriber is notified after each transition, in subscription order.
type Subscriber func(Change)

// Store is the state container.
type Store struct {
	query      courseq.State
	modal      Modal
	status     Status
	popup      Popup
	animated   map[string]bool
	submitting bool

	gen  uint64
	subs []Subscriber
}

// New returns a Store in the initial page state: default query, modal
// closed, no status, popup hidden, no tiles animated.
func New() *Store {
	return &Store{
		query:    courseq.DefaultState(),
		animated: make(map[string]bool),
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1
	return func() {
		if idx < len(s.subs) {
			s.subs[idx] = nil
		}
	}
}

func (s *Store) notify(c Change) {
	for _, fn := range s.subs {
		if fn != nil {
			fn(c)
		}
	}
}

func (s *Store) nextGen() uint64 {
	s.gen++
	return s.gen
}

/*─────────────────────────────────────────────────────────────────────────────*
| Query                                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// Query returns the current control values.
func (s *Store) Query() courseq.State { return s.query }

// SetFreeText stores the search box text. Every call notifies, including
// an unchanged value, because each trailing debounce re-renders.
func (s *Store) SetFreeText(q string) {
	s.query.FreeText = q
	s.notify(Change{Kind: ChangeQuery})
}

// SetCategory makes cat the single active filter. Unknown values select All.
func (s *Store) SetCategory(cat string) {
	s.query.Category = courseq.ParseCategory(cat)
	s.notify(Change{Kind: ChangeQuery})
}

// SetSort stores the sort selector value.
func (s *Store) SetSort(v string) {
	s.query.Sort = courseq.ParseSort(v)
	s.notify(Change{Kind: ChangeQuery})
}

// SetQuery replaces the whole query, used to seed a session from the URL
// the page was loaded with.
func (s *Store) SetQuery(q courseq.State) {
	s.query = courseq.State{
		FreeText: q.FreeText,
		Category: courseq.ParseCategory(q.Category),
		Sort:     courseq.ParseSort(string(q.Sort)),
	}
	s.notify(Change{Kind: ChangeQuery})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Submitting                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Submitting reports whether a contact submission is in flight.
func (s *Store) Submitting() bool { return s.submitting }

// BeginSubmit marks a submission in flight. It returns false, changing
// nothing, when one already is.
func (s *Store) BeginSubmit() bool {
	if s.submitting {
		return false
	}
	s.submitting = true
	s.notify(Change{Kind: ChangeSubmitting})
	return true
}

// EndSubmit clears the in-flight flag.
func (s *Store) EndSubmit() {
	if !s.submitting {
		return
	}
	s.submitting = false
	s.notify(Change{Kind: ChangeSubmitting})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Tiles                                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// MarkTileAnimated records that tile has started its counter animation. It
// returns false if the tile was already animated, so each tile runs once.
func (s *Store) MarkTileAnimated(tile string) bool {
	if s.animated[tile] {
		return false
	}
	s.animated[tile] = true
	s.notify(Change{Kind: ChangeTile, Tile: tile})
	return true
}

// TileAnimated reports whether tile has been animated.
func (s *Store) TileAnimated(tile string) bool { return s.animated[tile] }
