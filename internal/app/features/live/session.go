package live

import (
	"context"
	"net/url"

	"github.com/dalemusser/coursehub/internal/app/system/catalog"
	"github.com/dalemusser/coursehub/internal/app/system/contactrelay"
	"github.com/dalemusser/coursehub/internal/app/system/contactsvc"
	"github.com/dalemusser/coursehub/internal/app/system/counter"
	"github.com/dalemusser/coursehub/internal/app/system/courseq"
	"github.com/dalemusser/coursehub/internal/app/system/courseview"
	"github.com/dalemusser/coursehub/internal/app/system/inputval"
	"github.com/dalemusser/coursehub/internal/app/system/metrics"
	"github.com/dalemusser/coursehub/internal/app/system/statusmsg"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/app/system/timer"
	"github.com/dalemusser/coursehub/internal/app/system/uistate"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.uber.org/zap"
)

// EnrollmentRecorder stores confirmed enrollments.
// enrollmentstore.Store satisfies it.
type EnrollmentRecorder interface {
	Create(ctx context.Context, course models.Course, sessionID string) (models.Enrollment, error)
}

// Deps are the shared, read-only dependencies of every session.
type Deps struct {
	Catalog     *catalog.Catalog
	Renderer    *courseview.Renderer
	Contact     *contactsvc.Service
	Enrollments EnrollmentRecorder
	Metrics     *metrics.Metrics
	Timing      Timing
	Log         *zap.Logger

	// TileKeys are the dashboard tiles a page may ask to animate.
	TileKeys []string
}

const (
	eventBuffer = 64
	frameBuffer = 256
)

// Session is the interactive state of one connected page. Handle must only
// be called from one goroutine (Run's, or the test's); timers and
// background work reach it by posting events.
type Session struct {
	id       string
	clientIP string
	deps     *Deps
	timing   Timing
	clock    timer.Clock
	log      *zap.Logger

	st     *uistate.Store
	unsub  func()
	search *timer.Debouncer

	searchSeq   uint64
	modalTimer  timer.Timer
	statusTimer timer.Timer
	popupTimer  timer.Timer
	tiles       map[string]bool
	tileTimers  map[string][]timer.Timer

	ctx    context.Context
	cancel context.CancelFunc
	events chan Event
	frames chan Frame
	done   chan struct{}
	closed bool
}

var internalEvents = map[string]bool{
	evSearchFire:     true,
	evModalAutoClose: true,
	evStatusClear:    true,
	evPopupHide:      true,
	evCounterTick:    true,
	evContactDone:    true,
}

// NewSession creates a session. A nil clock uses the real clock.
func NewSession(id, clientIP string, deps *Deps, clock timer.Clock) *Session {
	if clock == nil {
		clock = timer.Real()
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	timing := deps.Timing.withDefaults()

	s := &Session{
		id:         id,
		clientIP:   clientIP,
		deps:       deps,
		timing:     timing,
		clock:      clock,
		log:        log.With(zap.String("session", id)),
		st:         uistate.New(),
		tiles:      make(map[string]bool, len(deps.TileKeys)),
		tileTimers: make(map[string][]timer.Timer),
		search:     timer.NewDebouncer(clock, timing.Debounce),
		events:     make(chan Event, eventBuffer),
		frames:     make(chan Frame, frameBuffer),
		done:       make(chan struct{}),
	}
	for _, k := range deps.TileKeys {
		s.tiles[k] = true
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.unsub = s.st.Subscribe(s.onChange)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Frames is the outbound frame stream. It is never closed; stop reading
// when Done is closed.
func (s *Session) Frames() <-chan Frame { return s.frames }

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// State exposes the state store for inspection.
func (s *Session) State() *uistate.Store { return s.st }

// Dispatch queues an event from the page. It returns false if the session
// has ended. Events the page is not allowed to send are dropped.
func (s *Session) Dispatch(ev Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	ev.internal = false
	if internalEvents[ev.Type] {
		s.log.Debug("dropping internal event type from page", zap.String("type", ev.Type))
		return true
	}
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) post(ev Event) {
	ev.internal = true
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// Run processes events until ctx ends, then closes the session.
func (s *Session) Run(ctx context.Context) {
	defer s.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case ev := <-s.events:
			s.Handle(ev)
		}
	}
}

// Close stops every timer and ends the session. It is safe to call twice.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.search.Cancel()
	stop(s.modalTimer)
	stop(s.statusTimer)
	stop(s.popupTimer)
	for _, ts := range s.tileTimers {
		for _, t := range ts {
			stop(t)
		}
	}
	s.unsub()
	s.cancel()
	close(s.done)
}

func stop(t timer.Timer) {
	if t != nil {
		t.Stop()
	}
}

func (s *Session) emit(f Frame) {
	select {
	case s.frames <- f:
	default:
		s.log.Warn("live session frame buffer full; dropping frame", zap.String("frame", f.Type))
	}
}

func (s *Session) fail(msg string) {
	s.emit(Frame{Type: FrError, Message: msg})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Event dispatch                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// Handle applies one event.
func (s *Session) Handle(ev Event) {
	if s.closed {
		return
	}
	if internalEvents[ev.Type] {
		if !ev.internal {
			s.log.Debug("ignoring internal event type from page", zap.String("type", ev.Type))
			return
		}
	} else {
		s.deps.Metrics.ObserveEvent(metricLabel(ev.Type))
	}

	switch ev.Type {
	case EvInit:
		s.handleInit(ev.Value)

	// catalog controls
	case EvSearch:
		s.searchSeq++
		seq, text := s.searchSeq, ev.Value
		s.search.Schedule(func() {
			s.post(Event{Type: evSearchFire, Value: text, seq: seq})
		})
	case evSearchFire:
		if ev.seq == s.searchSeq {
			s.st.SetFreeText(ev.Value)
		}
	case EvFilter:
		s.st.SetCategory(ev.Value)
	case EvSort:
		s.st.SetSort(ev.Value)

	// modal
	case EvEnroll:
		if rec, ok := s.lookup(ev.ID); ok {
			stop(s.modalTimer)
			s.st.OpenCourse(rec)
		}
	case EvDownload:
		if rec, ok := s.lookup(ev.ID); ok {
			stop(s.modalTimer)
			s.st.OpenDocument(rec)
		}
	case EvConfirm:
		s.handleConfirm()
	case EvClose, EvBackdrop:
		stop(s.modalTimer)
		s.st.CloseModal()
	case evModalAutoClose:
		s.st.AutoCloseModal(ev.gen)
	case EvDocumentDownload:
		if u, navigate := s.st.DocumentDownload(); navigate {
			s.emit(Frame{Type: FrNavigate, URL: u})
		}

	// contact
	case EvContactSubmit:
		s.handleContactSubmit(ev.Form)
	case evContactDone:
		s.st.EndSubmit()
		s.showStatus(ev.err)
	case evStatusClear:
		s.st.ClearStatus(ev.gen)

	// dashboard
	case EvTileVisible:
		s.handleTileVisible(ev.Tile, ev.Target)
	case evCounterTick:
		if ev.final {
			delete(s.tileTimers, ev.Tile)
		}
		s.emit(Frame{
			Type:  FrTile,
			Tile:  ev.Tile,
			Value: num(ev.num),
			Text:  counter.Format(ev.num),
			Final: ev.final,
		})
	case EvEnrollPopup:
		stop(s.popupTimer)
		p := s.st.ShowPopup()
		s.popupTimer = s.clock.AfterFunc(s.timing.PopupAutoHide, func() {
			s.post(Event{Type: evPopupHide, gen: p.Gen})
		})
	case EvPopupClose, EvPopupBackdrop:
		stop(s.popupTimer)
		s.st.ClosePopup()
	case evPopupHide:
		s.st.HidePopup(ev.gen)

	default:
		s.log.Debug("unknown live event", zap.String("type", ev.Type))
		s.fail("unknown event: " + ev.Type)
	}
}

func (s *Session) lookup(key string) (models.Course, bool) {
	rec, ok := s.deps.Catalog.Get(key)
	if !ok {
		s.log.Debug("live event for unknown course", zap.String("course", key))
		s.fail("unknown course: " + key)
	}
	return rec, ok
}

func (s *Session) handleInit(rawQuery string) {
	v, err := url.ParseQuery(rawQuery)
	if err != nil {
		v = url.Values{}
	}
	s.st.SetQuery(courseq.FromValues(v))
}

func (s *Session) handleConfirm() {
	m, ok := s.st.ConfirmEnroll()
	if !ok {
		return
	}
	s.deps.Metrics.ObserveEnrollment(m.Course.Category)
	if rec := s.deps.Enrollments; rec != nil {
		course, id, log := m.Course, s.id, s.log
		go func() {
			ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Short(), log, "record enrollment")
			defer cancel()
			if _, err := rec.Create(ctx, course, id); err != nil {
				log.Warn("enrollment not recorded", zap.String("course", course.Key), zap.Error(err))
			}
		}()
	}
	gen := m.Gen
	s.modalTimer = s.clock.AfterFunc(s.timing.ModalAutoClose, func() {
		s.post(Event{Type: evModalAutoClose, gen: gen})
	})
}

func (s *Session) handleContactSubmit(form *inputval.ContactInput) {
	var in inputval.ContactInput
	if form != nil {
		in = form.Trimmed()
	}

	// Validation failures are answered inline without a network call.
	if err := inputval.CheckContact(in); err != nil {
		s.deps.Metrics.ObserveContact(metrics.OutcomeInvalid)
		s.showStatus(err)
		return
	}
	if s.deps.Contact == nil {
		s.showStatus(contactrelay.ErrNoEndpoint)
		return
	}
	if !s.st.BeginSubmit() {
		s.log.Debug("contact submit ignored; one is already in flight")
		return
	}

	svc := s.deps.Contact
	ctx, key := s.ctx, s.clientIP
	go func() {
		err := svc.Submit(ctx, in, key)
		s.post(Event{Type: evContactDone, err: err})
	}()
}

func (s *Session) showStatus(err error) {
	msg := statusmsg.For(err)
	st := s.st.ShowStatus(msg.Text, msg.Kind)
	stop(s.statusTimer)
	gen := st.Gen
	s.statusTimer = s.clock.AfterFunc(s.timing.StatusAutoClear, func() {
		s.post(Event{Type: evStatusClear, gen: gen})
	})
	if err == nil {
		s.emit(Frame{Type: FrFormReset})
	}
}

func (s *Session) handleTileVisible(tile, target string) {
	if !s.tiles[tile] {
		s.log.Debug("tile_visible for unknown tile", zap.String("tile", tile))
		return
	}
	if !s.st.MarkTileAnimated(tile) {
		return
	}
	frames := counter.Frames(counter.ParseTarget(target), s.timing.CounterDuration, s.timing.CounterInterval)
	timers := make([]timer.Timer, 0, len(frames))
	for _, f := range frames {
		f := f
		timers = append(timers, s.clock.AfterFunc(f.At, func() {
			s.post(Event{Type: evCounterTick, Tile: tile, num: f.Value, final: f.Final})
		}))
	}
	s.tileTimers[tile] = timers
}

/*─────────────────────────────────────────────────────────────────────────────*
| Rendering                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (s *Session) onChange(c uistate.Change) {
	switch c.Kind {
	case uistate.ChangeQuery:
		s.pushSections()
	case uistate.ChangeModal:
		s.pushModal()
	case uistate.ChangeStatus:
		st := s.st.Status()
		s.emit(Frame{Type: FrStatus, Message: st.Message, Kind: string(st.Kind)})
	case uistate.ChangePopup:
		s.emit(Frame{Type: FrPopup, Shown: flag(s.st.Popup().Shown)})
	case uistate.ChangeSubmitting:
		s.emit(Frame{Type: FrSubmitting, Active: flag(s.st.Submitting())})
	}
}

func (s *Session) pushSections() {
	q := s.st.Query()
	projection := courseq.Project(s.deps.Catalog, q)
	html, err := s.deps.Renderer.Sections(courseview.Render(projection))
	if err != nil {
		s.log.Error("render sections", zap.Error(err))
		s.fail("could not render courses")
		return
	}
	s.emit(Frame{
		Type:  FrSections,
		HTML:  html,
		Count: num(len(projection)),
		Query: str(q.Values().Encode()),
	})
}

func (s *Session) pushModal() {
	m := s.st.Modal()
	html, err := s.deps.Renderer.Modal(m)
	if err != nil {
		s.log.Error("render modal", zap.String("course", m.Course.Key), zap.Error(err))
		s.fail("could not render preview")
		return
	}
	s.emit(Frame{
		Type:       FrModal,
		HTML:       html,
		Open:       flag(m.IsOpen()),
		ScrollLock: flag(m.ScrollLocked()),
	})
}
