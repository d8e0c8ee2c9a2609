package router

import (
	"log/slog"

	"github.com/starford/tabnav/internal/events"
	"github.com/starford/tabnav/internal/route"
	"github.com/starford/tabnav/internal/storage"
)

// Modal presentation styles.
const (
	StyleSheet      = "sheet"
	StyleFullScreen = "fullscreen"
)

// ModalSlot holds at most one presented modal and persists it under its
// own key. Slots never look at each other.
type ModalSlot struct {
	style  string
	key    string
	store  storage.Store
	logger *slog.Logger

	modal   route.Tab3Modal
	present bool
	report  RestoreReport

	observers map[int]func(route.Tab3Modal, bool)
	nextObs   int

	unsubscribe func()
}

// NewModalSlot creates a slot persisted at key and restores it.
func NewModalSlot(style, key string, opts Options) *ModalSlot {
	s := &ModalSlot{
		style:     style,
		key:       key,
		store:     opts.store(),
		logger:    opts.logger().With(slog.String("slot", style)),
		observers: make(map[int]func(route.Tab3Modal, bool)),
	}
	s.restore()

	if opts.Bus != nil {
		s.unsubscribe = opts.Bus.Subscribe(events.KindLogout, func(events.Event) {
			s.Dismiss()
		})
	}
	return s
}

func (s *ModalSlot) restore() {
	tokens, report := loadTokens(s.store, s.key, s.logger)
	if len(tokens) > 0 {
		if m, ok := route.DecodeOne(route.ModalCodec(), tokens[0]); ok {
			s.modal, s.present = m, true
		} else {
			report.Dropped++
		}
		report.Dropped += len(tokens) - 1
	}
	s.report = report

	if report.Migrated {
		s.persist()
		s.logger.Info("router: migrated legacy modal", slog.Bool("present", s.present))
	}
}

// Style returns the slot's presentation style.
func (s *ModalSlot) Style() string {
	return s.style
}

// Current returns the presented modal, if any.
func (s *ModalSlot) Current() (route.Tab3Modal, bool) {
	return s.modal, s.present
}

// Restored reports what the constructor's restore did.
func (s *ModalSlot) Restored() RestoreReport {
	return s.report
}

// Present shows m, replacing whatever the slot held.
func (s *ModalSlot) Present(m route.Tab3Modal) {
	s.modal, s.present = m, true
	s.persist()
	s.logger.Debug("router: present", slog.String("modal", m.String()))
	s.notify()
}

// Dismiss empties the slot and deletes its blob.
func (s *ModalSlot) Dismiss() {
	clearKey(s.store, s.key, s.logger)
	if !s.present {
		return
	}
	s.modal, s.present = 0, false
	s.logger.Debug("router: dismiss")
	s.notify()
}

// Subscribe registers fn to receive the slot's state after every change.
func (s *ModalSlot) Subscribe(fn func(m route.Tab3Modal, present bool)) (cancel func()) {
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() { delete(s.observers, id) }
}

// Close detaches the slot from the logout bus.
func (s *ModalSlot) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *ModalSlot) persist() {
	if !s.present {
		clearKey(s.store, s.key, s.logger)
		return
	}
	tok, _ := route.EncodeOne(route.ModalCodec(), s.modal)
	saveTokens(s.store, s.key, []route.Token{tok}, s.logger)
}

func (s *ModalSlot) notify() {
	for id := 0; id < s.nextObs; id++ {
		if fn, ok := s.observers[id]; ok {
			fn(s.modal, s.present)
		}
	}
}
