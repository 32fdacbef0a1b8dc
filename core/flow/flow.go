// Package flow owns the beverage-selection conversation lifecycle. The state
// machine has two states, derived entirely from the persisted session: Idle
// (no pending beverage) and AwaitingLocation (a beverage was chosen). State
// is never kept in process memory; every event re-reads the session store, so
// events from the same user may be handled by different process instances.
package flow

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/stepankuzmin/BarmaidBot/core/catalog"
	"github.com/stepankuzmin/BarmaidBot/core/logger"
	"github.com/stepankuzmin/BarmaidBot/core/session"
	"github.com/stepankuzmin/BarmaidBot/core/venues"
)

// Kind discriminates inbound events.
type Kind int

const (
	// KindStart is the /start or help event.
	KindStart Kind = iota
	// KindText is a free-text message.
	KindText
	// KindLocation is a shared location.
	KindLocation
)

// Event is one inbound message, already tagged with its kind.
type Event struct {
	Kind Kind
	Text string
	Lat  float64
	Lng  float64
}

// Action is the effect a transition requests from the caller.
type Action int

const (
	// ActionIgnore means the event produces no observable effect.
	ActionIgnore Action = iota
	// ActionWelcome asks for the welcome message with the beverage keyboard.
	ActionWelcome
	// ActionAskLocation asks for the location-request prompt.
	ActionAskLocation
	// ActionSearch asks for a venue search with the pending beverage.
	ActionSearch
	// ActionClarify asks for the clarification prompt with the beverage keyboard.
	ActionClarify
)

// Step is the outcome of a pure transition: the session to persist and the
// effect to perform.
type Step struct {
	Action   Action
	Beverage catalog.Beverage
	Entry    catalog.Entry
	Lat      float64
	Lng      float64
}

// Transition applies one event to a session. It is pure: given the same
// event and session it always yields the same next session and step, and it
// touches no external state.
func Transition(ev Event, s session.Session) (session.Session, Step) {
	switch ev.Kind {
	case KindStart:
		return session.Session{}, Step{Action: ActionWelcome}

	case KindText:
		b, entry, ok := catalog.ByEmoji(ev.Text)
		if !ok {
			// Unrecognized text: explicit ignore, no transition.
			return s, Step{Action: ActionIgnore}
		}
		return session.Session{Beverage: b}, Step{
			Action:   ActionAskLocation,
			Beverage: b,
			Entry:    entry,
		}

	case KindLocation:
		entry, ok := catalog.Lookup(s.Beverage)
		if !ok || !s.Pending() {
			return session.Session{}, Step{Action: ActionClarify}
		}
		return session.Session{}, Step{
			Action:   ActionSearch,
			Beverage: s.Beverage,
			Entry:    entry,
			Lat:      ev.Lat,
			Lng:      ev.Lng,
		}

	default:
		return s, Step{Action: ActionIgnore}
	}
}

// ReplyKind discriminates outbound replies.
type ReplyKind int

const (
	// ReplyNone means nothing is sent.
	ReplyNone ReplyKind = iota
	// ReplyWelcome is the welcome message with the beverage keyboard.
	ReplyWelcome
	// ReplyAskLocation is the location-request prompt for a chosen beverage.
	ReplyAskLocation
	// ReplyClarify is the clarification prompt with the beverage keyboard.
	ReplyClarify
	// ReplyVenue is a venue card for the best match.
	ReplyVenue
	// ReplyNotFound reports that no venue was found for the beverage.
	ReplyNotFound
)

// Reply describes what the transport layer should send back.
type Reply struct {
	Kind     ReplyKind
	Beverage catalog.Beverage
	Emoji    string
	Venue    *venues.Venue
}

// Machine executes transitions against the session store and the venue
// search client. It holds no per-user state of its own.
type Machine struct {
	store  session.Store
	search venues.Searcher
}

// New constructs a Machine.
func New(store session.Store, search venues.Searcher) *Machine {
	return &Machine{store: store, search: search}
}

// Handle processes one inbound event for a session key and decides the
// reply. A returned error means the event is dropped after logging; the
// reply may still be meaningful (a search failure keeps the not-found reply).
func (m *Machine) Handle(ctx context.Context, key session.Key, ev Event) (Reply, error) {
	switch ev.Kind {
	case KindStart:
		next, _ := Transition(ev, session.Session{})
		// Reset any pending selection so the conversation restarts from Idle.
		if err := m.store.Put(ctx, key, next); err != nil {
			return Reply{}, err
		}
		return Reply{Kind: ReplyWelcome}, nil

	case KindText:
		next, step := Transition(ev, session.Session{})
		if step.Action == ActionIgnore {
			return Reply{}, nil
		}
		if err := m.store.Put(ctx, key, next); err != nil {
			return Reply{}, err
		}
		logger.FLOW.LogAttrs(ctx, slog.LevelDebug, "flow.select",
			slog.String("status", "ok"),
			slog.String("key", key.String()),
			slog.String("beverage", string(step.Beverage)),
		)
		return Reply{
			Kind:     ReplyAskLocation,
			Beverage: step.Beverage,
			Emoji:    step.Entry.Emoji,
		}, nil

	case KindLocation:
		current, _, err := m.store.Get(ctx, key)
		if err != nil {
			return Reply{}, err
		}
		next, step := Transition(ev, current)

		if step.Action == ActionClarify {
			if current.Pending() {
				// Stale symbol outside the catalog: clear it.
				if err := m.store.Put(ctx, key, next); err != nil {
					return Reply{}, err
				}
			}
			return Reply{Kind: ReplyClarify}, nil
		}

		// Clear the pending beverage before searching so a failure cannot
		// re-arm the session.
		if err := m.store.Put(ctx, key, next); err != nil {
			return Reply{}, err
		}

		found, err := m.search.Search(ctx, step.Entry.CategoryID, step.Lat, step.Lng)
		if err != nil {
			// The user sees the same not-found message, but the failure is
			// surfaced for logs and telemetry.
			return Reply{
				Kind:     ReplyNotFound,
				Beverage: step.Beverage,
				Emoji:    step.Entry.Emoji,
			}, fmt.Errorf("flow: location event for %s: %w", key, err)
		}
		if len(found) == 0 {
			logger.FLOW.LogAttrs(ctx, slog.LevelInfo, "flow.search",
				slog.String("status", "ok"),
				slog.String("outcome", "no_results"),
				slog.String("key", key.String()),
				slog.String("beverage", string(step.Beverage)),
			)
			return Reply{
				Kind:     ReplyNotFound,
				Beverage: step.Beverage,
				Emoji:    step.Entry.Emoji,
			}, nil
		}

		// The API returns venues pre-ordered by relevance; take the first.
		best := found[0]
		logger.FLOW.LogAttrs(ctx, slog.LevelInfo, "flow.search",
			slog.String("status", "ok"),
			slog.String("outcome", "ok"),
			slog.String("key", key.String()),
			slog.String("beverage", string(step.Beverage)),
			slog.String("venue_id", best.ID),
		)
		return Reply{
			Kind:     ReplyVenue,
			Beverage: step.Beverage,
			Emoji:    step.Entry.Emoji,
			Venue:    &best,
		}, nil

	default:
		return Reply{}, nil
	}
}
