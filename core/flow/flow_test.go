package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepankuzmin/BarmaidBot/core/catalog"
	"github.com/stepankuzmin/BarmaidBot/core/session"
	"github.com/stepankuzmin/BarmaidBot/core/venues"
)

type searchCall struct {
	categoryID string
	lat, lng   float64
}

type fakeSearcher struct {
	calls   []searchCall
	results []venues.Venue
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, categoryID string, lat, lng float64) ([]venues.Venue, error) {
	f.calls = append(f.calls, searchCall{categoryID: categoryID, lat: lat, lng: lng})
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type countingStore struct {
	session.Store
	gets, puts int
}

func (c *countingStore) Get(ctx context.Context, key session.Key) (session.Session, bool, error) {
	c.gets++
	return c.Store.Get(ctx, key)
}

func (c *countingStore) Put(ctx context.Context, key session.Key, s session.Session) error {
	c.puts++
	return c.Store.Put(ctx, key, s)
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, session.Key) (session.Session, bool, error) {
	return session.Session{}, false, f.err
}

func (f failingStore) Put(context.Context, session.Key, session.Session) error {
	return f.err
}

var testKey = session.Key{UserID: 7, ChatID: 42}

func TestEmojiThenLocationSearchesOnceWithCategory(t *testing.T) {
	for _, b := range catalog.Order {
		entry, ok := catalog.Lookup(b)
		require.True(t, ok)

		store := session.NewMemoryStore()
		searcher := &fakeSearcher{}
		m := New(store, searcher)
		ctx := context.Background()

		reply, err := m.Handle(ctx, testKey, Event{Kind: KindText, Text: entry.Emoji})
		require.NoError(t, err)
		assert.Equal(t, ReplyAskLocation, reply.Kind)
		assert.Equal(t, b, reply.Beverage)
		assert.Equal(t, entry.Emoji, reply.Emoji)

		_, err = m.Handle(ctx, testKey, Event{Kind: KindLocation, Lat: 40.0, Lng: -73.0})
		require.NoError(t, err)

		require.Len(t, searcher.calls, 1, "beverage %s", b)
		assert.Equal(t, entry.CategoryID, searcher.calls[0].categoryID)
		assert.Equal(t, 40.0, searcher.calls[0].lat)
		assert.Equal(t, -73.0, searcher.calls[0].lng)
	}
}

func TestLocationWithoutSelectionClarifiesWithoutSearch(t *testing.T) {
	searcher := &fakeSearcher{}
	m := New(session.NewMemoryStore(), searcher)

	reply, err := m.Handle(context.Background(), testKey, Event{Kind: KindLocation, Lat: 1, Lng: 2})
	require.NoError(t, err)
	assert.Equal(t, ReplyClarify, reply.Kind)
	assert.Empty(t, searcher.calls)
}

func TestLocationClearsSessionEitherOutcome(t *testing.T) {
	cases := []struct {
		name    string
		results []venues.Venue
	}{
		{name: "venue found", results: []venues.Venue{{ID: "v1", Name: "Bar"}}},
		{name: "no results", results: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := session.NewMemoryStore()
			searcher := &fakeSearcher{results: tc.results}
			m := New(store, searcher)
			ctx := context.Background()

			_, err := m.Handle(ctx, testKey, Event{Kind: KindText, Text: "🍺"})
			require.NoError(t, err)

			_, err = m.Handle(ctx, testKey, Event{Kind: KindLocation, Lat: 1, Lng: 2})
			require.NoError(t, err)

			s, _, err := store.Get(ctx, testKey)
			require.NoError(t, err)
			assert.False(t, s.Pending(), "session must be cleared")

			// A second, immediate location behaves as "no prior selection".
			reply, err := m.Handle(ctx, testKey, Event{Kind: KindLocation, Lat: 1, Lng: 2})
			require.NoError(t, err)
			assert.Equal(t, ReplyClarify, reply.Kind)
			assert.Len(t, searcher.calls, 1)
		})
	}
}

func TestSecondBeverageWins(t *testing.T) {
	store := session.NewMemoryStore()
	searcher := &fakeSearcher{}
	m := New(store, searcher)
	ctx := context.Background()

	_, err := m.Handle(ctx, testKey, Event{Kind: KindText, Text: "🍺"})
	require.NoError(t, err)
	_, err = m.Handle(ctx, testKey, Event{Kind: KindText, Text: "🍷"})
	require.NoError(t, err)

	_, err = m.Handle(ctx, testKey, Event{Kind: KindLocation, Lat: 1, Lng: 2})
	require.NoError(t, err)

	wine, _ := catalog.Lookup(catalog.Wine)
	require.Len(t, searcher.calls, 1)
	assert.Equal(t, wine.CategoryID, searcher.calls[0].categoryID)
}

func TestEmptyResultsReportNotFound(t *testing.T) {
	store := session.NewMemoryStore()
	m := New(store, &fakeSearcher{})
	ctx := context.Background()

	_, err := m.Handle(ctx, testKey, Event{Kind: KindText, Text: "🍸"})
	require.NoError(t, err)

	reply, err := m.Handle(ctx, testKey, Event{Kind: KindLocation, Lat: 1, Lng: 2})
	require.NoError(t, err)
	assert.Equal(t, ReplyNotFound, reply.Kind)
	assert.Equal(t, "🍸", reply.Emoji)

	s, _, err := store.Get(ctx, testKey)
	require.NoError(t, err)
	assert.False(t, s.Pending(), "session must not be re-armed")
}

func TestBeerTavernScenario(t *testing.T) {
	store := session.NewMemoryStore()
	searcher := &fakeSearcher{results: []venues.Venue{{
		ID:      "tavern-1",
		Name:    "The Tavern",
		Lat:     40.001,
		Lng:     -73.001,
		Address: "1 Main St",
	}}}
	m := New(store, searcher)
	ctx := context.Background()

	reply, err := m.Handle(ctx, testKey, Event{Kind: KindText, Text: "🍺"})
	require.NoError(t, err)
	assert.Equal(t, ReplyAskLocation, reply.Kind)

	s, _, err := store.Get(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, catalog.Beer, s.Beverage)

	reply, err = m.Handle(ctx, testKey, Event{Kind: KindLocation, Lat: 40.0, Lng: -73.0})
	require.NoError(t, err)
	require.Equal(t, ReplyVenue, reply.Kind)
	require.NotNil(t, reply.Venue)
	assert.Equal(t, "🍺", reply.Emoji)
	assert.Equal(t, "The Tavern", reply.Venue.Name)
	assert.Equal(t, 40.001, reply.Venue.Lat)
	assert.Equal(t, -73.001, reply.Venue.Lng)
	assert.Equal(t, "1 Main St", reply.Venue.Address)

	beer, _ := catalog.Lookup(catalog.Beer)
	require.Len(t, searcher.calls, 1)
	assert.Equal(t, beer.CategoryID, searcher.calls[0].categoryID)
}

func TestUnrecognizedTextIsIgnored(t *testing.T) {
	counting := &countingStore{Store: session.NewMemoryStore()}
	searcher := &fakeSearcher{}
	m := New(counting, searcher)

	reply, err := m.Handle(context.Background(), testKey, Event{Kind: KindText, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, ReplyNone, reply.Kind)
	assert.Zero(t, counting.puts, "ignored text must not touch the store")
	assert.Zero(t, counting.gets)
	assert.Empty(t, searcher.calls)
}

func TestStartResetsPendingSelection(t *testing.T) {
	store := session.NewMemoryStore()
	searcher := &fakeSearcher{}
	m := New(store, searcher)
	ctx := context.Background()

	_, err := m.Handle(ctx, testKey, Event{Kind: KindText, Text: "🍺"})
	require.NoError(t, err)

	reply, err := m.Handle(ctx, testKey, Event{Kind: KindStart})
	require.NoError(t, err)
	assert.Equal(t, ReplyWelcome, reply.Kind)

	reply, err = m.Handle(ctx, testKey, Event{Kind: KindLocation, Lat: 1, Lng: 2})
	require.NoError(t, err)
	assert.Equal(t, ReplyClarify, reply.Kind)
	assert.Empty(t, searcher.calls)
}

func TestSearchFailureKeepsNotFoundReply(t *testing.T) {
	store := session.NewMemoryStore()
	searchErr := errors.New("connection refused")
	m := New(store, &fakeSearcher{err: searchErr})
	ctx := context.Background()

	_, err := m.Handle(ctx, testKey, Event{Kind: KindText, Text: "🍷"})
	require.NoError(t, err)

	reply, err := m.Handle(ctx, testKey, Event{Kind: KindLocation, Lat: 1, Lng: 2})
	require.ErrorIs(t, err, searchErr)
	assert.Equal(t, ReplyNotFound, reply.Kind)
	assert.Equal(t, "🍷", reply.Emoji)

	s, _, err := store.Get(ctx, testKey)
	require.NoError(t, err)
	assert.False(t, s.Pending(), "failure must not re-arm the session")
}

func TestStoreFailureDropsEvent(t *testing.T) {
	storeErr := errors.New("store unreachable")
	searcher := &fakeSearcher{}
	m := New(failingStore{err: storeErr}, searcher)
	ctx := context.Background()

	reply, err := m.Handle(ctx, testKey, Event{Kind: KindText, Text: "🍺"})
	require.ErrorIs(t, err, storeErr)
	assert.Equal(t, ReplyNone, reply.Kind)

	reply, err = m.Handle(ctx, testKey, Event{Kind: KindLocation, Lat: 1, Lng: 2})
	require.ErrorIs(t, err, storeErr)
	assert.Equal(t, ReplyNone, reply.Kind)
	assert.Empty(t, searcher.calls)
}

func TestTransitionIsPure(t *testing.T) {
	ev := Event{Kind: KindLocation, Lat: 1, Lng: 2}
	in := session.Session{Beverage: catalog.Beer}

	next1, step1 := Transition(ev, in)
	next2, step2 := Transition(ev, in)

	assert.Equal(t, next1, next2)
	assert.Equal(t, step1, step2)
	assert.Equal(t, catalog.Beer, in.Beverage, "input session must not be mutated")
	assert.Equal(t, ActionSearch, step1.Action)
	assert.False(t, next1.Pending())
}

func TestTransitionStaleBeverageClarifies(t *testing.T) {
	ev := Event{Kind: KindLocation, Lat: 1, Lng: 2}
	next, step := Transition(ev, session.Session{Beverage: "mead"})
	assert.Equal(t, ActionClarify, step.Action)
	assert.False(t, next.Pending())
}
