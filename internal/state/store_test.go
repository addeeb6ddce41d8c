package state

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shopfront/internal/catalog"
	"github.com/roach88/shopfront/internal/persist"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, port persist.Port) *Store {
	t.Helper()
	return New(port, WithLogger(quietLogger()), WithNow(func() time.Time { return fixedNow }))
}

func TestNew_DefaultsOnEmptyStorage(t *testing.T) {
	s := newTestStore(t, persist.NewMemory(nil))
	snap := s.Snapshot()

	assert.Equal(t, ViewHome, snap.View)
	assert.Empty(t, snap.Cart)
	assert.Nil(t, snap.User)
	assert.Equal(t, "", snap.Token)
	assert.Equal(t, catalog.DefaultCriteria(catalog.DefaultMaxPrice), snap.Filters)
	assert.Equal(t, int64(0), snap.Seq)
}

func TestNew_NilPort(t *testing.T) {
	s := New(nil, WithLogger(quietLogger()))
	snap := s.Dispatch(AddToCart{Product: product(1, 1, "")})
	assert.Len(t, snap.Cart, 1)
}

func TestNew_WithMaxPrice(t *testing.T) {
	s := New(nil, WithLogger(quietLogger()), WithMaxPrice(100000))
	assert.Equal(t, 100000.0, s.Snapshot().Filters.PriceRange.Max)
}

func TestDispatch_AddToCartTwiceScenario(t *testing.T) {
	mem := persist.NewMemory(nil)
	s := newTestStore(t, mem)

	p := catalog.Product{ID: 5, Name: "Scarf", Price: 10, Image: "s.png"}
	s.Dispatch(AddToCart{Product: p})
	snap := s.Dispatch(AddToCart{Product: p})

	require.Len(t, snap.Cart, 1)
	assert.Equal(t, int64(5), snap.Cart[0].ProductID)
	assert.Equal(t, 2, snap.Cart[0].Quantity)
	assert.Equal(t, ViewCart, snap.View)

	stored := mem.Dump()
	assert.Equal(t, `[{"id":5,"name":"Scarf","price":10,"image":"s.png","quantity":2}]`, stored[persist.KeyCart])
	assert.Equal(t, "cart", stored[persist.KeyView])
}

func TestDispatch_StampsSeq(t *testing.T) {
	s := newTestStore(t, nil)
	a := s.Dispatch(ToggleFilters{})
	b := s.Dispatch(ToggleFilters{})
	assert.Equal(t, int64(1), a.Seq)
	assert.Equal(t, int64(2), b.Seq)

	c := s.Dispatch(nil)
	assert.Equal(t, b, c, "nil action leaves the snapshot unchanged")
}

func TestDispatch_WithClock(t *testing.T) {
	s := New(nil, WithLogger(quietLogger()), WithClock(NewClockAt(41)))
	assert.Equal(t, int64(42), s.Dispatch(ClearCart{}).Seq)
}

func TestDispatch_ReturnedSnapshotIsACopy(t *testing.T) {
	s := newTestStore(t, nil)
	snap := s.Dispatch(AddToCart{Product: product(1, 1, "")})
	snap.Cart[0].Quantity = 99

	assert.Equal(t, 1, s.Snapshot().Cart[0].Quantity)
}

func TestDispatch_WriteFailureKeepsState(t *testing.T) {
	mem := persist.NewMemory(nil)
	s := newTestStore(t, mem)
	mem.FailWrites(errors.New("quota exceeded"))

	snap := s.Dispatch(AddToCart{Product: product(1, 1, "")})
	assert.Len(t, snap.Cart, 1, "in-memory state is not rolled back")
	assert.Empty(t, mem.Dump(), "mirror diverges until the next successful write")

	mem.FailWrites(nil)
	s.Dispatch(AddToCart{Product: product(1, 1, "")})
	assert.Contains(t, mem.Dump()[persist.KeyCart], `"quantity":2`)
}

func TestDispatch_CartMirroredOnEveryCartChange(t *testing.T) {
	mem := persist.NewMemory(nil)
	s := newTestStore(t, mem)

	s.Dispatch(AddToCart{Product: product(1, 1, "")})
	s.Dispatch(UpdateCartQuantity{ProductID: 1, Quantity: 3})
	assert.Contains(t, mem.Dump()[persist.KeyCart], `"quantity":3`)

	s.Dispatch(RemoveFromCart{ProductID: 1})
	assert.Equal(t, "[]", mem.Dump()[persist.KeyCart])

	s.Dispatch(AddToCart{Product: product(2, 1, "")})
	s.Dispatch(ClearCart{})
	assert.Equal(t, "[]", mem.Dump()[persist.KeyCart])
}

func TestCartRoundTrip(t *testing.T) {
	mem := persist.NewMemory(nil)
	s := newTestStore(t, mem)
	s.Dispatch(AddToCart{Product: catalog.Product{ID: 1, Name: "A", Price: 9.99, Image: "a"}})
	s.Dispatch(AddToCart{Product: catalog.Product{ID: 2, Name: "B", Price: 20, Image: "b"}})
	s.Dispatch(AddToCart{Product: catalog.Product{ID: 1, Name: "A", Price: 9.99, Image: "a"}})
	want := s.Snapshot().Cart

	reloaded := newTestStore(t, persist.NewMemory(mem.Dump()))
	assert.Equal(t, want, reloaded.Snapshot().Cart)
}

func TestNew_RestoresSession(t *testing.T) {
	mem := persist.NewMemory(nil)
	s := newTestStore(t, mem)
	s.Dispatch(SetUser{User: &catalog.User{ID: 7, Username: "ada"}, Token: "mock_token_7"})
	s.Dispatch(SetView{View: ViewProduct, ProductID: 12})

	snap := newTestStore(t, persist.NewMemory(mem.Dump())).Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, int64(7), snap.User.ID)
	assert.Equal(t, "mock_token_7", snap.Token)
	assert.Equal(t, ViewProduct, snap.View)
	assert.Equal(t, int64(12), snap.ProductID)
}

func TestNew_CorruptValueClearsEverything(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"cart not json", persist.KeyCart, "{not json"},
		{"cart wrong shape", persist.KeyCart, `{"id":1}`},
		{"cart zero quantity", persist.KeyCart, `[{"id":1,"name":"x","price":1,"image":"","quantity":0}]`},
		{"user not json", persist.KeyUser, "undefined"},
		{"product id not a number", persist.KeyProductID, "abc"},
		{"product id negative", persist.KeyProductID, "-4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := map[string]string{
				persist.KeyView:      "orders",
				persist.KeyProductID: "3",
				persist.KeyCart:      `[{"id":1,"name":"x","price":1,"image":"","quantity":2}]`,
				persist.KeyUser:      `{"id":7,"username":"ada"}`,
				persist.KeyToken:     "mock_token_7",
			}
			seed[tt.key] = tt.val
			mem := persist.NewMemory(seed)

			var snap Snapshot
			require.NotPanics(t, func() {
				snap = newTestStore(t, mem).Snapshot()
			})

			assert.Equal(t, Initial(catalog.DefaultMaxPrice), snap)
			assert.Empty(t, mem.Dump(), "no persisted keys partially retained")
		})
	}
}

func TestLoad_ReportsDiscard(t *testing.T) {
	mem := persist.NewMemory(map[string]string{persist.KeyCart: "[[["})
	_, report := Load(mem, catalog.DefaultMaxPrice, fixedNow)
	assert.True(t, report.Discarded)
	assert.Error(t, report.Reason)
}

type failingReader struct{ persist.Nop }

func (failingReader) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }

func TestLoad_ReadErrorUsesDefaults(t *testing.T) {
	snap, report := Load(failingReader{}, catalog.DefaultMaxPrice, fixedNow)
	assert.False(t, report.Discarded)
	assert.Error(t, report.Reason)
	assert.Equal(t, Initial(catalog.DefaultMaxPrice), snap)
}

func TestLoad_TokenWithoutUserDropsSession(t *testing.T) {
	tests := []struct {
		name string
		seed map[string]string
	}{
		{"null user", map[string]string{persist.KeyUser: "null", persist.KeyToken: "t"}},
		{"missing user", map[string]string{persist.KeyToken: "mock_token_7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.seed[persist.KeyCart] = `[{"id":1,"name":"x","price":1,"image":"","quantity":2}]`
			mem := persist.NewMemory(tt.seed)
			snap, report := Load(mem, catalog.DefaultMaxPrice, fixedNow)

			assert.False(t, report.Discarded)
			assert.True(t, report.SessionDropped)
			assert.Nil(t, snap.User)
			assert.Equal(t, "", snap.Token)
			assert.False(t, snap.Authenticated())
			assert.Len(t, snap.Cart, 1)

			dump := mem.Dump()
			assert.NotContains(t, dump, persist.KeyToken)
			assert.NotContains(t, dump, persist.KeyUser)
		})
	}
}

func TestLoad_ExpiredJWTDropsSession(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(fixedNow.Add(-time.Hour)),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	mem := persist.NewMemory(map[string]string{
		persist.KeyUser:  `{"id":7,"username":"ada"}`,
		persist.KeyToken: tok,
		persist.KeyCart:  `[{"id":1,"name":"x","price":1,"image":"","quantity":2}]`,
	})
	snap, report := Load(mem, catalog.DefaultMaxPrice, fixedNow)

	assert.True(t, report.SessionDropped)
	assert.Nil(t, snap.User)
	assert.Equal(t, "", snap.Token)
	assert.Len(t, snap.Cart, 1, "cart survives an expired session")

	stored := mem.Dump()
	assert.NotContains(t, stored, persist.KeyToken)
	assert.NotContains(t, stored, persist.KeyUser)
	assert.Contains(t, stored, persist.KeyCart)
}

func TestLoad_UserWithoutTokenDropped(t *testing.T) {
	mem := persist.NewMemory(map[string]string{persist.KeyUser: `{"id":7,"username":"ada"}`})
	snap, report := Load(mem, catalog.DefaultMaxPrice, fixedNow)
	assert.True(t, report.SessionDropped)
	assert.Nil(t, snap.User)
	assert.Empty(t, mem.Dump())
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(t, nil)

	var mu sync.Mutex
	var seen []int64
	cancel := s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, snap.Seq)
	})

	s.Dispatch(ToggleFilters{})
	s.Dispatch(ToggleFilters{})
	cancel()
	s.Dispatch(ToggleFilters{})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int64{1, 2}, seen)
}

func TestSubscribe_MayDispatch(t *testing.T) {
	s := newTestStore(t, nil)
	var once sync.Once
	s.Subscribe(func(snap Snapshot) {
		if snap.View == ViewCart {
			once.Do(func() { s.Dispatch(SetView{View: ViewHome}) })
		}
	})

	s.Dispatch(AddToCart{Product: product(1, 1, "")})
	assert.Equal(t, ViewHome, s.Snapshot().View)
}

func TestDispatch_Concurrent(t *testing.T) {
	s := newTestStore(t, persist.NewMemory(nil))
	p := product(1, 1, "")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(AddToCart{Product: p})
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	require.Len(t, snap.Cart, 1)
	assert.Equal(t, 50, snap.Cart[0].Quantity)
	assert.Equal(t, int64(50), snap.Seq)
}

func TestStore_SQLiteSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := persist.OpenSQLite(path)
	require.NoError(t, err)
	s := newTestStore(t, db)
	s.Dispatch(AddToCart{Product: product(3, 15, "")})
	s.Dispatch(SetUser{User: &catalog.User{ID: 1, Username: "bob"}, Token: "mock_token_1"})
	require.NoError(t, db.Close())

	db, err = persist.OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	snap := newTestStore(t, db).Snapshot()
	assert.Equal(t, ViewCart, snap.View)
	require.Len(t, snap.Cart, 1)
	assert.Equal(t, int64(3), snap.Cart[0].ProductID)
	require.NotNil(t, snap.User)
	assert.Equal(t, "bob", snap.User.Username)
}
