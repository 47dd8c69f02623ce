package supplier

import (
	"context"
	"math/rand/v2"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/gilby125/hotel-availability/hotels"
	"github.com/gilby125/hotel-availability/pkg/cache"
	"github.com/gilby125/hotel-availability/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validCred = hotels.Credential{Username: "agent", Password: "secret", CompanyID: "123456"}

func newStore() *cache.SessionStore {
	return cache.NewSessionStore(cache.NewMemoryCache(), time.Minute)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := NewLoginService(store, WithLoginRand(rand.New(rand.NewPCG(1, 2))))

	resp, err := svc.Login(ctx, validCred)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), resp.SessionID)

	sess, err := store.Lookup(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "agent", sess.Username)
	assert.Equal(t, "123456", sess.CompanyID)
}

func TestLoginDeterministic(t *testing.T) {
	now := func() time.Time { return time.Unix(1_800_000_000, 0) }
	a := NewLoginService(newStore(), WithLoginClock(now), WithLoginRand(rand.New(rand.NewPCG(7, 7))))
	b := NewLoginService(newStore(), WithLoginClock(now), WithLoginRand(rand.New(rand.NewPCG(7, 7))))

	ra, err := a.Login(context.Background(), validCred)
	require.NoError(t, err)
	rb, err := b.Login(context.Background(), validCred)
	require.NoError(t, err)
	assert.Equal(t, ra.SessionID, rb.SessionID)
}

func TestLoginMissingFields(t *testing.T) {
	svc := NewLoginService(newStore())
	for _, cred := range []hotels.Credential{
		{Password: "p", CompanyID: "1"},
		{Username: "u", CompanyID: "1"},
		{Username: "u", Password: "p"},
	} {
		resp, err := svc.Login(context.Background(), cred)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Equal(t, "Missing required parameters: username, password, or CompanyID", resp.Message)
		assert.Empty(t, resp.SessionID)
	}
}

func loggedIn(t *testing.T, store *cache.SessionStore) string {
	t.Helper()
	resp, err := NewLoginService(store).Login(context.Background(), validCred)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)
	return resp.SessionID
}

func TestSearch(t *testing.T) {
	store := newStore()
	session := loggedIn(t, store)
	svc := NewSearchService(store, rand.New(rand.NewPCG(42, 42)))

	req := hotels.SearchRequest{ServiceType: hotels.ServiceType, Destinations: []string{"Zürich", "New York"}}
	resp, err := svc.Search(context.Background(), session, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "Search successful", resp.Message)
	require.NotNil(t, resp.Data)
	assert.Equal(t, session, resp.Data.SessionID)
	require.Len(t, resp.Data.Hotels, 2)

	assert.Equal(t, "ZURICH", resp.Data.Hotels[0].City)
	assert.Equal(t, "NEW YORK", resp.Data.Hotels[1].City)

	for _, h := range resp.Data.Hotels {
		assert.Regexp(t, `^A#\d{1,4}$`, h.ID)
		assert.Regexp(t, `^\d{8}$`, h.HotelCodeSupplier)
		assert.Equal(t, "US", h.Market)
		require.NotNil(t, h.Price)
		assert.Equal(t, "USD", h.Price.Currency)

		net := pricing.ToDecimal(h.Price.Net)
		assert.True(t, net.GreaterThanOrEqual(pricing.ToDecimal("100")), "net %s", net)
		assert.True(t, net.LessThanOrEqual(pricing.ToDecimal("300")), "net %s", net)
		markup := pricing.ToDecimal(h.Price.Markup)
		assert.True(t, markup.GreaterThanOrEqual(pricing.ToDecimal("3")), "markup %s", markup)
		assert.True(t, markup.LessThanOrEqual(pricing.ToDecimal("10")), "markup %s", markup)
		assert.Regexp(t, `^\d+\.\d{2}$`, string(h.Price.Net))
	}
}

func TestSearchWithoutDestinationsReturnsOneOffer(t *testing.T) {
	store := newStore()
	svc := NewSearchService(store, nil)

	resp, err := svc.Search(context.Background(), loggedIn(t, store), hotels.SearchRequest{ServiceType: hotels.ServiceType})
	require.NoError(t, err)
	assert.Len(t, resp.Data.Hotels, 1)
}

func TestSearchRejections(t *testing.T) {
	store := newStore()
	session := loggedIn(t, store)
	svc := NewSearchService(store, nil)
	valid := hotels.SearchRequest{ServiceType: hotels.ServiceType, Destinations: []string{"MCO"}}

	tests := []struct {
		name       string
		session    string
		req        hotels.SearchRequest
		wantStatus int
		wantMsg    string
	}{
		{"empty session", "", valid, http.StatusBadRequest, "Invalid Session ID"},
		{"wrong service type", session, hotels.SearchRequest{ServiceType: "FlightSearch"}, http.StatusBadRequest, "Invalid ServiceType"},
		{"unknown session", "deadbeef", valid, http.StatusUnauthorized, "Session expired or unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Search(context.Background(), tt.session, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.Nil(t, resp.Data)
		})
	}
}
