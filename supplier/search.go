package supplier

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"

	"github.com/anyascii/go"
	"github.com/gilby125/hotel-availability/hotels"
	"github.com/gilby125/hotel-availability/pkg/cache"
	"github.com/shopspring/decimal"
)

// Market reported on every stub offer.
const stubMarket = "US"

// SearchService returns random offers for requests carrying a live session.
type SearchService struct {
	sessions *cache.SessionStore

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSearchService checks sessions against store. A nil rnd uses a randomly
// seeded source.
func NewSearchService(store *cache.SessionStore, rnd *rand.Rand) *SearchService {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &SearchService{sessions: store, rnd: rnd}
}

// Search validates the session and service type, then returns one offer per
// destination. Rejections are reported through the response status.
func (s *SearchService) Search(ctx context.Context, sessionID string, req hotels.SearchRequest) (hotels.SearchResponse, error) {
	if sessionID == "" {
		return hotels.SearchResponse{Status: http.StatusBadRequest, Message: "Invalid Session ID"}, nil
	}
	if req.ServiceType != hotels.ServiceType {
		return hotels.SearchResponse{Status: http.StatusBadRequest, Message: "Invalid ServiceType"}, nil
	}
	if _, err := s.sessions.Lookup(ctx, sessionID); err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return hotels.SearchResponse{Status: http.StatusUnauthorized, Message: "Session expired or unknown"}, nil
		}
		return hotels.SearchResponse{}, err
	}

	destinations := req.Destinations
	if len(destinations) == 0 {
		destinations = []string{""}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	offers := make([]hotels.Hotel, 0, len(destinations))
	for _, dest := range destinations {
		offers = append(offers, s.offer(dest))
	}

	return hotels.SearchResponse{
		Status:  http.StatusOK,
		Data:    &hotels.SearchData{SessionID: sessionID, Hotels: offers},
		Message: "Search successful",
	}, nil
}

// offer must be called with s.mu held.
func (s *SearchService) offer(destination string) hotels.Hotel {
	net := decimal.NewFromFloat(100 + s.rnd.Float64()*200)
	markup := decimal.NewFromFloat(3 + s.rnd.Float64()*7)
	return hotels.Hotel{
		ID:                fmt.Sprintf("A#%d", 1+s.rnd.IntN(1000)),
		HotelCodeSupplier: fmt.Sprintf("%08d", 10000000+s.rnd.IntN(90000000)),
		Market:            stubMarket,
		City:              cityKey(destination),
		Price: &hotels.Price{
			Net:          hotels.Amount(net.StringFixed(2)),
			Currency:     "USD",
			Markup:       hotels.Amount(markup.StringFixed(2)),
			ExchangeRate: "1.0",
		},
	}
}

// cityKey folds a destination name to upper-case ASCII, e.g. "Zürich" to "ZURICH".
func cityKey(destination string) string {
	return strings.ToUpper(strings.TrimSpace(anyascii.Transliterate(destination)))
}
