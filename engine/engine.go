// Package engine sequences request validation, the supplier login and search
// calls, and pricing.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/gilby125/hotel-availability/hotels"
	"github.com/gilby125/hotel-availability/pkg/logger"
	"github.com/gilby125/hotel-availability/pricing"
	"github.com/gilby125/hotel-availability/supplier"
	"github.com/gilby125/hotel-availability/validation"
	"github.com/gilby125/hotel-availability/xmlmap"
)

// Kind identifies a request kind handled by Parse.
type Kind string

const (
	KindSearchRequest Kind = "search_req"
	KindXMLToJSON     Kind = "xml_to_json"
)

// Kinds lists every supported kind.
func Kinds() []Kind { return []Kind{KindSearchRequest, KindXMLToJSON} }

// ParseKind maps a name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(strings.TrimSpace(name)); k {
	case KindSearchRequest, KindXMLToJSON:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, name)
	}
}

// Authenticator is the supplier login API.
type Authenticator interface {
	Login(ctx context.Context, cred hotels.Credential) (supplier.LoginResponse, error)
}

// Searcher is the supplier availability API.
type Searcher interface {
	Search(ctx context.Context, sessionID string, req hotels.SearchRequest) (hotels.SearchResponse, error)
}

// Engine runs availability requests end to end.
type Engine struct {
	validator *hotels.RequestValidator
	auth      Authenticator
	search    Searcher
	converter *pricing.Converter
	log       *logger.Logger
}

// New wires an Engine. A nil log discards output.
func New(validator *hotels.RequestValidator, auth Authenticator, search Searcher, converter *pricing.Converter, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Discard()
	}
	return &Engine{
		validator: validator,
		auth:      auth,
		search:    search,
		converter: converter,
		log:       log,
	}
}

// Validate runs the request validator alone.
func (e *Engine) Validate(data []byte) (validation.Result[hotels.SearchRequest], error) {
	return e.validator.Validate(data)
}

// Parse runs the handler for kind and always returns an envelope: hard
// failures, including an unknown kind, become a single-error failure.
func (e *Engine) Parse(kind Kind, data []byte) validation.Envelope {
	switch kind {
	case KindSearchRequest:
		result, err := e.validator.Validate(data)
		if err != nil {
			return validation.Failure[hotels.SearchRequest](err.Error())
		}
		return result
	case KindXMLToJSON:
		node, err := xmlmap.Decode(data)
		if err != nil {
			return validation.Failure[xmlmap.Node](err.Error())
		}
		return validation.Success(node)
	default:
		return validation.Failure[interface{}](fmt.Sprintf("%s: %s", ErrUnknownKind, kind))
	}
}

// Process validates data, logs in with the first credential, searches and
// prices the offers. Any failure aborts the whole request.
func (e *Engine) Process(ctx context.Context, data []byte) (hotels.SearchResponse, error) {
	log := e.log.WithContext(ctx).WithField("query", QuerySearchHotel)

	result, err := e.validator.Validate(data)
	if err != nil {
		return hotels.SearchResponse{}, &InvalidRequestError{Kind: QuerySearchHotel, Errors: []string{err.Error()}, cause: err}
	}
	if !result.OK() {
		log.Debug("request rejected", "errors", len(result.Errors))
		return hotels.SearchResponse{}, &InvalidRequestError{Kind: QuerySearchHotel, Errors: result.Errors}
	}
	req := result.Data
	log.Debug("request validated", "destinations", len(req.Destinations), "rooms", len(req.Rooms))

	var cred hotels.Credential
	if len(req.Credentials) > 0 {
		cred = req.Credentials[0]
	}
	login, err := e.auth.Login(ctx, cred)
	if err != nil {
		log.Error(err, "login call failed")
		return hotels.SearchResponse{}, fmt.Errorf("%s: %w", QueryLogin, err)
	}
	if err := checkStatus(QueryLogin, login.Status, login.Message); err != nil {
		log.Warn("login rejected", "status", login.Status)
		return hotels.SearchResponse{}, err
	}

	resp, err := e.search.Search(ctx, login.SessionID, req)
	if err != nil {
		log.Error(err, "search call failed")
		return hotels.SearchResponse{}, fmt.Errorf("%s: %w", QuerySearchHotel, err)
	}
	if err := checkStatus(QuerySearchHotel, resp.Status, resp.Message); err != nil {
		log.Warn("search rejected", "status", resp.Status)
		return hotels.SearchResponse{}, err
	}

	priced, err := e.converter.Convert(resp)
	if err != nil {
		log.Error(err, "pricing failed")
		return hotels.SearchResponse{}, fmt.Errorf("pricing: %w", err)
	}
	count := 0
	if priced.Data != nil {
		count = len(priced.Data.Hotels)
	}
	log.Debug("search priced", "hotels", count, "currency", e.converter.Target())
	return priced, nil
}
