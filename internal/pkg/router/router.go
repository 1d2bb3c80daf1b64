// Package router adapts julienschmidt/httprouter to handlers that return
// (payload, error) and renders both as JSON envelopes.
package router

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/bazaar/internal/pkg/goerror"
	"github.com/shandysiswandi/bazaar/internal/pkg/instrument"
	"github.com/shandysiswandi/bazaar/internal/pkg/jwt"
	"github.com/shandysiswandi/bazaar/internal/pkg/uid"
	"github.com/shandysiswandi/bazaar/internal/pkg/validator"
)

type errorResponse struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error,omitempty"`
}

type successResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Handler returns a payload to encode as JSON, or an error to map to a status code.
//
// A payload may implement Message() string to customise the envelope message
// and StatusCode() int to override 200.
type Handler func(r *Request) (any, error)

// Config holds dependencies required to build a Router.
type Config struct {
	Instrument instrument.Instrumentation
	JWT        jwt.JWT
	// UUID generates correlation ids for requests that arrive without one.
	UUID uid.StringID
	// MaskFields lists header names hidden in request logs.
	MaskFields []string
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr   *httprouter.Router
	mws  []Middleware
	auth Middleware
}

type routeOptions struct {
	public bool
	mws    []Middleware
}

// RouteOption customises a single route.
type RouteOption func(*routeOptions)

// Public skips bearer authentication for the route.
func Public() RouteOption {
	return func(o *routeOptions) { o.public = true }
}

// With appends route-specific middleware after the shared chain.
func With(mws ...Middleware) RouteOption {
	return func(o *routeOptions) { o.mws = append(o.mws, mws...) }
}

// NewRouter builds a router with the shared middleware chain.
func NewRouter(cfg Config) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
		}),
	}

	return &Router{
		hr: hr,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareIP,
			middlewareCorrelationID(cfg.UUID),
			middlewareObservability(cfg.Instrument, cfg.MaskFields),
		},
		auth: middlewareAuthentication(cfg.JWT),
	}
}

// GET registers a GET endpoint.
func (r *Router) GET(path string, h Handler, opts ...RouteOption) {
	r.endpoint(http.MethodGet, path, h, opts...)
}

// POST registers a POST endpoint.
func (r *Router) POST(path string, h Handler, opts ...RouteOption) {
	r.endpoint(http.MethodPost, path, h, opts...)
}

func (r *Router) endpoint(method, path string, h Handler, opts ...RouteOption) {
	var ro routeOptions
	for _, opt := range opts {
		opt(&ro)
	}

	mws := append([]Middleware{}, r.mws...)
	if !ro.public {
		mws = append(mws, r.auth)
	}
	mws = append(mws, ro.mws...)

	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(&Request{Request: req})
		if err != nil {
			if rec, ok := w.(*statusRecorder); ok {
				rec.err = err
			}
			writeError(w, err)
			return
		}
		writeOK(w, resp)
	}), mws...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func writeError(w http.ResponseWriter, err error) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		return
	}

	resp := errorResponse{Message: gerr.Msg(), Error: gerr.Fields()}

	var fields validator.FieldErrors
	if errors.As(err, &fields) {
		resp.Error = fields
	}

	writeJSON(w, resp, gerr.StatusCode())
}

func writeOK(w http.ResponseWriter, resp any) {
	code := http.StatusOK
	if sc, ok := resp.(interface{ StatusCode() int }); ok {
		code = sc.StatusCode()
	}

	if resp == nil || code == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msg := "request has been successfully"
	if m, ok := resp.(interface{ Message() string }); ok {
		msg = m.Message()
	}

	writeJSON(w, successResponse{Message: msg, Data: resp}, code)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response body", "error", err)
	}
}
