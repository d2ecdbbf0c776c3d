package routing

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/conversation-service/pkg/util"
)

// Params holds path parameters bound during route matching.
type Params map[string]string

// Handler processes a dispatched request with its bound path parameters.
type Handler func(c *fiber.Ctx, params Params) error

type route struct {
	method   string
	template string
	segments []string
	handler  Handler
}

// Router matches (method, path) pairs against an ordered table of route
// templates. Literal routes are matched exactly first; templated routes are
// scanned in registration order. Paths are never normalized: a trailing
// slash is a different path.
type Router struct {
	literal map[string]*route
	ordered []*route
}

// New creates an empty router.
func New() *Router {
	return &Router{literal: make(map[string]*route)}
}

// Add registers a route template. Segments prefixed with ':' are parameters.
func (r *Router) Add(method, template string, handler Handler) {
	rt := &route{
		method:   method,
		template: template,
		segments: splitPath(template),
		handler:  handler,
	}
	r.ordered = append(r.ordered, rt)
	if !hasParams(rt.segments) {
		r.literal[method+" "+template] = rt
	}
}

// Match finds the handler for a method+path pair. Exact literal matches win
// over templated ones; among templates the first registered match is
// selected. Returns false when nothing matches.
func (r *Router) Match(method, path string) (Handler, Params, bool) {
	if rt, ok := r.literal[method+" "+path]; ok {
		return rt.handler, Params{}, true
	}

	segments := splitPath(path)
	// An empty segment (double slash or trailing slash) can never bind a
	// parameter; reject the path outright.
	for _, seg := range segments {
		if seg == "" {
			return nil, nil, false
		}
	}

	for _, rt := range r.ordered {
		if rt.method != method || len(rt.segments) != len(segments) {
			continue
		}
		params, ok := bind(rt.segments, segments)
		if !ok {
			continue
		}
		return rt.handler, params, true
	}
	return nil, nil, false
}

// Dispatch adapts the router to a Fiber catch-all handler. An unmatched
// request surfaces a 404 naming the method and path.
func (r *Router) Dispatch(c *fiber.Ctx) error {
	handler, params, ok := r.Match(c.Method(), c.Path())
	if !ok {
		return apperrors.NewRouteNotFound(c.Method(), c.Path())
	}
	return handler(c, params)
}

func bind(template, segments []string) (Params, bool) {
	params := Params{}
	for i, tmpl := range template {
		if strings.HasPrefix(tmpl, ":") {
			params[tmpl[1:]] = segments[i]
			continue
		}
		if tmpl != segments[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(path string) []string {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func hasParams(segments []string) bool {
	for _, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			return true
		}
	}
	return false
}
