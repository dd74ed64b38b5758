package types

import (
	"github.com/tliron/glsp"
)

// RequestContext carries what one LSP method call needs: the server-wide
// context, the protocol context of the call, and the non-fatal warnings the
// handler collected along the way.
type RequestContext struct {
	Server   ServerContext
	GLSP     *glsp.Context
	warnings []error
}

// NewRequestContext creates a new request context
func NewRequestContext(server ServerContext, glsp *glsp.Context) *RequestContext {
	return &RequestContext{
		Server: server,
		GLSP:   glsp,
	}
}

// AddWarning records a non-fatal problem. Middleware logs warnings once
// the handler returns. Nil errors are ignored.
func (r *RequestContext) AddWarning(err error) {
	if err != nil {
		r.warnings = append(r.warnings, err)
	}
}

// Warnings returns the collected warnings, or nil.
func (r *RequestContext) Warnings() []error {
	return r.warnings
}

// HasWarnings returns true if any warnings were collected
func (r *RequestContext) HasWarnings() bool {
	return len(r.warnings) > 0
}

// CanNotify reports whether the call has a client connection to send
// notifications or requests on.
func (r *RequestContext) CanNotify() bool {
	return r.GLSP != nil && r.GLSP.Notify != nil
}
