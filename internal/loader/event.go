package loader

import "context"

// Request is a plain Event for callers that are not serving HTTP, such as
// the CLI.
type Request struct {
	Ctx     context.Context
	Session bool
	Cookies map[string]string
}

func (r Request) Context() context.Context {
	if r.Ctx == nil {
		return context.Background()
	}
	return r.Ctx
}

func (r Request) Authenticated() bool { return r.Session }

func (r Request) Cookie(name string) (string, bool) {
	v, ok := r.Cookies[name]
	return v, ok
}
