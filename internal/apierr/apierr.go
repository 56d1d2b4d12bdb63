// Package apierr defines the JSON error envelope returned by every endpoint:
//
//	{"detail":[{"type":"...","msg":"...","loc":["..."]}]}
package apierr

// Item is a single structured error.
type Item struct {
	Type string   `json:"type"`
	Msg  string   `json:"msg"`
	Loc  []string `json:"loc,omitempty"`
}

// Response is the body of every error reply.
type Response struct {
	Detail []Item `json:"detail"`
}

// New builds a single-item error response.
func New(errType, msg string, loc ...string) Response {
	return Response{Detail: []Item{{Type: errType, Msg: msg, Loc: loc}}}
}
