/*
Package server implements msgpack IPC for the touch suggestion engine.

The server operates on a request/response model over stdin/stdout. Each
request carries one touch trace; sequential requests whose typed prefixes
extend each other are served through the session's continuation cache, so an
editor streaming one touch at a time pays only the incremental search cost.

A suggestion request:

	{"id": "req_001", "xs": [45, 60, 75, 20], "ys": [5, 15, 5, 15],
	 "ts": [0, 120, 240, 360], "cp": "this", "l": 10}

The response, ranked best first:

	{"id": "req_001", "s": [{"w": "this", "f": 2991234, "k": 0}], "c": 1, "t": 312}

A commit request ("k" > 0) commits the first k words of the current top-1
multi-word path before continuing, and a "ctx" request installs the previous
word for bigram context.

Messages use binary msgpack encoding; responses include microsecond timing.
*/
package server

// SuggestRequest is one touch-trace suggestion request.
type SuggestRequest struct {
	ID          string `msgpack:"id"`
	XS          []int  `msgpack:"xs"`
	YS          []int  `msgpack:"ys"`
	Times       []int  `msgpack:"ts,omitempty"`
	CodePoints  string `msgpack:"cp"`
	CommitPoint int    `msgpack:"k,omitempty"`
	Limit       int    `msgpack:"l,omitempty"`
	PrevWord    string `msgpack:"ctx,omitempty"`
	ResetCtx    bool   `msgpack:"reset,omitempty"`
}

// SuggestEntry is one ranked candidate in the response.
type SuggestEntry struct {
	Word   string `msgpack:"w"`
	Score  int    `msgpack:"f"`
	Kind   int    `msgpack:"k"`
	Spaces []int  `msgpack:"sp,omitempty"`
}

// SuggestResponse is the ranked candidate list for one request.
type SuggestResponse struct {
	ID          string         `msgpack:"id"`
	Suggestions []SuggestEntry `msgpack:"s"`
	Count       int            `msgpack:"c"`
	TimeTaken   int64          `msgpack:"t"`
}

// SuggestError holds basic error information for failed requests.
type SuggestError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
