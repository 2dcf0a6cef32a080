/*
Package server exposes a text engine over HTTP and over msgpack IPC.

# HTTP

The gin router serves the chat endpoint and a few read-only views:

	POST /chat      {"message": "the quick fox"}
	GET  /complete  ?prefix=qu&limit=5
	GET  /health
	GET  /stats
	GET  /metrics

A chat reply renders every list joined with ", " and a placeholder (default
"None") for anything the engine could not answer:

	{"top_words": "the, quick, fox", "last_word": "fox", "suggestions": "fox",
	 "next_word": "None", "related_words": "None"}

# IPC

In IPC mode requests are read as a stream of msgpack maps on stdin and each
is answered with one msgpack map on stdout. Keys are kept short:

	{"id": "req_001", "a": "complete", "p": "qu", "l": 5}
	{"id": "req_001", "s": [{"w": "quick", "f": 2}], "c": 1, "t": 12}

Actions are chat, ingest, complete, stats and health. A request without an
id gets a generated one, which the response carries back. Failures are
reported as {"id", "e", "c"} with an HTTP-style code and never end the
stream; only an undecodable byte stream does.
*/
package server

import (
	"github.com/bastiangx/wordgraph/pkg/engine"
	"github.com/bastiangx/wordgraph/pkg/suggest"
)

// IPC actions.
const (
	ActionChat     = "chat"
	ActionIngest   = "ingest"
	ActionComplete = "complete"
	ActionStats    = "stats"
	ActionHealth   = "health"
)

// Request is one IPC message.
type Request struct {
	ID      string `msgpack:"id"`
	Action  string `msgpack:"a"`
	Message string `msgpack:"m,omitempty"`
	Prefix  string `msgpack:"p,omitempty"`
	Limit   int    `msgpack:"l,omitempty"`
}

// ChatResponse answers a chat action.
type ChatResponse struct {
	ID        string       `msgpack:"id"`
	Reply     engine.Reply `msgpack:"r"`
	TimeTaken int64        `msgpack:"t"`
}

// CompletionResponse answers a complete action. TimeTaken is in microseconds.
type CompletionResponse struct {
	ID          string               `msgpack:"id"`
	Suggestions []suggest.Suggestion `msgpack:"s"`
	Count       int                  `msgpack:"c"`
	TimeTaken   int64                `msgpack:"t"`
}

// StatsResponse answers a stats action.
type StatsResponse struct {
	ID    string       `msgpack:"id"`
	Stats engine.Stats `msgpack:"st"`
}

// StatusResponse answers ingest and health, and announces readiness.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
	Tokens int    `msgpack:"n,omitempty"`
}

// IPCError holds basic error information for a failed request.
type IPCError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
