package server

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/bastiangx/wordgraph/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func encodeRequests(t *testing.T, values ...any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	for _, v := range values {
		require.NoError(t, enc.Encode(v))
	}
	return &buf
}

func runIPC(t *testing.T, in *bytes.Buffer) *msgpack.Decoder {
	t.Helper()
	var out bytes.Buffer
	eng := newTestEngine()
	srv := NewIPCServer(eng, config.DefaultConfig(), in, &out, NewMetrics(eng), quietLogger())
	require.NoError(t, srv.Serve(context.Background()))
	return msgpack.NewDecoder(&out)
}

func TestIPCSession(t *testing.T) {
	in := encodeRequests(t,
		Request{ID: "a1", Action: ActionIngest, Message: "the quick fox"},
		Request{Action: ActionChat, Message: "the quick"},
		Request{ID: "c1", Action: ActionComplete, Prefix: "q", Limit: 5},
		Request{ID: "s1", Action: ActionStats},
		Request{ID: "h1", Action: ActionHealth},
	)
	dec := runIPC(t, in)

	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready.Status)

	var ingested StatusResponse
	require.NoError(t, dec.Decode(&ingested))
	assert.Equal(t, StatusResponse{ID: "a1", Status: "ok", Tokens: 3}, ingested)

	var chat ChatResponse
	require.NoError(t, dec.Decode(&chat))
	_, err := uuid.Parse(chat.ID)
	assert.NoError(t, err, "missing id is generated")
	assert.Equal(t, "quick", chat.Reply.LastWord)
	assert.Equal(t, "fox", chat.Reply.NextWord)
	assert.True(t, chat.Reply.HasNext)
	assert.Equal(t, []string{"the", "quick", "fox"}, chat.Reply.TopWords)

	var completion CompletionResponse
	require.NoError(t, dec.Decode(&completion))
	assert.Equal(t, "c1", completion.ID)
	require.Equal(t, 1, completion.Count)
	assert.Equal(t, "quick", completion.Suggestions[0].Word)
	assert.Equal(t, 2, completion.Suggestions[0].Frequency)

	var stats StatsResponse
	require.NoError(t, dec.Decode(&stats))
	assert.Equal(t, "s1", stats.ID)
	assert.Equal(t, 2, stats.Stats.Sentences)
	assert.Equal(t, 5, stats.Stats.Tokens)

	var health StatusResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, StatusResponse{ID: "h1", Status: "ok"}, health)
}

func TestIPCErrorsKeepStreamAlive(t *testing.T) {
	in := encodeRequests(t,
		Request{ID: "x1", Action: "fly"},
		Request{ID: "x2", Action: ActionChat},
		Request{ID: "x3", Action: ActionComplete},
		42,
		Request{ID: "x4", Action: ActionHealth},
	)
	dec := runIPC(t, in)

	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))

	testCases := []struct {
		id    string
		error string
	}{
		{"x1", `unknown action: "fly"`},
		{"x2", "no input provided"},
		{"x3", "invalid request: missing prefix"},
		{"", "invalid request: expected a request map"},
	}
	for _, tc := range testCases {
		var resp IPCError
		require.NoError(t, dec.Decode(&resp))
		assert.Equal(t, IPCError{ID: tc.id, Error: tc.error, Code: 400}, resp)
	}

	var health StatusResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, "x4", health.ID)
}

func TestIPCStopsOnCancelledContext(t *testing.T) {
	in := encodeRequests(t, Request{ID: "h1", Action: ActionHealth})

	var out bytes.Buffer
	eng := newTestEngine()
	srv := NewIPCServer(eng, nil, in, &out, nil, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, srv.Serve(ctx))

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready.Status)
	assert.Zero(t, out.Len(), "no request is handled after cancellation")
}

func TestIPCCancelWhileWaitingForInput(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	defer inW.Close()
	defer outR.Close()

	eng := newTestEngine()
	srv := NewIPCServer(eng, nil, inR, outW, nil, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()

	dec := msgpack.NewDecoder(outR)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready.Status)

	require.NoError(t, msgpack.NewEncoder(inW).Encode(Request{ID: "h1", Action: ActionHealth}))
	var health StatusResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, "h1", health.ID)

	// the input stays open and idle
	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestIPCConfigUpdate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxLimit = 1

	in := encodeRequests(t,
		Request{ID: "i", Action: ActionIngest, Message: "go gopher golang"},
		Request{ID: "c", Action: ActionComplete, Prefix: "go", Limit: 10},
	)
	var out bytes.Buffer
	eng := newTestEngine()
	srv := NewIPCServer(eng, config.DefaultConfig(), in, &out, nil, quietLogger())
	srv.UpdateConfig(cfg)
	require.NoError(t, srv.Serve(context.Background()))

	dec := msgpack.NewDecoder(&out)
	var ready, ingested StatusResponse
	require.NoError(t, dec.Decode(&ready))
	require.NoError(t, dec.Decode(&ingested))

	var completion CompletionResponse
	require.NoError(t, dec.Decode(&completion))
	assert.Equal(t, 1, completion.Count)
}
