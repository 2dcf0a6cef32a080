// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordgraph chat CLI, HTTP server and IPC server.

wordgraph learns from every sentence it is given. Each sentence updates a
frequency table, a prefix trie, a red-black word index, a bigram model and a
word co-occurrence graph, and every reply is read back from them: the most
frequent words so far, completions for the last word, the likely next word
and the words seen right after it.

# Usage

Chat interactively (the default):

	wordgraph

Seed the engine with a corpus first and turn on debug logging:

	wordgraph --seed corpus/ -d

Serve the engine over HTTP:

	wordgraph serve --addr :8080

	curl -s localhost:8080/chat -d '{"message": "the quick fox"}'

Serve MessagePack over stdin/stdout for editor integrations:

	wordgraph ipc

# Configuration

Runtime configuration is a TOML file, created with defaults on first run in
the user config dir unless --config points elsewhere:

	[server]
	addr = ":5000"
	rate_limit = 50.0
	burst = 100

	[engine]
	top_words = 3
	suggest_limit = 10

	[cli]
	placeholder = "None"

serve and ipc watch the file and apply changes without a restart. The listen
address is read once at startup.

# Commands and flags

	serve     HTTP front end (--addr overrides server.addr)
	chat      interactive loop, "exit" quits
	ipc       MessagePack request stream on stdin/stdout
	version   print version info

	--config string   config file path
	--seed strings    corpus files or dirs ingested before starting
	-d, --debug       debug logging with timestamps
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordgraph"
	gh      = "https://github.com/bastiangx/wordgraph"
)

// sigHandler exits normally on an interrupt. Servers handle signals through
// their context instead.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only hands over to the command tree.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
