// Copyright 2025 The TouchServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the touch suggestion server and CLI [DBG] application.

TouchServe ranks word candidates for soft-keyboard input from raw touch
points. The engine runs a bounded best-first search over a lexicon trie,
combining how far each touch landed from the letters along a path with how
probable the word sequence is, and recovers from nearby-key presses, skipped
or doubled letters, swapped letters and missing spaces.

# Usage

Start the msgpack IPC server with a binary lexicon:

	touchserve -data lexicon.bin

Build from a plain word-frequency list and enable debug logs:

	touchserve -data words.txt -d

Run in CLI mode for interactive testing (touches are synthesized at the key
centers of the builtin QWERTY layout):

	touchserve -data words.txt -c -limit 10

# Configuration

Runtime configuration is a TOML file holding the frontier bounds and the
weighting/scoring calibration constants:

	[search]
	max_cache_size = 170
	max_spatial_distance = 4.0

	[weights]
	omission = 0.46
	transposition = 0.79

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. A request carries
the touch trace and the typed code points; the response is the ranked list
with scores, kinds and the word-break offsets of a multi-word top suggestion.
Sequential requests that extend the previous trace reuse the search frontier
through the session's continuation cache.
*/
package main

import (
	"flag"
	"os"
	"strings"

	"github.com/bastiangx/touchserve/internal/cli"
	"github.com/bastiangx/touchserve/internal/logger"
	"github.com/bastiangx/touchserve/pkg/config"
	"github.com/bastiangx/touchserve/pkg/lexicon"
	"github.com/bastiangx/touchserve/pkg/server"
	"github.com/bastiangx/touchserve/pkg/suggest"
	"github.com/bastiangx/touchserve/pkg/touch"
	"github.com/charmbracelet/log"
)

func main() {
	dataPath := flag.String("data", "", "lexicon file (.bin or plain word-frequency .txt)")
	cliMode := flag.Bool("c", false, "run interactive CLI mode instead of the IPC server")
	debug := flag.Bool("d", false, "enable debug logging")
	configPath := flag.String("config", "", "path to config.toml")
	limit := flag.Int("limit", 0, "max suggestions per request (0 = config default)")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	mainLog := logger.New("tserve")

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		mainLog.Warnf("Config load failed, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}
	if activePath != "" {
		mainLog.Debugf("Active config: %s", activePath)
	}
	if cfg.Server.Debug {
		log.SetLevel(log.DebugLevel)
		mainLog = logger.New("tserve")
	}

	if *dataPath == "" {
		mainLog.Error("no lexicon given, use -data")
		os.Exit(1)
	}
	trie, err := loadLexicon(*dataPath)
	if err != nil {
		mainLog.Errorf("Failed to load lexicon: %v", err)
		os.Exit(1)
	}
	mainLog.Debugf("Lexicon ready: %d nodes", trie.NodeCount())

	engine := suggest.NewSuggest(cfg)
	session := suggest.NewSession(trie)
	pinfo := touch.NewProximityInfo(touch.Qwerty())

	maxLimit := cfg.Server.MaxLimit
	if *limit > 0 && *limit < maxLimit {
		maxLimit = *limit
	}

	if *cliMode {
		if err := cli.NewInputHandler(engine, session, pinfo, maxLimit).Start(); err != nil {
			mainLog.Errorf("CLI terminated: %v", err)
			os.Exit(1)
		}
		return
	}
	if err := server.NewServer(engine, session, pinfo, maxLimit).Start(); err != nil {
		mainLog.Errorf("Server terminated: %v", err)
		os.Exit(1)
	}
}

func loadLexicon(path string) (*lexicon.Trie, error) {
	if strings.HasSuffix(path, ".txt") {
		return lexicon.LoadTextFile(path)
	}
	return lexicon.Load(path)
}
