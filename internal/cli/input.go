// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/bastiangx/touchserve/internal/logger"
	"github.com/bastiangx/touchserve/pkg/suggest"
	"github.com/bastiangx/touchserve/pkg/touch"
	"github.com/charmbracelet/log"
)

// InputHandler reads typed text from stdin, synthesizes a touch trace at the
// key centers of the builtin layout, and prints the ranked suggestions. It is
// a debug surface: real clients send measured touch points over IPC.
type InputHandler struct {
	engine  *suggest.Suggest
	session *suggest.Session
	pinfo   *touch.ProximityInfo
	limit   int
	log     *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(engine *suggest.Suggest, session *suggest.Session,
	pinfo *touch.ProximityInfo, limit int) *InputHandler {
	return &InputHandler{
		engine:  engine,
		session: session,
		pinfo:   pinfo,
		limit:   limit,
		log:     logger.New("cli"),
	}
}

// Start begins the interface loop. It continuously prompts for input, reads a
// line from stdin, and passes the trimmed input for processing. The loop
// terminates when stdin closes.
func (h *InputHandler) Start() error {
	h.log.Print("TouchServe CLI")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("type something and press Enter to see the suggestions (Ctrl+C to exit):")

	for {
		h.log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleInput(text string) {
	xs, ys, times := h.pinfo.Keyboard().TouchSequence(text)
	in := &suggest.Input{
		XS:         xs,
		YS:         ys,
		Times:      times,
		CodePoints: []rune(text),
	}
	results := h.engine.GetSuggestions(h.session, h.pinfo, in)
	if len(results) > h.limit {
		results = results[:h.limit]
	}
	if len(results) == 0 {
		h.log.Print("no suggestions")
		return
	}
	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%2d. %-24s score=%-9d kind=%d edits=%d\n",
			i+1, r.Word, r.Score, r.Kind, r.EditCount)
	}
}
