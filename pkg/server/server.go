package server

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/bastiangx/touchserve/internal/logger"
	"github.com/bastiangx/touchserve/pkg/suggest"
	"github.com/bastiangx/touchserve/pkg/touch"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC loop for touch suggestions. One server owns one
// session, so continuation works across sequential requests.
type Server struct {
	engine   *suggest.Suggest
	session  *suggest.Session
	pinfo    *touch.ProximityInfo
	maxLimit int
	log      *log.Logger

	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
}

// NewServer creates a suggestion server using stdin/stdout for IPC.
func NewServer(engine *suggest.Suggest, session *suggest.Session,
	pinfo *touch.ProximityInfo, maxLimit int) *Server {
	return &Server{
		engine:   engine,
		session:  session,
		pinfo:    pinfo,
		maxLimit: maxLimit,
		log:      logger.New("ipc"),
		decoder:  msgpack.NewDecoder(os.Stdin),
		encoder:  msgpack.NewEncoder(os.Stdout),
	}
}

// Start begins listening for IPC requests until stdin closes.
func (s *Server) Start() error {
	s.log.Debug("Starting suggestion server.")

	for {
		var request SuggestRequest
		if err := s.decoder.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			continue
		}
		s.handleRequest(&request)
	}
}

func (s *Server) handleRequest(request *SuggestRequest) {
	start := time.Now()

	if request.ResetCtx {
		s.session.ResetContext()
	}
	if request.PrevWord != "" {
		s.session.SetPrevWord(request.PrevWord)
	}
	if len(request.XS) == 0 {
		s.sendResponse(&SuggestResponse{ID: request.ID})
		return
	}
	if len(request.XS) != len(request.YS) {
		s.sendError(request.ID, "xs and ys length mismatch", 400)
		return
	}

	in := &suggest.Input{
		XS:          request.XS,
		YS:          request.YS,
		Times:       request.Times,
		CodePoints:  []rune(request.CodePoints),
		CommitPoint: request.CommitPoint,
	}
	results := s.engine.GetSuggestions(s.session, s.pinfo, in)

	limit := request.Limit
	if limit <= 0 || limit > s.maxLimit {
		limit = s.maxLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}

	entries := make([]SuggestEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, SuggestEntry{
			Word:   r.Word,
			Score:  r.Score,
			Kind:   int(r.Kind),
			Spaces: r.SpacePositions,
		})
	}
	s.sendResponse(&SuggestResponse{
		ID:          request.ID,
		Suggestions: entries,
		Count:       len(entries),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

func (s *Server) sendResponse(response *SuggestResponse) {
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	if err := s.encoder.Encode(&SuggestError{ID: id, Error: message, Code: code}); err != nil {
		s.log.Errorf("Encoding error response: %v", err)
	}
}
