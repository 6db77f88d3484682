package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/chordgen/chord"
	"github.com/jsphweid/chordgen/config"
	"github.com/jsphweid/chordgen/logger"
	"github.com/jsphweid/chordgen/midi"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/rhythm"
	"github.com/jsphweid/chordgen/session"
	"github.com/jsphweid/chordgen/timeline"
	"github.com/rs/cors"
)

var errSessionNotFound = errors.New("session not found")

// Server keeps one editing session per browser tab.
type Server struct {
	cfg *config.Config

	mu       sync.RWMutex
	sessions map[string]*session.Session
	// seed feeds every new session its own random source.
	seed func() int64
}

func NewServer(c *config.Config) *Server {
	return &Server{
		cfg:      c,
		sessions: make(map[string]*session.Session),
		seed:     func() int64 { return time.Now().UnixNano() },
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(logRequests)
	router.HandleFunc("/patterns", s.HandlePatterns).Methods("GET")
	router.HandleFunc("/sessions", s.HandleCreateSession).Methods("POST")
	router.HandleFunc("/sessions/{id}", s.HandleGetSession).Methods("GET")
	router.HandleFunc("/sessions/{id}/generate", s.HandleGenerate).Methods("POST")
	router.HandleFunc("/sessions/{id}/reorder", s.HandleReorder).Methods("POST")
	router.HandleFunc("/sessions/{id}/replace", s.HandleReplace).Methods("POST")
	router.HandleFunc("/sessions/{id}/pattern", s.HandlePattern).Methods("PUT")
	router.HandleFunc("/sessions/{id}/picker", s.HandlePicker).Methods("GET")
	router.HandleFunc("/sessions/{id}/timeline", s.HandleTimeline).Methods("GET")
	router.HandleFunc("/sessions/{id}/export", s.HandleExport).Methods("GET")
	return router
}

// Handler is the router wrapped for cross origin browser clients.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.Router())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request completed", logger.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("could not encode response", err, nil)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrNoProgression):
		status = http.StatusConflict
	case errors.Is(err, session.ErrIndexOutOfRange),
		errors.Is(err, session.ErrInvalidCount),
		errors.Is(err, model.ErrInvalidPitchClass),
		errors.Is(err, model.ErrInvalidChord),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", err, nil)
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) lookup(r *http.Request) (*session.Session, error) {
	id := mux.Vars(r)["id"]
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errSessionNotFound, id)
	}
	return sess, nil
}

func sessionResponse(id string, st session.State) model.SessionResponse {
	res := model.SessionResponse{
		ID:          id,
		Pattern:     st.Pattern.Name,
		Count:       st.Count,
		Extensions:  st.Extensions,
		Progression: st.Progression,
		Numerals:    []string{},
	}
	if st.HasProgression() {
		res.Key = st.Key
		res.KeyName = st.KeyName()
		res.Scale = st.Scale
		res.Numerals = st.Numerals()
		res.ProgressionText = st.Symbols()
	}
	if res.Progression == nil {
		res.Progression = model.Progression{}
	}
	return res
}

func (s *Server) HandlePatterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.PatternsResponse{Patterns: rhythm.All()})
}

func (s *Server) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.New().String()
	sess, err := newSession(s.cfg, id, rand.New(rand.NewSource(s.seed())))
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	logger.Info("session created", logger.Fields{"session_id": id})
	writeJSON(w, http.StatusCreated, sessionResponse(id, sess.Snapshot()))
}

func (s *Server) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess.ID, sess.Snapshot()))
}

func (s *Server) dispatch(w http.ResponseWriter, sess *session.Session, cmd session.Command) {
	st, err := sess.Dispatch(cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess.ID, st))
}

func (s *Server) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body model.GenerateRequestBody
	if r.ContentLength != 0 {
		if err := decode(r, &body); err != nil {
			writeError(w, err)
			return
		}
	}
	root, err := parseRoot(body.Root)
	if err != nil {
		writeError(w, err)
		return
	}
	mode, err := parseMode(body.Mode)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	var batch session.Batch
	if body.Count != 0 {
		batch = append(batch, session.SetCount{Count: body.Count})
	}
	if body.Extensions != nil {
		batch = append(batch, session.SetExtensions{Enabled: *body.Extensions})
	}
	if body.Pattern != "" {
		batch = append(batch, session.SetRhythmPattern{Pattern: body.Pattern})
	}
	batch = append(batch, session.Generate{Root: root, Mode: mode})
	s.dispatch(w, sess, batch)
}

func (s *Server) HandleReorder(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body model.ReorderRequestBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	s.dispatch(w, sess, session.ReorderChord{From: body.From, To: body.To})
}

func (s *Server) HandleReplace(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body model.ReplaceRequestBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	s.dispatch(w, sess, session.ReplaceChordAt{Index: body.Index, Chord: body.Chord})
}

func (s *Server) HandlePattern(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body model.PatternRequestBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	s.dispatch(w, sess, session.SetRhythmPattern{Pattern: body.Name})
}

func (s *Server) HandlePicker(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	st := sess.Snapshot()
	if !st.HasProgression() {
		writeError(w, session.ErrNoProgression)
		return
	}
	writeJSON(w, http.StatusOK, chord.PickerOptions(st.Scale, chord.DefaultVoicing))
}

func queryFloat(r *http.Request, key string) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errBadRequest, key)
	}
	return f, nil
}

func (s *Server) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	width, err := queryFloat(r, "width")
	if err != nil {
		writeError(w, err)
		return
	}
	height, err := queryFloat(r, "height")
	if err != nil {
		writeError(w, err)
		return
	}

	st := sess.Snapshot()
	tl, err := st.Timeline()
	if err != nil {
		writeError(w, err)
		return
	}
	res := model.TimelineResponse{
		TotalUnits:   tl.TotalUnits,
		ChordUnits:   tl.ChordUnits,
		BassUnits:    tl.BassUnits,
		Events:       tl.Events,
		TotalSeconds: tl.Duration(st.Tempo).Seconds(),
	}
	if width > 0 && height > 0 {
		layout, err := timeline.NewLayout(tl, st.Progression, st.Scale, width, height)
		if err != nil {
			writeError(w, err)
			return
		}
		res.Rects = layout.Rects
		res.Rows = layout.Rows
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	st := sess.Snapshot()
	tl, err := st.Timeline()
	if err != nil {
		writeError(w, err)
		return
	}
	sm, err := midi.Build(tl, st.Tempo)
	if err != nil {
		writeError(w, err)
		return
	}
	name := midi.FileName(st.Key, st.Symbols())
	if v := r.URL.Query().Get("slot"); v != "" {
		slot, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, fmt.Errorf("%w: slot must be an integer", errBadRequest))
			return
		}
		if sm, err = slotExcerpt(sm, tl, slot); err != nil {
			writeError(w, err)
			return
		}
		name = midi.FileName(st.Key, st.Numerals()[slot])
	}
	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Warn("could not write export", logger.Fields{"error": err.Error()})
		return
	}
	logger.Info("exported midi", logger.Fields{"session_id": sess.ID, "file": name})
}
