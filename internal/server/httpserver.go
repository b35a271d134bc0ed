// Package server exposes human-versus-computer matches over a small JSON API.
package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"batnav/internal/app"
	"batnav/internal/console"
	"batnav/internal/game"
	"batnav/internal/leaderboard"
	"batnav/internal/match"
	"batnav/internal/zk"
)

type Server struct {
	Store leaderboard.Store
	Limit int
	Now   func() time.Time

	// Prover, when set, backs every computer answer with a shot proof.
	Prover *zk.Prover

	// Retention is how long a finished match stays readable before it is evicted.
	Retention time.Duration

	// In-memory state; net/http runs handlers concurrently.
	mu      sync.Mutex
	rng     *rand.Rand
	matches map[string]*session
	vkB64   string
	log     zerolog.Logger
}

// DefaultRetention keeps finished matches around long enough for a client to read the result.
const DefaultRetention = 10 * time.Minute

type session struct {
	m        *match.Match
	name     string
	auditor  *app.Auditor
	recorded bool
	rank     int
	last     *shotEvent
	created  time.Time
	ended    time.Time
}

type shotEvent struct {
	Coord   string `json:"coord"`
	Outcome string `json:"outcome"`
	Hit     bool   `json:"hit"`
	Sunk    bool   `json:"sunk"`
}

func New(store leaderboard.Store, rng *rand.Rand, log zerolog.Logger) *Server {
	return &Server{
		Store:     store,
		Limit:     leaderboard.MaxEntries,
		Now:       time.Now,
		Retention: DefaultRetention,
		rng:       rng,
		matches:   make(map[string]*session),
		log:       log,
	}
}

func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/matches", s.handleCreate)
	mux.HandleFunc("GET /v1/matches/{id}", s.handleStatus)
	mux.HandleFunc("DELETE /v1/matches/{id}", s.handleAbandon)
	mux.HandleFunc("POST /v1/matches/{id}/shots", s.handleShoot)
	mux.HandleFunc("GET /v1/leaderboard", s.handleLeaderboard)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// === Create ===

type createReq struct {
	Size int    `json:"size"`
	Name string `json:"name"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad json"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, 400, map[string]string{"error": "name required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evict()
	m, err := match.New(req.Size, s.rng, s.log)
	if err != nil {
		writeErr(w, 400, err)
		return
	}
	if err := m.DeployRandom(); err != nil {
		writeErr(w, 500, err)
		return
	}
	sess := &session{m: m, name: req.Name, created: s.Now()}
	if s.Prover != nil {
		aud, err := app.NewAuditor(s.Prover, m.Computer.Board, m.Computer.Fleet, s.log)
		if err != nil {
			writeErr(w, 500, err)
			return
		}
		m.SetReferee(aud)
		sess.auditor = aud
	}
	s.matches[m.ID] = sess
	writeJSON(w, 201, s.statusPayload(sess))
}

// === Shoot ===

type shootReq struct {
	Coord string `json:"coord"`
}

func (s *Server) handleShoot(w http.ResponseWriter, r *http.Request) {
	var req shootReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad json"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.matches[r.PathValue("id")]
	if !ok {
		writeJSON(w, 404, map[string]string{"error": "no such match"})
		return
	}
	m := sess.m
	if m.Phase != match.Playing {
		writeJSON(w, 409, map[string]any{"error": "game is over", "winner": m.Winner.String()})
		return
	}
	c, err := game.ParseCoord(req.Coord, m.Size)
	if err != nil {
		writeErr(w, 400, err)
		return
	}
	res, err := m.FireHuman(c)
	if errors.Is(err, game.ErrAlreadyShot) {
		writeJSON(w, 409, map[string]any{"error": "cell already targeted", "coord": c.Label(m.Size)})
		return
	}
	resp := map[string]any{"shot": event(c, m.Size, res)}
	if err != nil {
		resp["attestation"] = err.Error()
	}
	if sess.auditor != nil {
		resp["proofs"] = sess.auditor.Proofs
	}
	if m.Phase == match.Playing {
		cc, cres, err := m.FireComputer()
		if err != nil {
			writeErr(w, 500, err)
			return
		}
		sess.last = event(cc, m.Size, cres)
		resp["reply"] = sess.last
	}
	if m.Phase == match.GameOver {
		if err := s.record(sess); err != nil {
			s.log.Error().Err(err).Str("match", m.ID).Msg("leaderboard save failed")
		}
	}
	resp["status"] = s.statusPayload(sess)
	writeJSON(w, 200, resp)
}

func event(c game.Coord, size int, res game.ShotResult) *shotEvent {
	return &shotEvent{
		Coord:   c.Label(size),
		Outcome: res.Outcome.String(),
		Hit:     res.Outcome.IsHit(),
		Sunk:    res.Outcome == game.OutcomeHitAndSunk,
	}
}

// record stores the winner once; the caller holds s.mu.
func (s *Server) record(sess *session) error {
	if sess.recorded {
		return nil
	}
	sess.ended = s.Now()
	m := sess.m
	name := sess.name
	if m.Winner == match.Computer {
		name = match.ComputerName(s.rng)
	}
	lb := s.Store.Load()
	_, sess.rank = match.Record(lb, m, name, s.Now(), s.Limit)
	sess.recorded = true
	return s.Store.Save(lb)
}

// === Status / Abandon ===

func (s *Server) statusPayload(sess *session) map[string]any {
	m := sess.m
	human, computer := m.Stats(match.Human), m.Stats(match.Computer)
	out := map[string]any{
		"id":    m.ID,
		"size":  m.Size,
		"name":  sess.name,
		"phase": m.Phase.String(),
		"turn":  m.Turn,
		"fleet": game.FleetConfig(m.Size),
		"ships": map[string]any{
			"human":    m.Human.Fleet.Afloat(),
			"computer": m.Computer.Fleet.Afloat(),
		},
		"accuracy": map[string]any{
			"human":    human.Accuracy,
			"computer": computer.Accuracy,
		},
		"target":  rows(console.TargetView(m.Computer.Incoming)),
		"own":     rows(console.FleetView(m.Human.Board, m.Human.Fleet, m.Human.Incoming)),
		"aiMode":  m.AIMode().String(),
		"started": sess.created.UnixMilli(),
	}
	if sess.auditor != nil {
		out["commitment"] = sess.auditor.Commitment()
		if vk := s.verifyingKey(); vk != "" {
			out["vkB64"] = vk
		}
	}
	if m.Phase == match.GameOver {
		out["winner"] = m.Winner.String()
		out["rank"] = sess.rank
	}
	return out
}

// verifyingKey serialises the prover's key once; the caller holds s.mu.
func (s *Server) verifyingKey() string {
	if s.vkB64 == "" && s.Prover != nil {
		vk, err := s.Prover.VerifyingKey()
		if err != nil {
			s.log.Error().Err(err).Msg("serialise verifying key")
			return ""
		}
		s.vkB64 = base64.StdEncoding.EncodeToString(vk)
	}
	return s.vkB64
}

// evict drops matches that ended more than Retention ago; the caller holds s.mu.
func (s *Server) evict() {
	now := s.Now()
	for id, sess := range s.matches {
		if sess.recorded && now.Sub(sess.ended) > s.Retention {
			delete(s.matches, id)
			s.log.Debug().Str("match", id).Msg("finished match evicted")
		}
	}
}

func rows(grid [][]rune) []string {
	out := make([]string, len(grid))
	for i, r := range grid {
		out[i] = string(r)
	}
	return out
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evict()
	sess, ok := s.matches[r.PathValue("id")]
	if !ok {
		writeJSON(w, 404, map[string]string{"error": "no such match"})
		return
	}
	writeJSON(w, 200, s.statusPayload(sess))
}

// handleAbandon drops a match without touching the leaderboard.
func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := s.matches[id]; !ok {
		writeJSON(w, 404, map[string]string{"error": "no such match"})
		return
	}
	delete(s.matches, id)
	w.WriteHeader(http.StatusNoContent)
}

// === Leaderboard ===

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size < game.MinSize || size > game.MaxSize {
		writeJSON(w, 400, map[string]string{"error": "size must be a number between 8 and 26"})
		return
	}
	s.mu.Lock()
	lb := s.Store.Load()
	s.mu.Unlock()
	entries := lb.For(size)
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	writeJSON(w, 200, map[string]any{"size": size, "entries": entries})
}

// === CORS ===

func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// In dev we allow any origin. For production, set this to the specific origin(s).
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithLogging logs method, path, status and duration of every request.
func WithLogging(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("dur", time.Since(start)).
			Msg("http")
	})
}

// statusWriter captures the HTTP status.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}
