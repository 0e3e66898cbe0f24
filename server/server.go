// Package server exposes games over HTTP with a websocket stream of views.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"snake-arcade/game"
	"snake-arcade/game/types"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang/glog"
	"github.com/gorilla/websocket"
)

// View is what clients see of a session.
type View struct {
	ID string `json:"id"`
	game.Snapshot
}

// TickView adds the outcome of the tick that produced the view.
type TickView struct {
	View
	Result game.Result `json:"result"`
}

type createRequest struct {
	Size int    `json:"size"`
	Food int    `json:"food"`
	Seed uint64 `json:"seed"`
}

// Direction is a pointer so a body without it can be told apart from "up".
type directionRequest struct {
	Direction *types.Direction `json:"direction"`
}

type directionResponse struct {
	Accepted bool            `json:"accepted"`
	Current  types.Direction `json:"current"`
}

type Server struct {
	store    *Store
	upgrader websocket.Upgrader
	now      func() time.Time
}

func New(store *Store) *Server {
	return &Server{
		store:    store,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		now:      time.Now,
	}
}

// glogPrinter lets chi's request logger write through glog.
type glogPrinter struct{}

func (glogPrinter) Print(v ...interface{}) {
	glog.Info(v...)
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: glogPrinter{}, NoColor: true}))
	r.Use(middleware.Recoverer)

	timeout := middleware.Timeout(15 * time.Second)
	r.With(timeout).Post("/games", s.createGame)
	r.Route("/games/{id}", func(r chi.Router) {
		r.With(timeout).Get("/", s.getGame)
		r.With(timeout).Delete("/", s.deleteGame)
		r.With(timeout).Post("/direction", s.setDirection)
		r.With(timeout).Post("/tick", s.tick)
		r.With(timeout).Post("/reset", s.reset)
		// No timeout: the stream lives as long as the client.
		r.Get("/ws", s.stream)
	})
	return r
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
	}
	if req.Size == 0 {
		req.Size = types.DefaultBoardSize
	}
	if req.Size < types.MinBoardSize || req.Size > types.MaxBoardSize {
		http.Error(w, fmt.Sprintf("size must be between %d and %d", types.MinBoardSize, types.MaxBoardSize), http.StatusBadRequest)
		return
	}
	if req.Food < 0 || req.Food > req.Size*req.Size-2 {
		http.Error(w, "food out of range", http.StatusBadRequest)
		return
	}
	if req.Seed == 0 {
		req.Seed = uint64(s.now().UnixNano())
	}

	sess := s.store.Create(game.Options{Size: req.Size, FoodCount: req.Food, Seed: req.Seed, Clock: s.now})
	glog.V(1).Infof("session %s created: size=%d food=%d", sess.ID, req.Size, req.Food)

	var v View
	sess.With(func(g *game.Game) { v = View{ID: sess.ID, Snapshot: g.Snapshot()} })
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if errors.Is(err, ErrSessionNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	return sess, err == nil
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var v View
	sess.With(func(g *game.Game) { v = View{ID: sess.ID, Snapshot: g.Snapshot()} })
	writeJSON(w, http.StatusOK, v)
}

// deleteGame drops the session and ends its websocket streams.
func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	glog.V(1).Infof("session %s deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setDirection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req directionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Direction == nil {
		http.Error(w, "invalid direction", http.StatusBadRequest)
		return
	}

	var resp directionResponse
	sess.With(func(g *game.Game) {
		resp.Accepted = g.SetDirection(*req.Direction)
		resp.Current = g.Direction()
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) tick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var v TickView
	sess.With(func(g *game.Game) {
		res := g.Tick()
		snap := g.Snapshot()
		snap.Deltas, snap.Events = res.Deltas, res.Events
		v = TickView{View: View{ID: sess.ID, Snapshot: snap}, Result: res}
	})
	s.publish(sess, v.View)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var v View
	sess.With(func(g *game.Game) {
		deltas := g.Start()
		snap := g.Snapshot()
		snap.Deltas = deltas
		v = View{ID: sess.ID, Snapshot: snap}
	})
	s.publish(sess, v)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) publish(sess *Session, v View) {
	data, err := json.Marshal(v)
	if err != nil {
		glog.Errorf("session %s: encode view: %v", sess.ID, err)
		return
	}
	sess.hub.Publish(data)
}

// stream upgrades to a websocket, sends the current view and then every
// view published for the session until the client goes away.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Warningf("session %s: upgrade: %v", sess.ID, err)
		return
	}
	defer conn.Close()

	ch := sess.hub.Subscribe()
	defer sess.hub.Unsubscribe(ch)

	var first View
	sess.With(func(g *game.Game) { first = View{ID: sess.ID, Snapshot: g.Snapshot()} })
	if err := conn.WriteJSON(first); err != nil {
		return
	}

	// The read loop only notices the client closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				glog.V(1).Infof("session %s: write: %v", sess.ID, err)
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Warningf("write response: %v", err)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		glog.Infof("listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
