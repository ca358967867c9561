package cmd

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/bep/debounce"
	charmlog "github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/mux"
	"github.com/jsphweid/markovmidi/chord"
	"github.com/jsphweid/markovmidi/melody"
	"github.com/jsphweid/markovmidi/model"
	"github.com/jsphweid/markovmidi/player"
	"github.com/jsphweid/markovmidi/util"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const (
	defaultSteps = 16
	maxSteps     = 1024
)

func init() {
	flags := serveCmd.Flags()
	flags.String("addr", cfg.Addr, "address to listen on")
	flags.Bool("watch", false, "rebuild the model when the melody file changes")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve <melody>",
	Short: "Serves the model built from a melody over http",
	Long: `Serves the model built from a melody over http.
GET /model describes it, GET /chords lists the extracted chords and
GET /generate?steps=N&seed=S samples N chords without playing them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Addr, _ = flags.GetString("addr")
		}
		if flags.Changed("watch") {
			cfg.Watch, _ = flags.GetBool("watch")
		}
		return serve(cmd.Context(), args[0])
	},
}

type server struct {
	mu     sync.RWMutex
	melody *melody.Melody
	logger *charmlog.Logger
}

func newServer(m *melody.Melody, logger *charmlog.Logger) *server {
	return &server{melody: m, logger: logger}
}

func (s *server) current() *melody.Melody {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.melody
}

func (s *server) swap(m *melody.Melody) {
	s.mu.Lock()
	s.melody = m
	s.mu.Unlock()
}

func (s *server) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/model", s.HandleModel).Methods("GET")
	router.HandleFunc("/chords", s.HandleChords).Methods("GET")
	router.HandleFunc("/generate", s.HandleGenerate).Methods("GET")
	return cors.Default().Handler(router)
}

func (s *server) HandleModel(w http.ResponseWriter, r *http.Request) {
	m := s.current()
	res := model.ModelResponse{
		Id:      m.Id.String(),
		Melody:  filepath.Base(m.Path),
		Order:   m.OrderName(),
		Groups:  len(m.Groups),
		Chords:  len(m.Chords),
		BuiltAt: m.BuiltAt.Format(time.RFC3339),
	}
	if m.Model != nil {
		stats := m.Model.Stats()
		res.Keys = stats.Keys
		res.Edges = stats.Edges
		res.Start = stats.Start
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) HandleChords(w http.ResponseWriter, r *http.Request) {
	m := s.current()
	res := make([]model.ChordResult, 0, len(m.Chords))
	for _, c := range m.Chords {
		res = append(res, chordResult(c, c.Wait))
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	steps, err := intParam(r, "steps", defaultSteps)
	if err != nil || steps < 1 || steps > maxSteps {
		writeError(w, http.StatusBadRequest, errors.Errorf("steps must be a number in [1, %d]", maxSteps))
		return
	}
	seed, err := intParam(r, "seed", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("seed must be a number"))
		return
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m := s.current()
	res := model.GenerateResponse{Id: m.Id.String(), Chords: make([]model.ChordResult, 0, steps)}
	if m.Model == nil {
		// the original has nothing to sample, so it is looped
		if len(m.Chords) == 0 {
			writeError(w, http.StatusConflict, errors.New("melody has no chords"))
			return
		}
		for i := 0; i < int(steps); i++ {
			c := m.Chords[i%len(m.Chords)]
			res.Chords = append(res.Chords, chordResult(c, c.Wait))
		}
		writeJSON(w, http.StatusOK, res)
		return
	}

	src, err := player.SourceFor(m.Model, s.logger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	rnd := rand.New(rand.NewSource(seed))
	for i := 0; i < int(steps); i++ {
		c, wait := src.Next(rnd)
		res.Chords = append(res.Chords, chordResult(c, wait))
	}
	writeJSON(w, http.StatusOK, res)
}

// reload rebuilds the melody from disk. The previous model keeps serving when
// the rebuild fails.
func (s *server) reload() {
	old := s.current()
	m, err := melody.Load(old.Path, old.Order, cfg.Quantize)
	if err != nil {
		s.logger.Error("reload failed, keeping the previous model", "path", old.Path, "err", err)
		return
	}
	s.swap(m)
	s.logger.Info("reloaded", "path", m.Path, "chords", len(m.Chords), "id", m.Id)
}

// watch rebuilds the melody once its file settles after a change.
func (s *server) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "could not start watcher")
	}
	path := s.current().Path
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "could not watch %v", path)
	}

	debounced := debounce.New(500 * time.Millisecond)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					s.logger.Debug("melody changed", "op", event.Op)
					debounced(s.reload)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("watcher", "err", err)
			}
		}
	}()
	return nil
}

func serve(ctx context.Context, arg string) error {
	m, err := loadMelody(arg)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s := newServer(m, logger.WithPrefix("serve"))
	if cfg.Watch {
		if err := s.watch(ctx); err != nil {
			return err
		}
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: s.Router()}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	logger.Info("listening", "addr", cfg.Addr, "watch", cfg.Watch)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server stopped")
	}
	return nil
}

func chordResult(c model.Chord, wait time.Duration) model.ChordResult {
	notes := make([]uint8, 0, len(c.Notes))
	for _, n := range c.Notes {
		notes = append(notes, n.Key)
	}
	c.Wait = 0
	return model.ChordResult{
		Key:      chord.CreateChordKey(c),
		Duration: util.Seconds(c.Duration),
		Wait:     util.Seconds(wait),
		Notes:    notes,
	}
}

func intParam(r *http.Request, name string, def int64) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}
