// Package webapi provides a web API for scam checks, detections and stats.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/scam-spotter/app/bot"
	"github.com/umputun/scam-spotter/app/storage"
	"github.com/umputun/scam-spotter/lib/scamcheck"
)

//go:generate moq --out mocks/checker.go --pkg mocks --with-resets --skip-ensure . Checker
//go:generate moq --out mocks/detections.go --pkg mocks --with-resets --skip-ensure . Detections
//go:generate moq --out mocks/stats.go --pkg mocks --with-resets --skip-ensure . Stats
//go:generate moq --out mocks/recent.go --pkg mocks --with-resets --skip-ensure . Recent

const (
	authUser     = "scam-spotter"
	defaultLimit = 50
	maxLimit     = 1000
)

// Server is a web API server.
type Server struct {
	Config
}

// Config defines server parameters
type Config struct {
	Version    string     // version to show in headers
	ListenAddr string     // listen address
	Checker    Checker    // scam filter, checks items and reloads corpus
	Detections Detections // stored detections
	Stats      Stats      // stored counters
	Recent     Recent     // recent checks kept in memory
	Metrics    *Metrics   // prometheus metrics, /metrics disabled if nil
	AuthPasswd string     // basic auth password for user "scam-spotter"
	RateLimit  float64    // requests per second per ip, unlimited if 0
}

// Checker checks items and reloads corpus with templates
type Checker interface {
	OnMessage(ctx context.Context, msg bot.Message) (bot.Response, error)
	Reload() error
	Templates() []string
}

// Detections reads stored detections
type Detections interface {
	Read(ctx context.Context, limit int) ([]scamcheck.Verdict, error)
	FindByItem(ctx context.Context, itemID string) (*scamcheck.Verdict, error)
}

// Stats reads stored counters
type Stats interface {
	All(ctx context.Context) (storage.StatsInfo, error)
}

// Recent returns the latest verdicts
type Recent interface {
	LastVerdicts(n int) []scamcheck.Verdict
}

// CheckRequest is a body of POST /check
type CheckRequest struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Images   []string `json:"images"`
	Author   string   `json:"author"`
	SelfPost bool     `json:"self_post"`
	Link     string   `json:"link"`
}

// CheckResponse is a result of POST /check
type CheckResponse struct {
	Scam     bool              `json:"scam"`
	Verdict  scamcheck.Verdict `json:"verdict"`
	Reply    string            `json:"reply,omitempty"`
	Template string            `json:"template,omitempty"`
	Report   bool              `json:"report"`
	Ignored  bool              `json:"ignored"`
}

// NewServer creates a new web API server.
func NewServer(config Config) *Server {
	return &Server{Config: config}
}

// Run starts server and accepts requests until context is canceled.
func (s *Server) Run(ctx context.Context) error {
	if s.AuthPasswd != "" {
		log.Printf("[INFO] basic auth enabled for webapi server")
	} else {
		log.Printf("[WARN] basic auth disabled, access to webapi is not protected")
	}

	srv := &http.Server{Addr: s.ListenAddr, Handler: s.routes(), ReadTimeout: 5 * time.Second,
		WriteTimeout: 60 * time.Second, IdleTimeout: 30 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown webapi server: %v", err)
		} else {
			log.Printf("[INFO] webapi server stopped")
		}
	}()

	log.Printf("[INFO] start webapi server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()), rest.Throttle(1000), rest.AppInfo("scam-spotter", "umputun", s.Version),
		rest.Ping, rest.SizeLimit(1024*1024))
	if s.RateLimit > 0 {
		lmt := tollbooth.NewLimiter(s.RateLimit, nil)
		lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})
		router.Use(func(next http.Handler) http.Handler { return tollbooth.LimitHandler(lmt, next) })
	}

	router.Group().Route(func(api *routegroup.Bundle) {
		api.Use(s.authMiddleware(rest.BasicAuthWithUserPasswd(authUser, s.AuthPasswd)))
		api.HandleFunc("POST /check", s.checkHandler)
		api.HandleFunc("POST /reload", s.reloadHandler)
		api.HandleFunc("GET /detections", s.detectionsHandler)
		api.HandleFunc("GET /detections/{id}", s.detectionHandler)
		api.HandleFunc("GET /recent", s.recentHandler)
		api.HandleFunc("GET /stats", s.statsHandler)
		if s.Metrics != nil {
			api.Handle("GET /metrics", s.Metrics.Handler())
		}
	})
	return router
}

// checkHandler handles POST /check request, checks the item and returns the verdict with the reply
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	req := CheckRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[WARN] can't decode request: %v", err)
		renderError(w, http.StatusBadRequest, "can't decode request", err)
		return
	}

	msg := bot.Message{ID: req.ID, Title: req.Title, Text: req.Body, Images: req.Images, SelfPost: req.SelfPost,
		Link: req.Link, From: bot.User{DisplayName: req.Author}, Sent: time.Now()}
	if msg.Empty() {
		renderError(w, http.StatusBadRequest, "nothing to check", errors.New("title, body and images are empty"))
		return
	}

	resp, err := s.Checker.OnMessage(r.Context(), msg)
	if err != nil {
		if s.Metrics != nil {
			s.Metrics.Failed()
		}
		renderError(w, http.StatusInternalServerError, "can't check item", err)
		return
	}
	rest.RenderJSON(w, CheckResponse{Scam: resp.Verdict.Scam(), Verdict: resp.Verdict, Reply: resp.Text,
		Template: resp.Template, Report: resp.Report, Ignored: resp.Ignored})
}

// reloadHandler handles POST /reload request, reloads corpus and templates
func (s *Server) reloadHandler(w http.ResponseWriter, _ *http.Request) {
	if err := s.Checker.Reload(); err != nil {
		renderError(w, http.StatusInternalServerError, "can't reload", err)
		return
	}
	rest.RenderJSON(w, rest.JSON{"reloaded": true, "templates": s.Checker.Templates()})
}

// detectionsHandler handles GET /detections?limit=N request, newest first
func (s *Server) detectionsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, "limit")
	if err != nil {
		renderError(w, http.StatusBadRequest, "bad limit", err)
		return
	}
	res, err := s.Detections.Read(r.Context(), limit)
	if err != nil {
		renderError(w, http.StatusInternalServerError, "can't read detections", err)
		return
	}
	rest.RenderJSON(w, res)
}

// detectionHandler handles GET /detections/{id} request, returns the latest detection of the item
func (s *Server) detectionHandler(w http.ResponseWriter, r *http.Request) {
	v, err := s.Detections.FindByItem(r.Context(), r.PathValue("id"))
	if err != nil {
		renderError(w, http.StatusNotFound, "can't find detection", err)
		return
	}
	rest.RenderJSON(w, v)
}

// recentHandler handles GET /recent?n=N request, returns checks kept in memory, clean ones included
func (s *Server) recentHandler(w http.ResponseWriter, r *http.Request) {
	n, err := limitParam(r, "n")
	if err != nil {
		renderError(w, http.StatusBadRequest, "bad n", err)
		return
	}
	rest.RenderJSON(w, s.Recent.LastVerdicts(n))
}

// statsHandler handles GET /stats request
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	info, err := s.Stats.All(r.Context())
	if err != nil {
		renderError(w, http.StatusInternalServerError, "can't get stats", err)
		return
	}
	rest.RenderJSON(w, info)
}

func (s *Server) authMiddleware(mw func(next http.Handler) http.Handler) func(next http.Handler) http.Handler {
	if s.AuthPasswd == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return mw
}

// limitParam parses positive int query param, default used if missing and large values are capped
func limitParam(r *http.Request, name string) (int, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultLimit, nil
	}
	res, err := strconv.Atoi(val)
	if err != nil || res <= 0 {
		return 0, fmt.Errorf("%s should be a positive number, got %q", name, val)
	}
	return min(res, maxLimit), nil
}

func renderError(w http.ResponseWriter, code int, msg string, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	rest.RenderJSON(w, rest.JSON{"error": msg, "details": err.Error()})
}
