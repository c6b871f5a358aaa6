// Package webapi provides a web API for the classifier: classify text, learn new examples
// and manage samples.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	cache "github.com/go-pkgz/expirable-cache/v3"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/substrbayes/nbclass/app/trainer"
	"github.com/substrbayes/nbclass/lib/nbayes"
)

//go:generate moq --out mocks/trainer.go --pkg mocks --with-resets --skip-ensure . Trainer

// Server is a web API server.
type Server struct {
	Config
	cache    cache.Cache[string, trainer.Result]
	auditMu  sync.Mutex
	auditEnc *json.Encoder
}

// Config defines server parameters
type Config struct {
	Version    string        // version to show in /ping
	ListenAddr string        // listen address
	Trainer    Trainer       // classifier holder
	AuthUser   string        // basic auth user, "nbclass" if empty
	AuthPasswd string        // basic auth password, no auth if empty
	RateLimit  float64       // max requests per second per client, 50 if not set
	CacheTTL   time.Duration // ttl of cached classifications, no cache if 0
	CacheSize  int           // max number of cached classifications
	AuditLog   io.Writer     // optional writer for classification records, json per line
}

// Trainer is a classifier holder interface.
type Trainer interface {
	Classify(text string) (trainer.Result, error)
	Train(text string, class int) error
	Forget(ctx context.Context, text string, class int) error
	Reload(ctx context.Context) (trainer.LoadResult, error)
	Samples(ctx context.Context) ([]trainer.ClassSamples, error)
	Stats() trainer.Stats
	ClassIndex(name string) (int, error)
	Generation() uint64
}

// sampleRequest identifies a sample and its class, either by index or by name
type sampleRequest struct {
	Text  string `json:"text"`
	Class *int   `json:"class,omitempty"`
	Name  string `json:"name,omitempty"`
}

// auditRecord is a single classification written to the audit log
type auditRecord struct {
	Time      time.Time `json:"time"`
	Remote    string    `json:"remote"`
	Text      string    `json:"text"`
	Class     int       `json:"class"`
	Name      string    `json:"name"`
	Posterior float64   `json:"posterior"`
}

// NewServer creates a new web API server.
func NewServer(config Config) *Server {
	res := &Server{Config: config}
	if res.AuthUser == "" {
		res.AuthUser = "nbclass"
	}
	if res.RateLimit <= 0 {
		res.RateLimit = 50
	}
	if res.CacheTTL > 0 {
		size := res.CacheSize
		if size <= 0 {
			size = 1000
		}
		res.cache = cache.NewCache[string, trainer.Result]().WithMaxKeys(size).WithTTL(res.CacheTTL)
	}
	if res.AuditLog != nil {
		res.auditEnc = json.NewEncoder(res.AuditLog)
	}
	return res
}

// Run starts server and accepts requests, stops on ctx cancellation.
func (s *Server) Run(ctx context.Context) error {
	if s.AuthPasswd != "" {
		log.Printf("[INFO] basic auth enabled for webapi server")
	} else {
		log.Printf("[WARN] basic auth disabled, access to webapi is not protected")
	}

	srv := &http.Server{Addr: s.ListenAddr, Handler: s.routes(), ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout: 5 * time.Second, WriteTimeout: 30 * time.Second}
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
	router.Use(rest.Recoverer(lgr.Default()))
	router.Use(rest.AppInfo("nbclass", "substrbayes", s.Version), rest.Ping)
	router.Use(s.rateLimiter())
	router.Use(rest.SizeLimit(1024 * 1024)) // 1M max request size

	router.Group().Route(func(api *routegroup.Bundle) {
		api.Use(s.authMiddleware(rest.BasicAuthWithUserPasswd(s.AuthUser, s.AuthPasswd)))
		api.HandleFunc("POST /classify", s.classifyHandler)      // classify a text
		api.HandleFunc("POST /train", s.trainHandler)            // learn a labelled text
		api.HandleFunc("GET /samples", s.getSamplesHandler)      // get learned samples
		api.HandleFunc("PUT /samples", s.reloadSamplesHandler)   // reload samples
		api.HandleFunc("DELETE /samples", s.deleteSampleHandler) // forget a learned sample
		api.HandleFunc("GET /stats", s.statsHandler)             // classifier stats
	})
	return router
}

// classifyHandler handles POST /classify request.
// it gets a text from request body and returns the most probable class with posteriors.
func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		log.Printf("[WARN] can't decode request: %v", err)
		return
	}

	key := fmt.Sprintf("%d:%s", s.Trainer.Generation(), req.Text)
	if s.cache != nil {
		if res, ok := s.cache.Get(key); ok {
			s.audit(r, res)
			rest.RenderJSON(w, res)
			return
		}
	}

	res, err := s.Trainer.Classify(req.Text)
	if err != nil {
		w.WriteHeader(statusFor(err))
		rest.RenderJSON(w, rest.JSON{"error": "can't classify", "details": err.Error()})
		return
	}
	if s.cache != nil {
		s.cache.Set(key, res, s.CacheTTL)
	}
	s.audit(r, res)
	rest.RenderJSON(w, res)
}

// trainHandler handles POST /train request. It learns a text as an example of the class.
func (s *Server) trainHandler(w http.ResponseWriter, r *http.Request) {
	req, class, ok := s.decodeSample(w, r)
	if !ok {
		return
	}
	if err := s.Trainer.Train(req.Text, class); err != nil {
		w.WriteHeader(statusFor(err))
		rest.RenderJSON(w, rest.JSON{"error": "can't train", "details": err.Error()})
		return
	}
	s.purgeCache()
	rest.RenderJSON(w, rest.JSON{"trained": true, "class": class, "text": req.Text})
}

// deleteSampleHandler handles DELETE /samples request. It removes a learned sample and reloads samples.
func (s *Server) deleteSampleHandler(w http.ResponseWriter, r *http.Request) {
	req, class, ok := s.decodeSample(w, r)
	if !ok {
		return
	}
	if err := s.Trainer.Forget(r.Context(), req.Text, class); err != nil {
		w.WriteHeader(statusFor(err))
		rest.RenderJSON(w, rest.JSON{"error": "can't delete sample", "details": err.Error()})
		return
	}
	s.purgeCache()
	rest.RenderJSON(w, rest.JSON{"deleted": true, "class": class, "text": req.Text})
}

// getSamplesHandler handles GET /samples request. It returns learned samples of all classes.
func (s *Server) getSamplesHandler(w http.ResponseWriter, r *http.Request) {
	samples, err := s.Trainer.Samples(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't get samples", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"samples": samples})
}

// reloadSamplesHandler handles PUT /samples request. It rebuilds the classifier from all samples.
func (s *Server) reloadSamplesHandler(w http.ResponseWriter, r *http.Request) {
	lr, err := s.Trainer.Reload(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't reload samples", "details": err.Error()})
		return
	}
	s.purgeCache()
	rest.RenderJSON(w, rest.JSON{"reloaded": true, "loaded": lr, "total": lr.Total()})
}

func (s *Server) statsHandler(w http.ResponseWriter, _ *http.Request) {
	rest.RenderJSON(w, s.Trainer.Stats())
}

// decodeSample decodes sample request and resolves the class, writes error response if failed
func (s *Server) decodeSample(w http.ResponseWriter, r *http.Request) (req sampleRequest, class int, ok bool) {
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		return req, 0, false
	}
	switch {
	case req.Class != nil:
		class = *req.Class
	case req.Name != "":
		idx, err := s.Trainer.ClassIndex(req.Name)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			rest.RenderJSON(w, rest.JSON{"error": "unknown class", "details": err.Error()})
			return req, 0, false
		}
		class = idx
	default:
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "class or name is required"})
		return req, 0, false
	}
	return req, class, true
}

func (s *Server) purgeCache() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// audit writes classification record to the audit log, if enabled
func (s *Server) audit(r *http.Request, res trainer.Result) {
	if s.auditEnc == nil {
		return
	}
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	rec := auditRecord{Time: time.Now(), Remote: remote, Text: res.Text, Class: res.Class, Name: res.Name,
		Posterior: res.Posterior}
	s.auditMu.Lock()
	defer s.auditMu.Unlock()
	if err := s.auditEnc.Encode(rec); err != nil {
		log.Printf("[WARN] can't write audit record: %v", err)
	}
}

func (s *Server) rateLimiter() func(http.Handler) http.Handler {
	lmt := tollbooth.NewLimiter(s.RateLimit, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr", IndexFromRight: 0})
	lmt.SetMessage(`{"error":"too many requests"}`).SetMessageContentType("application/json")
	return func(next http.Handler) http.Handler {
		return tollbooth.LimitHandler(lmt, next)
	}
}

func (s *Server) authMiddleware(mw func(next http.Handler) http.Handler) func(next http.Handler) http.Handler {
	if s.AuthPasswd == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return func(next http.Handler) http.Handler {
		return mw(next)
	}
}

// statusFor maps trainer and classifier errors to http status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, trainer.ErrEmptyText), errors.Is(err, trainer.ErrUnknownClass),
		errors.Is(err, nbayes.ErrInvalidClass):
		return http.StatusBadRequest
	case errors.Is(err, nbayes.ErrNoTrainingData):
		return http.StatusConflict
	case errors.Is(err, nbayes.ErrDegeneratePosterior):
		return http.StatusUnprocessableEntity
	case errors.Is(err, trainer.ErrSampleNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
