package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/evergreen-ci/gimlet"
	"github.com/mongodb/amboy"
	"github.com/mongodb/grip"
	"github.com/orchestr8-platform/orchestr8"
	"github.com/orchestr8-platform/orchestr8/rest/data"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

type Service struct {
	Port        int
	Prefix      string
	Environment orchestr8.Environment

	// CertFile and KeyFile, when both set, switch the listener to TLS.
	CertFile string
	KeyFile  string

	// internal settings
	sc    data.Connector
	queue amboy.Queue
	app   *gimlet.APIApp
}

func (s *Service) Validate() error {
	if s.Environment == nil {
		return errors.New("must specify an environment")
	}

	if s.sc == nil {
		s.sc = data.CreateNewDBConnector(s.Environment)
	}

	if s.queue == nil {
		s.queue = s.Environment.GetRemoteQueue()
		if s.queue == nil {
			return errors.New("no queue defined")
		}
	}

	if (s.CertFile == "") != (s.KeyFile == "") {
		return errors.New("must specify both a certificate and a key for TLS")
	}

	if s.app == nil {
		s.app = gimlet.NewApp()
	}

	if s.Port == 0 {
		s.Port = 4101
	}

	if err := s.app.SetPort(s.Port); err != nil {
		return errors.WithStack(err)
	}

	if s.Prefix != "" {
		s.app.SetPrefix(s.Prefix)
	}

	s.app.SetDefaultVersion(1)

	return nil
}

func (s *Service) Start(ctx context.Context) error {
	if s.queue == nil || s.app == nil {
		return errors.New("application is not valid")
	}

	s.addMiddleware()
	s.addRoutes()

	if err := s.queue.Start(ctx); err != nil {
		return errors.Wrap(err, "problem starting queue")
	}

	if err := s.app.Resolve(); err != nil {
		return errors.Wrap(err, "problem resolving routes")
	}

	if s.CertFile != "" {
		return s.serveTLS(ctx)
	}

	return s.app.Run(ctx)
}

// serveTLS runs the resolved application behind a TLS listener. The
// gimlet runner only does plain TCP, so the server loop lives here.
func (s *Service) serveTLS(ctx context.Context) error {
	handler, err := s.app.Handler()
	if err != nil {
		return errors.Wrap(err, "problem getting handler")
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Port),
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		grip.Warning(srv.Shutdown(sctx))
	}()

	grip.Noticef("starting TLS service on :%d", s.Port)
	err = srv.ListenAndServeTLS(s.CertFile, s.KeyFile)
	if err == http.ErrServerClosed {
		return nil
	}

	return errors.WithStack(err)
}

func (s *Service) addMiddleware() {
	s.app.AddMiddleware(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"*"},
	}))
}

func (s *Service) addRoutes() {
	checkUser := NewAuthenticationMiddleware(s.sc)
	checkAdmin := NewAdminRequiredMiddleware()

	s.app.AddRoute("/status").Version(1).Get().Handler(s.statusHandler)

	s.app.AddRoute("/login").Version(1).Post().RouteHandler(makeLogin(s.sc))
	s.app.AddRoute("/register").Version(1).Post().RouteHandler(makeRegisterUser(s.sc))
	s.app.AddRoute("/register").Version(1).Delete().Wrap(checkUser, checkAdmin).RouteHandler(makeDeleteUser(s.sc))
	s.app.AddRoute("/users").Version(1).Get().Wrap(checkUser, checkAdmin).RouteHandler(makeGetUsers(s.sc))

	s.app.AddRoute("/pod").Version(1).Post().Wrap(checkUser).RouteHandler(makeCreatePod(s.sc))
	s.app.AddRoute("/pod").Version(1).Get().Wrap(checkUser).RouteHandler(makeGetPods(s.sc))
	s.app.AddRoute("/volume").Version(1).Post().Wrap(checkUser).RouteHandler(makeCreateVolume(s.sc))
	s.app.AddRoute("/volume").Version(1).Get().Wrap(checkUser).RouteHandler(makeGetVolumes(s.sc))

	s.app.AddRoute("/gpu").Version(1).Get().Wrap(checkUser).RouteHandler(makeGetGPUs(s.sc))
	s.app.AddRoute("/stat").Version(1).Get().Wrap(checkUser).RouteHandler(makeGetHostStats(s.sc))

	s.app.AddRoute("/docker/token").Version(1).Get().Wrap(checkUser).RouteHandler(makeGetDockerToken(s.sc))
	s.app.AddRoute("/docker/search").Version(1).Get().Wrap(checkUser).RouteHandler(makeSearchDockerImages(s.sc))
}

////////////////////////////////////////////////////////////////////////
//
// GET /status

type StatusResponse struct {
	Revision     string `json:"revision"`
	QueueRunning bool   `json:"queue_running"`
}

func (s *Service) statusHandler(w http.ResponseWriter, r *http.Request) {
	resp := &StatusResponse{
		Revision:     orchestr8.BuildRevision,
		QueueRunning: s.queue.Info().Started,
	}

	gimlet.WriteJSON(w, resp)
}
