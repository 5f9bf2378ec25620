package seoblog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Runtime string

const (
	RuntimeLambda Runtime = "lambda"
	RuntimeHTTP   Runtime = "http"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	engine     *gin.Engine
	runtime    Runtime
	basePath   string
	corsConfig *cors.Config
}

// New returns a server that trusts no proxy headers; see SetTrustedProxies.
func New() *Server {
	engine := gin.New()
	_ = engine.SetTrustedProxies(nil)
	engine.Use(gin.Recovery())
	return &Server{
		engine:  engine,
		runtime: RuntimeHTTP,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Use(middleware ...gin.HandlerFunc) {
	s.engine.Use(middleware...)
}

// SetTrustedProxies lists the proxy addresses or CIDRs whose
// X-Forwarded-For headers ClientIP honours.
func (s *Server) SetTrustedProxies(proxies []string) error {
	return s.engine.SetTrustedProxies(proxies)
}

func (s *Server) SetBasePath(path string) {
	s.basePath = path
}

func (s *Server) SetRuntime(runtime Runtime) {
	s.runtime = runtime
}

func (s *Server) Group(path string, middleware ...gin.HandlerFunc) *ControllerGroup {
	return &ControllerGroup{group: s.engine.Group(s.basePath+path, middleware...)}
}

func (s *Server) RegisterController(path string, controller Controller, middleware ...gin.HandlerFunc) {
	controller.Register(s.Group(path, middleware...))
}

// Run serves on port until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, port int) error {
	if s.runtime == RuntimeLambda {
		return s.startLambda()
	}
	return s.startHTTP(ctx, port)
}

func (s *Server) startHTTP(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", port).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) startLambda() error {
	ginLambda := ginadapter.New(s.engine)

	handler := func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return ginLambda.ProxyWithContext(ctx, req)
	}

	lambda.Start(handler)
	return nil
}

func (s *Server) WithCORS(config *cors.Config) *Server {
	s.corsConfig = config
	s.engine.Use(cors.New(*config))
	return s
}

func (s *Server) DefaultCORS() *Server {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.MaxAge = 12 * time.Hour
	return s.WithCORS(&config)
}

// CustomCORS allows credentialed requests from the listed origins so the
// token cookie survives cross-origin calls from the client.
func (s *Server) CustomCORS(allowOrigins []string, allowMethods []string, allowHeaders []string, maxAge time.Duration) *Server {
	config := cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     allowMethods,
		AllowHeaders:     allowHeaders,
		AllowCredentials: true,
		MaxAge:           maxAge,
	}
	return s.WithCORS(&config)
}
