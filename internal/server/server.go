package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	srv *http.Server
	log hclog.Logger
}

func New(addr string, h http.Handler, log hclog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			// o modelo pode demorar; a escrita precisa cobrir a chamada inteira.
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  90 * time.Second,
			ErrorLog: log.StandardLogger(&hclog.StandardLoggerOptions{
				InferLevels: true,
			}),
		},
		log: log,
	}
}

// Run escuta em Addr até ctx ser cancelado e então drena as conexões.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("servidor ouvindo", "addr", ln.Addr().String())
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("encerrando servidor", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
