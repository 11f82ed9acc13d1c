// Package rest exposes the mutating HTTP surface: room creation and join,
// gameplay actions, state reads, and the websocket upgrade route.
package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/codr1/santase-sub001/internal/config"
	"github.com/codr1/santase-sub001/internal/usecase"
	ws "github.com/codr1/santase-sub001/transport/websocket"
)

const timeout = 10 * time.Second

type Server struct {
	logger   *slog.Logger
	registry *usecase.Registry
	conf     *config.Config
	mux      *httprouter.Router
}

func New(logger *slog.Logger, registry *usecase.Registry, realtime *ws.Server, conf *config.Config) *Server {
	that := &Server{
		logger:   logger.With("component", "rest"),
		registry: registry,
		conf:     conf,
		mux:      httprouter.New(),
	}

	that.mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		that.logger.Error("panic in handler", "path", r.URL.Path, "panic", v)
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: "internal_error", Error: "internal server error"})
	}

	that.mux.GET("/healthz", that.handleHealth)

	that.mux.POST("/rooms", that.handleCreateRoom)
	that.mux.POST("/rooms/:code/join", that.handleJoinRoom)
	that.mux.POST("/rooms/:code/play", that.handlePlayCard)
	that.mux.POST("/rooms/:code/declare-marriage", that.handleDeclareMarriage)
	that.mux.POST("/rooms/:code/exchange-nine", that.handleExchangeNine)
	that.mux.POST("/rooms/:code/close-talon", that.handleCloseTalon)
	that.mux.POST("/rooms/:code/declare-66", that.handleDeclareSixtySix)
	that.mux.POST("/rooms/:code/next-round", that.handleNextRound)

	that.mux.GET("/rooms/:code/state", that.handleState)
	that.mux.GET("/rooms/:code/qr", that.handleQR)
	that.mux.GET("/rooms/:code/ws", realtime.Handle)

	return that
}

func (that *Server) Handler() http.Handler {
	return that.mux
}

// Start - serves until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.mux,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		IdleTimeout:       10 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		that.logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}

// realIP - client address for rate limiting, preferring proxy headers when
// they carry a parseable address.
func realIP(r *http.Request) string {
	host, _, _ := net.SplitHostPort(r.RemoteAddr)

	if ip := r.Header.Get("X-Real-IP"); ip != "" && net.ParseIP(ip) != nil {
		host = ip
	}

	return host
}

// bearerToken - seat token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")

	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return token
	}

	return ""
}
