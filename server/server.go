// Package server implements the donation endpoint: a stateless handler for
// the x402 challenge, verification, and settlement flow of one donation.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vorpalengineering/cryptocoffee-go/facilitator"
	"github.com/vorpalengineering/cryptocoffee-go/notify"
	"github.com/vorpalengineering/cryptocoffee-go/types"
)

// Server is the donation endpoint service. Each request is handled
// independently; the only state is configuration loaded at startup.
type Server struct {
	config      *Config
	network     types.NetworkConfig
	facilitator facilitator.Facilitator
	notifier    notify.Notifier
	router      *gin.Engine
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithFacilitator overrides the facilitator client.
func WithFacilitator(f facilitator.Facilitator) ServerOption {
	return func(s *Server) {
		s.facilitator = f
	}
}

// WithNotifier overrides the donation notifier.
func WithNotifier(n notify.Notifier) ServerOption {
	return func(s *Server) {
		s.notifier = n
	}
}

// NewServer creates the donation endpoint service from validated config.
func NewServer(config *Config, opts ...ServerOption) (*Server, error) {
	network, err := types.GetNetwork(config.Donation.Network)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:      config,
		network:     network,
		facilitator: facilitator.NewClient(config.Donation.FacilitatorURL),
		notifier:    notify.Noop{},
	}

	if config.Email.Enabled() {
		s.notifier = notify.NewSMTPNotifier(config.Email.Host, config.Email.Port,
			config.Email.User, config.Email.Password, config.Email.From, config.Email.To)
		log.Printf("Email notifications enabled (to %s)", config.Email.To)
	}

	for _, opt := range opts {
		opt(s)
	}

	if config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(corsMiddleware(config.CORS.AllowedOrigins))
	router.POST("/donate", s.handleDonate)
	router.GET("/health", s.handleHealth)
	router.GET("/", s.handleRoot)
	s.router = router

	return s, nil
}

// Router exposes the HTTP handler, used by tests and platform adapters.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Donation endpoint listening on %s (network %s, payout %s)",
			addr, s.network.Name, s.config.Donation.WalletAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"network":       s.network.Name,
		"walletAddress": s.config.Donation.WalletAddress,
	})
}

func (s *Server) handleRoot(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"service": "CryptoCoffee Donation Server",
		"network": s.network.Name,
		"endpoints": gin.H{
			"donate": "POST /donate",
			"health": "GET /health",
		},
	})
}
