// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

// Package services wraps long-running components as suture services.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// defaultDrainTimeout bounds graceful shutdown when no timeout is configured.
const defaultDrainTimeout = 10 * time.Second

// HTTPServer matches *http.Server's lifecycle methods so the wrapper can be
// tested with mocks.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// APIService runs the feed API's http.Server under suture: ListenAndServe
// in a goroutine, graceful Shutdown when the supervisor cancels the context.
type APIService struct {
	server       HTTPServer
	drainTimeout time.Duration
}

// NewAPIService wraps server. A drainTimeout <= 0 falls back to the
// package default at serve time.
func NewAPIService(server HTTPServer, drainTimeout time.Duration) *APIService {
	return &APIService{server: server, drainTimeout: drainTimeout}
}

// Serve implements suture.Service. Returns nil on graceful shutdown;
// http.ErrServerClosed is treated as expected.
func (s *APIService) Serve(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		if err := s.drain(); err != nil {
			return err
		}
		<-serveErr
		return ctx.Err()
	}
}

// drain shuts the server down under its own deadline; the supervisor's
// context is already canceled by the time it runs.
func (s *APIService) drain() error {
	timeout := s.drainTimeout
	if timeout <= 0 {
		timeout = defaultDrainTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

// String identifies the service in supervisor log messages.
func (s *APIService) String() string {
	return "feed-api"
}
