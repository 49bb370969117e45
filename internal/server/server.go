package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/udisondev/lurkgo/internal/config"
	"github.com/udisondev/lurkgo/internal/game"
)

// Server accepts client connections and runs a session per connection.
// All gameplay goes through the game loop; the server owns only the
// listener and the per-connection goroutines.
type Server struct {
	cfg  config.Server
	loop *game.Loop

	nextID atomic.Uint64

	listener net.Listener
	mu       sync.Mutex
}

func New(cfg config.Server, loop *game.Loop) *Server {
	return &Server{cfg: cfg, loop: loop}
}

// Addr возвращает адрес, на котором слушает сервер.
// Возвращает nil если сервер ещё не запущен.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close закрывает listener и останавливает сервер.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// Run begins listening on addr for client connections.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	return s.Serve(ctx, ln)
}

// Serve принимает готовый listener и запускает accept loop.
// Используется для тестирования с произвольным listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("server started", "address", ln.Addr())
		s.acceptLoop(ctx, &wg, ln)
	}()

	wg.Wait()

	return nil
}

func (s *Server) acceptLoop(ctx context.Context, wg *sync.WaitGroup, ln net.Listener) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := ln.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				slog.Error("Failed to accept new connection", "error", err)
				continue
			}
			client := NewClient(s.nextID.Add(1), conn, s.cfg.SendQueueSize, s.cfg.WriteTimeout)
			slog.Info("client connected", "client", client.IP(), "conn", client.ID())
			wg.Add(1)
			go func() {
				defer wg.Done()
				client.writePump(ctx)
			}()
			wg.Add(1)
			go func() {
				defer wg.Done()
				NewSession(client, s.loop).Run(ctx)
			}()
		}
	}
}
