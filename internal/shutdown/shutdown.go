// Package shutdown runs long-lived goroutines in an errgroup and closes
// registered resources when the group context ends or the process receives
// SIGINT, SIGTERM or SIGQUIT.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

type closeFunc func(ctx context.Context) error

// ErrSignal is returned by Wait when the group stopped because of an OS signal.
var ErrSignal = errors.New("received signal from OS")

type Group struct {
	mu         sync.Mutex
	ctx        context.Context
	errGroup   *errgroup.Group
	closeFuncs []closeFunc
	timeout    time.Duration
	log        *slog.Logger
	signals    chan os.Signal
}

// New starts the signal listener and the closer. timeout bounds how long the
// registered close funcs may take in total.
func New(parent context.Context, timeout time.Duration, log *slog.Logger) *Group {
	g, ctx := errgroup.WithContext(parent)
	sg := &Group{
		ctx:      ctx,
		errGroup: g,
		timeout:  timeout,
		log:      log,
		signals:  make(chan os.Signal, 1),
	}
	signal.Notify(sg.signals, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	sg.Go(sg.listenOS)
	sg.Go(sg.closer)

	return sg
}

// Go runs f in the group. A panic in f is turned into an error.
func (g *Group) Go(f func() error) {
	g.errGroup.Go(func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic in shutdown group: %v", p)
				g.log.Error("panic in shutdown group", "error", err)
			}
		}()
		return f()
	})
}

// MustClose registers f to run once the group context is done.
func (g *Group) MustClose(f closeFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closeFuncs = append(g.closeFuncs, f)
}

// Wait blocks until every goroutine returned. A signal-triggered stop is
// not reported as an error.
func (g *Group) Wait() error {
	err := g.errGroup.Wait()
	signal.Stop(g.signals)
	if err != nil && !errors.Is(err, ErrSignal) {
		g.log.Error("shutdown group stopped with error", "error", err)
		return err
	}
	return nil
}

func (g *Group) listenOS() error {
	select {
	case <-g.ctx.Done():
		return nil
	case sig := <-g.signals:
		g.log.Info("received signal from OS", "signal", sig)
		return fmt.Errorf("%w: %s", ErrSignal, sig)
	}
}

func (g *Group) closer() error {
	<-g.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	return g.close(ctx)
}

func (g *Group) close(ctx context.Context) error {
	g.mu.Lock()
	funcs := append([]closeFunc(nil), g.closeFuncs...)
	g.mu.Unlock()

	var (
		msgs     []string
		complete = make(chan struct{})
	)
	go func() {
		defer close(complete)
		for _, f := range funcs {
			if err := f(ctx); err != nil {
				msgs = append(msgs, fmt.Sprintf("error closing: %v", err))
			}
		}
	}()

	select {
	case <-complete:
	case <-ctx.Done():
		return fmt.Errorf("timeout closing after %s", g.timeout)
	}

	if len(msgs) > 0 {
		return fmt.Errorf("errors closing: %s", strings.Join(msgs, ", "))
	}
	return nil
}
