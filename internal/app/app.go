// Package app runs the service: it owns the lifecycle phase and the web
// server, and stops both when asked to exit.
package app

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rook-computer/starmap/internal/state"
	"github.com/rook-computer/starmap/internal/web"
)

type App struct {
	Store  *state.Store
	Web    web.Server
	Logger Logger

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(store *state.Store, webServer web.Server) *App {
	return &App{Store: store, Web: webServer, Logger: NoopLogger{}, exitCh: make(chan error, 1)}
}

// Exit requests the app to stop running. Only the first call counts.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start brings the server up and blocks until ctx ends or Exit is called.
// A cancelled context is a normal shutdown and returns nil.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.Store == nil {
		app.Store = state.NewStore()
	}
	if app.Web == nil {
		app.Web = &web.NoopServer{}
	}

	app.Store.SetPhase(state.BOOTING)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := app.Web.Start(runCtx); err != nil {
		app.Logger.Errorf("app", "web start error: %v", err)
		return err
	}
	app.Store.SetPhase(state.READY)
	app.Logger.Infof("app", "ready")

	var err error
	select {
	case <-ctx.Done():
		if !errors.Is(ctx.Err(), context.Canceled) {
			err = ctx.Err()
		}
	case err = <-app.exitCh:
	}

	app.Store.SetPhase(state.STOPPING)
	app.Logger.Infof("app", "stopping")
	if stopErr := app.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	return err
}

// Stop shuts the web server down.
func (app *App) Stop() error {
	if app.Web == nil {
		return nil
	}
	if err := app.Web.Stop(); err != nil {
		app.Logger.Errorf("app", "web stop error: %v", err)
		return err
	}
	return nil
}
