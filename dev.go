package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"
)

// devMode runs the program each time its file changes. If debug is set the
// program is loaded into the debugger instead of run directly.
func devMode(cfg *config, debug bool) error {
	file := filepath.Clean(cfg.file)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(file)); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if !debug {
		watchLoop(ctx, watcher, file, func() {
			log.Printf("dev: run %s", filepath.Base(file))
			m, err := cfg.load()
			if err != nil {
				log.Printf("dev: %v", err)
				return
			}
			if err := m.Run(); err != nil {
				log.Printf("dev: %v", err)
				return
			}
			cfg.report(os.Stdout, m)
		})
		return nil
	}

	d := newDebugger()
	log.SetPrefix("")
	log.SetOutput(d.log)
	defer func() {
		log.SetOutput(os.Stderr)
		log.SetPrefix("intcode: ")
	}()
	go d.loop(ctx)
	go watchLoop(ctx, watcher, file, func() {
		log.Printf("dev: load %s", filepath.Base(file))
		m, err := cfg.load()
		if err != nil {
			log.Printf("dev: %v", err)
			return
		}
		d.Reset(ctx, m)
	})
	err = d.Run()
	cancel()
	return err
}

// watchLoop calls reload once at start and again shortly after each change
// to file, until ctx is done.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, file string, reload func()) {
	run := time.After(1 * time.Millisecond)
	for {
		select {
		case <-run:
			reload()
		case ev := <-watcher.Event:
			if filepath.Clean(ev.Name) == file && !ev.IsAttrib() {
				run = time.After(100 * time.Millisecond)
			}
		case err := <-watcher.Error:
			log.Printf("dev: watcher: %v", err)
		case <-ctx.Done():
			return
		}
	}
}
