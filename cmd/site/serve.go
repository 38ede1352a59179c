package main

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	portfolio "github.com/aurorascharff/aurorascharff.no"
)

const reloadDebounce = 300 * time.Millisecond

var serveWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site over HTTP",
	Long: `serve starts the HTTP server. With --watch, changes under the content
directory invalidate the content cache so the next request sees them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if serveWatch {
			if err := watchContent(ctx, app); err != nil {
				return err
			}
		}
		return app.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload content when files change")
}

// watchContent watches the content tree until ctx is done, invalidating the
// app's content cache shortly after the last change in a burst.
func watchContent(ctx context.Context, app *portfolio.App) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	root := app.Config.ContentDir
	if err := addTree(watcher, root); err != nil {
		watcher.Close()
		return err
	}
	logger.Info("watching for changes", "dir", root)

	go func() {
		defer watcher.Close()
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := addTree(watcher, event.Name); err != nil {
							logger.Warn("watch new directory", "dir", event.Name, "err", err)
						}
					}
				}
				logger.Debug("content changed", "file", event.Name, "op", event.Op.String())
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, func() {
					app.Content.Invalidate()
					logger.Info("content cache invalidated")
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher", "err", err)
			}
		}
	}()
	return nil
}

// addTree adds dir and every directory below it to the watcher.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
