package virtual

import (
	"context"
	"fmt"
	"time"

	"github.com/radovskyb/watcher"
)

// Watch reloads the templates whenever something under dir changes, polling
// every interval until ctx is done. dir is the template folder on the
// operating system's file system.
func (vfs *FS) Watch(ctx context.Context, dir string, interval time.Duration) error {
	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create, watcher.Remove, watcher.Rename, watcher.Move)
	if err := w.AddRecursive(dir); err != nil {
		return fmt.Errorf("Watch: %w", err)
	}

	go func() {
		done := ctx.Done()
		for {
			select {
			case ev := <-w.Event:
				vfs.Log.Infow("Template changed", "path", ev.Path, "op", ev.Op.String())
				if _, err := vfs.loadTemplates(); err != nil {
					vfs.Log.Errorw("Cannot reload templates", "error", err)
				}
			case err := <-w.Error:
				vfs.Log.Errorw("Watcher", "error", err)
			case <-done:
				done = nil
				go func() {
					w.Wait()
					w.Close()
				}()
			case <-w.Closed:
				return
			}
		}
	}()

	vfs.Log.Infow("Watching templates", "dir", dir)
	if err := w.Start(interval); err != nil {
		return fmt.Errorf("Watch: %w", err)
	}
	return nil
}
