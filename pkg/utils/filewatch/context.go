// Package filewatch derives contexts from filesystem events.
package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// UntilModifyContext returns a child of ctx that is canceled as soon
// as any of the named files changes (written, created, removed,
// renamed, or chmodded). Daemons watch their config file with it and
// treat the cancellation as a restart request.
//
// The returned func releases the watcher and cancels the context
// without a cause. On error, no context is returned and nothing is
// left watching.
func UntilModifyContext(ctx context.Context, files ...string) (context.Context, func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	for _, f := range files {
		if err := watcher.Add(f); err != nil {
			watcher.Close()
			return nil, nil, err
		}
	}

	cctx, cancel := context.WithCancelCause(ctx)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				cancel(fmt.Errorf("%s is updated (%s)", event.Name, event.Op))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				cancel(err)
			}
		}
	}()

	return cctx, func() { cancel(nil) }, nil
}
