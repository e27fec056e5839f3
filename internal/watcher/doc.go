// Package watcher reports changes to log files in one directory.
//
// Events come from fsnotify, are filtered by the discovery glob patterns,
// and are debounced so a burst of writes to one file becomes one event.
//
// Usage:
//
//	w, err := watcher.New(watcher.Options{Patterns: []string{"*.log"}}, logger)
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//
//	if err := w.Start(ctx, "/var/log/app"); err != nil {
//	    return err
//	}
//
//	for batch := range w.Events() {
//	    for _, event := range batch {
//	        if event.Operation != watcher.OpDelete {
//	            // revalidate event.Path
//	        }
//	    }
//	}
package watcher
