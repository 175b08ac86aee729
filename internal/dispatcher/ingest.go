package dispatcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/mtsearch/internal/debug"
	"github.com/standardbeagle/mtsearch/internal/errors"
	"github.com/standardbeagle/mtsearch/internal/watcher"
)

// addFile resolves args' first field to an absolute path, validates it is
// a readable regular file, and ingests it under a freshly allocated id.
// A validation or read failure returns before any id is allocated and
// leaves the index untouched.
func (d *Dispatcher) addFile(args string) error {
	canon, info, err := d.resolveExisting("add_file", args)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return errors.PathNotFound("add_file", canon)
	}
	if err := d.ingestFile(context.Background(), canon); err != nil {
		return err
	}
	return nil
}

// ingestFile performs the actual read-and-add; it is shared by addFile
// (surfaced errors) and the directory fan-out tasks (swallowed errors).
func (d *Dispatcher) ingestFile(ctx context.Context, path string) error {
	if err := d.validator.Validate(ctx, path); err != nil {
		return errors.IOFailure("ingest", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.IOFailure("ingest", path, err)
	}
	id := d.NextID()
	if added := d.idx.Add(id, path, content); added {
		d.snap.Record(id, path)
	}
	return nil
}

// addDirHandler returns the add_dir or add_dir_recursive handler,
// differing only in whether the file collection walks subdirectories.
func (d *Dispatcher) addDirHandler(recursive bool) handlerFunc {
	op := "add_dir"
	if recursive {
		op = "add_dir_recursive"
	}
	return func(args string) error {
		start := time.Now()
		canon, info, err := d.resolveExisting(op, args)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return errors.PathNotFound(op, canon)
		}

		files, err := d.collectFiles(canon, recursive)
		if err != nil {
			return errors.IOFailure(op, canon, err)
		}

		var added atomic.Int64
		for _, file := range files {
			file := file
			if err := d.pool.Go(func() error {
				if ingestErr := d.ingestFile(context.Background(), file); ingestErr != nil {
					debug.LogDispatch("skip %s: %v", file, ingestErr)
					return nil
				}
				added.Add(1)
				return nil
			}); err != nil {
				debug.LogDispatch("submit %s: %v", file, err)
			}
		}
		d.pool.Wait()

		if recursive && d.cfg.Index.WatchMode {
			d.startWatch(canon)
		}

		elapsed := time.Since(start)
		d.outMu.Lock()
		defer d.outMu.Unlock()
		fmt.Fprintf(d.out, "Adding took %.4fs:\n", elapsed.Seconds())
		fmt.Fprintf(d.out, "Added %d file(s) from directory: %s\n", added.Load(), canon)
		return nil
	}
}

// collectFiles lists regular files under dir, flat or recursive, applying
// cfg.Include/Exclude glob filters.
func (d *Dispatcher) collectFiles(dir string, recursive bool) ([]string, error) {
	var files []string
	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if d.fileAllowed(path) {
				files = append(files, path)
			}
		}
		return files, nil
	}

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if d.fileAllowed(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (d *Dispatcher) fileAllowed(path string) bool {
	for _, pattern := range d.cfg.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return false
		}
	}
	if len(d.cfg.Include) == 0 {
		return true
	}
	for _, pattern := range d.cfg.Include {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// startWatch begins watching root for incremental updates, replacing any
// previously active watcher. Failures are logged, not surfaced, since
// watch mode is an optional evolution of a successful ingest.
func (d *Dispatcher) startWatch(root string) {
	d.watchMu.Lock()
	defer d.watchMu.Unlock()

	if d.watch != nil {
		_ = d.watch.Stop()
	}

	w, err := watcher.New(d.cfg, d.onWatchedChange, d.onWatchedRemove)
	if err != nil {
		debug.LogDispatch("watch: failed to create watcher: %v", err)
		return
	}
	if err := w.Start(root); err != nil {
		debug.LogDispatch("watch: failed to start on %s: %v", root, err)
		return
	}
	d.watch = w
}

func (d *Dispatcher) onWatchedChange(path string) {
	if err := d.ingestFile(context.Background(), path); err != nil {
		debug.LogDispatch("watch: ingest %s: %v", path, err)
	}
}

func (d *Dispatcher) onWatchedRemove(path string) {
	d.idx.Remove(path)
}
