// Package dispatcher implements mtsearch's line-oriented command loop:
// it resolves and validates paths, fans file reads and batch queries out
// to the worker pool, and serializes all output on a single mutex so
// concurrent query tasks never interleave mid-block.
package dispatcher

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/standardbeagle/mtsearch/internal/config"
	"github.com/standardbeagle/mtsearch/internal/debug"
	"github.com/standardbeagle/mtsearch/internal/errors"
	"github.com/standardbeagle/mtsearch/internal/index"
	"github.com/standardbeagle/mtsearch/internal/security"
	"github.com/standardbeagle/mtsearch/internal/snapshot"
	"github.com/standardbeagle/mtsearch/internal/types"
	"github.com/standardbeagle/mtsearch/internal/watcher"
	"github.com/standardbeagle/mtsearch/pkg/pathutil"
)

// handlerFunc is the signature every command binds to in the dispatch
// table: the remainder of the line after the command word, returning an
// error the loop turns into an "error: <message>" line.
type handlerFunc func(args string) error

// Dispatcher binds the inverted index and worker pool to the textual
// command surface described by the CLI and HTTP boundary adapters.
type Dispatcher struct {
	cfg       *config.Config
	idx       *index.Index
	pool      Pool
	validator *security.Validator
	snap      *snapshot.Snapshot

	nextID atomic.Uint64

	outMu sync.Mutex
	out   io.Writer

	handlers map[string]handlerFunc

	watchMu sync.Mutex
	watch   *watcher.Watcher
}

// Pool is the subset of workerpool.Pool the dispatcher depends on,
// narrowed so tests can supply a fake without pulling in goroutines.
type Pool interface {
	Go(fn func() error) error
	Wait()
}

// New builds a Dispatcher over idx and pool using cfg for include/exclude
// filtering, security validation thresholds, and optional snapshot
// persistence. cfg must not be nil; use config.Default() for a
// zero-configuration instance.
func New(cfg *config.Config, idx *index.Index, pool Pool) *Dispatcher {
	d := &Dispatcher{
		cfg:       cfg,
		idx:       idx,
		pool:      pool,
		validator: security.NewValidator(64, 8),
		snap:      snapshot.New(),
	}
	d.handlers = map[string]handlerFunc{
		"add_file":                d.addFile,
		"add_dir":                 d.addDirHandler(false),
		"add_dir_recursive":       d.addDirHandler(true),
		"find":                    d.find,
		"find_substring":          d.findSubstring,
		"find_batch":              d.findBatch,
		"remove_file":             d.removeFile,
		"remove_dir":              d.removeDirHandler(false),
		"remove_dir_recursive":    d.removeDirHandler(true),
		"print_indexed_documents": d.printIndexedDocuments,
	}
	return d
}

// NextID atomically allocates the next document id. Ids are never reused,
// even for files whose read subsequently fails.
func (d *Dispatcher) NextID() types.DocumentID {
	return types.DocumentID(d.nextID.Add(1))
}

// Index exposes the underlying index for collaborators (snapshot replay,
// the HTTP adapter) that need direct read access.
func (d *Dispatcher) Index() *index.Index { return d.idx }

// RestoreSnapshot replays every path recorded in cfg.Snapshot.Path through
// add_file, ignoring paths that no longer exist on disk. It is meant to
// run once at startup, before Run.
func (d *Dispatcher) RestoreSnapshot() error {
	if d.cfg.Snapshot.Path == "" {
		return nil
	}
	loaded, err := snapshot.Load(d.cfg.Snapshot.Path)
	if err != nil {
		return err
	}
	if loaded == nil {
		return nil
	}
	for _, path := range loaded.Paths() {
		if err := d.addFile(path); err != nil {
			debug.LogDispatch("snapshot restore skipped %s: %v", path, err)
		}
	}
	return nil
}

// SaveSnapshot persists the current document registry to cfg.Snapshot.Path.
// A no-op if no path is configured.
func (d *Dispatcher) SaveSnapshot() error {
	if d.cfg.Snapshot.Path == "" {
		return nil
	}
	current := snapshot.New()
	for _, doc := range d.idx.IndexedDocuments() {
		current.Record(doc.ID, doc.Path)
	}
	return current.Save(d.cfg.Snapshot.Path)
}

// Close stops any active watcher. It does not close the pool — ownership
// of the pool's lifecycle belongs to whoever constructed it.
func (d *Dispatcher) Close() error {
	d.watchMu.Lock()
	w := d.watch
	d.watch = nil
	d.watchMu.Unlock()
	if w != nil {
		return w.Stop()
	}
	return nil
}

// Run reads commands from in, one per line, writing a "> " prompt before
// each read and all command output to out. It returns on EOF or a read
// error; handler errors never terminate the loop.
func (d *Dispatcher) Run(in io.Reader, out io.Writer) error {
	d.outMu.Lock()
	d.out = out
	d.outMu.Unlock()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		d.writePrompt()
		if !scanner.Scan() {
			break
		}
		d.dispatchLine(scanner.Text())
	}
	return scanner.Err()
}

// HandleLine runs a single command line to completion and returns
// everything it wrote, for callers (the HTTP adapter) that handle one
// request per connection rather than a continuous prompt loop. Calls are
// not serialized against each other: overlapping calls share the output
// writer, so their outputs can mix. The HTTP adapter makes one call at a
// time.
func (d *Dispatcher) HandleLine(line string) string {
	d.outMu.Lock()
	prev := d.out
	var buf bytes.Buffer
	d.out = &buf
	d.outMu.Unlock()

	d.dispatchLine(line)

	d.outMu.Lock()
	d.out = prev
	d.outMu.Unlock()
	return buf.String()
}

func (d *Dispatcher) writePrompt() {
	d.outMu.Lock()
	defer d.outMu.Unlock()
	fmt.Fprint(d.out, "> ")
}

func (d *Dispatcher) dispatchLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	command, args, _ := strings.Cut(line, " ")
	handler, ok := d.handlers[command]
	if !ok {
		d.printError(fmt.Errorf("unknown command"))
		return
	}
	if err := handler(args); err != nil {
		d.printError(err)
	}
}

func (d *Dispatcher) printError(err error) {
	d.outMu.Lock()
	defer d.outMu.Unlock()
	fmt.Fprintf(d.out, "error: %s\n", err.Error())
}

// firstField returns the first whitespace-delimited token of args, the
// form every single-path command expects.
func firstField(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (d *Dispatcher) resolveExisting(op, args string) (string, os.FileInfo, error) {
	raw := firstField(args)
	if raw == "" {
		return "", nil, errors.InputValidation(op, fmt.Errorf("missing path argument"))
	}
	canon, err := pathutil.Canonicalize(raw)
	if err != nil {
		return "", nil, errors.PathNotFound(op, raw)
	}
	info, err := os.Stat(canon)
	if err != nil {
		return "", nil, errors.PathNotFound(op, canon)
	}
	return canon, info, nil
}
