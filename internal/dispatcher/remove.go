package dispatcher

import (
	"fmt"

	"github.com/standardbeagle/mtsearch/internal/errors"
	"github.com/standardbeagle/mtsearch/pkg/pathutil"
)

// removeFile resolves args' first field and removes it, rejecting paths
// the index does not currently hold.
func (d *Dispatcher) removeFile(args string) error {
	raw := firstField(args)
	if raw == "" {
		return errors.InputValidation("remove_file", fmt.Errorf("missing path argument"))
	}
	canon, err := pathutil.Canonicalize(raw)
	if err != nil {
		return errors.PathNotFound("remove_file", raw)
	}
	if !d.idx.HasDocument(canon) {
		return errors.NotIndexed("remove_file", canon)
	}
	d.idx.Remove(canon)
	return nil
}

// removeDirHandler returns the remove_dir or remove_dir_recursive
// handler. Both reject a path that does not resolve to a directory on
// disk; each matched path is removed independently, so a partial removal
// from a since-deleted subtree is by design, not an error.
func (d *Dispatcher) removeDirHandler(recursive bool) handlerFunc {
	op := "remove_dir"
	matcher := pathutil.IsInDir
	if recursive {
		op = "remove_dir_recursive"
		matcher = pathutil.IsUnderDir
	}
	return func(args string) error {
		canon, info, err := d.resolveExisting(op, args)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return errors.PathNotFound(op, canon)
		}
		d.idx.RemoveInDir(canon, recursive, matcher)
		return nil
	}
}

// printIndexedDocuments lists every indexed path, one per line, in
// ascending document-id order.
func (d *Dispatcher) printIndexedDocuments(_ string) error {
	docs := d.idx.IndexedDocuments()

	d.outMu.Lock()
	defer d.outMu.Unlock()
	for _, doc := range docs {
		fmt.Fprintln(d.out, doc.Path)
	}
	return nil
}
