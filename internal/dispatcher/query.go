package dispatcher

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/standardbeagle/mtsearch/internal/errors"
	"github.com/standardbeagle/mtsearch/internal/index"
	"github.com/standardbeagle/mtsearch/internal/tokenizer"
)

// find tokenizes the remainder of the line, ranks matches by TF·IDF, and
// prints a timed result block.
func (d *Dispatcher) find(args string) error {
	if strings.TrimSpace(args) == "" {
		return errors.InputValidation("find", fmt.Errorf("empty query"))
	}
	start := time.Now()
	terms := tokenizer.ExtractWords([]byte(args))
	results := d.idx.Search(terms)
	elapsed := time.Since(start)

	d.outMu.Lock()
	defer d.outMu.Unlock()
	d.writeSearchBlock(d.out, "", elapsed, results)
	return nil
}

// findSubstring runs the n-gram substring filter over the raw remainder
// of the line (not tokenized into words) and prints matching ids.
func (d *Dispatcher) findSubstring(args string) error {
	if strings.TrimSpace(args) == "" {
		return errors.InputValidation("find_substring", fmt.Errorf("empty substring"))
	}
	start := time.Now()
	ids := d.idx.SearchSubstring(args)
	elapsed := time.Since(start)

	d.outMu.Lock()
	defer d.outMu.Unlock()
	fmt.Fprintf(d.out, "Substring search took %.4fs:\n", elapsed.Seconds())
	for i, id := range ids {
		fmt.Fprintf(d.out, "%d. id:%d, path:%s\n", i+1, id, d.idx.GetPathByID(id))
	}
	if len(ids) > 0 {
		fmt.Fprintln(d.out, "---")
	}
	return nil
}

// findBatch reads args' path line by line, fanning each non-empty line
// out to the pool as an independent search task. Ordinals are assigned
// at submission time, in file order; the printed order may interleave
// since each block is independently serialized on the output mutex.
func (d *Dispatcher) findBatch(args string) error {
	path, _, err := d.resolveExisting("find_batch", args)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return errors.IOFailure("find_batch", path, err)
	}
	defer file.Close()

	var queries []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			queries = append(queries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.IOFailure("find_batch", path, err)
	}

	d.outMu.Lock()
	fmt.Fprintf(d.out, "Processing %d query(ies) from: %s\n", len(queries), path)
	d.outMu.Unlock()

	for i, query := range queries {
		n := i + 1
		q := query
		if err := d.pool.Go(func() error {
			d.runBatchQuery(n, q)
			return nil
		}); err != nil {
			d.printError(err)
		}
	}
	d.pool.Wait()
	return nil
}

func (d *Dispatcher) runBatchQuery(ordinal int, query string) {
	terms := tokenizer.ExtractWords([]byte(query))
	if len(terms) == 0 {
		return
	}
	start := time.Now()
	results := d.idx.Search(terms)
	elapsed := time.Since(start)

	d.outMu.Lock()
	defer d.outMu.Unlock()
	fmt.Fprintf(d.out, "%d. query: %s\n", ordinal, query)
	d.writeSearchBlock(d.out, "  ", elapsed, results)
}

// writeSearchBlock writes the "Search took" header, each ranked result
// line, and a trailing separator if any results were found. Callers must
// hold outMu. prefix is prepended to every line for find_batch's
// two-space indentation.
func (d *Dispatcher) writeSearchBlock(w io.Writer, prefix string, elapsed time.Duration, results []index.Result) {
	fmt.Fprintf(w, "%sSearch took %.4fs:\n", prefix, elapsed.Seconds())
	for i, r := range results {
		fmt.Fprintf(w, "%s%d. id:%d, relevance:%.5f, path:%s\n", prefix, i+1, r.ID, r.Score, d.idx.GetPathByID(r.ID))
	}
	if len(results) > 0 {
		fmt.Fprintf(w, "%s---\n", prefix)
	}
}
