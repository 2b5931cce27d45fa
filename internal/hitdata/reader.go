package hitdata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Reader streams rows from a tab-separated hit file. The first line is the header;
// every following line becomes one Row. Rows shorter than the header are padded with
// empty strings, matching how hit exports truncate trailing empty columns.
type Reader struct {
	scanner *bufio.Scanner
	fields  []string
	closer  io.Closer
}

// NewReader wraps r. It reads the header line immediately so Fields is available
// before the first row is consumed.
func NewReader(r io.Reader) (*Reader, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading header line: %w", err)
		}
		return nil, fmt.Errorf("input is empty, no header line")
	}

	header := strings.Split(scanner.Text(), "\t")
	fields := make([]string, len(header))
	for i, f := range header {
		fields[i] = strings.TrimSpace(f)
	}

	return &Reader{scanner: scanner, fields: fields}, nil
}

// Open reads a hit file from disk. Close releases the underlying file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open hit data file %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// Fields returns the header column names in file order.
func (r *Reader) Fields() []string {
	return r.fields
}

// Next returns the next row in arrival order, or io.EOF at end of input.
// Blank lines are skipped.
func (r *Reader) Next() (Row, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		row := make(Row, len(r.fields))
		for i, name := range r.fields {
			if i < len(cols) {
				row[name] = cols[i]
			} else {
				row[name] = ""
			}
		}
		return row, nil
	}

	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading hit data: %w", err)
	}
	return nil, io.EOF
}

// Close closes the underlying file when the reader was created via Open.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
