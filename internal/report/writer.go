package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer places output files in a single directory, created on demand.
type Writer struct {
	dir string
}

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

func (w *Writer) Dir() string { return w.dir }

// WriteFile renders rows as TSV and writes them to name inside the output
// directory, replacing any previous file.
func (w *Writer) WriteFile(name string, rows [][]string) error {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(RenderTSV(rows)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// RawDump is the per-fiscal-year dump of every accepted export row, with
// the resolved state code and district label prepended. Rows stream in
// state by state; the header is written once.
type RawDump struct {
	f           *os.File
	bw          *bufio.Writer
	wroteHeader bool
}

func (w *Writer) OpenRawDump(name string) (*RawDump, error) {
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return nil, fmt.Errorf("create raw dump %s: %w", name, err)
	}
	return &RawDump{f: f, bw: bufio.NewWriter(f)}, nil
}

// WriteHeader prepends "State" and "District" to the export's own column
// headers. Only the first call writes; later states reuse the same header.
func (d *RawDump) WriteHeader(columns []string) error {
	if d.wroteHeader {
		return nil
	}
	d.wroteHeader = true
	return d.writeRow(append([]string{"State", "District"}, columns...))
}

// WriteRow writes one accepted data row prefixed with its state code and
// district label.
func (d *RawDump) WriteRow(state, district string, fields []string) error {
	return d.writeRow(append([]string{state, district}, fields...))
}

func (d *RawDump) writeRow(row []string) error {
	if _, err := d.bw.WriteString(strings.Join(row, "\t")); err != nil {
		return err
	}
	return d.bw.WriteByte('\n')
}

func (d *RawDump) Close() error {
	if err := d.bw.Flush(); err != nil {
		d.f.Close()
		return err
	}
	return d.f.Close()
}
