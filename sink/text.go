package sink

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	core "github.com/textileio/go-tempwindow/core/window"
)

// DefaultTextFile is where the CLI writes consumed samples.
const DefaultTextFile = "temperature_output.txt"

var _ core.Sink = (*TextFile)(nil)

// TextFile writes one sample per line, truncating the file on open.
type TextFile struct {
	f *os.File
	w *bufio.Writer
}

func NewTextFile(path string) (*TextFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("opening output file: %w", err)
	}
	return &TextFile{f: f, w: bufio.NewWriter(f)}, nil
}

func (t *TextFile) Accept(v float64) error {
	if _, err := t.w.WriteString(strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
		return err
	}
	return t.w.WriteByte('\n')
}

func (t *TextFile) Close() error {
	if err := t.w.Flush(); err != nil {
		t.f.Close()
		return fmt.Errorf("flushing output file: %w", err)
	}
	return t.f.Close()
}
