package csvwriter

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
	"time"
)

type CSVRecord interface {
	FieldValues() []string
	FieldNames() []string
}

// SampleRecord is one consumed window sample.
type SampleRecord struct {
	Seq       uint64
	Timestamp time.Time
	Value     float64
}

func (s SampleRecord) FieldValues() []string {
	return []string{
		strconv.FormatUint(s.Seq, 10),
		strconv.FormatInt(s.Timestamp.UnixNano(), 10),
		strconv.FormatFloat(s.Value, 'g', -1, 64),
	}
}

func (s SampleRecord) FieldNames() []string {
	return []string{
		"Seq",
		"Timestamp",
		"Value",
	}
}

// CSVWriter appends records to a file, writing the header only when the
// file was created empty.
type CSVWriter struct {
	Name   string
	file   *os.File
	writer *csv.Writer
	header bool
	mx     sync.Mutex
}

func NewCSVWriter(name string) (*CSVWriter, error) {
	csvFile, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	info, err := csvFile.Stat()
	if err != nil {
		csvFile.Close()
		return nil, err
	}

	return &CSVWriter{
		Name:   name,
		file:   csvFile,
		writer: csv.NewWriter(csvFile),
		header: info.Size() > 0,
	}, nil
}

// Write buffers the record; call Flush or Close to persist it.
func (w *CSVWriter) Write(model CSVRecord) error {
	w.mx.Lock()
	defer w.mx.Unlock()

	if !w.header {
		if err := w.writer.Write(model.FieldNames()); err != nil {
			return err
		}
		w.header = true
	}
	return w.writer.Write(model.FieldValues())
}

func (w *CSVWriter) Flush() error {
	w.mx.Lock()
	defer w.mx.Unlock()

	w.writer.Flush()
	return w.writer.Error()
}

func (w *CSVWriter) Close() error {
	w.mx.Lock()
	defer w.mx.Unlock()

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
