package io

import (
	"bufio"
	gio "io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Compression of a generated output file.
type Compression string

const (
	NoCompression Compression = "none"
	Gzip          Compression = "gzip"
	Zstd          Compression = "zstd"
)

func ParseCompression(value string) (Compression, error) {
	switch c := Compression(value); c {
	case NoCompression, Gzip, Zstd:
		return c, nil
	case "":
		return NoCompression, nil
	}
	return NoCompression, errors.Errorf("invalid compression %q, expected none, gzip or zstd", value)
}

// Extension is appended to output file names.
func (c Compression) Extension() string {
	switch c {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	default:
		return ""
	}
}

type fileWriter struct {
	file       *os.File
	buffer     *bufio.Writer
	compressor gio.WriteCloser
}

func (f *fileWriter) Write(p []byte) (int, error) {
	if f.compressor != nil {
		return f.compressor.Write(p)
	}
	return f.buffer.Write(p)
}

func (f *fileWriter) Close() error {
	var err error
	if f.compressor != nil {
		err = f.compressor.Close()
	}
	if flushErr := f.buffer.Flush(); err == nil {
		err = flushErr
	}
	if closeErr := f.file.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Create truncates path and returns a buffered writer compressing with c.
// Close must be called to flush the data.
func Create(path string, c Compression) (gio.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating output file %s", path)
	}
	w := &fileWriter{file: file, buffer: bufio.NewWriter(file)}
	switch c {
	case Gzip:
		w.compressor = gzip.NewWriter(w.buffer)
	case Zstd:
		encoder, err := zstd.NewWriter(w.buffer)
		if err != nil {
			file.Close()
			return nil, errors.Wrap(err, "error creating zstd encoder")
		}
		w.compressor = encoder
	}
	return w, nil
}

type fileReader struct {
	gio.Reader
	closers []func() error
}

func (f *fileReader) Close() error {
	var err error
	for _, closer := range f.closers {
		if closeErr := closer(); err == nil {
			err = closeErr
		}
	}
	return err
}

// Open opens path for reading, decompressing according to its extension.
func Open(path string) (gio.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s", path)
	}
	switch {
	case strings.HasSuffix(path, Gzip.Extension()):
		decompressor, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, errors.Wrapf(err, "error reading gzip header of %s", path)
		}
		return &fileReader{Reader: decompressor, closers: []func() error{decompressor.Close, file.Close}}, nil
	case strings.HasSuffix(path, Zstd.Extension()):
		decoder, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, errors.Wrapf(err, "error creating zstd decoder for %s", path)
		}
		decompressor := decoder.IOReadCloser()
		return &fileReader{Reader: decompressor, closers: []func() error{decompressor.Close, file.Close}}, nil
	}
	return file, nil
}
