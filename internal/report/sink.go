package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/MrJamesThe3rd/reconciler/internal/storage"
)

// Sink stores a rendered report under name and returns where it ended up.
type Sink interface {
	Write(ctx context.Context, name string, headers []string, rows []Row) (string, error)
}

// createFile is replaced in tests to simulate failing disks.
var createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// FileSink writes reports into Dir, gzip-compressed when Compress is set.
type FileSink struct {
	Dir      string
	Compress bool
}

func (s FileSink) Write(_ context.Context, name string, headers []string, rows []Row) (string, error) {
	if len(rows) == 0 {
		return "", ErrEmptyReport
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(s.Dir, name)
	if s.Compress {
		path += ".gz"
	}

	f, err := createFile(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	// A partial report is worse than none, so failed writes leave no file behind.
	if err := s.encode(f, headers, rows); err != nil {
		f.Close()
		os.Remove(path)

		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	return path, nil
}

func (s FileSink) encode(w io.Writer, headers []string, rows []Row) error {
	if !s.Compress {
		return Encode(w, headers, rows)
	}

	gz := gzip.NewWriter(w)
	if err := Encode(gz, headers, rows); err != nil {
		gz.Close()
		return err
	}

	return gz.Close()
}

// ObjectSink uploads reports to object storage under Prefix, tagged with Metadata.
// With a positive LinkExpiry the returned location is a presigned download link instead of the key.
type ObjectSink struct {
	Storage    storage.Storage
	Prefix     string
	Metadata   map[string]string
	LinkExpiry time.Duration
}

func (s ObjectSink) Write(ctx context.Context, name string, headers []string, rows []Row) (string, error) {
	if len(rows) == 0 {
		return "", ErrEmptyReport
	}

	var buf bytes.Buffer
	if err := Encode(&buf, headers, rows); err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	key := name
	if s.Prefix != "" {
		key = strings.TrimSuffix(s.Prefix, "/") + "/" + name
	}

	info, err := s.Storage.Put(ctx, key, &buf, storage.PutObjectOptions{
		Size:        int64(buf.Len()),
		ContentType: "text/csv; charset=utf-8",
		Metadata:    s.Metadata,
	})
	if err != nil {
		return "", fmt.Errorf("uploading report: %w", err)
	}

	if s.LinkExpiry <= 0 {
		return info.Key, nil
	}

	link, err := s.Storage.PresignGet(ctx, info.Key, s.LinkExpiry)
	if err != nil {
		return info.Key, fmt.Errorf("presigning %s: %w", info.Key, err)
	}

	return link, nil
}

// MultiSink writes to every sink, even after one fails, and joins their errors.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, name string, headers []string, rows []Row) (string, error) {
	if len(rows) == 0 {
		return "", ErrEmptyReport
	}

	var (
		locations []string
		errs      []error
	)

	for _, s := range m {
		loc, err := s.Write(ctx, name, headers, rows)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		locations = append(locations, loc)
	}

	return strings.Join(locations, ", "), errors.Join(errs...)
}
