// Package source loads monthly solar series from files or ClickHouse.
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/klauspost/pgzip"

	"github.com/KI7MT/ki7mt-solar-cycle/internal/solar"
)

// FileResult is a parsed input file plus the size read from disk.
type FileResult struct {
	Series *solar.Series
	Bytes  int64
}

// Open opens path for reading, decompressing .gz files on the fly.
func Open(path string) (io.ReadCloser, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}

	if !strings.HasSuffix(path, ".gz") {
		return f, info.Size(), nil
	}

	gz, err := pgzip.NewReaderN(f, 256*1024, runtime.NumCPU())
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("gzip open failed: %w", err)
	}
	return &gzipFile{Reader: gz, f: f}, info.Size(), nil
}

type gzipFile struct {
	*pgzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	gerr := g.Reader.Close()
	ferr := g.f.Close()
	if gerr != nil {
		return gerr
	}
	return ferr
}

// ParseFile parses one monthly file into a series named name. The file's
// base name is used as the source identity in errors.
func ParseFile(path, name string, opts solar.ParseOptions) (*FileResult, error) {
	rc, size, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	s, err := solar.ParseMonthly(rc, filepath.Base(path), name, opts)
	if err != nil {
		return nil, err
	}
	return &FileResult{Series: s, Bytes: size}, nil
}
