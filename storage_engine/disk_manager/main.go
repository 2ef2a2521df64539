package diskmanager

import (
	"SlotDB/logger"
	"SlotDB/storage_engine/page"
	"SlotDB/storage_engine/tuple"
	"SlotDB/types"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
This is main file for disk manager
It owns:
The OS file handle of one table file
Reading/writing raw pages at page-aligned offsets (ReadAt, WriteAt)
Page allocation (appending zero pages at the end of the file)
The read/write access trace, which tests use to tell buffer pool hits from misses

A brand new file is never empty: creation writes exactly one zero-filled page,
so every file has at least one page.

Bufferpool on page hits returns the cached bytes; on a miss it is the DbFile
that reads the page, and on eviction of a dirty page the DbFile writes it back.
*/

var (
	ErrShortIO     = errors.New("short page read/write")
	ErrClosed      = errors.New("file is closed")
	ErrBadPageSize = errors.New("buffer is not one page long")
)

// Open opens the file at path, creating it with one zero page if it does not
// exist. The file is registered under its base name without extension.
func Open(path string, schema *tuple.Descriptor) (*DbFile, error) {
	name := filepath.Base(path)
	name = name[:len(name)-len(filepath.Ext(name))]
	return OpenNamed(name, path, schema)
}

// OpenNamed is Open with an explicit catalog name.
func OpenNamed(name, path string, schema *tuple.Descriptor) (*DbFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, types.IOError("Open", errors.Wrapf(err, "open %s", path))
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, types.IOError("Open", errors.Wrapf(err, "stat %s", path))
	}

	df := &DbFile{
		name:     name,
		path:     path,
		file:     f,
		schema:   schema,
		numPages: uint64(stat.Size()) / page.PageSize,
	}

	if stat.Size() == 0 {
		var zero page.Page
		if n, err := f.WriteAt(zero[:], 0); err != nil || n != page.PageSize {
			f.Close()
			return nil, types.IOError("Open", errors.Wrapf(ErrShortIO, "initialise %s: wrote %d bytes: %v", path, n, err))
		}
		df.numPages = 1
		logger.Info("created file", zap.String("name", name), zap.String("path", path))
	}

	return df, nil
}

// OpenReadOnly opens an existing file at path for reading. It never creates
// or extends the file; writes through the returned DbFile fail.
func OpenReadOnly(path string, schema *tuple.Descriptor) (*DbFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.IOError("OpenReadOnly", errors.Wrapf(err, "open %s", path))
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, types.IOError("OpenReadOnly", errors.Wrapf(err, "stat %s", path))
	}
	if stat.Size() < page.PageSize {
		f.Close()
		return nil, types.IOError("OpenReadOnly", errors.Wrapf(ErrShortIO, "%s is %d bytes", path, stat.Size()))
	}

	name := filepath.Base(path)
	return &DbFile{
		name:     name[:len(name)-len(filepath.Ext(name))],
		path:     path,
		file:     f,
		schema:   schema,
		numPages: uint64(stat.Size()) / page.PageSize,
	}, nil
}

func (df *DbFile) Name() string { return df.name }

func (df *DbFile) Path() string { return df.path }

func (df *DbFile) Schema() *tuple.Descriptor { return df.schema }

// PageCount is the number of pages currently in the file.
func (df *DbFile) PageCount() uint64 { return df.numPages }

// Reads returns the page numbers read so far, in order.
func (df *DbFile) Reads() []uint64 { return df.reads }

// Writes returns the page numbers written so far, in order.
func (df *DbFile) Writes() []uint64 { return df.writes }

// ResetTrace forgets the recorded reads and writes.
func (df *DbFile) ResetTrace() {
	df.reads = df.reads[:0]
	df.writes = df.writes[:0]
}

// ReadPage fills buf with page num. It fails unless a whole page is read.
func (df *DbFile) ReadPage(num uint64, buf []byte) error {
	df.reads = append(df.reads, num)
	if df.file == nil {
		return types.IOError("ReadPage", errors.Wrap(ErrClosed, df.name))
	}
	if len(buf) != page.PageSize {
		return types.PreconditionError("ReadPage", errors.Wrapf(ErrBadPageSize, "%d bytes", len(buf)))
	}
	n, err := df.file.ReadAt(buf, int64(num)*page.PageSize)
	if n != page.PageSize {
		return types.IOError("ReadPage",
			errors.Wrapf(ErrShortIO, "%s page %d: read %d bytes: %v", df.name, num, n, err))
	}
	return nil
}

// WritePage writes buf as page num. It fails unless a whole page is written.
func (df *DbFile) WritePage(num uint64, buf []byte) error {
	df.writes = append(df.writes, num)
	if df.file == nil {
		return types.IOError("WritePage", errors.Wrap(ErrClosed, df.name))
	}
	if len(buf) != page.PageSize {
		return types.PreconditionError("WritePage", errors.Wrapf(ErrBadPageSize, "%d bytes", len(buf)))
	}
	n, err := df.file.WriteAt(buf, int64(num)*page.PageSize)
	if n != page.PageSize {
		return types.IOError("WritePage",
			errors.Wrapf(ErrShortIO, "%s page %d: wrote %d bytes: %v", df.name, num, n, err))
	}
	if num >= df.numPages {
		df.numPages = num + 1
	}
	return nil
}

// AllocatePage appends one zero page and returns its number. Page numbers
// only ever grow.
func (df *DbFile) AllocatePage() (uint64, error) {
	num := df.numPages
	var zero page.Page
	if err := df.WritePage(num, zero[:]); err != nil {
		return 0, errors.Wrapf(err, "allocate page %d", num)
	}
	return num, nil
}

// Sync flushes the OS buffers of the file.
func (df *DbFile) Sync() error {
	if df.file == nil {
		return nil
	}
	if err := df.file.Sync(); err != nil {
		return types.IOError("Sync", errors.Wrap(err, df.name))
	}
	return nil
}

// Close syncs and closes the file. Closing twice is a no-op.
func (df *DbFile) Close() error {
	if df.file == nil {
		return nil
	}
	if err := df.file.Sync(); err != nil {
		return types.IOError("Close", errors.Wrapf(err, "sync before close %s", df.name))
	}
	if err := df.file.Close(); err != nil {
		return types.IOError("Close", errors.Wrap(err, df.name))
	}
	df.file = nil
	return nil
}

// Size returns the on-disk size of the file in bytes.
func (df *DbFile) Size() int64 {
	return int64(df.numPages) * page.PageSize
}
