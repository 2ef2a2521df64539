package indexfile

import (
	bplus "SlotDB/storage_engine/access/indexfile_manager/bplustree"
	"SlotDB/storage_engine/bufferpool"
	diskmanager "SlotDB/storage_engine/disk_manager"
	"SlotDB/storage_engine/tuple"
	"SlotDB/types"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

/*
This file is the main file for Index File Manager that deals with the tree files
Similar to HeapFileManager it places files under its directory (<baseDir>/<name>.idx)
and shares the buffer pool.

Opening a tree touches its meta page through the buffer pool, so the raw file
must already be resolvable by name when Open runs: the caller registers the
DbFile first (see register) and swaps in the tree afterwards.
*/

func NewIndexFileManager(baseDir string, bufferPool *bufferpool.BufferPool) (*IndexFileManager, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, types.IOError("NewIndexFileManager", errors.Wrap(err, "failed to create indexes directory"))
	}
	return &IndexFileManager{baseDir: baseDir, bufferPool: bufferPool}, nil
}

func (ifm *IndexFileManager) Path(name string) string {
	return filepath.Join(ifm.baseDir, name+".idx")
}

// OpenIndex opens or creates the tree file of table name keyed on the INT
// field keyIndex. register is called with the raw file before the tree reads
// its meta page; unregister undoes it if opening fails.
func (ifm *IndexFileManager) OpenIndex(name string, schema *tuple.Descriptor, keyIndex int,
	register func(*diskmanager.DbFile) error, unregister func(name string)) (*bplus.BTreeFile, error) {

	df, err := diskmanager.OpenNamed(name, ifm.Path(name), schema)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open index file for table '%s'", name)
	}
	if err := register(df); err != nil {
		df.Close()
		return nil, err
	}

	tree, err := bplus.OpenBTreeFile(df, ifm.bufferPool, keyIndex)
	if err != nil {
		unregister(name)
		df.Close()
		return nil, errors.Wrapf(err, "failed to open B+ tree for table '%s'", name)
	}
	return tree, nil
}
