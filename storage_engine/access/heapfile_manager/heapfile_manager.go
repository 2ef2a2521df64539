package heapfile

import (
	"SlotDB/storage_engine/bufferpool"
	diskmanager "SlotDB/storage_engine/disk_manager"
	"SlotDB/storage_engine/tuple"
	"SlotDB/types"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

/*
This file is the main file for Heap File Manager
It decides where heap files live (<baseDir>/<name>.heap) and opens them
as HeapFiles sharing one buffer pool.
*/

func NewHeapFileManager(baseDir string, bufferPool *bufferpool.BufferPool) (*HeapFileManager, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, types.IOError("NewHeapFileManager", errors.Wrap(err, "failed to create heap directory"))
	}
	return &HeapFileManager{baseDir: baseDir, bufferPool: bufferPool}, nil
}

func (hm *HeapFileManager) Path(name string) string {
	return filepath.Join(hm.baseDir, name+".heap")
}

// OpenHeapFile opens or creates the heap file of table name.
func (hm *HeapFileManager) OpenHeapFile(name string, schema *tuple.Descriptor) (*HeapFile, error) {
	df, err := diskmanager.OpenNamed(name, hm.Path(name), schema)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open heap file for table '%s'", name)
	}
	hf, err := NewHeapFile(df, hm.bufferPool)
	if err != nil {
		df.Close()
		return nil, err
	}
	return hf, nil
}
