package indexfile

import "SlotDB/storage_engine/bufferpool"

type IndexFileManager struct {
	baseDir    string
	bufferPool *bufferpool.BufferPool
}
