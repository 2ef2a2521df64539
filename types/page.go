package types

const (
	PageSize = 4096 // 4KB page

	// DefaultPoolPages is the buffer pool capacity when none is configured.
	DefaultPoolPages = 50

	// MinTreePoolPages is the smallest pool a B+Tree works with: a split
	// holds the page being split and its new sibling at once.
	MinTreePoolPages = 2
)
