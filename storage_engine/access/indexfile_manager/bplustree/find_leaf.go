package bplus

// findLeaf descends from the root to the leaf whose key range covers key.
// path holds the internal pages visited, root first.
func (t *BTreeFile) findLeaf(key int32) (path []uint64, leaf uint64, err error) {
	return t.descend(func(ip *InternalPage) int { return ip.ChildIndex(key) })
}

func (t *BTreeFile) leftmostLeaf() (uint64, error) {
	_, leaf, err := t.descend(func(*InternalPage) int { return 0 })
	return leaf, err
}

func (t *BTreeFile) descend(pick func(ip *InternalPage) int) ([]uint64, uint64, error) {
	var path []uint64
	num, internal := t.root, t.rootInternal
	for internal {
		ip, _, err := t.fetchInternal(num)
		if err != nil {
			return nil, 0, err
		}
		path = append(path, num)
		internal = ip.ChildrenInternal()
		num = ip.Child(pick(ip))
	}
	return path, num, nil
}
