package bplus

import "github.com/pkg/errors"

// insertIntoParent pushes (key, right) into the parents recorded in path,
// bottom up. left is the page that was just split and right its new
// sibling. A full parent splits in turn and the promoted key moves one level
// up. When the path runs out the root itself was split.
func (t *BTreeFile) insertIntoParent(path []uint64, left uint64, key int32, right uint64, splitInternal bool) error {
	for len(path) > 0 {
		parentNum := path[len(path)-1]
		path = path[:len(path)-1]

		parent, fr, err := t.fetchInternal(parentNum)
		if err != nil {
			return errors.Wrapf(err, "insertIntoParent: failed to fetch parent %d", parentNum)
		}
		full, err := parent.Insert(key, right)
		if err != nil {
			return err
		}
		if err := fr.MarkDirty(); err != nil {
			return err
		}
		if !full {
			return nil
		}

		if key, right, err = t.splitInternal(parentNum); err != nil {
			return err
		}
		left = parentNum
		splitInternal = true
	}
	return t.createNewRoot(left, key, right, splitInternal)
}
