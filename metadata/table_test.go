package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	tbl := NewTable()

	tbl.Set(3, "c")
	tbl.Set(1, "a")
	tbl.Set(2, "b")
	tbl.Set(1, "A")

	assert.Equal(t, 3, tbl.Len())

	v, ok := tbl.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "A", v)

	_, ok = tbl.Get(42)
	assert.False(t, ok)

	var ids []int
	tbl.Scan(func(id int, _ string) bool {
		ids = append(ids, id)
		return true
	})
	assert.Equal(t, []int{1, 2, 3}, ids)

	tbl.Set(2, "")
	_, ok = tbl.Get(2)
	assert.False(t, ok)

	tbl.Delete(3)
	tbl.Delete(3)
	assert.Equal(t, 1, tbl.Len())
}

func TestTableScanStops(t *testing.T) {
	tbl := NewTable()
	for i := 0; i < 10; i++ {
		tbl.Set(i, "x")
	}

	n := 0
	tbl.Scan(func(int, string) bool {
		n++
		return n < 3
	})

	assert.Equal(t, 3, n)
}

func TestTableMerge(t *testing.T) {
	dst := NewTable()
	dst.Set(1, "old")
	dst.Set(2, "keep")

	src := NewTable()
	src.Set(1, "new")
	src.Set(-5, "negative")

	dst.Merge(src)

	assert.Equal(t, 3, dst.Len())

	v, _ := dst.Get(1)
	assert.Equal(t, "new", v)

	v, _ = dst.Get(2)
	assert.Equal(t, "keep", v)

	v, _ = dst.Get(-5)
	assert.Equal(t, "negative", v)
}
