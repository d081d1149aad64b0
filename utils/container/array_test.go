package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/container"
)

type arrayItem struct {
	container.IncrementalItemBase
	id int
}

func ids(a *container.IncrementalArray[*arrayItem]) []int {
	out := make([]int, 0, a.Len())
	for _, x := range a.Data() {
		out = append(out, x.id)
	}
	return out
}

func TestIncrementalArrayAddIsDeferred(t *testing.T) {
	a := container.NewIncrementalArray[*arrayItem]()
	a.Add(&arrayItem{id: 1})
	a.Add(&arrayItem{id: 2})
	assert.Zero(t, a.Len())

	a.Prepare()
	assert.Equal(t, []int{1, 2}, ids(a))
	for i, x := range a.Data() {
		assert.Equal(t, i, x.Index())
	}
}

func TestIncrementalArrayRemove(t *testing.T) {
	a := container.NewIncrementalArray[*arrayItem]()
	items := make([]*arrayItem, 0)
	for i := 0; i < 5; i++ {
		x := &arrayItem{id: i}
		items = append(items, x)
		a.Add(x)
	}
	a.Prepare()
	require.Equal(t, 5, a.Len())

	// 删多于增：末尾元素回填空位
	a.Remove(items[1])
	a.Remove(items[3])
	a.Prepare()
	assert.Equal(t, 3, a.Len())
	assert.ElementsMatch(t, []int{0, 2, 4}, ids(a))
	for i, x := range a.Data() {
		assert.Equal(t, i, x.Index())
	}
}

func TestIncrementalArrayAddAndRemoveTogether(t *testing.T) {
	a := container.NewIncrementalArray[*arrayItem]()
	items := make([]*arrayItem, 0)
	for i := 0; i < 3; i++ {
		x := &arrayItem{id: i}
		items = append(items, x)
		a.Add(x)
	}
	a.Prepare()

	// 增 >= 删：新增元素顶替被删元素的位置
	a.Remove(items[0])
	a.Add(&arrayItem{id: 10})
	a.Add(&arrayItem{id: 11})
	a.Prepare()
	assert.Equal(t, 4, a.Len())
	assert.ElementsMatch(t, []int{10, 1, 2, 11}, ids(a))
	for i, x := range a.Data() {
		assert.Equal(t, i, x.Index())
	}
}
