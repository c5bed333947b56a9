package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	cases := []struct {
		items []int
		size  int
		want  [][]int
	}{
		{[]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}, 5, [][]int{{1, 2, 3, 4, 5}, {6, 7, 8, 9, 10}, {11, 12, 13}}},
		{[]int{25, 64, 121, 196, 289}, 3, [][]int{{25, 64, 121}, {196, 289}}},
		{[]int{5, 5, 5}, 2, [][]int{{5, 5}, {5}}},
		{[]int{5, 4, 3, 2}, 4, [][]int{{5, 4, 3, 2}}},
		{[]int{5, 4, 3, 2}, 2, [][]int{{5, 4}, {3, 2}}},
		{nil, 9, [][]int{}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Paginate(tc.items, tc.size))
	}
}

func TestPaginateRoundTrip(t *testing.T) {
	for n := 0; n <= 40; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i * 7
		}
		for _, size := range []int{1, 3, 9, 10} {
			var joined []int
			for _, page := range Paginate(items, size) {
				assert.LessOrEqual(t, len(page), size)
				assert.NotEmpty(t, page)
				joined = append(joined, page...)
			}
			if n == 0 {
				assert.Empty(t, joined)
				continue
			}
			assert.Equal(t, items, joined, "n=%d size=%d", n, size)
		}
	}
}

func TestPaginateTwentyThreeByNine(t *testing.T) {
	items := make([]string, 23)
	pages := Paginate(items, 9)

	sizes := make([]int, len(pages))
	for i, p := range pages {
		sizes[i] = len(p)
	}
	assert.Equal(t, []int{9, 9, 5}, sizes)

	next, err := Flip(Right, 3, len(pages))
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestPaginatePagesDoNotAlias(t *testing.T) {
	items := []int{1, 2, 3, 4}
	pages := Paginate(items, 2)
	pages[0] = append(pages[0], 99)
	assert.Equal(t, []int{3, 4}, pages[1])
}

func TestFlip(t *testing.T) {
	cases := []struct {
		dir     Direction
		current int
		total   int
		want    int
	}{
		{Right, 3, 5, 4},
		{Left, 3, 5, 2},
		{Right, 5, 5, 1},
		{Left, 1, 5, 5},
		{Right, 6, 7, 7},
		{Left, 2, 10, 1},
		{Left, 1, 1, 1},
		{Right, 1, 1, 1},
	}
	for _, tc := range cases {
		got, err := Flip(tc.dir, tc.current, tc.total)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s from %d of %d", tc.dir, tc.current, tc.total)
	}
}

func TestFlipWrapsForAllSizes(t *testing.T) {
	for n := 1; n <= 20; n++ {
		got, err := Flip(Left, 1, n)
		require.NoError(t, err)
		assert.Equal(t, n, got)

		got, err = Flip(Right, n, n)
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	}
}

func TestFlipUnknownDirection(t *testing.T) {
	_, err := Flip(Direction("up"), 1, 2)
	assert.ErrorIs(t, err, ErrUnknownDirection)
}
