package views

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParsePageParamsDefaults(t *testing.T) {
	req, err := ParsePageParams("", "")
	require.NoError(t, err)
	require.Equal(t, PageRequest{Page: 1, Limit: 10}, req)
}

func TestParsePageParamsExplicit(t *testing.T) {
	req, err := ParsePageParams("3", "25")
	require.NoError(t, err)
	require.Equal(t, PageRequest{Page: 3, Limit: 25}, req)
	require.Equal(t, int64(50), req.Skip())
}

func TestParsePageParamsRejectsNonPositive(t *testing.T) {
	for _, tc := range []struct{ page, limit string }{
		{"0", ""},
		{"-1", ""},
		{"", "0"},
		{"", "-5"},
		{"abc", ""},
		{"", "ten"},
	} {
		_, err := ParsePageParams(tc.page, tc.limit)
		require.ErrorIs(t, err, ErrInvalidPagination, "page=%q limit=%q", tc.page, tc.limit)
	}
}

func TestNewPageMiddleOfSet(t *testing.T) {
	// 12 items, page 2 at limit 5: items 6-10.
	items := make([]int, 5)
	page := NewPage(items, 12, PageRequest{Page: 2, Limit: 5})

	require.Equal(t, int64(12), page.TotalItems)
	require.Equal(t, 3, page.TotalPages)
	require.True(t, page.HasNextPage)
	require.True(t, page.HasPrevPage)
	require.Len(t, page.Items, 5)
}

func TestNewPageBounds(t *testing.T) {
	first := NewPage([]int{1, 2}, 2, PageRequest{Page: 1, Limit: 10})
	require.Equal(t, 1, first.TotalPages)
	require.False(t, first.HasNextPage)
	require.False(t, first.HasPrevPage)

	empty := NewPage[int](nil, 0, PageRequest{Page: 1, Limit: 10})
	require.NotNil(t, empty.Items)
	require.Empty(t, empty.Items)
	require.Equal(t, 0, empty.TotalPages)
	require.False(t, empty.HasNextPage)
}

func TestAverageViewsZeroVideos(t *testing.T) {
	require.Equal(t, float64(0), averageViews(0, 0))
	require.Equal(t, float64(0), averageViews(100, 0))
	require.Equal(t, 2.5, averageViews(10, 4))
}

func TestOrderByIDsFollowsStoredOrder(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	items := []VideoWithOwner{{ID: c}, {ID: a}, {ID: b}}

	ordered := orderByIDs(items, []primitive.ObjectID{a, b, c})
	require.Equal(t, []primitive.ObjectID{a, b, c}, []primitive.ObjectID{ordered[0].ID, ordered[1].ID, ordered[2].ID})

	// Ids with no matching item are skipped, items with no id dropped.
	partial := orderByIDs(items, []primitive.ObjectID{b, primitive.NewObjectID()})
	require.Len(t, partial, 1)
	require.Equal(t, b, partial[0].ID)
}
