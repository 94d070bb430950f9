package query

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPipelineStageOrder(t *testing.T) {
	p := New().
		Match(bson.M{"owner": "abc"}).
		Sort("createdAt", true).
		Skip(10).
		Limit(5)

	stages := p.Build()
	require.Len(t, stages, 4)
	require.Equal(t, "$match", stages[0][0].Key)
	require.Equal(t, "$sort", stages[1][0].Key)
	require.Equal(t, "$skip", stages[2][0].Key)
	require.Equal(t, "$limit", stages[3][0].Key)
}

func TestSortDirection(t *testing.T) {
	desc := New().Sort("createdAt", true).Build()
	spec, ok := desc[0][0].Value.(bson.D)
	require.True(t, ok)
	require.Equal(t, "createdAt", spec[0].Key)
	require.Equal(t, -1, spec[0].Value)

	asc := New().Sort("views", false).Build()
	spec = asc[0][0].Value.(bson.D)
	require.Equal(t, 1, spec[0].Value)
}

func TestLookupWithSubPipeline(t *testing.T) {
	sub := New().Project(bson.M{"username": 1, "fullName": 1, "avatar": 1})
	p := New().Lookup("users", "owner", "_id", "owner", sub)

	stages := p.Build()
	require.Len(t, stages, 1)

	spec, ok := stages[0][0].Value.(bson.M)
	require.True(t, ok)
	require.Equal(t, "users", spec["from"])
	require.Equal(t, "owner", spec["localField"])
	require.Equal(t, "_id", spec["foreignField"])
	require.Contains(t, spec, "pipeline")
}

func TestLookupWithoutSubPipelineOmitsKey(t *testing.T) {
	p := New().Lookup("subscriptions", "_id", "channel", "subscribers", nil)
	spec := p.Build()[0][0].Value.(bson.M)
	require.NotContains(t, spec, "pipeline")
}

func TestUnwindPreserveFlag(t *testing.T) {
	p := New().Unwind("$subscriber", true)
	spec := p.Build()[0][0].Value.(bson.M)
	require.Equal(t, "$subscriber", spec["path"])
	require.Equal(t, true, spec["preserveNullAndEmptyArrays"])
}

func TestExpressionHelpers(t *testing.T) {
	require.Equal(t, bson.M{"$size": "$subscribers"}, Size("$subscribers"))
	require.Equal(t, bson.M{"$first": "$owner"}, First("$owner"))
	require.Equal(t, bson.M{"$sum": "$views"}, Sum("$views"))

	in := In("id-1", "$subscribers.subscriber")
	require.Equal(t, bson.M{"$in": bson.A{"id-1", "$subscribers.subscriber"}}, in)

	cond := Cond(in, true, false)
	inner := cond["$cond"].(bson.M)
	require.Equal(t, in, inner["if"])
	require.Equal(t, true, inner["then"])
	require.Equal(t, false, inner["else"])
}
