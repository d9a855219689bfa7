package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/support-desk/internal/domain"
)

func stageName(t *testing.T, stage bson.D) string {
	t.Helper()
	require.Len(t, stage, 1)
	return stage[0].Key
}

func facetBranches(t *testing.T, stage bson.D) (tickets, total bson.A) {
	t.Helper()
	require.Equal(t, "$facet", stageName(t, stage))
	facet, ok := stage[0].Value.(bson.D)
	require.True(t, ok)
	m := facet.Map()
	tickets, ok = m["tickets"].(bson.A)
	require.True(t, ok)
	total, ok = m["total"].(bson.A)
	require.True(t, ok)
	return tickets, total
}

func TestListPipelineWithoutFilterMatchesAll(t *testing.T) {
	pipeline := listPipeline(TicketFilter{Skip: 0, Limit: 10})
	require.Len(t, pipeline, 3)

	assert.Equal(t, "$match", stageName(t, pipeline[0]))
	assert.Empty(t, pipeline[0][0].Value)
	assert.Equal(t, "$sort", stageName(t, pipeline[1]))
}

func TestListPipelineAppliesEqualityFilters(t *testing.T) {
	status := domain.TicketStatusResolved
	typ := domain.TicketTypeBilling
	pipeline := listPipeline(TicketFilter{Status: &status, Type: &typ, Skip: 20, Limit: 10})

	match, ok := pipeline[0][0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.D{
		{Key: "ticketStatus", Value: domain.TicketStatusResolved},
		{Key: "ticketType", Value: domain.TicketTypeBilling},
	}, match)

	tickets, total := facetBranches(t, pipeline[2])
	assert.Equal(t, bson.D{{Key: "$skip", Value: int64(20)}}, tickets[0])
	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(10)}}, tickets[1])
	// the customer join runs on the page only
	require.Len(t, tickets, 4)
	assert.Equal(t, "$lookup", stageName(t, tickets[2].(bson.D)))
	assert.Equal(t, "$unwind", stageName(t, tickets[3].(bson.D)))
	assert.Equal(t, bson.A{bson.D{{Key: "$count", Value: "count"}}}, total)
}

func TestCustomerLookupKeepsOrphans(t *testing.T) {
	stages := customerLookupStages()
	require.Len(t, stages, 2)

	lookup := stages[0][0].Value.(bson.D).Map()
	assert.Equal(t, CustomersCollection, lookup["from"])
	assert.Equal(t, "userId", lookup["localField"])
	assert.Equal(t, "_id", lookup["foreignField"])
	assert.Equal(t, "customer", lookup["as"])

	unwind := stages[1][0].Value.(bson.D).Map()
	assert.Equal(t, "$customer", unwind["path"])
	assert.Equal(t, true, unwind["preserveNullAndEmptyArrays"])
}

func TestSearchPipelineJoinsBeforeMatching(t *testing.T) {
	pipeline := searchPipeline(TicketSearch{Text: "billing", Skip: 0, Limit: 5})
	require.Len(t, pipeline, 5)

	assert.Equal(t, "$lookup", stageName(t, pipeline[0]))
	assert.Equal(t, "$unwind", stageName(t, pipeline[1]))
	assert.Equal(t, "$match", stageName(t, pipeline[2]))
	assert.Equal(t, "$sort", stageName(t, pipeline[3]))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, pipeline[3][0].Value)

	tickets, _ := facetBranches(t, pipeline[4])
	assert.Len(t, tickets, 2)
}

func TestSearchMatchCoversEveryField(t *testing.T) {
	match := searchMatch("Billing")
	require.Len(t, match, 1)
	require.Equal(t, "$or", match[0].Key)

	clauses := match[0].Value.(bson.A)
	require.Len(t, clauses, len(searchFields))
	for i, clause := range clauses {
		d := clause.(bson.D)
		assert.Equal(t, searchFields[i], d[0].Key)
		assert.Equal(t, primitive.Regex{Pattern: "Billing", Options: "i"}, d[0].Value)
	}
}

func TestSearchMatchEscapesRegex(t *testing.T) {
	match := searchMatch("a.b(c")
	clause := match[0].Value.(bson.A)[0].(bson.D)
	assert.Equal(t, `a\.b\(c`, clause[0].Value.(primitive.Regex).Pattern)
}

func TestSearchMatchEmptyTextMatchesAll(t *testing.T) {
	assert.Empty(t, searchMatch(""))
	assert.Empty(t, searchMatch("   "))
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(mongo.ErrNoDocuments), ErrNotFound)
	assert.ErrorIs(t, translateError(fmt.Errorf("decode: %w", mongo.ErrNoDocuments)), ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, translateError(dup), ErrDuplicateKey)

	other := errors.New("connection refused")
	assert.Equal(t, other, translateError(other))
}
