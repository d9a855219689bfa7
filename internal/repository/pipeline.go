package repository

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// searchFields are matched case-insensitively by Search. The customer
// fields only exist after the lookup stage.
var searchFields = []string{
	"ticketId",
	"ticketType",
	"ticketStatus",
	"messages.comments",
	"customer.fullName",
	"customer.email",
}

func filterDocument(filter TicketFilter) bson.D {
	match := bson.D{}
	if filter.Status != nil {
		match = append(match, bson.E{Key: "ticketStatus", Value: *filter.Status})
	}
	if filter.Type != nil {
		match = append(match, bson.E{Key: "ticketType", Value: *filter.Type})
	}
	return match
}

// customerLookupStages left-joins the owning customer, keeping tickets
// whose customer no longer exists.
func customerLookupStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CustomersCollection},
			{Key: "localField", Value: "userId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "fullName", Value: 1},
					{Key: "email", Value: 1},
				}}},
			}},
			{Key: "as", Value: "customer"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$customer"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

func pageStage(skip, limit int64, extra ...bson.D) bson.D {
	tickets := bson.A{
		bson.D{{Key: "$skip", Value: skip}},
		bson.D{{Key: "$limit", Value: limit}},
	}
	for _, stage := range extra {
		tickets = append(tickets, stage)
	}
	return bson.D{{Key: "$facet", Value: bson.D{
		{Key: "tickets", Value: tickets},
		{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "count"}}}},
	}}}
}

func listPipeline(filter TicketFilter) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: filterDocument(filter)}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		pageStage(filter.Skip, filter.Limit, customerLookupStages()...),
	}
}

func searchMatch(text string) bson.D {
	text = strings.TrimSpace(text)
	if text == "" {
		return bson.D{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
	clauses := make(bson.A, 0, len(searchFields))
	for _, field := range searchFields {
		clauses = append(clauses, bson.D{{Key: field, Value: pattern}})
	}
	return bson.D{{Key: "$or", Value: clauses}}
}

func searchPipeline(search TicketSearch) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	pipeline = append(pipeline, customerLookupStages()...)
	pipeline = append(pipeline,
		bson.D{{Key: "$match", Value: searchMatch(search.Text)}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		pageStage(search.Skip, search.Limit),
	)
	return pipeline
}
