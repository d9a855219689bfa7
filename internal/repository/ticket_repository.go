package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/support-desk/internal/domain"
)

// TicketFilter captures list parameters. Nil fields are not filtered on.
type TicketFilter struct {
	Status *domain.TicketStatus
	Type   *domain.TicketType
	Skip   int64
	Limit  int64
}

// TicketSearch captures free-text search parameters.
type TicketSearch struct {
	Text  string
	Skip  int64
	Limit int64
}

// TicketPatch is a partial update. Nil fields are left untouched.
type TicketPatch struct {
	TicketID     *string
	TicketType   *domain.TicketType
	TicketStatus *domain.TicketStatus
	UserID       *primitive.ObjectID
	UpdatedAt    time.Time
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) (domain.TicketPage, error)
	Search(ctx context.Context, search TicketSearch) (domain.TicketPage, error)
	Update(ctx context.Context, id primitive.ObjectID, patch TicketPatch) (*domain.Ticket, error)
	AppendMessage(ctx context.Context, id primitive.ObjectID, msg domain.Message, updatedAt time.Time) (*domain.Ticket, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.Ticket, error)
}

type ticketRepository struct {
	coll *mongo.Collection
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db *mongo.Database) TicketRepository {
	return &ticketRepository{coll: db.Collection(TicketsCollection)}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	res, err := r.coll.InsertOne(ctx, ticket)
	if err != nil {
		return translateError(err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	ticket.ID = id
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&ticket); err != nil {
		return nil, translateError(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) (domain.TicketPage, error) {
	return r.aggregatePage(ctx, listPipeline(filter))
}

func (r *ticketRepository) Search(ctx context.Context, search TicketSearch) (domain.TicketPage, error) {
	return r.aggregatePage(ctx, searchPipeline(search))
}

type facetResult struct {
	Tickets []domain.Ticket `bson:"tickets"`
	Total   []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

func (r *ticketRepository) aggregatePage(ctx context.Context, pipeline mongo.Pipeline) (domain.TicketPage, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.TicketPage{}, err
	}
	defer cursor.Close(ctx)

	var results []facetResult
	if err := cursor.All(ctx, &results); err != nil {
		return domain.TicketPage{}, err
	}

	page := domain.TicketPage{Tickets: []domain.Ticket{}}
	if len(results) == 0 {
		return page, nil
	}
	if results[0].Tickets != nil {
		page.Tickets = results[0].Tickets
	}
	if len(results[0].Total) > 0 {
		page.Total = results[0].Total[0].Count
	}
	return page, nil
}

func (r *ticketRepository) Update(ctx context.Context, id primitive.ObjectID, patch TicketPatch) (*domain.Ticket, error) {
	set := bson.D{{Key: "updatedAt", Value: patch.UpdatedAt}}
	if patch.TicketID != nil {
		set = append(set, bson.E{Key: "ticketId", Value: *patch.TicketID})
	}
	if patch.TicketType != nil {
		set = append(set, bson.E{Key: "ticketType", Value: *patch.TicketType})
	}
	if patch.TicketStatus != nil {
		set = append(set, bson.E{Key: "ticketStatus", Value: *patch.TicketStatus})
	}
	if patch.UserID != nil {
		set = append(set, bson.E{Key: "userId", Value: *patch.UserID})
	}
	return r.findOneAndUpdate(ctx, id, bson.D{{Key: "$set", Value: set}})
}

func (r *ticketRepository) AppendMessage(ctx context.Context, id primitive.ObjectID, msg domain.Message, updatedAt time.Time) (*domain.Ticket, error) {
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "messages", Value: msg}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: updatedAt}}},
	}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *ticketRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.D) (*domain.Ticket, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ticket domain.Ticket
	if err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&ticket); err != nil {
		return nil, translateError(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&ticket); err != nil {
		return nil, translateError(err)
	}
	return &ticket, nil
}
