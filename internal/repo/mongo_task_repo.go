package repo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	dom "taskman/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const tasksCollection = "tasks"

// taskDocument is the persisted shape of a task. created_at/updated_at are
// write-side metadata and never surface into the domain entity.
type taskDocument struct {
	ID          string     `bson:"_id"`
	Name        string     `bson:"name"`
	Description string     `bson:"description,omitempty"`
	DueDate     *time.Time `bson:"due_date,omitempty"`
	Status      string     `bson:"status"`
	Priority    string     `bson:"priority"`
	Tags        []string   `bson:"tags"`
	OwnerID     string     `bson:"owner_id"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func newTaskDocument(t dom.Task) taskDocument {
	return taskDocument{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Tags:        append([]string(nil), t.Tags...),
		OwnerID:     t.OwnerID.String(),
	}
}

func (d taskDocument) toDomain() (dom.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return dom.Task{}, fmt.Errorf("task %q: bad id: %w", d.ID, err)
	}
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return dom.Task{}, fmt.Errorf("task %q: bad owner id: %w", d.ID, err)
	}
	return dom.Task{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		DueDate:     d.DueDate,
		Status:      dom.TaskStatus(d.Status),
		Priority:    dom.TaskPriority(d.Priority),
		Tags:        append([]string(nil), d.Tags...),
		OwnerID:     owner,
	}, nil
}

// MongoTaskRepo is the document-store backend. Ordering is pushed into an
// aggregation pipeline whose sort keys reproduce the in-memory comparator
// (nulls-last due dates, declaration-order enums, id tie-break), so both
// backends page identically over the same logical dataset.
type MongoTaskRepo struct {
	col *mongo.Collection
}

// NewMongoTaskRepo returns a task repo over the given database's "tasks"
// collection.
func NewMongoTaskRepo(db *mongo.Database) *MongoTaskRepo {
	return &MongoTaskRepo{col: db.Collection(tasksCollection)}
}

// EnsureTaskIndexes creates the query indexes; owner_id carries every
// authenticated lookup.
func EnsureTaskIndexes(ctx context.Context, db *mongo.Database) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "due_date", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "priority", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}
	_, err := db.Collection(tasksCollection).Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("create task indexes: %w", err)
	}
	return nil
}

func (r *MongoTaskRepo) Save(ctx context.Context, t dom.Task) (dom.Task, error) {
	doc := newTaskDocument(t)
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":        doc.Name,
			"description": doc.Description,
			"due_date":    doc.DueDate,
			"status":      doc.Status,
			"priority":    doc.Priority,
			"tags":        doc.Tags,
			"owner_id":    doc.OwnerID,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, opts); err != nil {
		return dom.Task{}, fmt.Errorf("save task: %w", err)
	}
	return t.Clone(), nil
}

func (r *MongoTaskRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (dom.Task, error) {
	filter := bson.M{"_id": id.String()}
	if ownerID != uuid.Nil {
		filter["owner_id"] = ownerID.String()
	}
	var doc taskDocument
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return dom.Task{}, ErrNoTask
	}
	if err != nil {
		return dom.Task{}, fmt.Errorf("find task: %w", err)
	}
	return doc.toDomain()
}

func (r *MongoTaskRepo) DeleteByID(ctx context.Context, id, ownerID uuid.UUID) error {
	filter := bson.M{"_id": id.String()}
	if ownerID != uuid.Nil {
		filter["owner_id"] = ownerID.String()
	}
	if _, err := r.col.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *MongoTaskRepo) FindTasks(ctx context.Context, f TaskFilter, page, size int, sortOpt dom.SortOption) (dom.Page[dom.Task], error) {
	match := filterQuery(f)

	total, err := r.col.CountDocuments(ctx, match)
	if err != nil {
		return dom.Page[dom.Task]{}, fmt.Errorf("count tasks: %w", err)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
	}
	pipeline = append(pipeline, sortStages(sortOpt)...)
	pipeline = append(pipeline,
		bson.D{{Key: "$skip", Value: int64(page) * int64(size)}},
		bson.D{{Key: "$limit", Value: int64(size)}},
	)

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return dom.Page[dom.Task]{}, fmt.Errorf("query tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return dom.Page[dom.Task]{}, fmt.Errorf("decode tasks: %w", err)
	}

	elements := make([]dom.Task, 0, len(docs))
	for _, d := range docs {
		t, err := d.toDomain()
		if err != nil {
			return dom.Page[dom.Task]{}, err
		}
		elements = append(elements, t)
	}

	return dom.Page[dom.Task]{
		Elements:      elements,
		TotalElements: int(total),
		TotalPages:    (int(total) + size - 1) / size,
		PageSize:      size,
		PageNumber:    page,
	}, nil
}

func filterQuery(f TaskFilter) bson.M {
	q := bson.M{}
	if f.OwnerID != uuid.Nil {
		q["owner_id"] = f.OwnerID.String()
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}
	if f.Status != nil {
		q["status"] = string(*f.Status)
	}
	if f.Priority != nil {
		q["priority"] = string(*f.Priority)
	}
	if strings.TrimSpace(f.Tag) != "" {
		q["tags"] = f.Tag
	}
	return q
}

// sortStages builds the pipeline stages reproducing the in-memory order.
// Due dates get a computed missing flag sorted ahead of the direction so
// null placement does not flip on desc; enums sort by declaration index
// via $indexOfArray. Every sort ends on _id ascending for the tie-break.
func sortStages(sortOpt dom.SortOption) []bson.D {
	dir := 1
	if sortOpt.Direction == dom.SortDesc {
		dir = -1
	}
	switch sortOpt.Field {
	case dom.SortByDueDate:
		return []bson.D{
			{{Key: "$addFields", Value: bson.M{
				"_due_missing": bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{"$due_date", nil}}, nil}},
			}}},
			{{Key: "$sort", Value: bson.D{
				{Key: "_due_missing", Value: 1},
				{Key: "due_date", Value: dir},
				{Key: "_id", Value: 1},
			}}},
		}
	case dom.SortByStatus:
		return enumSortStages("$status", []string{"NOT_STARTED", "IN_PROGRESS", "DONE"}, dir)
	case dom.SortByPriority:
		return enumSortStages("$priority", []string{"URGENT", "HIGH", "MEDIUM", "LOW"}, dir)
	}
	// name: plain binary string order.
	return []bson.D{
		{{Key: "$sort", Value: bson.D{
			{Key: "name", Value: dir},
			{Key: "_id", Value: 1},
		}}},
	}
}

func enumSortStages(field string, order []string, dir int) []bson.D {
	values := make(bson.A, len(order))
	for i, v := range order {
		values[i] = v
	}
	return []bson.D{
		{{Key: "$addFields", Value: bson.M{
			"_ord": bson.M{"$indexOfArray": bson.A{values, field}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_ord", Value: dir},
			{Key: "_id", Value: 1},
		}}},
	}
}
