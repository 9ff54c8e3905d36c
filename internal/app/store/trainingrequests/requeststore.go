// internal/app/store/trainingrequests/requeststore.go
package requeststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"github.com/dalemusser/trainhub/internal/app/system/requestnum"
	"github.com/dalemusser/trainhub/internal/app/system/status"
	"github.com/dalemusser/trainhub/internal/app/system/workflow"
	"github.com/dalemusser/trainhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxNumberAttempts bounds request-number regeneration when the unique
// index reports a collision.
const maxNumberAttempts = 3

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("training_requests")}
}

// Create inserts a new training request, issuing its request number here so
// a unique-index collision can be retried with a fresh number. The caller
// fills the routing snapshot and initial status before calling.
func (s *Store) Create(ctx context.Context, req models.TrainingRequest) (models.TrainingRequest, error) {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		req.ID = primitive.NewObjectID()
		req.RequestNumber = requestnum.New(time.Now())

		_, err := s.c.InsertOne(ctx, req)
		if err == nil {
			return req, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.TrainingRequest{}, err
		}
	}
	return models.TrainingRequest{}, apperr.DuplicateIdentifier("could not issue a unique request number")
}

// GetByID loads one request.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TrainingRequest, error) {
	var req models.TrainingRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByRequestNumber loads one request by its TRN identifier.
func (s *Store) GetByRequestNumber(ctx context.Context, number string) (*models.TrainingRequest, error) {
	var req models.TrainingRequest
	if err := s.c.FindOne(ctx, bson.M{"request_number": number}).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ApplyDecision advances a request to out.NextStatus. The filter carries
// the expected status, so a request resolved by a concurrent reviewer
// matches nothing and the decision is reported as a conflict instead of
// silently overwriting.
func (s *Store) ApplyDecision(ctx context.Context, id primitive.ObjectID, out workflow.Outcome, reviewerID primitive.ObjectID) error {
	now := time.Now().UTC()
	set := bson.M{"status": out.NextStatus}
	switch out.Stage {
	case workflow.StageManager:
		set["reviewed_by_manager"] = reviewerID
		set["reviewed_by_manager_at"] = now
	case workflow.StageHOD:
		set["reviewed_by_hod"] = reviewerID
		set["reviewed_by_hod_at"] = now
	case workflow.StageAdmin:
		set["reviewed_by_admin"] = reviewerID
		set["reviewed_by_admin_at"] = now
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": out.ExpectedStatus},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.Conflict("request was resolved by another reviewer")
	}
	return nil
}

// DeleteOwnPending removes a request by its owner, but only while no
// reviewer has acted on it. A request any stage has touched stays for the
// audit trail.
func (s *Store) DeleteOwnPending(ctx context.Context, id, requesterID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"_id":                 id,
		"requester_id":        requesterID,
		"status":              bson.M{"$in": []string{status.PendingManager, status.PendingHOD, status.PendingAdmin}},
		"reviewed_by_manager": bson.M{"$exists": false},
		"reviewed_by_hod":     bson.M{"$exists": false},
		"reviewed_by_admin":   bson.M{"$exists": false},
	})
	if err != nil {
		return err
	}
	if res.DeletedCount > 0 {
		return nil
	}

	// Nothing matched; load the doc to say why.
	req, err := s.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("request not found")
		}
		return err
	}
	if req.RequesterID != requesterID {
		return apperr.Forbidden("only the requester can withdraw a request")
	}
	return apperr.Conflict("request is already under review and cannot be withdrawn")
}

// ListMine returns the requester's own requests, newest first.
func (s *Store) ListMine(ctx context.Context, requesterID primitive.ObjectID) ([]models.TrainingRequest, error) {
	return s.list(ctx, bson.M{"requester_id": requesterID})
}

// ListForManager returns the manager's pending queue: requests whose
// snapshotted reviewer set names this manager.
func (s *Store) ListForManager(ctx context.Context, managerID primitive.ObjectID) ([]models.TrainingRequest, error) {
	return s.list(ctx, bson.M{"status": status.PendingManager, "managers": managerID})
}

// ListForHOD returns the head-of-department's pending queue.
func (s *Store) ListForHOD(ctx context.Context, hodID primitive.ObjectID) ([]models.TrainingRequest, error) {
	return s.list(ctx, bson.M{"status": status.PendingHOD, "hod": hodID})
}

// ListForAdmin returns the admin-stage queue. An empty department returns
// every pending request; otherwise the queue is scoped to the requester's
// department. Scoping affects visibility only, not who may decide.
func (s *Store) ListForAdmin(ctx context.Context, department string) ([]models.TrainingRequest, error) {
	filter := bson.M{"status": status.PendingAdmin}
	if department != "" {
		filter["requester_department"] = department
	}
	return s.list(ctx, filter)
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.TrainingRequest, error) {
	cur, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.TrainingRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
