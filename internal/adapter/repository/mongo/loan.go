package mongo

import (
	"context"
	"errors"
	"time"

	loanDomain "loanflow-backend/internal/domain/loan"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const loanCollection = "loans"

type LoanRepository struct{ coll *mongodrv.Collection }

func NewLoanRepository(db *mongodrv.Database) *LoanRepository {
	return &LoanRepository{coll: db.Collection(loanCollection)}
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	_, err := r.coll.InsertOne(ctx, l)
	return err
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := r.coll.FindOne(ctx, bson.M{"loan_id": loanID}).Decode(&out)
	if errors.Is(err, mongodrv.ErrNoDocuments) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.ListFilter) ([]loanDomain.Loan, error) {
	filter := bson.M{}
	if f.Email != "" {
		filter["email"] = f.Email
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "applied_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []loanDomain.Loan
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LoanRepository) UpdateStatus(ctx context.Context, loanID string, from, to loanDomain.Status, decidedAt time.Time) (int64, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"loan_id": loanID, "status": from},
		bson.M{"$set": bson.M{"status": to, "decided_at": decidedAt}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *LoanRepository) SetPaymentIfAbsent(ctx context.Context, loanID string, p *loanDomain.Payment) (int64, error) {
	// Matching on the absence of the payment sub-document makes webhook
	// redelivery a no-op at the store level.
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"loan_id": loanID, "payment": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"fee_status": loanDomain.FeePaid, "payment": p}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *LoanRepository) Delete(ctx context.Context, loanID string, onlyStatus loanDomain.Status) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"loan_id": loanID, "status": onlyStatus})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
