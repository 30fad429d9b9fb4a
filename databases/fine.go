package databases

// go generate: mockery --name FineDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daynight-rp/dispatch-api/models"
)

const fineName = "fines"

// FineDatabase contains the methods to use with the fine collection
type FineDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Fine, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type fineDatabase struct {
	db DatabaseHelper
}

// NewFineDatabase initializes a new instance of fine database with the provided db connection
func NewFineDatabase(db DatabaseHelper) FineDatabase {
	return &fineDatabase{
		db: db,
	}
}

func (f *fineDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Fine, error) {
	var fines []models.Fine
	cr, err := f.db.Collection(fineName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&fines)
	if err != nil {
		return nil, err
	}
	return fines, nil
}

func (f *fineDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return f.db.Collection(fineName).InsertOne(ctx, document, opts...)
}
