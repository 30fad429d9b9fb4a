package databases

// go generate: mockery --name WantedDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daynight-rp/dispatch-api/models"
)

const wantedName = "wanted"

// WantedDatabase contains the methods to use with the wanted collection
type WantedDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.WantedEntry, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(context.Context, interface{}, ...*options.DeleteOptions) (int64, error)
}

type wantedDatabase struct {
	db DatabaseHelper
}

// NewWantedDatabase initializes a new instance of wanted database with the provided db connection
func NewWantedDatabase(db DatabaseHelper) WantedDatabase {
	return &wantedDatabase{
		db: db,
	}
}

func (w *wantedDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.WantedEntry, error) {
	var entries []models.WantedEntry
	cr, err := w.db.Collection(wantedName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (w *wantedDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return w.db.Collection(wantedName).InsertOne(ctx, document, opts...)
}

func (w *wantedDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return w.db.Collection(wantedName).DeleteOne(ctx, filter, opts...)
}
