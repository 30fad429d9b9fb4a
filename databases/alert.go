package databases

// go generate: mockery --name AlertDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daynight-rp/dispatch-api/models"
)

const alertName = "alerts"

// AlertDatabase contains the methods to use with the alert collection
type AlertDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Alert, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(context.Context, interface{}, ...*options.DeleteOptions) (int64, error)
}

type alertDatabase struct {
	db DatabaseHelper
}

// NewAlertDatabase initializes a new instance of alert database with the provided db connection
func NewAlertDatabase(db DatabaseHelper) AlertDatabase {
	return &alertDatabase{
		db: db,
	}
}

func (a *alertDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Alert, error) {
	var alerts []models.Alert
	cr, err := a.db.Collection(alertName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&alerts)
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (a *alertDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return a.db.Collection(alertName).InsertOne(ctx, document, opts...)
}

func (a *alertDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return a.db.Collection(alertName).DeleteOne(ctx, filter, opts...)
}
