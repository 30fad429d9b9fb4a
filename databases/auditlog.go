package databases

// go generate: mockery --name AuditLogDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daynight-rp/dispatch-api/models"
)

const logName = "logs"

// AuditLogDatabase contains the methods to use with the audit log
// collection. The collection is append-only: nothing in the codebase
// updates or deletes entries.
type AuditLogDatabase interface {
	Record(context.Context, string) error
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.AuditLogEntry, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
}

type auditLogDatabase struct {
	db DatabaseHelper
}

// NewAuditLogDatabase initializes a new instance of audit log database with the provided db connection
func NewAuditLogDatabase(db DatabaseHelper) AuditLogDatabase {
	return &auditLogDatabase{
		db: db,
	}
}

// Record appends one entry stamped with the server clock in UTC
func (l *auditLogDatabase) Record(ctx context.Context, msg string) error {
	entry := models.AuditLogEntry{
		ID:  primitive.NewObjectID(),
		Msg: msg,
		T:   primitive.NewDateTimeFromTime(time.Now().UTC()),
	}
	_, err := l.db.Collection(logName).InsertOne(ctx, entry)
	return err
}

func (l *auditLogDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.AuditLogEntry, error) {
	var entries []models.AuditLogEntry
	cr, err := l.db.Collection(logName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (l *auditLogDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return l.db.Collection(logName).CountDocuments(ctx, filter, opts...)
}
