package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/registration-service/internal/errs"
	"github.com/deppfellow/registration-service/internal/model"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Server error codes, see https://www.mongodb.com/docs/manual/reference/error-codes/
const (
	mongoCodeNamespaceExists    = 48
	mongoCodeDocumentValidation = 121
)

// registrationDocument is the stored shape; specialties stays a native array.
type registrationDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	FirstName    string             `bson:"firstName"`
	LastName     string             `bson:"lastName"`
	Country      string             `bson:"country"`
	MobileNumber string             `bson:"mobileNumber"`
	Province     *string            `bson:"province,omitempty"`
	City         *string            `bson:"city,omitempty"`
	Postcode     *string            `bson:"postcode,omitempty"`
	Involvement  string             `bson:"involvement"`
	Specialties  []string           `bson:"specialties"`
	Referral     string             `bson:"referral"`
}

func newRegistrationDocument(reg *model.Registration) registrationDocument {
	specialties := []string(reg.Specialties)
	if specialties == nil {
		specialties = []string{}
	}

	return registrationDocument{
		Email:        reg.Email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Country:      reg.Country,
		MobileNumber: reg.MobileNumber,
		Province:     reg.Province,
		City:         reg.City,
		Postcode:     reg.Postcode,
		Involvement:  reg.Involvement,
		Specialties:  specialties,
		Referral:     reg.Referral,
	}
}

// MongoRegistrationRepository stores registrations in the users collection.
type MongoRegistrationRepository struct {
	db  *mongo.Database
	log *zerolog.Logger
}

func NewMongoRegistrationRepository(db *mongo.Database, logger *zerolog.Logger) *MongoRegistrationRepository {
	return &MongoRegistrationRepository{db: db, log: logger}
}

// registrationSchema mirrors the validator rules so the collection rejects
// documents written by other clients that skip them.
func registrationSchema() bson.M {
	str := bson.M{"bsonType": "string"}

	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{
				"email", "firstName", "lastName", "country", "mobileNumber",
				"involvement", "specialties", "referral",
			},
			"properties": bson.M{
				"email":        str,
				"firstName":    str,
				"lastName":     str,
				"country":      str,
				"mobileNumber": str,
				"province":     str,
				"city":         str,
				"postcode":     str,
				"involvement":  str,
				"specialties":  bson.M{"bsonType": "array", "items": str},
				"referral":     str,
			},
		},
	}
}

// InitSchema creates the collection with its validator and the email index.
// An existing collection is left as is.
func (r *MongoRegistrationRepository) InitSchema(ctx context.Context) error {
	opts := options.CreateCollection().SetValidator(registrationSchema())

	err := r.db.CreateCollection(ctx, TableName, opts)
	switch {
	case err == nil:
		r.log.Info().Str("collection", TableName).Msg("created collection")
	case isNamespaceExists(err):
		r.log.Info().Str("collection", TableName).Msg("collection already exists")
	default:
		return pkgerrors.Wrapf(err, "create %s collection", TableName)
	}

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_users_email"),
	}
	if _, err := r.db.Collection(TableName).Indexes().CreateOne(ctx, index); err != nil {
		return pkgerrors.Wrapf(err, "create %s email index", TableName)
	}

	return nil
}

func (r *MongoRegistrationRepository) Save(ctx context.Context, reg *model.Registration) error {
	res, err := r.db.Collection(TableName).InsertOne(ctx, newRegistrationDocument(reg))
	if err != nil {
		return classifyMongoError(pkgerrors.Wrap(err, "insert registration"))
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		reg.ID = id.Hex()
	}
	return nil
}

func (r *MongoRegistrationRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, readpref.Primary())
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == mongoCodeNamespaceExists || cmdErr.Name == "NamespaceExists"
	}
	return false
}

// classifyMongoError converts a driver failure into a storage error whose
// code names the failure class.
func classifyMongoError(err error) error {
	var code string

	var serverErr mongo.ServerError
	switch {
	case mongo.IsDuplicateKeyError(err):
		code = "USER_ALREADY_EXISTS"
	case errors.As(err, &serverErr) && serverErr.HasErrorCode(mongoCodeDocumentValidation):
		code = "USER_INVALID"
	case mongo.IsTimeout(err):
		code = "USER_TIMEOUT"
	case mongo.IsNetworkError(err):
		code = "USER_UNAVAILABLE"
	default:
		code = "USER_ERROR"
	}

	return errs.NewStorageError(err, &code)
}
