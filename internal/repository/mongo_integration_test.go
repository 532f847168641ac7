//go:build integration

package repository_test

import (
	"context"
	"testing"

	"github.com/deppfellow/registration-service/internal/model"
	"github.com/deppfellow/registration-service/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepositorySuite struct {
	suite.Suite
	container *tcmongo.MongoDBContainer
	client    *mongo.Client
	db        *mongo.Database
	repo      *repository.MongoRegistrationRepository
}

func TestMongoRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(MongoRepositorySuite))
}

func (s *MongoRepositorySuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7")
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(ctx)
	s.Require().NoError(err)

	s.client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	s.Require().NoError(err)
	s.db = s.client.Database("registration")

	logger := zerolog.Nop()
	s.repo = repository.NewMongoRegistrationRepository(s.db, &logger)
	s.Require().NoError(s.repo.InitSchema(ctx))
}

func (s *MongoRepositorySuite) TearDownSuite() {
	ctx := context.Background()
	if s.client != nil {
		_ = s.client.Disconnect(ctx)
	}
	if s.container != nil {
		s.Require().NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *MongoRepositorySuite) SetupTest() {
	_, err := s.db.Collection(repository.TableName).DeleteMany(context.Background(), bson.M{})
	s.Require().NoError(err)
}

func (s *MongoRepositorySuite) TestInitSchemaIsIdempotent() {
	ctx := context.Background()

	s.Require().NoError(s.repo.InitSchema(ctx))
	s.Require().NoError(s.repo.InitSchema(ctx))

	names, err := s.db.ListCollectionNames(ctx, bson.M{"name": repository.TableName})
	s.Require().NoError(err)
	s.Equal([]string{repository.TableName}, names)
}

func (s *MongoRepositorySuite) TestSaveAndReadBack() {
	ctx := context.Background()
	postcode := "12345"
	reg := &model.Registration{
		Email:        "a@b.com",
		FirstName:    "A",
		LastName:     "B",
		Country:      "X",
		MobileNumber: "123",
		Postcode:     &postcode,
		Involvement:  "volunteer",
		Specialties:  model.Specialties{"design", "code"},
		Referral:     "friend",
	}

	s.Require().NoError(s.repo.Save(ctx, reg))
	s.Require().NotEmpty(reg.ID)

	id, err := primitive.ObjectIDFromHex(reg.ID)
	s.Require().NoError(err)

	var stored bson.M
	s.Require().NoError(s.db.Collection(repository.TableName).FindOne(ctx, bson.M{"_id": id}).Decode(&stored))

	s.Equal("a@b.com", stored["email"])
	s.Equal("12345", stored["postcode"])
	s.NotContains(stored, "province")
	s.Equal(bson.A{"design", "code"}, stored["specialties"])
}

func (s *MongoRepositorySuite) TestDuplicateEmailsAreAllowed() {
	ctx := context.Background()

	for range 2 {
		reg := &model.Registration{
			Email: "dup@b.com", FirstName: "A", LastName: "B", Country: "X",
			MobileNumber: "1", Involvement: "v", Specialties: model.Specialties{}, Referral: "r",
		}
		s.Require().NoError(s.repo.Save(ctx, reg))
	}

	count, err := s.db.Collection(repository.TableName).CountDocuments(ctx, bson.M{"email": "dup@b.com"})
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}

func (s *MongoRepositorySuite) TestValidatorRejectsForeignWrites() {
	_, err := s.db.Collection(repository.TableName).InsertOne(context.Background(), bson.M{"email": "a@b.com"})
	s.Require().Error(err)

	var serverErr mongo.ServerError
	s.Require().ErrorAs(err, &serverErr)
	s.True(serverErr.HasErrorCode(121))
}
