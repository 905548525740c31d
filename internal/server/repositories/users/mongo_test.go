package users

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/wizardry/internal/common"
	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns object id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		got, err := repo.Create(context.Background(), &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
		require.NoError(mt, err)
		_, err = primitive.ObjectIDFromHex(got.ID)
		assert.NoError(mt, err)
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := repo.Create(context.Background(), &models.User{Username: "alice", Email: "alice@example.com"})
		assert.ErrorIs(mt, err, common.ErrorAlreadyExists)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		oid := primitive.NewObjectID()
		created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "blog.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "username", Value: "alice"},
			{Key: "email", Value: "alice@example.com"},
			{Key: "password", Value: "hash"},
			{Key: "createdAt", Value: created},
		}))

		got, err := repo.FindByEmail(context.Background(), "alice@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), got.ID)
		assert.Equal(mt, "alice", got.Username)
		assert.Equal(mt, "hash", got.PasswordHash)
		assert.True(mt, created.Equal(got.CreatedAt))
	})

	mt.Run("find missing", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "blog.users", mtest.FirstBatch))

		_, err := repo.FindByEmailOrUsername(context.Background(), "x@example.com", "x")
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("find by malformed id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		_, err := repo.FindByID(context.Background(), "zzz")
		assert.ErrorIs(mt, err, common.ErrInvalidID)
	})

	mt.Run("command error is wrapped", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "boom",
		}))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "db error")
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, repo.EnsureIndexes(context.Background()))
	})
}
