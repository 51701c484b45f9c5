package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"motorpool/infras/otel"
	"motorpool/infras/postgres"
	"motorpool/internal/domains/segment/model"
	gDto "motorpool/shared/dto"
	gRepo "motorpool/shared/repository"
)

type Segment interface {
	Insert(ctx context.Context, model model.Segment) error
	InsertBulk(ctx context.Context, models []model.Segment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Segment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Segment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Segment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Segment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Segment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
