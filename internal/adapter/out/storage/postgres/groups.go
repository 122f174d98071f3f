package postgres

import (
	"context"
	"errors"
	"fmt"

	"yatube/internal/model"
	"yatube/internal/service"
	"yatube/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

type GroupStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewGroupStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter) *GroupStorage {
	return &GroupStorage{db: db, getter: getter}
}

var groupColumns = []string{
	tableinfo.GroupIDColumn,
	tableinfo.GroupTitleColumn,
	tableinfo.GroupSlugColumn,
	tableinfo.GroupDescriptionColumn,
}

func scanGroup(row pgx.Row) (model.Group, error) {
	var g model.Group
	err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	return g, err
}

func (s *GroupStorage) CreateGroup(ctx context.Context, in model.Group) (model.Group, error) {
	query, args, err := sq.
		Insert(tableinfo.GroupsTableName).
		Columns(
			tableinfo.GroupTitleColumn,
			tableinfo.GroupSlugColumn,
			tableinfo.GroupDescriptionColumn,
		).
		Values(in.Title, in.Slug, in.Description).
		Suffix("RETURNING "+joinColumns(groupColumns)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Group{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanGroup(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Group{}, service.ErrAlreadyExists
		}
		return model.Group{}, fmt.Errorf("exec insert group: %w", err)
	}
	return out, nil
}

func (s *GroupStorage) getGroup(ctx context.Context, where sq.Eq) (model.Group, error) {
	query, args, err := sq.
		Select(groupColumns...).
		From(tableinfo.GroupsTableName).
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Group{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanGroup(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Group{}, service.ErrNotFound
		}
		return model.Group{}, fmt.Errorf("exec select group: %w", err)
	}
	return out, nil
}

func (s *GroupStorage) GetGroupBySlug(ctx context.Context, slug string) (model.Group, error) {
	return s.getGroup(ctx, sq.Eq{tableinfo.GroupSlugColumn: slug})
}

func (s *GroupStorage) GetGroupByID(ctx context.Context, groupID int64) (model.Group, error) {
	return s.getGroup(ctx, sq.Eq{tableinfo.GroupIDColumn: groupID})
}
