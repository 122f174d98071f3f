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

type UserStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewUserStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter) *UserStorage {
	return &UserStorage{db: db, getter: getter}
}

var userColumns = []string{
	tableinfo.UserIDColumn,
	tableinfo.UserUsernameColumn,
	tableinfo.UserFirstNameColumn,
	tableinfo.UserLastNameColumn,
	tableinfo.UserEmailColumn,
	tableinfo.UserPasswordHashColumn,
	tableinfo.UserCreatedAtColumn,
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	return u, err
}

func (s *UserStorage) CreateUser(ctx context.Context, in model.User) (model.User, error) {
	query, args, err := sq.
		Insert(tableinfo.UsersTableName).
		Columns(
			tableinfo.UserUsernameColumn,
			tableinfo.UserFirstNameColumn,
			tableinfo.UserLastNameColumn,
			tableinfo.UserEmailColumn,
			tableinfo.UserPasswordHashColumn,
		).
		Values(in.Username, in.FirstName, in.LastName, in.Email, in.PasswordHash).
		Suffix("RETURNING "+joinColumns(userColumns)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanUser(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, service.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("exec insert user: %w", err)
	}
	return out, nil
}

func (s *UserStorage) getUser(ctx context.Context, where sq.Eq) (model.User, error) {
	query, args, err := sq.
		Select(userColumns...).
		From(tableinfo.UsersTableName).
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanUser(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, service.ErrNotFound
		}
		return model.User{}, fmt.Errorf("exec select user: %w", err)
	}
	return out, nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	return s.getUser(ctx, sq.Eq{tableinfo.UserIDColumn: userID})
}

func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return s.getUser(ctx, sq.Eq{tableinfo.UserUsernameColumn: username})
}
