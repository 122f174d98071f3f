package service

import (
	"fmt"
	"regexp"
	"strings"

	"yatube/internal/adapter/out/storage"
	"yatube/pkg/pagination"

	"github.com/go-playground/validator/v10"
)

var (
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	return v
}

// FieldError reports a problem with one input field that a struct tag cannot express.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func validateStruct(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

type CreatePostRequest struct {
	AuthorID int64  `validate:"required,gt=0"`
	Text     string `validate:"required"`
	GroupID  *int64 `validate:"omitempty,gt=0"`
	Image    string `validate:"omitempty,max=255"`
}

type EditPostRequest struct {
	PostID   int64  `validate:"required,gt=0"`
	EditorID int64  `validate:"required,gt=0"`
	Text     string `validate:"required"`
	GroupID  *int64 `validate:"omitempty,gt=0"`
	Image    string `validate:"omitempty,max=255"`
}

type CreateCommentRequest struct {
	PostID   int64  `validate:"required,gt=0"`
	AuthorID int64  `validate:"required,gt=0"`
	Text     string `validate:"required"`
}

type CreateGroupRequest struct {
	Title       string `validate:"required,max=200"`
	Slug        string `validate:"required,max=50,slug"`
	Description string `validate:"required"`
}

type SignupRequest struct {
	Username  string `validate:"required,max=150,username"`
	Password  string `validate:"required,min=8,max=72"`
	FirstName string `validate:"max=150"`
	LastName  string `validate:"max=150"`
	Email     string `validate:"omitempty,email"`
}

func normalizeText(s string) string {
	return strings.TrimSpace(s)
}

func validatePagination(in pagination.PageRequest) error {
	beforeCursorProvided := in.BeforeCursor != nil && *in.BeforeCursor != ""
	afterCursorProvided := in.AfterCursor != nil && *in.AfterCursor != ""

	if beforeCursorProvided && afterCursorProvided {
		return fmt.Errorf("both cursors provided: %w", ErrInvalidRequest)
	}
	return nil
}

func toGetCommentsParams(postID int64, in pagination.PageRequest) (storage.GetCommentsParams, error) {
	if err := validatePagination(in); err != nil {
		return storage.GetCommentsParams{}, err
	}

	if postID <= 0 {
		return storage.GetCommentsParams{}, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}

	if in.Limit <= 0 {
		in.Limit = DefaultCommentsLimit
	}
	in.Limit = min(in.Limit, MaxCommentsLimit)

	before, err := pagination.Decode(in.BeforeCursor)
	if err != nil {
		return storage.GetCommentsParams{}, fmt.Errorf("before-cursor: %w: %v", ErrInvalidRequest, err)
	}

	after, err := pagination.Decode(in.AfterCursor)
	if err != nil {
		return storage.GetCommentsParams{}, fmt.Errorf("after-cursor: %w: %v", ErrInvalidRequest, err)
	}

	if before == nil && after == nil {
		return storage.GetCommentsParams{}, fmt.Errorf("cursor is required: %w", ErrInvalidRequest)
	}

	params := storage.GetCommentsParams{
		PostID: postID,
		Limit:  in.Limit,
	}
	if before != nil {
		params.Cursor = *before
		params.Direction = storage.DirectionBefore
	} else {
		params.Cursor = *after
		params.Direction = storage.DirectionAfter
	}

	return params, nil
}
