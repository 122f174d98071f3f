package tableinfo

const (
	UsersTableName = "users"

	UserIDColumn           = "id"
	UserUsernameColumn     = "username"
	UserFirstNameColumn    = "first_name"
	UserLastNameColumn     = "last_name"
	UserEmailColumn        = "email"
	UserPasswordHashColumn = "password_hash"
	UserCreatedAtColumn    = "created_at"
)

const (
	GroupsTableName = "post_groups"

	GroupIDColumn          = "id"
	GroupTitleColumn       = "title"
	GroupSlugColumn        = "slug"
	GroupDescriptionColumn = "description"
)

const (
	PostsTableName = "posts"

	PostIDColumn        = "id"
	PostTextColumn      = "text"
	PostAuthorIDColumn  = "author_id"
	PostGroupIDColumn   = "group_id"
	PostImageColumn     = "image"
	PostCreatedAtColumn = "created_at"
)

const (
	CommentsTableName = "comments"

	CommentIDColumn        = "id"
	CommentPostIDColumn    = "post_id"
	CommentAuthorIDColumn  = "author_id"
	CommentTextColumn      = "text"
	CommentCreatedAtColumn = "created_at"
)

const (
	FollowsTableName = "follows"

	FollowIDColumn        = "id"
	FollowUserIDColumn    = "user_id"
	FollowAuthorIDColumn  = "author_id"
	FollowCreatedAtColumn = "created_at"
)

// Qualified prefixes a column with its table, for joined selects.
func Qualified(table, column string) string {
	return table + "." + column
}
