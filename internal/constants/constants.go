package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "current_user"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Field limits
const (
	MaxTitleLength              = 255
	MaxProjectDescriptionLength = 255
	MaxTaskDescriptionLength    = 1000
	MaxEmailLength              = 255
	MaxFullNameLength           = 255
	MinPasswordLength           = 8
	MaxPasswordLength           = 128
)
