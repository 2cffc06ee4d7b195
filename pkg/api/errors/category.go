package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Category is a user-facing class of failure.
type Category int

const (
	Unexpected Category = iota
	Unauthorized
	Forbidden
	NotFound
	Unique
	Server
	Validation
	ForeignKey
	Database
	Generic
	Network
	Cancelled
)

func (c Category) String() string {
	switch c {
	case Unexpected:
		return "unexpected"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "notFound"
	case Unique:
		return "unique"
	case Server:
		return "server"
	case Validation:
		return "validation"
	case ForeignKey:
		return "foreignKey"
	case Database:
		return "database"
	case Generic:
		return "generic"
	case Network:
		return "network"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown (%d)", int(c))
	}
}

var messages = map[Category]string{
	Unique:       "This entry already exists. Please use different values.",
	Validation:   "Invalid data format. Please check your inputs.",
	Unauthorized: "You need to be logged in to perform this action.",
	Forbidden:    "You don't have permission to perform this action.",
	NotFound:     "The requested item was not found.",
	ForeignKey:   "This item is referenced by other data and cannot be modified.",
	Database:     "Database connection error. Please try again later.",
	Server:       "Server error. Please try again or contact the administrator.",
	Generic:      "Something went wrong. Please try again or contact the administrator.",
	Unexpected:   "An unexpected error occurred. Please try again or contact the administrator.",
	Network:      "Network error. Please check your internet connection and try again.",
	Cancelled:    "Request was cancelled. Please try again.",
}

// Message returns the user-facing message for the category.
func Message(c Category) string {
	if m, ok := messages[c]; ok {
		return m
	}
	return messages[Unexpected]
}

var byStatus = map[int]Category{
	http.StatusUnauthorized:        Unauthorized,
	http.StatusForbidden:           Forbidden,
	http.StatusNotFound:            NotFound,
	http.StatusConflict:            Unique,
	http.StatusInternalServerError: Server,
}

type patternGroup struct {
	category Category
	patterns []string

	// the group is skipped when the message contains any of these.
	unless []string
}

// groups are tested in order. The first match wins.
var patternGroups = []patternGroup{
	{
		category: Unique,
		patterns: []string{
			"unique constraint failed", "already exists", "duplicate",
			"integrityerror", "unique", "violates unique constraint",
		},
	},
	{
		category: Validation,
		patterns: []string{"validation", "format", "validationerror"},
		unless:   []string{"unique"},
	},
	{
		category: Forbidden,
		patterns: []string{"permission", "unauthorized", "forbidden"},
	},
	{
		category: NotFound,
		patterns: []string{"not found", "does not exist"},
	},
	{
		category: ForeignKey,
		patterns: []string{"foreign key constraint failed", "foreign key"},
	},
	{
		category: Database,
		patterns: []string{"database", "connection"},
	},
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// Classify maps a failed response onto a Category.
//
// The status code is examined first. Only when it is not one of the known
// codes is the payload consulted.
//
// # Args
//
// - status: HTTP status code of the response.
//
// - payload: response body. When it is a JSON object having a string
// "detail" or "message", that text is used. Otherwise the body as is.
func Classify(status int, payload []byte) Category {
	if c, ok := byStatus[status]; ok {
		return c
	}

	text := payloadText(payload)
	if text == "" {
		return Unexpected
	}

	lower := strings.ToLower(text)
	for _, g := range patternGroups {
		if !containsAny(lower, g.patterns) {
			continue
		}
		if containsAny(lower, g.unless) {
			continue
		}
		return g.category
	}
	return Generic
}

func payloadText(payload []byte) string {
	body := strings.TrimSpace(string(payload))
	if body == "" {
		return ""
	}

	obj := struct {
		Detail  any `json:"detail"`
		Message any `json:"message"`
	}{}
	if err := json.Unmarshal(payload, &obj); err != nil {
		return body
	}
	if s, ok := obj.Detail.(string); ok && s != "" {
		return s
	}
	if s, ok := obj.Message.(string); ok && s != "" {
		return s
	}
	return body
}
