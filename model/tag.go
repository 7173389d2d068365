package model

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTagNameLength    = 32
	MaxTagContentLength = 2000
)

var tagNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,31}$`)

// Tag is a named snippet of text staff can recall with /tag.
type Tag struct {
	GuildID   string `db:"guild_id"`
	Name      string `db:"name"`
	Content   string `db:"content"`
	AuthorID  string `db:"author_id"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

func (t Tag) UpdatedTime() time.Time {
	return time.Unix(t.UpdatedAt, 0)
}

// NormalizeTagName lower-cases name and reports whether the result is a
// valid tag name.
func NormalizeTagName(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	return name, tagNamePattern.MatchString(name)
}

// ValidTagContent reports whether content fits in a message.
func ValidTagContent(content string) bool {
	return strings.TrimSpace(content) != "" && utf8.RuneCountInString(content) <= MaxTagContentLength
}
