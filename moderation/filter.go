package moderation

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

type FilterAction int

const (
	FilterAllow FilterAction = iota
	// FilterOffensive means the text matched the offensive words pattern.
	FilterOffensive
	// FilterAttachment means an attachment has an extension outside the
	// allow list.
	FilterAttachment
)

// FilterVerdict is the outcome of checking one message.
type FilterVerdict struct {
	Action    FilterAction
	Extension string
}

// MessageFilter decides whether a message must be removed.
type MessageFilter struct {
	offensive *regexp.Regexp
	allowed   map[string]bool
	allowList []string
}

// NewMessageFilter compiles pattern case-insensitively. Extensions are
// matched case-insensitively with or without their leading dot. An empty
// pattern or extension list disables that check.
func NewMessageFilter(pattern string, allowedExtensions []string) (*MessageFilter, error) {
	f := &MessageFilter{allowed: make(map[string]bool)}
	if pattern != "" {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid offensive words pattern: %w", err)
		}
		f.offensive = re
	}
	for _, ext := range allowedExtensions {
		ext = normalizeExtension(ext)
		if ext == "" || f.allowed[ext] {
			continue
		}
		f.allowed[ext] = true
		f.allowList = append(f.allowList, ext)
	}
	return f, nil
}

func (f *MessageFilter) Enabled() bool {
	return f.offensive != nil || len(f.allowed) > 0
}

// Check inspects the message text and its attachment file names.
func (f *MessageFilter) Check(content string, attachments []string) FilterVerdict {
	if f.offensive != nil && f.offensive.MatchString(content) {
		return FilterVerdict{Action: FilterOffensive}
	}
	if len(f.allowed) > 0 {
		for _, name := range attachments {
			ext := normalizeExtension(path.Ext(name))
			if !f.allowed[ext] {
				return FilterVerdict{Action: FilterAttachment, Extension: ext}
			}
		}
	}
	return FilterVerdict{Action: FilterAllow}
}

// AttachmentNotice is posted after removing a message with a blocked
// attachment.
func (f *MessageFilter) AttachmentNotice(userID, extension string) string {
	if extension == "" {
		extension = "files without an extension"
	} else {
		extension = "`" + extension + "` files"
	}
	return fmt.Sprintf("<@%s>, it looks like you tried to attach %s, which are not allowed on this server. "+
		"Allowed file types: %s.", userID, extension, "`"+strings.Join(f.allowList, "`, `")+"`")
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
