package models

import (
	"fmt"
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`^#[a-z0-9_]+$`)

// NormalizeHashtag lowercases a hashtag and ensures the leading "#".
// Returns an error when the normalized form contains anything other than
// letters, digits or underscores.
func NormalizeHashtag(input string) (string, error) {
	h := strings.TrimSpace(input)
	if !strings.HasPrefix(h, "#") {
		h = "#" + h
	}
	h = strings.ToLower(h)
	if !hashtagPattern.MatchString(h) {
		return "", fmt.Errorf("invalid hashtag (use letters/numbers/underscore)")
	}
	return h, nil
}
