package timetable

import (
	"strings"
	"unicode/utf8"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

const (
	ellipsis = "..."
	// RoomPlaceholder stands in for a teaching without an assigned room.
	RoomPlaceholder = "*"
	nameSeparator   = "/"
)

// TruncateJoined joins the non-empty items with sep. When the result is longer than
// maxLength runes it is cut to maxLength runes and suffixed with "...", so a truncated
// result is maxLength+3 runes long.
func TruncateJoined(items []string, sep string, maxLength int) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			kept = append(kept, item)
		}
	}
	joined := strings.Join(kept, sep)

	if maxLength < 0 {
		maxLength = 0
	}
	if utf8.RuneCountInString(joined) <= maxLength {
		return joined
	}
	return string([]rune(joined)[:maxLength]) + ellipsis
}

// RoomTokens returns one token per teaching: the room name, or RoomPlaceholder.
func RoomTokens(teachings []models.Teaching) []string {
	tokens := make([]string, 0, len(teachings))
	for _, teaching := range teachings {
		if teaching.RoomName == nil || *teaching.RoomName == "" {
			tokens = append(tokens, RoomPlaceholder)
			continue
		}
		tokens = append(tokens, *teaching.RoomName)
	}
	return tokens
}

// InstructorNames returns the instructor name of every teaching in order.
func InstructorNames(teachings []models.Teaching) []string {
	names := make([]string, 0, len(teachings))
	for _, teaching := range teachings {
		names = append(names, teaching.InstructorName)
	}
	return names
}
