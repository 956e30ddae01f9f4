package session

import (
	"fmt"
	"strings"

	lawstrings "github.com/joss/lawchat/internal/strings"
)

// titleMaxLen is how many characters of the first user message survive
// into the promoted title before the ellipsis.
const titleMaxLen = 20

const placeholderPrefix = "Conversation "

// placeholderTitle builds the default title for the nth conversation.
// n is a display number, not the conversation id.
func placeholderTitle(n int) string {
	return fmt.Sprintf("%s%d", placeholderPrefix, n)
}

// isPlaceholderTitle reports whether a title is still the unpromoted
// default, i.e. "Conversation " followed by digits only.
func isPlaceholderTitle(title string) bool {
	rest, ok := strings.CutPrefix(title, placeholderPrefix)
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// deriveTitle produces the promoted title from the first user message.
func deriveTitle(text string) string {
	return lawstrings.Ellipsize(text, titleMaxLen)
}
