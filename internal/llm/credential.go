package llm

import (
	"fmt"
	"regexp"
	"strings"
)

var openAIKeyPattern = regexp.MustCompile(`^sk-(proj-)?[A-Za-z0-9_-]{32,}$`)

// ValidateOpenAIKey checks the shape of an OpenAI secret key. Other
// providers' credentials are used as opaque values.
func ValidateOpenAIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrMissingCredential
	}
	if !openAIKeyPattern.MatchString(key) {
		return fmt.Errorf("%w: expected sk-...", ErrInvalidCredential)
	}
	return nil
}
