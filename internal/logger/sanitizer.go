package logger

import (
	"fmt"
	"regexp"
	"strings"
)

// Sanitizer masks credentials before they reach any log output. Pattern
// rules apply to message text; key-based masking applies to structured
// argument values. A secret hidden inside the value of a non-sensitive
// key is not caught; keep secrets out of free-form values.
type Sanitizer struct {
	rules []sanitizeRule
}

type sanitizeRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// NewSanitizer creates a sanitizer with the default rules: OAuth tokens,
// API keys, passwords in query strings, bearer headers.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		rules: []sanitizeRule{
			{regexp.MustCompile(`(?i)password=\S+`), "password=***"},
			{regexp.MustCompile(`(?i)token=\S+`), "token=***"},
			{regexp.MustCompile(`(?i)refresh_token=\S+`), "refresh_token=***"},
			{regexp.MustCompile(`(?i)access_token=\S+`), "access_token=***"},
			{regexp.MustCompile(`(?i)client_secret=\S+`), "client_secret=***"},
			{regexp.MustCompile(`(?i)bearer\s+\S+`), "bearer ***"},
			{regexp.MustCompile(`(?i)api[_-]?key=\S+`), "api_key=***"},
		},
	}
}

// Sanitize applies all pattern rules to a string.
func (s *Sanitizer) Sanitize(input string) string {
	result := input
	for _, rule := range s.rules {
		result = rule.pattern.ReplaceAllString(result, rule.replacement)
	}
	return result
}

// SanitizeArgs masks values of sensitive keys in slog key-value pairs.
func (s *Sanitizer) SanitizeArgs(args []any) []any {
	if len(args) == 0 {
		return args
	}

	result := make([]any, len(args))
	copy(result, args)

	for i := 0; i < len(result)-1; i += 2 {
		key, ok := result[i].(string)
		if !ok || !isSensitiveKey(key) {
			continue
		}

		switch v := result[i+1].(type) {
		case string:
			result[i+1] = maskValue(v)
		case error:
			result[i+1] = maskValue(v.Error())
		}
	}

	return result
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, sk := range []string{"password", "token", "secret", "api_key", "apikey", "credential", "auth"} {
		if strings.Contains(lower, sk) {
			return true
		}
	}
	return false
}

// maskValue keeps at most the first and last character.
func maskValue(value string) string {
	if len(value) <= 2 {
		return "***"
	}
	if len(value) <= 8 {
		return fmt.Sprintf("%s***", string(value[0]))
	}
	return fmt.Sprintf("%s***%s", string(value[0]), string(value[len(value)-1]))
}
