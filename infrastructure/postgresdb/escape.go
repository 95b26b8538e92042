package postgresdb

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// likeEscaper escapes the LIKE metacharacters. Patterns built with it rely on the
// default backslash escape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// QuoteIdentifier quotes a column or table name. A single schema qualifier is allowed
// ("public.events"). Anything else, including aliases and expressions, is rejected so a
// caller-supplied order or group field can never reach the SQL text unquoted.
func QuoteIdentifier(name string) (string, error) {
	segments := strings.Split(name, ".")
	if len(segments) > 2 {
		return "", fmt.Errorf("identifier %q: too many segments", name)
	}
	for i, s := range segments {
		if !identifierPattern.MatchString(s) {
			return "", fmt.Errorf("identifier %q: invalid segment %q", name, s)
		}
		segments[i] = `"` + s + `"`
	}
	return strings.Join(segments, "."), nil
}

// EscapeLike escapes the LIKE metacharacters in s.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
