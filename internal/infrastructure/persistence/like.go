package persistence

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so user search text matches literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
