package entry

import "strings"

// Parse turns an extraction block into entries.
//
// Records are separated by blank lines and hold "Key: Value" lines. A line is
// split on its first colon, so values may contain colons ("Task: sync at 10:00").
// Unknown keys and lines without a colon are ignored. A record with fewer than
// MinFields recognized fields is dropped without error. The final record does
// not need a trailing blank line. Duplicate records are kept.
func Parse(text string) []Entry {
	entries := []Entry{}
	var current Builder

	flush := func() {
		if e, ok := current.Build(); ok {
			entries = append(entries, e)
		}
		current.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		field, ok := FieldFromKey(strings.TrimSpace(key))
		if !ok {
			continue
		}
		current.Set(field, strings.TrimSpace(value))
	}

	flush()
	return entries
}
