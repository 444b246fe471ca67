package httpapi

import "strings"

const maxNameLength = 20

// sanitizeName reduces a submitted player name to at most 20 letters,
// digits and spaces. Anything else is stripped, so a name made entirely
// of stripped characters comes back empty.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == ' ':
			b.WriteRune(r)
		}
		if b.Len() >= maxNameLength {
			break
		}
	}

	return strings.TrimSpace(b.String())
}
