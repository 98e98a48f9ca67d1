package product

import "strings"

// Slugify converts a category or subcategory name into its URL slug form:
// lowercase, non-alphanumeric runs collapsed into single hyphens, no leading
// or trailing hyphen. "Home & Kitchen" becomes "home-kitchen".
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
