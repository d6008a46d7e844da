package diagram

import "strings"

// SplitFields splits a raw diagram payload on '|' and trims every field.
// Empty fields are kept so positions stay stable.
func SplitFields(raw string) []string {
	parts := strings.Split(raw, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// splitItem splits an item spec "name;detail;detail" into its name and the
// trimmed details.
func splitItem(spec string) (name string, details []string) {
	parts := strings.Split(spec, ";")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts[0], parts[1:]
}

// firstDetail returns the first detail of an item spec, or "".
func firstDetail(details []string) string {
	if len(details) == 0 {
		return ""
	}
	return details[0]
}

// splitRow splits a comparison row on its first colon.
func splitRow(row string) (left, right string, ok bool) {
	left, right, ok = strings.Cut(row, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(left), strings.TrimSpace(right), true
}

func limit(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
