package config

import (
	"strings"

	"github.com/mithrel/blogview/internal/linkify"
)

const labelsHeader = "[links.labels]"

// SetLinkLabel inserts or replaces a host label in the [links.labels] table,
// creating the table when it is missing. Keys naming the same host (such as
// a "www." alias) are replaced by the single new entry.
func SetLinkLabel(existing, host, label string) string {
	host = linkify.Host(host)
	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines)+3)
	entry := quote(host) + " = " + quote(label)

	in, found, written := false, false, false
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if isSectionHeader(trim) {
			if in && !written {
				out = insertBeforeBlank(out, entry)
				written = true
			}
			in = trim == labelsHeader
			found = found || in
			out = append(out, line)
			continue
		}
		if in && linkify.Host(labelKey(trim)) == host {
			if !written {
				out = append(out, entry)
				written = true
			}
			continue
		}
		out = append(out, line)
	}
	if in && !written {
		out = insertBeforeBlank(out, entry)
	}
	if !found {
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, labelsHeader, entry)
	}
	return strings.Join(out, "\n")
}

// DeleteLinkLabel removes a host from [links.labels]. It reports whether the
// host was present. Every alias of the host is removed.
func DeleteLinkLabel(existing, host string) (string, bool) {
	host = linkify.Host(host)
	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	in, removed := false, false
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if isSectionHeader(trim) {
			in = trim == labelsHeader
		} else if in && host != "" && linkify.Host(labelKey(trim)) == host {
			removed = true
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n"), removed
}

// labelKey returns the unquoted key of a `"host" = "label"` line.
func labelKey(trim string) string {
	idx := strings.Index(trim, "=")
	if idx <= 0 || strings.HasPrefix(trim, "#") {
		return ""
	}
	k := strings.TrimSpace(trim[:idx])
	return strings.Trim(k, `"'`)
}

// insertBeforeBlank appends entry after the last non-blank line so the table
// keeps its trailing spacing.
func insertBeforeBlank(out []string, entry string) []string {
	i := len(out)
	for i > 0 && strings.TrimSpace(out[i-1]) == "" {
		i--
	}
	out = append(out, "")
	copy(out[i+1:], out[i:])
	out[i] = entry
	return out
}
