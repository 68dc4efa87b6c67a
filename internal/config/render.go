package config

import (
	"fmt"
	"sort"
	"strings"
)

// section groups options sharing the first key segment. Map-valued options
// become their own [section.key] tables and are written after plain keys.
type section struct {
	name   string
	plain  []ConfigOption
	tables []ConfigOption
}

func groupOptions(opts []ConfigOption) []*section {
	top := &section{}
	out := []*section{top}
	byName := map[string]*section{"": top}
	for _, o := range opts {
		name, key := "", o.Key
		if i := strings.Index(o.Key, "."); i >= 0 {
			name, key = o.Key[:i], o.Key[i+1:]
		}
		s, ok := byName[name]
		if !ok {
			s = &section{name: name}
			byName[name] = s
			out = append(out, s)
		}
		rel := ConfigOption{Key: key, Default: o.Default, Comment: o.Comment}
		if isTable(o.Default) {
			s.tables = append(s.tables, rel)
		} else {
			s.plain = append(s.plain, rel)
		}
	}
	return out
}

func isTable(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func (s *section) header(key string) string {
	if s.name == "" {
		return "[" + key + "]"
	}
	return "[" + s.name + "." + key + "]"
}

func (s *section) write(lines *[]string) {
	if len(s.plain) > 0 {
		if s.name != "" {
			*lines = append(*lines, "["+s.name+"]")
		}
		s.writePlain(lines)
	}
	s.writeTables(lines)
}

func (s *section) writePlain(lines *[]string) {
	for _, o := range s.plain {
		writeOption(lines, o.Key, o.Default, o.Comment)
	}
}

func (s *section) writeTables(lines *[]string) {
	for _, o := range s.tables {
		writeTable(lines, s.header(o.Key), o.Default.(map[string]any), o.Comment)
	}
}

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	lines := []string{"# blogview configuration (TOML)", ""}
	for _, s := range groupOptions(GetConfigOptions()) {
		s.write(&lines)
	}
	return strings.Join(lines, "\n")
}

// UpdateTOML merges defaults into an existing TOML string and comments out unknown keys.
func UpdateTOML(existing string) (string, bool) {
	opts := GetConfigOptions()
	known := make(map[string]bool, len(opts))
	tables := make(map[string]bool)
	for _, o := range opts {
		known[o.Key] = true
		if isTable(o.Default) {
			tables[o.Key] = true
		}
	}

	seen := make(map[string]bool)
	headerAt := make(map[string]int)
	firstHeader := -1
	current := ""
	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if isSectionHeader(trim) {
			current = strings.TrimSpace(trim[1 : len(trim)-1])
			seen[current] = true
			headerAt[current] = len(out)
			if firstHeader < 0 {
				firstHeader = len(out)
			}
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		full := key
		if current != "" {
			full = current + "." + key
		}
		seen[full] = true
		if !known[full] && !underTable(full, tables) {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out,
				indent+"# OUTDATED: option removed from config schema",
				indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
			continue
		}
		out = append(out, line)
	}
	if firstHeader < 0 {
		firstHeader = len(out)
	}

	missing := make([]ConfigOption, 0)
	for _, o := range opts {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	// Missing keys go into their existing section when there is one, so no
	// table is ever declared twice; top-level keys go before the first header.
	inserts := make(map[int][]string)
	var tail []string
	for _, s := range groupOptions(missing) {
		if len(s.plain) > 0 {
			var block []string
			switch idx, ok := headerAt[s.name]; {
			case s.name == "":
				s.writePlain(&block)
				inserts[firstHeader] = append(inserts[firstHeader], block...)
			case ok:
				s.writePlain(&block)
				inserts[idx+1] = append(inserts[idx+1], block...)
			default:
				tail = append(tail, "["+s.name+"]")
				s.writePlain(&tail)
			}
		}
		s.writeTables(&tail)
	}

	merged := make([]string, 0, len(out)+len(tail)+8)
	for i, line := range out {
		merged = append(merged, inserts[i]...)
		merged = append(merged, line)
	}
	merged = append(merged, inserts[len(out)]...)
	if len(tail) > 0 {
		merged = append(merged, "", "# Added by config update")
		merged = append(merged, tail...)
	}
	return strings.Join(merged, "\n"), true
}

func underTable(key string, tables map[string]bool) bool {
	for t := range tables {
		if strings.HasPrefix(key, t+".") {
			return true
		}
	}
	return false
}

func isSectionHeader(trim string) bool {
	return strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]")
}

func parseTOMLKey(line string) (string, bool) {
	trim := strings.TrimSpace(line)
	if trim == "" || strings.HasPrefix(trim, "#") {
		return "", false
	}
	idx := strings.Index(trim, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(trim[:idx])
	// quoted keys only appear inside free-form tables
	if key == "" || strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return quote(v)
	case []string:
		parts := make([]string, len(v))
		for i, s := range v {
			parts[i] = quote(s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

func writeOption(lines *[]string, key string, value any, comment string) {
	if comment != "" {
		*lines = append(*lines, "# "+comment)
	}
	*lines = append(*lines, key+" = "+tomlValue(value), "")
}

func writeTable(lines *[]string, header string, values map[string]any, comment string) {
	if comment != "" {
		*lines = append(*lines, "# "+comment)
	}
	*lines = append(*lines, header)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		*lines = append(*lines, quote(k)+" = "+tomlValue(values[k]))
	}
	*lines = append(*lines, "")
}
