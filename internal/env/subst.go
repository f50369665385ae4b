package env

import (
	"strings"
)

// maxSubstDepth bounds recursive expansion; deeper references expand to "".
const maxSubstDepth = 32

// Overrides supplies per-invocation variables such as SOURCE and TARGET.
// They take precedence over environment variables and are inserted
// verbatim.
type Overrides map[string][]string

// computed variables are derived from list variables at expansion time:
// name -> {prefix variable, list variable, suffix variable}.
var computed = map[string][3]string{
	"_CPPINCFLAGS": {"INCPREFIX", "CPPPATH", "INCSUFFIX"},
	"_LIBDIRFLAGS": {"LIBDIRPREFIX", "LIBPATH", "LIBDIRSUFFIX"},
	"_LIBFLAGS":    {"LIBLINKPREFIX", "LIBS", "LIBLINKSUFFIX"},
	"_CPPDEFFLAGS": {"CPPDEFPREFIX", "CPPDEFINES", "CPPDEFSUFFIX"},
}

// Subst expands $NAME and ${NAME} references in template. "$$" yields a
// literal dollar. Runs of whitespace in the result collapse to one space.
func (e *Environment) Subst(template string, ov Overrides) string {
	return strings.Join(strings.Fields(e.expand(template, ov, 0)), " ")
}

// SubstArgs expands template into an argument vector. The template is split
// into words first. A word that is a single unquoted reference to a list,
// an override or a computed flag variable yields one argument per element,
// so values containing spaces stay whole. Any other word yields at most one
// argument. Double quotes group words and are removed.
func (e *Environment) SubstArgs(template string, ov Overrides) []string {
	return e.expandArgs(template, ov, 0)
}

func (e *Environment) expandArgs(template string, ov Overrides, depth int) []string {
	if depth > maxSubstDepth {
		return nil
	}

	var args []string
	for _, w := range splitWords(template) {
		if name, ok := soleReference(w.text); ok && !w.quoted {
			args = append(args, e.lookupArgs(name, ov, depth)...)
			continue
		}
		x := e.expand(w.text, ov, depth)
		if x == "" && !w.quoted {
			continue
		}
		args = append(args, x)
	}
	return args
}

func (e *Environment) lookupArgs(name string, ov Overrides, depth int) []string {
	if v, ok := ov[name]; ok {
		return append([]string(nil), v...)
	}
	if parts, ok := computed[name]; ok {
		return e.concatItems(parts[0], parts[1], parts[2], ov, depth)
	}

	switch v := e.vars[name].(type) {
	case string:
		return e.expandArgs(v, ov, depth+1)
	case []string:
		var out []string
		for _, item := range v {
			if x := e.expand(item, ov, depth+1); x != "" {
				out = append(out, x)
			}
		}
		return out
	default:
		return nil
	}
}

// soleReference reports whether word is exactly "$NAME" or "${NAME}".
func soleReference(word string) (string, bool) {
	if len(word) < 2 || word[0] != '$' {
		return "", false
	}
	name := word[1:]
	if name[0] == '{' {
		if name[len(name)-1] != '}' {
			return "", false
		}
		name = name[1 : len(name)-1]
	}
	if name == "" || !isNameStart(name[0]) {
		return "", false
	}
	for i := 1; i < len(name); i++ {
		if !isNameChar(name[i]) {
			return "", false
		}
	}
	return name, true
}

func (e *Environment) expand(s string, ov Overrides, depth int) string {
	if depth > maxSubstDepth {
		return ""
	}
	if !strings.Contains(s, "$") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '$' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}

		next := s[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				b.WriteString(s[i:])
				return b.String()
			}
			b.WriteString(e.lookup(s[i+2:i+2+end], ov, depth))
			i += 2 + end
		case isNameStart(next):
			j := i + 1
			for j < len(s) && isNameChar(s[j]) {
				j++
			}
			b.WriteString(e.lookup(s[i+1:j], ov, depth))
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (e *Environment) lookup(name string, ov Overrides, depth int) string {
	if v, ok := ov[name]; ok {
		return strings.Join(v, " ")
	}
	if parts, ok := computed[name]; ok {
		return strings.Join(e.concatItems(parts[0], parts[1], parts[2], ov, depth), " ")
	}

	switch v := e.vars[name].(type) {
	case string:
		return e.expand(v, ov, depth+1)
	case []string:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if x := e.expand(item, ov, depth+1); x != "" {
				out = append(out, x)
			}
		}
		return strings.Join(out, " ")
	default:
		return ""
	}
}

// concatItems wraps each element of the list variable in the prefix and
// suffix variables, e.g. CPPPATH=[a b] -> ["-Ia" "-Ib"].
func (e *Environment) concatItems(prefixKey, listKey, suffixKey string, ov Overrides, depth int) []string {
	prefix := e.expand(e.String(prefixKey), ov, depth+1)
	suffix := e.expand(e.String(suffixKey), ov, depth+1)

	var out []string
	for _, item := range e.List(listKey) {
		x := e.expand(item, ov, depth+1)
		if x == "" {
			continue
		}
		if suffix != "" && strings.HasSuffix(x, suffix) {
			out = append(out, prefix+x)
			continue
		}
		out = append(out, prefix+x+suffix)
	}
	return out
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

type word struct {
	text   string
	quoted bool
}

// splitWords splits on unquoted whitespace and removes the quotes.
// Backslashes are literal so that Windows paths survive.
func splitWords(s string) []word {
	var (
		words   []word
		cur     strings.Builder
		inQuote bool
		inWord  bool
		quoted  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			inWord = true
			quoted = true
		case !inQuote && (c == ' ' || c == '\t' || c == '\n' || c == '\r'):
			if inWord {
				words = append(words, word{text: cur.String(), quoted: quoted})
				cur.Reset()
				inWord = false
				quoted = false
			}
		default:
			cur.WriteByte(c)
			inWord = true
		}
	}
	if inWord {
		words = append(words, word{text: cur.String(), quoted: quoted})
	}
	return words
}
