package shell

import (
	"regexp"
	"strings"
)

// Env resolves variable names during expansion. Unbound names must
// resolve to the empty string, never an error.
type Env interface {
	Getenv(name string) string
}

// EnvFunc adapts a plain lookup function to Env.
type EnvFunc func(name string) string

func (f EnvFunc) Getenv(name string) string { return f(name) }

// Assignment is a NAME=VALUE command, recognized when it is the entire
// command text of a stage.
type Assignment struct {
	Name  string
	Value string
}

// Expanded is one pipeline stage after quote removal and variable
// substitution: the argv-equivalent token sequence, plus the assignment
// it denotes if the stage is a NAME=VALUE form.
//
// Args may be empty when the stage expanded to nothing (for example a
// lone reference to an unbound variable); such a stage is a no-op.
type Expanded struct {
	Args   []string
	Assign *Assignment
}

var assignmentPrefix = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)=`)

// Expand splits one raw command into tokens.
//
// Adjacent segments with no whitespace between them fuse into a single
// token (a"b"c is one token abc). Variable references of the form $NAME
// or ${NAME} are substituted in expandable segments against env; single
// quoted text is copied verbatim. Tokens that expand to nothing are
// dropped unless explicitly quoted ("" survives as an empty token).
func Expand(raw string, env Env) (*Expanded, error) {
	type word struct {
		text   strings.Builder
		quoted bool
	}

	var words []string
	var cur *word
	flush := func() {
		if cur == nil {
			return
		}
		if text := cur.text.String(); text != "" || cur.quoted {
			words = append(words, text)
		}
		cur = nil
	}

	sc := NewScanner(raw)
	for sc.Scan() {
		seg := sc.Segment()
		if seg.AfterBreak {
			flush()
		}
		if cur == nil {
			cur = &word{}
		}
		text, err := expandSegment(seg, env)
		if err != nil {
			return nil, err
		}
		cur.text.WriteString(text)
		if len(seg.Raw) > 0 && (seg.Raw[0] == '\'' || seg.Raw[0] == '"') {
			cur.quoted = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()

	out := &Expanded{Args: words}
	if len(words) == 1 {
		if m := assignmentPrefix.FindStringSubmatch(strings.TrimSpace(raw)); m != nil {
			name := m[1]
			if value, ok := cutPrefix(words[0], name+"="); ok {
				out.Assign = &Assignment{Name: name, Value: value}
			}
		}
	}
	return out, nil
}

// expandSegment substitutes variable references in a single segment.
func expandSegment(seg Segment, env Env) (string, error) {
	if seg.Kind == Literal {
		return seg.Text, nil
	}

	text := seg.Text
	var b strings.Builder
	for i := 0; i < len(text); {
		c := text[i]
		if c != '$' || !seg.ExpandableAt(i) {
			b.WriteByte(c)
			i++
			continue
		}

		if i+1 < len(text) && text[i+1] == '{' {
			end := strings.IndexByte(text[i+2:], '}')
			if end < 0 {
				return "", &MalformedVariableReferenceError{Offset: seg.InputOffset(i)}
			}
			b.WriteString(env.Getenv(text[i+2 : i+2+end]))
			i += end + 3
			continue
		}

		j := i + 1
		for j < len(text) && isNameByte(text[j]) {
			j++
		}
		if j == i+1 {
			// Bare $ with no name, kept literally.
			b.WriteByte('$')
			i++
			continue
		}
		b.WriteString(env.Getenv(text[i+1 : j]))
		i = j
	}
	return b.String(), nil
}

func isNameByte(c byte) bool {
	return c == '_' ||
		('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z')
}

func cutPrefix(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
