// Package postprocess applies textual transforms to already-emitted
// interpreter source: rewriting dotted property access into bracket form,
// sprinkling decoy comments, and (as an explicitly partial stub) flattening
// bracketed regions into a state-machine loop. Each transform is idempotent,
// so running the pipeline twice over the same text is safe.
//
// The scanner in RewriteProperties is grounded on lexer/lexer.go's
// character-class helpers (isLetter/isDigit) and its string/comment-skipping
// logic in NextToken, reimplemented here byte-at-a-time over already-rendered
// text rather than over token.Token values.
package postprocess

import (
	"strconv"
	"strings"
)

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// RewriteProperties rewrites `.name` dotted access into `["name"]` bracket
// form, skipping over string and comment contexts so it never touches text
// that merely looks like a property access. Applying it twice is a no-op: a
// rewritten `["name"]` contains no `.` token for the scanner to find.
func RewriteProperties(src string) string {
	var out strings.Builder
	i := 0
	n := len(src)
	for i < n {
		switch {
		case src[i] == '"' || src[i] == '\'':
			j := skipString(src, i)
			out.WriteString(src[i:j])
			i = j
		case src[i] == '/' && i+1 < n && src[i+1] == '/':
			j := skipLineComment(src, i)
			out.WriteString(src[i:j])
			i = j
		case src[i] == '/' && i+1 < n && src[i+1] == '*':
			j := skipBlockComment(src, i)
			out.WriteString(src[i:j])
			i = j
		case src[i] == '.' && isDottedAccess(src, i):
			j := i + 1
			start := j
			for j < n && (isLetter(src[j]) || isDigit(src[j])) {
				j++
			}
			name := src[start:j]
			out.WriteString(`["`)
			out.WriteString(name)
			out.WriteString(`"]`)
			i = j
		default:
			out.WriteByte(src[i])
			i++
		}
	}
	return out.String()
}

// isDottedAccess reports whether the '.' at position i in src begins a
// property-access token: it must be followed by a letter (which rules out a
// numeric literal's decimal point) and preceded, past any whitespace, by a
// letter, digit, `)` or `]`.
func isDottedAccess(src string, i int) bool {
	if i+1 >= len(src) || !isLetter(src[i+1]) {
		return false
	}
	j := i - 1
	for j >= 0 && (src[j] == ' ' || src[j] == '\t' || src[j] == '\n') {
		j--
	}
	if j < 0 {
		return false
	}
	return isLetter(src[j]) || isDigit(src[j]) || src[j] == ')' || src[j] == ']'
}

func skipString(src string, i int) int {
	quote := src[i]
	j := i + 1
	for j < len(src) {
		if src[j] == '\\' && j+1 < len(src) {
			j += 2
			continue
		}
		if src[j] == quote {
			return j + 1
		}
		j++
	}
	return j
}

func skipLineComment(src string, i int) int {
	j := i
	for j < len(src) && src[j] != '\n' {
		j++
	}
	return j
}

func skipBlockComment(src string, i int) int {
	j := i + 2
	for j+1 < len(src) {
		if src[j] == '*' && src[j+1] == '/' {
			return j + 2
		}
		j++
	}
	return len(src)
}

// decoySentinel marks a previously-injected decoy comment so a second pass
// recognizes the source as already decorated and leaves it alone.
const decoySentinel = "/*vmask:decoy*/"

var decoyLines = []string{
	"normalize pass",
	"cache warm",
	"fallback path",
	"legacy shim",
	"tail call guard",
	"boundary check",
}

// InjectDecoyComments splices innocuous review-style line comments after
// every everyN-th ';' byte of src (every 7th when everyN <= 0); semicolons
// inside strings, comments and for-loop headers are counted alike. Idempotent: if src already
// contains the sentinel, it is returned unchanged rather than decorated a
// second time.
func InjectDecoyComments(src string, everyN int, pick func(n int) int) string {
	if strings.Contains(src, decoySentinel) {
		return src
	}
	if everyN <= 0 {
		everyN = 7
	}
	var out strings.Builder
	count := 0
	pickIdx := 0
	for i := 0; i < len(src); i++ {
		out.WriteByte(src[i])
		if src[i] == ';' {
			count++
			if count%everyN == 0 {
				idx := pickIdx % len(decoyLines)
				if pick != nil {
					idx = pick(len(decoyLines)) % len(decoyLines)
					if idx < 0 {
						idx += len(decoyLines)
					}
				}
				out.WriteString(" " + decoySentinel + " // " + decoyLines[idx] + "\n")
				pickIdx++
			}
		}
	}
	return out.String()
}

// flattenSentinel brackets a region eligible for control-flow flattening.
// The emitter does not produce it, so Flatten rewrites only source that
// already carries it.
const flattenSentinel = "/*vmask:flatten*/"

// flattenedSentinel marks a region Flatten has already rewritten, so a
// second pass recognizes it and leaves it alone.
const flattenedSentinel = "/*vmask:flattened*/"

// Flatten rewrites each `/*vmask:flatten*/ { ... } /*vmask:flatten*/`
// bracketed region into a `while (true) { switch (__state) { ... } }` state
// machine over the region's top-level statements. This is the stubbed half
// of the transform spec.md flags as future work: it only splits on
// depth-tracked top-level `;` boundaries rather than performing real control
// analysis, which is sufficient to prove the hook's wiring without claiming
// a real flattening pass. Idempotent via flattenedSentinel.
func Flatten(src string, stateVar string) string {
	if strings.Contains(src, flattenedSentinel) {
		return src
	}
	if stateVar == "" {
		stateVar = "__state"
	}
	var out strings.Builder
	i := 0
	n := len(src)
	for i < n {
		start := strings.Index(src[i:], flattenSentinel)
		if start < 0 {
			out.WriteString(src[i:])
			break
		}
		start += i
		regionStart := start + len(flattenSentinel)
		end := strings.Index(src[regionStart:], flattenSentinel)
		if end < 0 {
			out.WriteString(src[i:])
			break
		}
		end += regionStart

		out.WriteString(src[i:start])
		stmts := splitTopLevelStatements(src[regionStart:end])
		out.WriteString(flattenedSentinel)
		out.WriteString(renderStateMachine(stmts, stateVar))
		out.WriteString(flattenedSentinel)
		i = end + len(flattenSentinel)
	}
	return out.String()
}

// splitTopLevelStatements splits stmts on ';' boundaries that occur at
// paren/brace/bracket depth zero and outside string literals.
func splitTopLevelStatements(region string) []string {
	var stmts []string
	depth := 0
	start := 0
	for i := 0; i < len(region); i++ {
		switch region[i] {
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case '"', '\'':
			i = skipString(region, i) - 1
		case ';':
			if depth == 0 {
				stmt := strings.TrimSpace(region[start : i+1])
				if stmt != "" {
					stmts = append(stmts, stmt)
				}
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(region[start:]); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}

func renderStateMachine(stmts []string, stateVar string) string {
	var out strings.Builder
	out.WriteString("var " + stateVar + " = 0;\n")
	out.WriteString("while (true) { switch (" + stateVar + ") {\n")
	for i, s := range stmts {
		out.WriteString("case ")
		out.WriteString(strconv.Itoa(i))
		out.WriteString(": ")
		out.WriteString(s)
		out.WriteString(" " + stateVar + " = ")
		out.WriteString(strconv.Itoa(i + 1))
		out.WriteString("; break;\n")
	}
	out.WriteString("default: return; } }\n")
	return out.String()
}
