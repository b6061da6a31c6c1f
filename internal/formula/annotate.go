package formula

import "strings"

// Annotate renders an expression for display, replacing every recognized
// variable with its label. Tokenization is whole-identifier, so longer names
// are never split at a shorter variable's boundary ("self_bone_structure"
// stays one token). Unrecognized identifiers and everything else are kept
// verbatim; a malformed tail is appended untouched. The output is display
// text only and is never evaluated.
func Annotate(expr string, labels map[string]string) string {
	if labels == nil {
		labels = Labels()
	}

	var b strings.Builder
	b.Grow(len(expr) * 2)

	last := 0
	toks, _ := tokenize(expr) // on error toks holds the valid prefix
	for _, tok := range toks {
		if tok.kind == tokEOF {
			break
		}
		b.WriteString(expr[last:tok.pos])
		if tok.kind == tokIdent {
			b.WriteString(annotateIdent(tok.text, labels))
		} else {
			b.WriteString(tok.text)
		}
		last = tok.pos + len(tok.text)
	}
	b.WriteString(expr[last:])
	return b.String()
}

func annotateIdent(name string, labels map[string]string) string {
	if label, ok := labels[name]; ok {
		return label
	}
	if label, ok := labels[CanonicalName(name)]; ok {
		return label
	}
	return name
}
