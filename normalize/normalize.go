// Package normalize canonicalizes scripture text before it is stored.
//
// Text is NFC normalized, whitespace runs collapse to a single space, and a
// punctuation substitution table selected by the ISO 15924 script of the
// text's language is applied last. U+037E and U+0387 have singleton
// canonical decompositions to ';' and U+00B7, so substitutions must run
// after NFC or they would be folded back.
package normalize

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Table maps a substring to its replacement.
type Table map[string]string

// DefaultTables holds the built-in substitution tables keyed by script.
var DefaultTables = map[string]Table{
	"Grek": {
		";":      "\u037e", // GREEK QUESTION MARK
		"\u00b7": "\u0387", // GREEK ANO TELEIA
	},
}

// Normalizer applies NFC, whitespace collapsing and per-script tables.
// It is safe for concurrent use.
type Normalizer struct {
	replacers map[string]*strings.Replacer
}

// New builds a Normalizer from DefaultTables overlaid with tables. An entry
// in tables replaces or extends the default table for the same script; an
// empty replacement is allowed and deletes the matched text.
func New(tables map[string]Table) *Normalizer {
	merged := make(map[string]Table, len(DefaultTables)+len(tables))
	for script, table := range DefaultTables {
		merged[canonicalScript(script)] = copyTable(table)
	}
	for script, table := range tables {
		script = canonicalScript(script)
		dst, ok := merged[script]
		if !ok {
			dst = Table{}
			merged[script] = dst
		}
		for from, to := range table {
			dst[from] = to
		}
	}

	n := &Normalizer{replacers: make(map[string]*strings.Replacer, len(merged))}
	for script, table := range merged {
		if len(table) == 0 {
			continue
		}
		n.replacers[script] = newReplacer(table)
	}
	return n
}

// Normalize returns the canonical form of text written in script.
// An unknown or empty script only gets NFC and whitespace collapsing.
func (n *Normalizer) Normalize(script, text string) string {
	text = norm.NFC.String(text)
	text = strings.Join(strings.Fields(text), " ")
	if n == nil {
		return text
	}
	if r, ok := n.replacers[canonicalScript(script)]; ok {
		text = r.Replace(text)
	}
	return text
}

// Scripts lists the scripts with a substitution table, sorted.
func (n *Normalizer) Scripts() []string {
	scripts := make([]string, 0, len(n.replacers))
	for s := range n.replacers {
		scripts = append(scripts, s)
	}
	sort.Strings(scripts)
	return scripts
}

// strings.Replacer tries old strings in argument order, so longer keys go
// first to win over their prefixes.
func newReplacer(table Table) *strings.Replacer {
	keys := make([]string, 0, len(table))
	for k := range table {
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, table[k])
	}
	return strings.NewReplacer(pairs...)
}

// canonicalScript title-cases an ISO 15924 code: "grek" -> "Grek".
func canonicalScript(script string) string {
	script = strings.TrimSpace(script)
	if script == "" {
		return ""
	}
	return strings.ToUpper(script[:1]) + strings.ToLower(script[1:])
}

func copyTable(t Table) Table {
	c := make(Table, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}
