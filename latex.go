package cliph

import (
	"regexp"
	"strings"
)

var latexFuncs = strings.NewReplacer(
	`\sin`, "sin",
	`\cos`, "cos",
	`\tan`, "tan",
	`\log`, "log",
	`\exp`, "exp",
	`\abs`, "abs",
)

// fracPattern matches one brace level only: \frac{a{b}}{c} is not rewritten
// correctly.
var fracPattern = regexp.MustCompile(`\\frac\s*\{([^}]*)\}\s*\{([^}]*)\}`)

// LaTeXToInfix rewrites the subset of LaTeX understood by the engine into
// infix text for Parse: \sin, \cos, \tan, \log, \exp and \abs become bare
// names, \frac{A}{B} becomes (A)/(B) and '$' delimiters are removed. The
// rewrite is purely textual.
func LaTeXToInfix(text string) string {
	s := latexFuncs.Replace(text)
	s = fracPattern.ReplaceAllString(s, "($1)/($2)")
	return strings.ReplaceAll(s, "$", "")
}
