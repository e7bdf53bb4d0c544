package guard

import "regexp"

// Category tags a pattern for internal diagnostics. Callers never see which
// category matched; the rejection message stays generic.
type Category string

const (
	CategoryInjection Category = "injection"
	CategoryMarkup    Category = "markup"
	CategoryCommand   Category = "command"
	CategoryTraversal Category = "traversal"
	CategoryPath      Category = "path"
)

// Pattern is a single compiled matcher with its category tag.
type Pattern struct {
	Category Category
	re       *regexp.Regexp
}

// Match reports whether s triggers this pattern.
func (p Pattern) Match(s string) bool {
	return p.re.MatchString(s)
}

// DefaultPatterns is the ordered set of matchers applied to every string in
// an input tree. Heuristic defense-in-depth, not a parser: over-rejection is
// acceptable, silent pass-through of the enumerated classes is not.
var DefaultPatterns = []Pattern{
	// SQL-style punctuation and keywords.
	{CategoryInjection, regexp.MustCompile(`(?i)('|--|;|/\*|\*/)\s*(drop|delete|insert|update|union|select|exec|alter|create|truncate)\b`)},
	{CategoryInjection, regexp.MustCompile(`(?i)\b(union\s+(all\s+)?select|drop\s+table|delete\s+from|insert\s+into)\b`)},

	// Script and markup.
	{CategoryMarkup, regexp.MustCompile(`(?i)<\s*/?\s*(script|iframe|object|embed|svg)\b`)},
	{CategoryMarkup, regexp.MustCompile(`(?i)javascript\s*:`)},
	{CategoryMarkup, regexp.MustCompile(`(?i)\bon(load|error|click|mouseover|focus|submit)\s*=`)},

	// Shell metacharacters followed by dangerous command tokens.
	{CategoryCommand, regexp.MustCompile("(?i)[;&|`$]\\s*(rm|mkfs|dd|chmod|chown|curl|wget|nc|bash|sh|powershell)\\b")},
	{CategoryCommand, regexp.MustCompile(`(?i)\b(rm\s+-rf|mkfs\.|dd\s+if=|:\(\)\s*\{)`)},
	{CategoryCommand, regexp.MustCompile(`\$\(|\$\{`)},

	// Path traversal.
	{CategoryTraversal, regexp.MustCompile(`\.\./|\.\.\\`)},

	// Sensitive absolute paths.
	{CategoryPath, regexp.MustCompile(`(?i)(/etc/(passwd|shadow|sudoers)|/proc/self|[a-z]:\\windows\\system32)`)},
	{CategoryPath, regexp.MustCompile(`(?i)(~|/home/[^/\s]+|/root)/\.(ssh|aws|gnupg)\b`)},
}

// match returns the category of the first matching pattern.
func match(s string) (Category, bool) {
	for _, p := range DefaultPatterns {
		if p.Match(s) {
			return p.Category, true
		}
	}
	return "", false
}
