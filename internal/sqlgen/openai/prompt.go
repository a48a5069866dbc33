package openai

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	codeFenceRe  = regexp.MustCompile("(?i)```(?:sql)?\n?")

	// First complete statement wins; model output often trails with prose.
	statementRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(SELECT\s+.*?;)`),
		regexp.MustCompile(`(?is)(INSERT\s+.*?;)`),
		regexp.MustCompile(`(?is)(UPDATE\s+.*?;)`),
		regexp.MustCompile(`(?is)(DELETE\s+.*?;)`),
		regexp.MustCompile(`(?is)(WITH\s+.*?;)`),
		regexp.MustCompile(`(?is)(CREATE\s+.*?;)`),
		regexp.MustCompile(`(?is)(DROP\s+.*?;)`),
		regexp.MustCompile(`(?is)(ALTER\s+.*?;)`),
	}
)

// databaseKeywords maps question words to likely database name fragments.
var databaseKeywords = []string{"customer", "client", "user", "crm"}

// buildPrompt assembles the generation prompt from the question, the
// formatted schema context and the database list.
func buildPrompt(question, schemaInfo string, databases []string, preferred string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert SQL query generator with access to multiple PostgreSQL databases.\n\n")
	fmt.Fprintf(&b, "USER QUESTION: %q\n\n", question)
	fmt.Fprintf(&b, "%s\n\n", schemaInfo)
	b.WriteString(`INSTRUCTIONS:
1. Choose the most relevant database.
2. DO NOT prefix table names with the database name.
3. Use proper JOINs for multiple tables but not in all queries.
4. Use ILIKE with % for partial matches.
5. Add LIMIT for large results.
6. Only output SQL, no explanations.

DATABASES:
`)

	if preferred != "" {
		fmt.Fprintf(&b, "- Focus on '%s' database.\n", preferred)
	} else {
		fmt.Fprintf(&b, "- Available: %s\n", strings.Join(databases, ", "))
	}

	b.WriteString("Generate ONLY the SQL query:")
	return b.String()
}

// CleanSQL extracts a single usable statement from raw model output: code
// fences stripped, the first complete statement isolated, the target
// database prefix removed, trailing semicolon normalized.
func CleanSQL(raw, targetDatabase string) string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return ""
	}

	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	cleaned = codeFenceRe.ReplaceAllString(cleaned, "")

	for _, re := range statementRes {
		if match := re.FindStringSubmatch(cleaned); match != nil {
			cleaned = match[1]
			break
		}
	}

	if targetDatabase != "" {
		prefixRe := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(targetDatabase) + `\.`)
		cleaned = prefixRe.ReplaceAllString(cleaned, "")
	}

	cleaned = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(cleaned), ";"))
	if cleaned == "" {
		return ""
	}
	return cleaned + ";"
}

// PreferredDatabase guesses which database the question targets: an exact
// name mention wins, then keyword heuristics, else empty.
func PreferredDatabase(question string, databases []string) string {
	lower := strings.ToLower(question)

	for _, name := range databases {
		if strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
	}

	for _, keyword := range databaseKeywords {
		if !strings.Contains(lower, keyword) {
			continue
		}
		for _, name := range databases {
			lowerName := strings.ToLower(name)
			for _, fragment := range databaseKeywords {
				if strings.Contains(lowerName, fragment) {
					return name
				}
			}
		}
	}

	return ""
}
