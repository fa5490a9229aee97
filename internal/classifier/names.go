package classifier

import "strings"

// NormalizeName prepares an account name for matching: lowercase, "&"
// spelled "and", commas and periods removed, whitespace collapsed.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "&", " and ")
	name = strings.NewReplacer(",", "", ".", "").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// tokens splits a normalized name into folded words.
func tokens(name string) []string {
	words := strings.Fields(NormalizeName(name))
	for i, w := range words {
		words[i] = fold(w)
	}
	return words
}

// fold strips a plural "s" so that "receivables" matches "receivable".
func fold(word string) string {
	if len(word) > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") {
		return word[:len(word)-1]
	}
	return word
}
