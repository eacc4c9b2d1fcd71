// Package frequency computes letter coincidence statistics over ASCII text.
//
// The analyzer recognizes only the 26 lowercase letters of the Latin alphabet.
// Every other byte (uppercase letters, digits, punctuation, whitespace and
// bytes outside of ASCII) is skipped without error and does not contribute to
// the letter total.
//
// # Statistics
//
// Two statistics are derived from the occurrence table of a text:
//
//	kappa = Σ n_i(n_i - 1) / (N(N - 1))
//	IC    = 26 * kappa
//
// where n_i is the count of the i-th letter and N is the number of letters
// counted. Kappa plaintext is the probability that two letters drawn without
// replacement are identical. The index of coincidence scales it by the size
// of the alphabet, so uniformly random text scores close to 1.0 and natural
// languages score between 1.6 and 2.1.
//
// # Degenerate Input
//
// A text with fewer than two letters has a zero denominator. The division is
// carried out anyway and follows IEEE-754 rules, so both statistics are NaN.
// Callers must treat NaN as a regular result value.
//
// # Usage
//
//	ic := frequency.IndexOfCoincidence([]byte("the quick brown fox"))
//
//	// Or count once and derive both values:
//	a := frequency.Analyze(text)
//	fmt.Println(a.Kappa, a.Index)
//
// # Thread Safety
//
// All functions are pure. Occurrences is a value type and every call works on
// its own table, so the package is safe for concurrent use.
package frequency
