package frequency

// AlphabetSize is the number of letters recognized by the analyzer.
const AlphabetSize = 26

// Occurrences holds the number of times each lowercase letter was seen,
// indexed by the letter's offset from 'a'.
type Occurrences [AlphabetSize]uint64

// Analysis bundles the statistics of a single text.
type Analysis struct {
	Occurrences Occurrences
	InputSize   uint64  // Number of bytes inspected
	Letters     uint64  // Number of bytes that were lowercase letters
	Kappa       float64 // Kappa plaintext
	Index       float64 // Index of coincidence
}

// Count tallies the lowercase ASCII letters of text.
func Count(text []byte) Occurrences {
	var occ Occurrences
	for _, b := range text {
		if b >= 'a' && b <= 'z' {
			occ[b-'a']++
		}
	}
	return occ
}

// Letter returns the count for a single letter, or 0 for anything outside 'a'..'z'.
func (o Occurrences) Letter(letter byte) uint64 {
	if letter < 'a' || letter > 'z' {
		return 0
	}
	return o[letter-'a']
}

// Total returns the number of letters counted.
func (o Occurrences) Total() uint64 {
	var total uint64
	for _, n := range o {
		total += n
	}
	return total
}

// Add returns the element-wise sum of two tables.
func (o Occurrences) Add(other Occurrences) Occurrences {
	for i := range o {
		o[i] += other[i]
	}
	return o
}

// KappaPlaintext returns Σ n(n-1) / (N(N-1)) for the table.
//
// The denominator is not guarded: fewer than two letters yields NaN.
func (o Occurrences) KappaPlaintext() float64 {
	var numerator, total uint64
	for _, n := range o {
		// n-1 wraps for n == 0, but the product is still 0.
		numerator += n * (n - 1)
		total += n
	}
	return float64(numerator) / float64(total*(total-1))
}

// IndexOfCoincidence returns the kappa plaintext normalized by AlphabetSize.
func (o Occurrences) IndexOfCoincidence() float64 {
	return o.KappaPlaintext() * AlphabetSize
}

// KappaPlaintext counts the letters of text and returns its kappa plaintext.
func KappaPlaintext(text []byte) float64 {
	return Count(text).KappaPlaintext()
}

// IndexOfCoincidence counts the letters of text and returns its index of coincidence.
func IndexOfCoincidence(text []byte) float64 {
	return KappaPlaintext(text) * AlphabetSize
}

// Analyze counts text once and derives every statistic from the same table.
func Analyze(text []byte) Analysis {
	return FromOccurrences(Count(text), uint64(len(text)))
}

// FromOccurrences derives an Analysis from an existing table, such as one
// loaded back from storage.
func FromOccurrences(occ Occurrences, inputSize uint64) Analysis {
	kappa := occ.KappaPlaintext()
	return Analysis{
		Occurrences: occ,
		InputSize:   inputSize,
		Letters:     occ.Total(),
		Kappa:       kappa,
		Index:       kappa * AlphabetSize,
	}
}
