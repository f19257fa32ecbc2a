package textindex

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/peakform/recohub/internal/domain"
)

// VectorizerOptions control vocabulary construction.
type VectorizerOptions struct {
	// MinDocFreq drops terms appearing in fewer documents (noise from rare tokens).
	MinDocFreq int
	// MaxFeatures caps the vocabulary at the highest-document-frequency terms.
	// 0 means unlimited.
	MaxFeatures int
	// NGramMax extends features to word n-grams up to this length. 0 or 1
	// means unigrams only.
	NGramMax int
	// Stopwords are dropped during tokenization. Nil uses the default English list.
	Stopwords []string
}

// Vectorizer is a TF-IDF vectorizer. All fields are exported so a fitted
// vectorizer survives gob round-trips inside artifact blobs.
type Vectorizer struct {
	Vocabulary map[string]int
	IDF        []float64
	MinDF      int
	MaxTerms   int
	NGramMax   int
	Stop       map[string]bool
}

// NewVectorizer creates an unfitted vectorizer.
func NewVectorizer(opts VectorizerOptions) *Vectorizer {
	stop := make(map[string]bool)
	words := opts.Stopwords
	if words == nil {
		words = defaultStopwords
	}
	for _, w := range words {
		stop[strings.ToLower(w)] = true
	}

	minDF := opts.MinDocFreq
	if minDF < 1 {
		minDF = 1
	}
	return &Vectorizer{
		MinDF:    minDF,
		MaxTerms: opts.MaxFeatures,
		NGramMax: opts.NGramMax,
		Stop:     stop,
	}
}

// Fit builds the vocabulary and smoothed IDF values from the corpus.
func (v *Vectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return domain.ErrEmptyCorpus
	}

	df := make(map[string]int)
	for _, text := range docs {
		seen := make(map[string]struct{})
		for _, term := range v.terms(text) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	terms := make([]string, 0, len(df))
	for term, n := range df {
		if n >= v.MinDF {
			terms = append(terms, term)
		}
	}
	// Stable ordering: document frequency desc, then lexicographic, so
	// MaxTerms keeps the most common terms deterministically.
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if v.MaxTerms > 0 && len(terms) > v.MaxTerms {
		terms = terms[:v.MaxTerms]
	}
	sort.Strings(terms)

	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return nil
}

// Dimension returns the vocabulary size.
func (v *Vectorizer) Dimension() int { return len(v.IDF) }

// Transform computes the L2-normalized TF-IDF vector for text. Text with no
// in-vocabulary terms yields the zero vector.
func (v *Vectorizer) Transform(text string) []float64 {
	vec := make([]float64, len(v.IDF))
	tf := make(map[int]int)
	total := 0
	for _, term := range v.terms(text) {
		if idx, ok := v.Vocabulary[term]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}

	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * v.IDF[idx]
	}

	norm := 0.0
	for _, x := range vec {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// terms tokenizes text and expands n-grams per NGramMax.
func (v *Vectorizer) terms(text string) []string {
	tokens := v.tokenize(text)
	if v.NGramMax <= 1 {
		return tokens
	}
	terms := make([]string, 0, len(tokens)*v.NGramMax)
	terms = append(terms, tokens...)
	for n := 2; n <= v.NGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

func (v *Vectorizer) tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, tok := range fields {
		if v.Stop[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

var defaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "from",
	"has", "have", "he", "her", "his", "i", "if", "in", "into", "is", "it",
	"its", "my", "no", "not", "of", "on", "or", "our", "she", "so", "that",
	"the", "their", "them", "then", "there", "these", "they", "this", "to",
	"was", "we", "were", "what", "when", "which", "while", "who", "will",
	"with", "you", "your",
}
