// Package sentiment implements the feedback comment classifier: TF-IDF
// features feeding a class-balanced softmax regression. Labels come from
// ratings (>=4 positive, ==3 neutral, <3 negative); only rows with non-empty
// comments are used.
package sentiment

import (
	"math"
	"math/rand"

	"github.com/peakform/recohub/internal/domain"
	"github.com/peakform/recohub/internal/textindex"
)

// Sample is one labeled training comment.
type Sample struct {
	Comment string
	Label   domain.SentimentLabel
}

// Pipeline is the fitted artifact: the vectorizer plus the classifier
// weights. Exported fields survive gob round-trips. Immutable after training.
type Pipeline struct {
	Vectorizer *textindex.Vectorizer
	Classes    []domain.SentimentLabel
	// Weights[c] has Vectorizer.Dimension()+1 entries; the last is the bias.
	Weights [][]float64
}

// Report summarizes the held-out evaluation. Not persisted with the artifact.
type Report struct {
	TrainSize  int
	TestSize   int
	Accuracy   float64
	Stratified bool
}

const (
	testFraction = 0.2
	epochs       = 60
	learningRate = 0.1
	l2           = 1e-4
	seed         = 42
)

// Train fits the pipeline on an 80/20 split, stratified by label when every
// class has at least two samples.
func Train(samples []Sample) (*Pipeline, Report, error) {
	usable := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.Comment != "" {
			usable = append(usable, s)
		}
	}
	if len(usable) == 0 {
		return nil, Report{}, domain.ErrNoFeedback
	}

	train, test, stratified := split(usable)

	texts := make([]string, len(train))
	for i, s := range train {
		texts[i] = s.Comment
	}
	vec := textindex.NewVectorizer(textindex.VectorizerOptions{
		MaxFeatures: 5000,
		NGramMax:    2,
	})
	if err := vec.Fit(texts); err != nil {
		return nil, Report{}, err
	}

	p := &Pipeline{
		Vectorizer: vec,
		Classes:    append([]domain.SentimentLabel(nil), domain.SentimentLabels...),
	}
	p.fit(train)

	report := Report{
		TrainSize:  len(train),
		TestSize:   len(test),
		Accuracy:   p.evaluate(test),
		Stratified: stratified,
	}
	return p, report, nil
}

// Predict classifies one comment.
func (p *Pipeline) Predict(comment string) domain.SentimentLabel {
	x := p.Vectorizer.Transform(comment)
	probs := p.scores(x)
	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return p.Classes[best]
}

// fit runs SGD on the softmax objective with balanced class weights to
// counter label skew.
func (p *Pipeline) fit(train []Sample) {
	dim := p.Vectorizer.Dimension() + 1 // +1 bias
	p.Weights = make([][]float64, len(p.Classes))
	for c := range p.Weights {
		p.Weights[c] = make([]float64, dim)
	}

	classIdx := make(map[domain.SentimentLabel]int, len(p.Classes))
	for c, label := range p.Classes {
		classIdx[label] = c
	}

	counts := make([]float64, len(p.Classes))
	for _, s := range train {
		counts[classIdx[s.Label]]++
	}
	classWeight := make([]float64, len(p.Classes))
	for c := range classWeight {
		if counts[c] > 0 {
			classWeight[c] = float64(len(train)) / (float64(len(p.Classes)) * counts[c])
		}
	}

	features := make([][]float64, len(train))
	for i, s := range train {
		features[i] = p.Vectorizer.Transform(s.Comment)
	}

	rng := rand.New(rand.NewSource(seed))
	order := rng.Perm(len(train))

	for epoch := 0; epoch < epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, i := range order {
			x := features[i]
			y := classIdx[train[i].Label]
			w := classWeight[y]
			probs := p.scores(x)

			for c := range p.Weights {
				target := 0.0
				if c == y {
					target = 1.0
				}
				grad := w * (probs[c] - target)
				row := p.Weights[c]
				for f, xf := range x {
					if xf != 0 {
						row[f] -= learningRate * (grad*xf + l2*row[f])
					}
				}
				row[len(row)-1] -= learningRate * grad // bias
			}
		}
	}
}

// scores returns softmax probabilities for a feature vector.
func (p *Pipeline) scores(x []float64) []float64 {
	logits := make([]float64, len(p.Weights))
	maxLogit := math.Inf(-1)
	for c, row := range p.Weights {
		var z float64
		for f, xf := range x {
			if xf != 0 {
				z += row[f] * xf
			}
		}
		z += row[len(row)-1]
		logits[c] = z
		if z > maxLogit {
			maxLogit = z
		}
	}

	var sum float64
	for c, z := range logits {
		logits[c] = math.Exp(z - maxLogit)
		sum += logits[c]
	}
	for c := range logits {
		logits[c] /= sum
	}
	return logits
}

func (p *Pipeline) evaluate(test []Sample) float64 {
	if len(test) == 0 {
		return 0
	}
	correct := 0
	for _, s := range test {
		if p.Predict(s.Comment) == s.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(test))
}

// split returns an 80/20 train/test partition, stratified per label unless
// some class has fewer than two samples.
func split(samples []Sample) (train, test []Sample, stratified bool) {
	rng := rand.New(rand.NewSource(seed))

	byLabel := make(map[domain.SentimentLabel][]int)
	for i, s := range samples {
		byLabel[s.Label] = append(byLabel[s.Label], i)
	}

	stratified = true
	for _, idxs := range byLabel {
		if len(idxs) < 2 {
			stratified = false
			break
		}
	}

	if !stratified {
		order := rng.Perm(len(samples))
		cut := len(samples) - int(float64(len(samples))*testFraction)
		if cut < 1 {
			cut = 1
		}
		for i, idx := range order {
			if i < cut {
				train = append(train, samples[idx])
			} else {
				test = append(test, samples[idx])
			}
		}
		return train, test, false
	}

	for _, label := range domain.SentimentLabels {
		idxs := byLabel[label]
		if len(idxs) == 0 {
			continue
		}
		rng.Shuffle(len(idxs), func(i, j int) { idxs[i], idxs[j] = idxs[j], idxs[i] })
		nTest := int(float64(len(idxs)) * testFraction)
		if nTest < 1 {
			nTest = 1
		}
		for i, idx := range idxs {
			if i < nTest {
				test = append(test, samples[idx])
			} else {
				train = append(train, samples[idx])
			}
		}
	}
	return train, test, true
}
