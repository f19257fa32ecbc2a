package training

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/peakform/recohub/internal/artifact"
	"github.com/peakform/recohub/internal/cf"
	"github.com/peakform/recohub/internal/corpus"
	"github.com/peakform/recohub/internal/domain"
	"github.com/peakform/recohub/internal/metrics"
	"github.com/peakform/recohub/internal/sentiment"
	"github.com/peakform/recohub/internal/textindex"
	"github.com/peakform/recohub/internal/vectorindex"
)

// buildSimilarity rebuilds the TF-IDF cosine similarity matrix.
func (s *Service) buildSimilarity(ctx context.Context) error {
	docs, err := s.loadCorpus(ctx)
	if err != nil {
		return err
	}

	idx, err := textindex.Build(docs)
	if err != nil {
		return fmt.Errorf("build similarity index: %w", err)
	}

	if err := artifact.Save(s.opts.ArtifactsDir, artifact.NameSimilarity, idx); err != nil {
		return err
	}
	s.holders.Similarity.Publish(idx)
	metrics.ArtifactSize.WithLabelValues(artifact.NameSimilarity).Set(float64(idx.Size()))
	s.logger.Info("similarity index published", zap.Int("products", idx.Size()))
	return nil
}

// buildVector rebuilds the flat L2 embedding index. The published artifact is
// only replaced after every document encodes successfully, so an encoder
// failure mid-run leaves the previous index serving queries.
func (s *Service) buildVector(ctx context.Context) error {
	docs, err := s.loadCorpus(ctx)
	if err != nil {
		return err
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	var vectors [][]float32
	for start := 0; start < len(texts); start += s.opts.EncodeBatchSize {
		end := start + s.opts.EncodeBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := s.encoder.EncodeBatch(ctx, texts[start:end])
		if err != nil {
			return fmt.Errorf("encode documents %d..%d: %w", start, end, err)
		}
		vectors = append(vectors, batch...)
	}
	if len(vectors) == 0 {
		return fmt.Errorf("encode documents: no vectors returned")
	}

	idx := vectorindex.New(len(vectors[0]))
	for i, vec := range vectors {
		if err := idx.Add(docs[i].ProductID, vec); err != nil {
			return fmt.Errorf("index document %d: %w", docs[i].ProductID, err)
		}
	}

	if err := artifact.Save(s.opts.ArtifactsDir, artifact.NameVectorIndex, idx); err != nil {
		return err
	}
	s.holders.Vector.Publish(idx)
	metrics.ArtifactSize.WithLabelValues(artifact.NameVectorIndex).Set(float64(idx.Size()))
	s.logger.Info("vector index published",
		zap.Int("products", idx.Size()), zap.Int("dimensions", idx.Dim))
	return nil
}

// buildCF retrains the collaborative-filtering model on collapsed
// max-weight interaction signals.
func (s *Service) buildCF(ctx context.Context) error {
	events, err := s.interactions.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load interactions: %w", err)
	}

	signals := collapseSignals(events)
	if len(signals) == 0 {
		return fmt.Errorf("cf training: %w", domain.ErrNoInteractions)
	}

	model, err := cf.Train(signals, s.opts.CF)
	if err != nil {
		return fmt.Errorf("train cf model: %w", err)
	}

	if err := artifact.Save(s.opts.ArtifactsDir, artifact.NameCFModel, model); err != nil {
		return err
	}
	s.holders.CF.Publish(model)
	metrics.ArtifactSize.WithLabelValues(artifact.NameCFModel).Set(float64(len(model.ItemIDs)))
	s.logger.Info("cf model published",
		zap.Int("users", len(model.UserIndex)),
		zap.Int("items", len(model.ItemIDs)),
		zap.Int("signals", len(signals)))
	return nil
}

// buildSentiment retrains the comment classifier from rating-labeled feedback.
func (s *Service) buildSentiment(ctx context.Context) error {
	records, err := s.feedback.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load feedback: %w", err)
	}

	samples := make([]sentiment.Sample, 0, len(records))
	for _, fb := range records {
		if !fb.HasComment() {
			continue
		}
		samples = append(samples, sentiment.Sample{
			Comment: fb.Comment,
			Label:   fb.SentimentLabel(),
		})
	}

	pipeline, report, err := sentiment.Train(samples)
	if err != nil {
		return fmt.Errorf("train sentiment pipeline: %w", err)
	}

	// The evaluation report is logged, not persisted with the artifact.
	s.logger.Info("sentiment evaluation",
		zap.Int("train_size", report.TrainSize),
		zap.Int("test_size", report.TestSize),
		zap.Float64("accuracy", report.Accuracy),
		zap.Bool("stratified", report.Stratified))

	if err := artifact.Save(s.opts.ArtifactsDir, artifact.NameSentiment, pipeline); err != nil {
		return err
	}
	s.holders.Sentiment.Publish(pipeline)
	metrics.ArtifactSize.WithLabelValues(artifact.NameSentiment).Set(float64(len(samples)))
	s.logger.Info("sentiment pipeline published", zap.Int("samples", len(samples)))
	return nil
}

// collapseSignals reduces raw events to one max-weight rating per
// (user, product) pair, in deterministic user-then-product order so SGD
// training is reproducible across rebuilds of the same event log.
func collapseSignals(events []domain.Interaction) []cf.Rating {
	signals := domain.CollapseInteractions(events)
	out := make([]cf.Rating, 0, len(signals))
	for key, w := range signals {
		out = append(out, cf.Rating{UserID: key[0], ProductID: key[1], Value: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

func (s *Service) loadCorpus(ctx context.Context) ([]corpus.Document, error) {
	products, err := s.catalog.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	docs, err := corpus.Build(products)
	if err != nil {
		return nil, fmt.Errorf("build corpus: %w", err)
	}
	return docs, nil
}
