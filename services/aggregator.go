// services/aggregator.go
package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dwightlabs/visibility-engine/internal/models"
)

// ScoreWeights holds the composite score constants. The split is a
// product-tuned default, not a measured optimum; it is configurable so
// product can revisit it without a code change.
type ScoreWeights struct {
	BaseWeight float64 // mention rate multiplier

	PositionBonusHigh      int     // mean position at or under PositionHighCutoff
	PositionBonusLow       int     // mean position at or under PositionLowCutoff
	PositionHighCutoff     float64
	PositionLowCutoff      float64
	DefaultMeanPosition    float64 // assumed mean when no positions were recorded
	SentimentBonusHigh     int     // positive share above SentimentHighCutoff
	SentimentBonusLow      int     // positive share above SentimentLowCutoff
	SentimentHighCutoff    float64
	SentimentLowCutoff     float64
	ConsistencyBonusMulti  int // mentioned by 2+ distinct providers
	ConsistencyBonusSingle int // mentioned by exactly 1 provider
}

// DefaultScoreWeights returns the standard 60/20/10/10 split
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		BaseWeight:             60,
		PositionBonusHigh:      20,
		PositionBonusLow:       10,
		PositionHighCutoff:     2,
		PositionLowCutoff:      4,
		DefaultMeanPosition:    10,
		SentimentBonusHigh:     10,
		SentimentBonusLow:      5,
		SentimentHighCutoff:    0.5,
		SentimentLowCutoff:     0.25,
		ConsistencyBonusMulti:  10,
		ConsistencyBonusSingle: 5,
	}
}

// ScoreAggregator reduces a cell set into the final scorecard. Stateless;
// every call recomputes the aggregate from scratch.
type ScoreAggregator struct {
	weights ScoreWeights
}

// NewScoreAggregator creates an aggregator with the given weights
func NewScoreAggregator(weights ScoreWeights) *ScoreAggregator {
	return &ScoreAggregator{weights: weights}
}

func (a *ScoreAggregator) Aggregate(cells []models.Cell, brand string) *models.Aggregate {
	agg := &models.Aggregate{
		Verdict:      models.VerdictInvisible,
		VerdictEmoji: "🔴",
		Grade:        "F",
		Competitors:  []models.CompetitorInfo{},
	}
	if len(cells) == 0 {
		return agg
	}

	mentions := 0
	for i := range cells {
		if cells[i].Mentioned {
			mentions++
		}
	}

	// Errored cells count as not-mentioned but stay in the denominator
	agg.TotalCells = len(cells)
	agg.TotalMentions = mentions
	agg.MentionRate = float64(mentions) / float64(len(cells))

	agg.Score = a.calculateScore(cells, agg.MentionRate)
	agg.Verdict, agg.VerdictEmoji, agg.Grade = verdictForScore(agg.Score)

	agg.Competitors = rankCompetitors(cells, brand)
	agg.ModelBreakdown = modelBreakdown(cells)
	agg.PromptBreakdown = promptBreakdown(cells)
	agg.WorstPrompt = worstPrompt(agg.PromptBreakdown, cells)
	agg.KillerQuote = killerQuote(cells)

	return agg
}

func (a *ScoreAggregator) calculateScore(cells []models.Cell, mentionRate float64) int {
	w := a.weights

	base := mentionRate * w.BaseWeight

	var positions []int
	for i := range cells {
		if cells[i].Position != nil {
			positions = append(positions, *cells[i].Position)
		}
	}
	avgPosition := w.DefaultMeanPosition
	if len(positions) > 0 {
		sum := 0
		for _, p := range positions {
			sum += p
		}
		avgPosition = float64(sum) / float64(len(positions))
	}
	positionBonus := 0
	switch {
	case avgPosition <= w.PositionHighCutoff:
		positionBonus = w.PositionBonusHigh
	case avgPosition <= w.PositionLowCutoff:
		positionBonus = w.PositionBonusLow
	}

	positive, mentioned := 0, 0
	for i := range cells {
		if !cells[i].Mentioned {
			continue
		}
		mentioned++
		if cells[i].Sentiment == models.SentimentPositive {
			positive++
		}
	}
	positiveRate := 0.0
	if mentioned > 0 {
		positiveRate = float64(positive) / float64(mentioned)
	}
	sentimentBonus := 0
	switch {
	case positiveRate > w.SentimentHighCutoff:
		sentimentBonus = w.SentimentBonusHigh
	case positiveRate > w.SentimentLowCutoff:
		sentimentBonus = w.SentimentBonusLow
	}

	providers := map[string]bool{}
	for i := range cells {
		if cells[i].Mentioned {
			providers[cells[i].Provider] = true
		}
	}
	consistencyBonus := 0
	switch {
	case len(providers) >= 2:
		consistencyBonus = w.ConsistencyBonusMulti
	case len(providers) == 1:
		consistencyBonus = w.ConsistencyBonusSingle
	}

	score := int(base) + positionBonus + sentimentBonus + consistencyBonus
	if score > 100 {
		score = 100
	}
	return score
}

func verdictForScore(score int) (models.Verdict, string, string) {
	switch {
	case score < 20:
		return models.VerdictInvisible, "🔴", "F"
	case score < 40:
		return models.VerdictGhost, "🟠", "D"
	case score < 60:
		return models.VerdictContender, "🟡", "C"
	case score < 80:
		return models.VerdictVisible, "🟢", "B"
	default:
		return models.VerdictAuthority, "💚", "A"
	}
}

// rankCompetitors tallies every competitor found across cells and keeps
// the top 5 by mention count
func rankCompetitors(cells []models.Cell, brand string) []models.CompetitorInfo {
	counts := map[string]int{}
	brandLower := strings.ToLower(brand)

	for i := range cells {
		for _, comp := range cells[i].CompetitorsFound {
			compLower := strings.ToLower(comp)
			if compLower == brandLower || strings.Contains(compLower, brandLower) {
				continue
			}
			counts[titleCase(comp)]++
		}
	}

	type entry struct {
		name  string
		count int
	}
	sorted := make([]entry, 0, len(counts))
	for name, count := range counts {
		sorted = append(sorted, entry{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].name < sorted[j].name
	})

	if len(sorted) > 5 {
		sorted = sorted[:5]
	}

	total := len(cells)
	out := make([]models.CompetitorInfo, 0, len(sorted))
	for _, e := range sorted {
		rate := 0
		if total > 0 {
			rate = int(math.Round(float64(e.count) / float64(total) * 100))
		}
		out = append(out, models.CompetitorInfo{Name: e.name, Mentions: e.count, Rate: rate})
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func modelBreakdown(cells []models.Cell) []models.ModelBreakdown {
	order := []string{}
	stats := map[string]*models.ModelBreakdown{}

	for i := range cells {
		c := &cells[i]
		mb, ok := stats[c.ModelID]
		if !ok {
			mb = &models.ModelBreakdown{
				ModelID:   c.ModelID,
				ModelName: c.ModelName,
				Provider:  c.Provider,
			}
			stats[c.ModelID] = mb
			order = append(order, c.ModelID)
		}
		mb.Total++
		if c.Mentioned {
			mb.Mentions++
		}
	}

	out := make([]models.ModelBreakdown, 0, len(order))
	for _, id := range order {
		mb := stats[id]
		if mb.Total > 0 {
			mb.Rate = int(math.Round(float64(mb.Mentions) / float64(mb.Total) * 100))
		}
		out = append(out, *mb)
	}
	return out
}

func promptBreakdown(cells []models.Cell) []models.PromptBreakdown {
	order := []string{}
	stats := map[string]*models.PromptBreakdown{}

	for i := range cells {
		c := &cells[i]
		pb, ok := stats[c.Prompt]
		if !ok {
			pb = &models.PromptBreakdown{
				Prompt:   c.Prompt,
				Category: c.PromptCategory,
			}
			stats[c.Prompt] = pb
			order = append(order, c.Prompt)
		}
		pb.Total++
		if c.Mentioned {
			pb.Mentions++
		}
		if c.Position != nil && (pb.BestPosition == nil || *c.Position < *pb.BestPosition) {
			pos := *c.Position
			pb.BestPosition = &pos
		}
	}

	out := make([]models.PromptBreakdown, 0, len(order))
	for _, prompt := range order {
		pb := stats[prompt]
		if pb.Total > 0 {
			pb.MentionRate = float64(pb.Mentions) / float64(pb.Total)
		}
		out = append(out, *pb)
	}
	return out
}

func worstPrompt(breakdown []models.PromptBreakdown, cells []models.Cell) *models.WorstPrompt {
	if len(breakdown) == 0 {
		return nil
	}

	worst := breakdown[0]
	for _, pb := range breakdown[1:] {
		if pb.MentionRate < worst.MentionRate {
			worst = pb
		}
	}

	return &models.WorstPrompt{
		Prompt:           worst.Prompt,
		Category:         worst.Category,
		MentionRate:      worst.MentionRate,
		ModelsMentioning: worst.Mentions,
		TotalModels:      worst.Total,
	}
}

// killerQuote surfaces the most impactful miss: a cell recommending a
// competitor without the brand, else a low-ranked mention, else nothing
func killerQuote(cells []models.Cell) string {
	for i := range cells {
		c := &cells[i]
		if !c.Mentioned && len(c.CompetitorsFound) > 0 && c.OK() {
			return fmt.Sprintf("When asked %q, %s recommended %s. You were not mentioned.",
				c.Prompt, c.ModelName, c.CompetitorsFound[0])
		}
	}

	for i := range cells {
		c := &cells[i]
		if c.Mentioned && c.Position != nil && *c.Position > 3 {
			return fmt.Sprintf("When asked %q, %s mentioned you at position #%d.",
				c.Prompt, c.ModelName, *c.Position)
		}
	}

	return ""
}
