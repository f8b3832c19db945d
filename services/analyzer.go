// services/analyzer.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/dwightlabs/visibility-engine/internal/models"
	"github.com/dwightlabs/visibility-engine/internal/providers"
)

// RuleAnalyzer extracts mention/position/sentiment/competitor signals
// from a raw model answer with deterministic text rules. Pure: no I/O,
// no state, identical inputs always yield identical output.
type RuleAnalyzer struct{}

// NewRuleAnalyzer creates the rule-based analyzer
func NewRuleAnalyzer() *RuleAnalyzer {
	return &RuleAnalyzer{}
}

var (
	numberedLineRegex = regexp.MustCompile(`^[\s]*(\d+)[.\):\-]`)
	capitalizedRegex  = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	digitRegex        = regexp.MustCompile(`\d`)

	// Competitor candidate patterns: capitalized tokens, tokens after
	// recommendation verbs, tokens in numbered lists
	brandPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`),
		regexp.MustCompile(`(?:recommend|suggest|try|consider|check out)\s+([A-Z][a-zA-Z\s]+)`),
		regexp.MustCompile(`(?:\d+[.\)]\s*)([A-Z][a-zA-Z\s]+)`),
	}

	sentenceSplitRegex = regexp.MustCompile(`[.!?]`)
)

// Common non-brand words that the capitalized-token patterns pick up
var skipWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "this": true,
	"that": true, "these": true, "those": true,
	"here": true, "there": true, "when": true, "what": true, "which": true,
	"who": true, "how": true, "why": true,
	"best": true, "top": true, "great": true, "good": true, "nice": true,
	"quality": true, "price": true,
	"overall": true, "however": true, "although": true, "because": true,
	"since": true, "while": true,
	"running": true, "shoes": true, "brand": true, "brands": true,
	"product": true, "products": true,
	"option": true, "options": true, "choice": true, "choices": true,
	"alternative": true,
	"i": true, "you": true, "we": true, "they": true, "it": true,
	"my": true, "your": true, "our": true, "their": true,
}

var positiveWords = []string{
	"best", "excellent", "great", "top", "leading", "recommend",
	"outstanding", "innovative", "quality", "trusted", "reliable",
	"popular", "favorite", "preferred", "award", "premium",
	"highly", "loved", "amazing", "fantastic", "superior",
}

var negativeWords = []string{
	"bad", "poor", "avoid", "problem", "issue", "complaint",
	"expensive", "overpriced", "disappointing", "lacks", "limited",
	"controversy", "criticism", "negative", "worst", "inferior",
	"cheap", "low-quality", "unreliable",
}

func (a *RuleAnalyzer) Analyze(ctx context.Context, text, brand string, competitors []string) (*Analysis, error) {
	analysis := &Analysis{
		Sentiment:   models.SentimentNeutral,
		Competitors: []string{},
	}
	if text == "" {
		return analysis, nil
	}

	analysis.Mentioned = BrandInText(brand, text)
	if analysis.Mentioned {
		analysis.Position = findPosition(brand, text)
		analysis.Sentiment = analyzeSentiment(text, brand)
	}
	analysis.Competitors = extractBrands(text, brand)

	return analysis, nil
}

// normalize lowercases and collapses separators so that "New Balance",
// "new-balance" and "new_balance" compare equal.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// BrandInText reports whether the brand appears in the text, allowing
// separator and spacing variations ("NewBalance" matches "New Balance").
func BrandInText(brand, text string) bool {
	if text == "" || brand == "" {
		return false
	}

	brandNorm := normalize(brand)
	textNorm := normalize(text)

	if strings.Contains(textNorm, brandNorm) {
		return true
	}

	return strings.Contains(stripSpaces(textNorm), stripSpaces(brandNorm))
}

// findPosition estimates the brand's rank in the answer. Numbered and
// bulleted lists give a real position; prose falls back to counting
// capitalized tokens before the first mention, which is best-effort
// and can overcount when the prose contains unrelated capitalized words.
func findPosition(brand, text string) *int {
	if text == "" {
		return nil
	}

	brandLower := strings.ToLower(brand)
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		lineLower := strings.ToLower(line)
		inLine := strings.Contains(lineLower, brandLower) ||
			strings.Contains(stripSpaces(lineLower), stripSpaces(brandLower))
		if !inLine {
			continue
		}

		if m := numberedLineRegex.FindStringSubmatch(line); m != nil {
			pos := 0
			fmt.Sscanf(m[1], "%d", &pos)
			return &pos
		}

		if isBulletLine(line) {
			bullets := 0
			for j := 0; j <= i; j++ {
				if isBulletLine(lines[j]) {
					bullets++
				}
			}
			return &bullets
		}
		break
	}

	textLower := strings.ToLower(text)
	offset := strings.Index(textLower, brandLower)
	if offset == -1 {
		return nil
	}

	// Approximate rank: capitalized tokens appearing before the mention
	potentialBrands := capitalizedRegex.FindAllString(text[:offset], -1)
	pos := len(potentialBrands) + 1
	return &pos
}

func isBulletLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "-") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "•")
}

// extractBrands collects competitor brand names mentioned in the text,
// excluding the user's own brand, stop words and implausible tokens.
func extractBrands(text, userBrand string) []string {
	if text == "" {
		return []string{}
	}

	found := []string{}
	seen := map[string]bool{}
	userBrandLower := strings.ToLower(userBrand)

	for _, pattern := range brandPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			candidate := strings.TrimSpace(match[1])
			candidateLower := strings.ToLower(candidate)

			if skipWords[candidateLower] {
				continue
			}
			if candidateLower == userBrandLower || strings.Contains(candidateLower, userBrandLower) {
				continue
			}
			if len(candidate) < 3 || len(candidate) > 30 {
				continue
			}
			if digitRegex.MatchString(candidate) {
				continue
			}

			if !seen[candidate] {
				seen[candidate] = true
				found = append(found, candidate)
			}
		}
	}

	if len(found) > 10 {
		found = found[:10]
	}
	return found
}

// analyzeSentiment labels the brand-bearing sentences by counting fixed
// positive and negative indicator words. Majority wins, ties are neutral.
func analyzeSentiment(text, brand string) models.Sentiment {
	brandLower := strings.ToLower(brand)

	var brandSentences []string
	for _, sentence := range sentenceSplitRegex.Split(text, -1) {
		if strings.Contains(strings.ToLower(sentence), brandLower) {
			brandSentences = append(brandSentences, sentence)
		}
	}
	if len(brandSentences) == 0 {
		return models.SentimentNeutral
	}

	joined := strings.ToLower(strings.Join(brandSentences, " "))

	positive := 0
	for _, w := range positiveWords {
		if strings.Contains(joined, w) {
			positive++
		}
	}
	negative := 0
	for _, w := range negativeWords {
		if strings.Contains(joined, w) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return models.SentimentPositive
	case negative > positive:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// judgeVerdict is the structured grading a judge model returns
type judgeVerdict struct {
	Mentioned   bool     `json:"mentioned"`
	Position    int      `json:"position"` // 0 when unranked
	Sentiment   string   `json:"sentiment"`
	Competitors []string `json:"competitors"`
}

const judgeSystemPrompt = `You are a brand visibility grader. Given an AI assistant's answer and a target brand, report whether the brand is mentioned, its rank position in any recommendation list (0 if not ranked), the sentiment toward the brand (positive, neutral or negative), and every competitor brand named in the answer. Respond with JSON only.`

// JudgeAnalyzer asks a model to grade the answer through the gateway.
// The judgment call is an external, fallible boundary: on any transport
// or parse failure the rule-based analyzer produces the signals instead,
// so callers always get the same contract regardless of which path ran.
type JudgeAnalyzer struct {
	gateway  *providers.Gateway
	fallback *RuleAnalyzer
}

// NewJudgeAnalyzer creates the delegated analyzer with its rule-based fallback
func NewJudgeAnalyzer(gateway *providers.Gateway) *JudgeAnalyzer {
	return &JudgeAnalyzer{
		gateway:  gateway,
		fallback: NewRuleAnalyzer(),
	}
}

func (a *JudgeAnalyzer) Analyze(ctx context.Context, text, brand string, competitors []string) (*Analysis, error) {
	if text == "" {
		return a.fallback.Analyze(ctx, text, brand, competitors)
	}

	analysis, err := a.judge(ctx, text, brand)
	if err != nil {
		fmt.Printf("[JudgeAnalyzer] Judgment call failed, using rule-based analysis: %v\n", err)
		return a.fallback.Analyze(ctx, text, brand, competitors)
	}
	return analysis, nil
}

func (a *JudgeAnalyzer) judge(ctx context.Context, text, brand string) (*Analysis, error) {
	prompt := fmt.Sprintf("Target brand: %s\n\nAnswer to grade:\n%s", brand, text)

	raw, err := a.gateway.Generate(ctx, providers.FirstAvailable(), providers.GenerateRequest{
		Prompt:      prompt,
		System:      judgeSystemPrompt,
		MaxTokens:   400,
		Temperature: 0,
		JSONMode:    true,
		JSONSchema:  GenerateSchema[judgeVerdict](),
		SchemaName:  "brand_visibility_verdict",
	})
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.DisallowUnknownFields()

	var verdict judgeVerdict
	if err := decoder.Decode(&verdict); err != nil {
		return nil, &providers.ParseError{Provider: "judge", Err: err}
	}

	sentiment := models.Sentiment(verdict.Sentiment)
	switch sentiment {
	case models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative:
	default:
		return nil, &providers.ParseError{
			Provider: "judge",
			Err:      fmt.Errorf("unknown sentiment %q", verdict.Sentiment),
		}
	}

	analysis := &Analysis{
		Mentioned:   verdict.Mentioned,
		Sentiment:   sentiment,
		Competitors: verdict.Competitors,
	}
	if analysis.Competitors == nil {
		analysis.Competitors = []string{}
	}
	if verdict.Position > 0 {
		pos := verdict.Position
		analysis.Position = &pos
	}
	return analysis, nil
}
