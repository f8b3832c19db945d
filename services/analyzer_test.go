package services_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/dwightlabs/visibility-engine/internal/models"
	"github.com/dwightlabs/visibility-engine/services"
)

func TestMentionDetectionNormalization(t *testing.T) {
	tests := []struct {
		name      string
		brand     string
		text      string
		mentioned bool
	}{
		{"hyphenated", "New Balance", "new-balance shoes are great", true},
		{"space stripped", "New Balance", "NEWBALANCE is popular", true},
		{"direct", "New Balance", "I recommend New Balance.", true},
		{"underscore", "New Balance", "try new_balance for comfort", true},
		{"absent", "New Balance", "Nike and Adidas dominate the market", false},
		{"empty text", "New Balance", "", false},
		{"substring of word", "Acme", "I recommend Acmeware tools", true},
	}

	analyzer := services.NewRuleAnalyzer()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := analyzer.Analyze(ctx, tt.text, tt.brand, nil)
			if err != nil {
				t.Fatalf("Analyze returned error: %v", err)
			}
			if analysis.Mentioned != tt.mentioned {
				t.Errorf("Mentioned = %v, want %v for %q in %q",
					analysis.Mentioned, tt.mentioned, tt.brand, tt.text)
			}
		})
	}
}

func TestAnalyzerIsPure(t *testing.T) {
	analyzer := services.NewRuleAnalyzer()
	ctx := context.Background()

	text := "1. Nike\n2. Acme\n3. Adidas\nAcme is a trusted, popular brand."

	first, err := analyzer.Analyze(ctx, text, "Acme", nil)
	if err != nil {
		t.Fatalf("first Analyze returned error: %v", err)
	}
	second, err := analyzer.Analyze(ctx, text, "Acme", nil)
	if err != nil {
		t.Fatalf("second Analyze returned error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different analyses:\n%+v\n%+v", first, second)
	}
}

func TestCompetitorExtraction(t *testing.T) {
	analyzer := services.NewRuleAnalyzer()
	ctx := context.Background()

	analysis, err := analyzer.Analyze(ctx,
		"The best options are Acme, Globex, and Initech.", "Acme", nil)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	want := []string{"Globex", "Initech"}
	if !reflect.DeepEqual(analysis.Competitors, want) {
		t.Errorf("Competitors = %v, want %v", analysis.Competitors, want)
	}
}

func TestCompetitorExtractionFilters(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		brand    string
		excluded string
	}{
		{"stop word", "The Best running shoes are from Brooks", "Acme", "Best"},
		{"own brand", "Acme and Globex are both solid", "Acme", "Acme"},
		{"brand containment", "AcmePro and Globex are both solid", "Acme", "AcmePro"},
		{"too short", "Go is a language", "Acme", "Go"},
	}

	analyzer := services.NewRuleAnalyzer()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := analyzer.Analyze(ctx, tt.text, tt.brand, nil)
			if err != nil {
				t.Fatalf("Analyze returned error: %v", err)
			}
			for _, comp := range analysis.Competitors {
				if comp == tt.excluded {
					t.Errorf("competitor list %v should not contain %q", analysis.Competitors, tt.excluded)
				}
			}
		})
	}
}

func TestPositionFromNumberedList(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"first", "1. Acme\n2. Globex", 1},
		{"third", "1. Nike\n2. Globex\n3. Acme", 3},
		{"paren marker", "1) Nike\n2) Acme", 2},
		{"bullets", "- Nike\n- Globex\n- Acme", 3},
	}

	analyzer := services.NewRuleAnalyzer()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := analyzer.Analyze(ctx, tt.text, "Acme", nil)
			if err != nil {
				t.Fatalf("Analyze returned error: %v", err)
			}
			if analysis.Position == nil {
				t.Fatalf("Position is nil, want %d", tt.want)
			}
			if *analysis.Position != tt.want {
				t.Errorf("Position = %d, want %d", *analysis.Position, tt.want)
			}
		})
	}
}

func TestPositionFromProse(t *testing.T) {
	analyzer := services.NewRuleAnalyzer()
	ctx := context.Background()

	// Two capitalized tokens before the brand: approximate rank 3
	analysis, err := analyzer.Analyze(ctx,
		"both Nike and Adidas lead, but acme remains a contender", "acme", nil)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if analysis.Position == nil {
		t.Fatal("Position is nil, want a prose estimate")
	}
	if *analysis.Position != 3 {
		t.Errorf("Position = %d, want 3", *analysis.Position)
	}
}

func TestSentiment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Sentiment
	}{
		{"positive", "Acme is an excellent, trusted brand. I highly recommend it.", models.SentimentPositive},
		{"negative", "Acme is overpriced and has a poor reputation. Many complaints.", models.SentimentNegative},
		{"neutral tie", "Acme exists.", models.SentimentNeutral},
		{"words outside brand sentences ignored", "Nike is excellent and amazing. Acme is available.", models.SentimentNeutral},
	}

	analyzer := services.NewRuleAnalyzer()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := analyzer.Analyze(ctx, tt.text, "Acme", nil)
			if err != nil {
				t.Fatalf("Analyze returned error: %v", err)
			}
			if analysis.Sentiment != tt.want {
				t.Errorf("Sentiment = %q, want %q", analysis.Sentiment, tt.want)
			}
		})
	}
}

func TestNotMentionedStaysNeutralWithoutPosition(t *testing.T) {
	analyzer := services.NewRuleAnalyzer()

	analysis, err := analyzer.Analyze(context.Background(),
		"Nike and Globex are the leaders here.", "Acme", nil)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if analysis.Mentioned {
		t.Error("Mentioned = true, want false")
	}
	if analysis.Position != nil {
		t.Errorf("Position = %d, want nil", *analysis.Position)
	}
	if analysis.Sentiment != models.SentimentNeutral {
		t.Errorf("Sentiment = %q, want neutral", analysis.Sentiment)
	}
	if len(analysis.Competitors) == 0 {
		t.Error("competitors should still be extracted when the brand is absent")
	}
}
