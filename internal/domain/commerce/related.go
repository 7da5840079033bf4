package commerce

import (
	"sort"
	"strings"
	"time"
)

// Relatedness weights for RelatedArticles.
const (
	SharedTagWeight   = 3
	SharedWordWeight  = 1
	SameAuthorWeight  = 2
	RecentBonus       = 2
	SomewhatNewBonus  = 1
	RecentWindow      = 30 * 24 * time.Hour
	SomewhatNewWindow = 90 * 24 * time.Hour

	DefaultRelatedLimit = 3
)

var stopWords = map[string]struct{}{
	"about": {}, "after": {}, "also": {}, "because": {}, "before": {}, "being": {},
	"from": {}, "have": {}, "into": {}, "just": {}, "more": {}, "most": {},
	"only": {}, "over": {}, "some": {}, "such": {}, "than": {}, "that": {},
	"their": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "very": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "with": {}, "your": {},
}

// significantWords lowercases s and keeps words longer than three letters
// that are not stop words.
func significantWords(s string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 0x7f)
	})
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len([]rune(w)) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

// RelatedScore scores how related candidate is to current.
func RelatedScore(current, candidate *Article) int {
	score := 0

	tags := make(map[string]struct{}, len(current.Tags))
	for _, t := range current.Tags {
		tags[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	seen := make(map[string]struct{}, len(candidate.Tags))
	for _, t := range candidate.Tags {
		key := strings.ToLower(strings.TrimSpace(t))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := tags[key]; ok {
			score += SharedTagWeight
		}
	}

	words := significantWords(current.Title)
	for w := range significantWords(candidate.Title) {
		if _, ok := words[w]; ok {
			score += SharedWordWeight
		}
	}

	if current.Author != "" && strings.EqualFold(current.Author, candidate.Author) {
		score += SameAuthorWeight
	}

	if !current.PublishedAt.IsZero() && !candidate.PublishedAt.IsZero() {
		gap := current.PublishedAt.Sub(candidate.PublishedAt)
		if gap < 0 {
			gap = -gap
		}
		switch {
		case gap <= RecentWindow:
			score += RecentBonus
		case gap <= SomewhatNewWindow:
			score += SomewhatNewBonus
		}
	}
	return score
}

// RelatedArticles returns up to limit candidates ordered by RelatedScore,
// newest first among equal scores. The current article is never included.
// Candidates scoring zero only fill slots left over by scored ones.
func RelatedArticles(current *Article, candidates []Article, limit int) []Article {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	type scored struct {
		article Article
		score   int
	}
	pool := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if (current.ID != "" && c.ID == current.ID) ||
			(c.Handle == current.Handle && c.BlogHandle == current.BlogHandle) {
			continue
		}
		pool = append(pool, scored{article: c, score: RelatedScore(current, &c)})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].score != pool[j].score {
			return pool[i].score > pool[j].score
		}
		return pool[i].article.PublishedAt.After(pool[j].article.PublishedAt)
	})

	if len(pool) > limit {
		pool = pool[:limit]
	}
	out := make([]Article, len(pool))
	for i := range pool {
		out[i] = pool[i].article
	}
	return out
}
