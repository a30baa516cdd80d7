package course

import (
	"fmt"
	"strings"

	"github.com/JongMin999/inflearn-fullstack-clone/common/db"
)

type SortMode string

const (
	SortLatest      SortMode = "latest"
	SortPriceLow    SortMode = "price_low"
	SortPriceHigh   SortMode = "price_high"
	SortPopular     SortMode = "popular"
	SortRecommended SortMode = "recommended"
)

// ParseSortMode maps a raw sort parameter to a SortMode, defaulting to latest.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortPriceLow, SortPriceHigh, SortPopular, SortRecommended:
		return SortMode(s)
	default:
		return SortLatest
	}
}

// RequiresInMemorySort reports whether the ranking key is a derived count the
// persistence layer cannot order by, forcing a full-set fetch and
// application-side sort.
func (s SortMode) RequiresInMemorySort() bool {
	return s == SortPopular || s == SortRecommended
}

// OrderBy returns the persistence-level ordering for this mode. In-memory
// modes fetch newest-first and re-sort afterwards.
func (s SortMode) OrderBy() string {
	switch s {
	case SortPriceLow:
		return "c.price ASC"
	case SortPriceHigh:
		return "c.price DESC"
	default:
		return "c.created_at DESC"
	}
}

// SearchCriteria filters the published-course catalog.
type SearchCriteria struct {
	Query        string
	CategorySlug string
	PriceMin     *int64
	PriceMax     *int64
	Sort         SortMode
}

// TextVariants expands a query into the substring variants to match: the raw
// text, the whitespace-stripped form, and every single-space insertion into
// the stripped form. Users type compound terms with or without spaces
// inconsistently ("앱 개발" vs "앱개발"), and this makes both spellings find
// both titles. A blank query yields no variants.
func TextVariants(q string) []string {
	if strings.TrimSpace(q) == "" {
		return nil
	}

	variants := []string{q}

	stripped := strings.Join(strings.Fields(q), "")
	if stripped != q {
		variants = append(variants, stripped)
	}

	runes := []rune(stripped)
	for i := 1; i < len(runes); i++ {
		variants = append(variants, string(runes[:i])+" "+string(runes[i:]))
	}

	return variants
}

// whereClauses renders the criteria as SQL conditions over the course table
// aliased c joined to its instructor aliased u. Only PUBLISHED courses are
// ever eligible.
func (sc SearchCriteria) whereClauses(arger *db.Argumenter) []string {
	clauses := []string{
		fmt.Sprintf("c.status = %s", arger.Add(string(StatusPublished))),
	}

	if variants := TextVariants(sc.Query); len(variants) > 0 {
		var ors []string
		for _, v := range variants {
			pattern := arger.Add("%" + v + "%")
			ors = append(ors,
				fmt.Sprintf("c.title ILIKE %s", pattern),
				fmt.Sprintf("u.name ILIKE %s", pattern),
			)
		}

		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	if sc.CategorySlug != "" {
		clauses = append(clauses, fmt.Sprintf(
			`EXISTS (
				SELECT 1 FROM course_categories cc
				JOIN categories cat ON cat.id = cc.category_id
				WHERE cc.course_id = c.id AND cat.slug = %s
			)`,
			arger.Add(sc.CategorySlug),
		))
	}

	if sc.PriceMin != nil {
		clauses = append(clauses, fmt.Sprintf("c.price >= %s", arger.Add(*sc.PriceMin)))
	}
	if sc.PriceMax != nil {
		clauses = append(clauses, fmt.Sprintf("c.price <= %s", arger.Add(*sc.PriceMax)))
	}

	return clauses
}
