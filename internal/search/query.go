package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/prereqs/prereqs-server/internal/normalize"
)

// Params configures a course search.
type Params struct {
	Query string
	Slug  string // restricts hits to one catalog when set
	Limit int
}

// Result is one page of search hits.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit is one matching course.
type Hit struct {
	Slug       string  `json:"slug"`
	Department string  `json:"department"`
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
}

// Search runs params against the index. Hits are ordered by descending score,
// then document id, so equal scores come back in a stable order.
func (s *CourseIndex) Search(ctx context.Context, params Params) (*Result, error) {
	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})
	req.Fields = []string{"slug", "department", "course_id", "name"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		hit := Hit{Score: h.Score}
		if v, ok := h.Fields["slug"].(string); ok {
			hit.Slug = v
		}
		if v, ok := h.Fields["department"].(string); ok {
			hit.Department = v
		}
		if v, ok := h.Fields["course_id"].(string); ok {
			hit.ID = v
		}
		if v, ok := h.Fields["name"].(string); ok {
			hit.Name = v
		}
		out.Hits = append(out.Hits, hit)
	}

	return out, nil
}

// buildQuery matches the course name most strongly, then description and
// requirement text. A query that is a course id matches that course exactly.
func buildQuery(params Params) query.Query {
	var text query.Query = bleve.NewMatchAllQuery()

	if q := strings.TrimSpace(params.Query); q != "" {
		folded := normalize.Fold(q)

		idMatch := bleve.NewTermQuery(normalize.CourseID(q))
		idMatch.SetField("course_key")
		idMatch.SetBoost(5.0)

		nameMatch := bleve.NewMatchQuery(q)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)

		descMatch := bleve.NewMatchQuery(q)
		descMatch.SetField("description")

		reqMatch := bleve.NewMatchQuery(q)
		reqMatch.SetField("requirements")
		reqMatch.SetBoost(0.5)

		fuzzy := bleve.NewFuzzyQuery(folded)
		fuzzy.SetField("name")
		fuzzy.SetFuzziness(1)
		fuzzy.SetBoost(0.8)

		clauses := []query.Query{idMatch, nameMatch, descMatch, reqMatch, fuzzy}

		if len(folded) >= 2 {
			prefix := bleve.NewPrefixQuery(folded)
			prefix.SetField("name")
			prefix.SetBoost(0.5)
			clauses = append(clauses, prefix)
		}

		text = bleve.NewDisjunctionQuery(clauses...)
	}

	if params.Slug == "" {
		return text
	}

	slug := bleve.NewTermQuery(params.Slug)
	slug.SetField("slug")
	return bleve.NewConjunctionQuery(text, slug)
}
