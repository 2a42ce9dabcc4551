// Command catalog-inspect loads course catalogs from disk and prints what the
// server would serve for them, without starting an HTTP listener.
//
// Usage:
//
//	catalog-inspect [-dirs ./courseData] summary
//	catalog-inspect [-dirs ./courseData] detail <slug> <course-id>
//	catalog-inspect [-dirs ./courseData] search <query> [slug]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/prereqs/prereqs-server/internal/catalog"
	"github.com/prereqs/prereqs-server/internal/logger"
	"github.com/prereqs/prereqs-server/internal/search"
	"github.com/prereqs/prereqs-server/internal/service"
	"github.com/prereqs/prereqs-server/internal/store"
)

type catalogSummary struct {
	Slug       string `json:"slug"`
	Department string `json:"department"`
	Courses    int    `json:"courses"`
	Edges      int    `json:"edges"`
	Missing    int    `json:"missing_prereq_refs"`
}

func main() {
	dirs := flag.String("dirs", envOr("COURSE_DATA_DIRS", "./courseData"), "Comma-separated catalog directories")
	verbose := flag.Bool("v", false, "Log loader activity")
	flag.Parse()

	level := "error"
	if *verbose {
		level = "debug"
	}
	lg := logger.New(logger.Config{Writer: os.Stderr, Level: logger.ParseLevel(level)})

	ctx := context.Background()
	set, err := catalog.NewLoader(lg.Logger).Load(ctx, splitDirs(*dirs)...)
	if err != nil {
		log.Fatalf("Failed to load catalogs: %v", err)
	}

	st := store.New(set, store.WithLogger(lg.Logger))
	index, err := search.Build(ctx, set, search.Options{Logger: lg.Logger})
	if err != nil {
		log.Fatalf("Failed to build search index: %v", err)
	}
	defer index.Close()

	svc, err := service.NewCatalogService(st, index, nil, lg.Logger, service.Options{})
	if err != nil {
		log.Fatalf("Failed to create catalog service: %v", err)
	}

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"summary"}
	}

	switch args[0] {
	case "summary":
		summaries := make([]catalogSummary, 0, set.Len())
		for _, c := range set.All() {
			ix, err := st.Index(c.Slug)
			if err != nil {
				log.Fatalf("Failed to index %s: %v", c.Slug, err)
			}
			missing := 0
			for i := range c.Courses {
				for _, ref := range c.Courses[i].PrereqRefs() {
					if _, ok := ix.Lookup(ref); !ok {
						missing++
					}
				}
			}
			summaries = append(summaries, catalogSummary{
				Slug:       c.Slug,
				Department: c.Department,
				Courses:    len(c.Courses),
				Edges:      ix.EdgeCount(),
				Missing:    missing,
			})
		}
		printJSON(summaries)

	case "detail":
		if len(args) < 3 {
			log.Fatal("usage: catalog-inspect detail <slug> <course-id>")
		}
		detail, err := svc.CourseDetail(ctx, args[1], strings.Join(args[2:], " "))
		if err != nil {
			log.Fatalf("Detail failed: %v", err)
		}
		printJSON(detail)

	case "search":
		if len(args) < 2 {
			log.Fatal("usage: catalog-inspect search <query> [slug]")
		}
		slug := ""
		if len(args) > 2 {
			slug = args[2]
		}
		res, err := svc.FullTextSearch(ctx, args[1], slug, 0)
		if err != nil {
			log.Fatalf("Search failed: %v", err)
		}
		printJSON(res)

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want summary, detail or search)\n", args[0])
		os.Exit(2)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
}

func splitDirs(value string) []string {
	var dirs []string
	for d := range strings.SplitSeq(value, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
