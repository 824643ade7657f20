package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderMarkdown formats a verification report as a markdown document.
func RenderMarkdown(r *Report) string {
	var b strings.Builder

	b.WriteString("# Normalization Verification Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Videos audited: %d\n\n", r.VideosAudited)

	if r.Clean() {
		b.WriteString("**Result: CLEAN** — every table matches its source.\n\n")
	} else {
		b.WriteString("**Result: MISMATCHES FOUND** — see details below.\n\n")
	}

	b.WriteString("## Row Counts\n\n")
	b.WriteString("| Table | Expected | Actual | Match |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, a := range r.TableAudits {
		fmt.Fprintf(&b, "| %s | %d | %d | %s |\n", a.Table, a.Expected, a.Actual, matchMark(a.Match))
	}
	b.WriteString("\n")

	b.WriteString("## Confidence Distributions\n\n")
	b.WriteString("| Table | Count | Mean | Median | StdDev | Min | Max | P10 | P90 |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, d := range r.Distributions {
		fmt.Fprintf(&b, "| %s | %d | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
			d.Table, d.Count, d.Mean, d.Median, d.StdDev, d.Min, d.Max, d.P10, d.P90)
	}
	b.WriteString("\n")

	b.WriteString("## Creators\n\n")
	fmt.Fprintf(&b, "- Distinct usernames on videos: %d\n", r.CreatorAudit.DistinctUsernames)
	fmt.Fprintf(&b, "- Rows in creators table: %d\n", r.CreatorAudit.StoredCreators)
	fmt.Fprintf(&b, "- Match: %s\n\n", matchMark(r.CreatorAudit.Match))

	failures := 0
	for _, s := range r.SpotChecks {
		if !s.Match {
			failures++
		}
	}
	fmt.Fprintf(&b, "## Spot Checks\n\n%d checked, %d failed.\n", len(r.SpotChecks), failures)
	if failures > 0 {
		b.WriteString("\n| Video | Table | Detail |\n|---|---|---|\n")
		for _, s := range r.SpotChecks {
			if !s.Match {
				fmt.Fprintf(&b, "| %s | %s | %s |\n", s.VideoID, s.Table, s.Detail)
			}
		}
	}

	return b.String()
}

// RenderHTML renders the markdown report as a standalone HTML fragment
// for the ops endpoint.
func RenderHTML(r *Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(RenderMarkdown(r)), p, renderer)
}

func matchMark(ok bool) string {
	if ok {
		return "ok"
	}
	return "MISMATCH"
}
