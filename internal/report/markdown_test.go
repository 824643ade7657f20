package report

import (
	"strings"
	"testing"
	"time"
)

func sampleReport() *Report {
	return &Report{
		GeneratedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		VideosAudited: 42,
		TableAudits: []TableAudit{
			{Table: "video_topics", Expected: 120, Actual: 120, Match: true},
			{Table: "video_categories", Expected: 80, Actual: 79, Match: false},
		},
		Distributions: []Distribution{
			{Table: "video_topics", Count: 120, Mean: 0.71, Median: 0.75},
		},
		CreatorAudit: CreatorAudit{DistinctUsernames: 10, StoredCreators: 10, Match: true},
		SpotChecks: []SpotCheck{
			{VideoID: "abc", Table: "video_topics", Match: true},
			{VideoID: "def", Table: "video_categories", Match: false, Detail: "row count mismatch"},
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sampleReport())

	for _, want := range []string{
		"MISMATCHES FOUND",
		"video_topics",
		"video_categories",
		"Videos audited: 42",
		"row count mismatch",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdownClean(t *testing.T) {
	r := sampleReport()
	r.TableAudits[1].Match = true
	r.SpotChecks[1].Match = true

	md := RenderMarkdown(r)
	if !strings.Contains(md, "CLEAN") {
		t.Error("clean report should say CLEAN")
	}
}

func TestRenderHTML(t *testing.T) {
	out := string(RenderHTML(sampleReport()))

	if !strings.Contains(out, "<table>") {
		t.Error("HTML output should contain rendered tables")
	}
	if !strings.Contains(out, "video_topics") {
		t.Error("HTML output should carry the table names through")
	}
	if strings.Contains(out, "|---|") {
		t.Error("markdown table syntax leaked into HTML")
	}
}
