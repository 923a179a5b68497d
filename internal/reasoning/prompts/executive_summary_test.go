package prompts

import (
	"strings"
	"testing"
	"unicode/utf8"

	"reportgen/internal/report"
)

func sampleContext() report.Context {
	groups := []report.StatusGroup{
		{Status: "Off Track", Items: []report.Deliverable{
			{"deliverable": "Payment Gateway", "priority": "P0", "status": "Off Track",
				"risks_issues": "Vendor API contract changed without notice"},
		}},
		{Status: "At Risk", Items: []report.Deliverable{
			{"deliverable": "Mobile Onboarding", "priority": "P1", "status": "At Risk",
				"risks_issues": "Design review slipped two weeks"},
		}},
		{Status: "On Track", Items: []report.Deliverable{
			{"deliverable": "Search Relevance", "priority": "P2", "status": "On Track",
				"risks_issues": "No risks or issues reported this week"},
		}},
	}
	var items []report.Deliverable
	for _, g := range groups {
		items = append(items, g.Items...)
	}
	return report.Context{
		report.KeyStatusGroups:      groups,
		report.KeyDeliverables:      items,
		report.KeyTotalDeliverables: len(items),
		report.KeyReportDate:        "August 29, 2026",
	}
}

func TestBuildExecutiveSummaryPrompt(t *testing.T) {
	prompt := BuildExecutiveSummaryPrompt(sampleContext())

	for _, want := range []string{
		"Report Date: August 29, 2026",
		"Total Deliverables: 3",
		"- Off Track: 1 deliverable\n",
		"- [Off Track] Payment Gateway (Priority: P0)",
		"Vendor API contract changed without notice",
		"- Mobile Onboarding: Design review slipped two weeks",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	// Boilerplate risks never reach the prompt.
	if strings.Contains(prompt, "Search Relevance: No risks") {
		t.Error("boilerplate risk leaked into prompt")
	}
}

func TestBuildExecutiveSummaryPromptPluralizes(t *testing.T) {
	groups := []report.StatusGroup{
		{Status: "On Track", Items: []report.Deliverable{
			{"deliverable": "A"}, {"deliverable": "B"},
		}},
	}
	prompt := BuildExecutiveSummaryPrompt(report.Context{report.KeyStatusGroups: groups})
	if !strings.Contains(prompt, "- On Track: 2 deliverables") {
		t.Fatalf("missing plural form in:\n%s", prompt)
	}
}

func TestBuildExecutiveSummaryPromptEmptyContext(t *testing.T) {
	prompt := BuildExecutiveSummaryPrompt(report.Context{})
	if prompt == "" {
		t.Fatal("empty context must still yield a prompt")
	}
	for _, want := range []string{
		"Report Date: Unknown",
		"(No status information available)",
		"(No critical items - all deliverables on track or complete)",
		"(No risks or issues reported)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildExecutiveSummaryTruncatesLongRisks(t *testing.T) {
	long := strings.Repeat("x", 300)
	groups := []report.StatusGroup{
		{Status: "At Risk", Items: []report.Deliverable{
			{"deliverable": "Big Risk Item", "risks_issues": long},
		}},
	}
	prompt := BuildExecutiveSummaryPrompt(report.Context{report.KeyStatusGroups: groups})
	if !strings.Contains(prompt, "Risk: "+strings.Repeat("x", 150)+"...") {
		t.Error("critical item risk not truncated at 150 characters")
	}
}

func TestBuildExecutiveSummaryTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("納", 300)
	groups := []report.StatusGroup{
		{Status: "Off Track", Items: []report.Deliverable{
			{"deliverable": "Localized Item", "risks_issues": long},
		}},
	}
	prompt := BuildExecutiveSummaryPrompt(report.Context{report.KeyStatusGroups: groups})
	if !utf8.ValidString(prompt) {
		t.Fatal("prompt contains invalid UTF-8 after truncation")
	}
	if !strings.Contains(prompt, "Risk: "+strings.Repeat("納", 150)+"...") {
		t.Error("multibyte risk not truncated at 150 runes")
	}
}

func TestParseExecutiveSummary(t *testing.T) {
	cases := []struct {
		name      string
		response  string
		want      string
		sentences int
	}{
		{
			name:      "clean response",
			response:  "The program is healthy. One item needs attention.",
			want:      "The program is healthy. One item needs attention.",
			sentences: 2,
		},
		{
			name:      "strips preamble",
			response:  "Here is the executive summary: The program is at risk!",
			want:      "The program is at risk!",
			sentences: 1,
		},
		{
			name:      "strips labeled preamble",
			response:  "Summary:\n  All clear. Is anything pending? No.",
			want:      "All clear. Is anything pending? No.",
			sentences: 3,
		},
		{
			name:      "trims whitespace",
			response:  "  \n Status nominal. \n",
			want:      "Status nominal.",
			sentences: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			summary, meta := ParseExecutiveSummary(tc.response)
			if summary != tc.want {
				t.Fatalf("summary = %q, want %q", summary, tc.want)
			}
			if meta.Length != len(tc.want) {
				t.Fatalf("length = %d, want %d", meta.Length, len(tc.want))
			}
			if meta.SentenceCount != tc.sentences {
				t.Fatalf("sentences = %d, want %d", meta.SentenceCount, tc.sentences)
			}
		})
	}
}
