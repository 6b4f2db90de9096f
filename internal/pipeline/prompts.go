package pipeline

import (
	"fmt"
	"sort"
	"strings"

	types "github.com/filinglens/filinglens-backend/internal/domain"
)

const chunkSummarySystemPrompt = `You are a financial analyst summarizing one excerpt of an SEC filing section.
Summarize the excerpt in a few dense sentences. Keep every concrete figure,
trend, named risk and forward-looking statement. No preamble, no opinions.`

const sectionSummarySystemPrompt = `You are a financial analyst. You are given ordered partial summaries of one
section of an SEC filing. Synthesize them into a single coherent summary of
the whole section. Preserve concrete figures and named risks, remove
repetition, and keep the section's own ordering of topics. No preamble.`

const topLevelSystemPrompt = `You are a senior equity analyst writing for an investment-decision audience.
You are given summaries of the key sections of one SEC filing. Write a
concise brief covering: what the business does, how it is performing, the
material risks, and anything a prospective investor must weigh before a
position. Be specific, cite figures from the summaries, and avoid hedging
boilerplate.`

const comprehensiveReportSystemPrompt = `You are a senior equity research analyst. You are given summaries of the
available sections of one SEC filing. Produce a long-form research report in
markdown with exactly these sub-headings, in this order:

## Revenue and Growth
## Margins and Profitability
## Geographic and Segment Mix
## Cost Structure
## Balance Sheet and Liquidity
## Capital Expenditure and Allocation
## Management Outlook
## Risk Assessment
## Governance and Controls

Under each heading, write what the filing supports; where the available
sections say nothing, state that the filing's covered sections do not
address it. Keep every concrete figure. Do not invent data.`

func chunkSummaryUserPrompt(sectionKey, chunkText string) string {
	return fmt.Sprintf("Section: %s\n\nExcerpt:\n%s", sectionKey, chunkText)
}

func sectionSummaryUserPrompt(sectionKey, joinedChunkSummaries string) string {
	return fmt.Sprintf("Section: %s\n\nPartial summaries in document order:\n\n%s",
		sectionKey, joinedChunkSummaries)
}

// concatSectionSummaries renders section summaries as labeled blocks in
// sorted section-key order, so two runs over the same rows always build the
// identical prompt regardless of fetch order.
func concatSectionSummaries(summaries []*types.SectionSummary) string {
	ordered := make([]*types.SectionSummary, len(summaries))
	copy(ordered, summaries)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].SectionKey < ordered[j].SectionKey
	})

	var b strings.Builder
	for i, s := range ordered {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("## ")
		b.WriteString(s.SectionKey)
		b.WriteString("\n\n")
		b.WriteString(s.SummaryText)
	}
	return b.String()
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
