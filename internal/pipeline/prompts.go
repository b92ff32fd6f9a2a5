package pipeline

import (
	"fmt"
	"strings"
)

// noPAANote is the context sent to the model when scraping produced no
// related questions. Generation still proceeds, grounded on the keyword
// alone.
const noPAANote = "Note: No PAA data found. Infer user intent from keyword directly."

func paaContext(paa []string) string {
	if len(paa) == 0 {
		return noPAANote
	}
	return "Real User Questions (PAA): " + strings.Join(paa, ", ")
}

// draftPrompt asks for the stage-one detailed answer.
func draftPrompt(keyword string, paa []string) string {
	return fmt.Sprintf(`Task: Generate a comprehensive answer for: "%s".
Context: %s
Goal: Detailed, factual response in Traditional Chinese (Taiwan).
Tone: Helpful and authoritative.`, keyword, paaContext(paa))
}

// refinePrompt rewrites the draft for AI search engines with the fixed
// GEO formatting rules.
func refinePrompt(keyword, draft string, paa []string) string {
	return fmt.Sprintf(`You are an expert in GEO (Generative Engine Optimization).
Rewrite the source content so it is favored by AI search engines
(ChatGPT Search, Google AI Overviews, Perplexity) for the keyword "%s".

User Search Intent:
%s

Source Content:
%s

Strict Optimization Rules:
1. BLUF: start with a direct-answer summary of at most 80 characters.
2. Structure: use clear H2/H3 headings.
3. Visuals: you MUST include at least one Markdown comparison table (3+ columns).
4. Lists: use bullet points with **bold key terms**.
5. Language: Traditional Chinese (Taiwan), Markdown only.
6. Integrity: if concrete product data is missing, compare conceptually; never fabricate details.`,
		keyword, paaContext(paa), draft)
}

// customPrompt substitutes the user's own instruction while still
// injecting the keyword and collected questions, so a custom prompt
// cannot silently drop the grounding context.
func customPrompt(keyword, instruction string, paa []string) string {
	return fmt.Sprintf(`You are a professional content writer.

Task: write content for the keyword "%s".

User Search Intent (you must reference these real user questions):
%s

User's Custom Requirements:
%s

Baseline Requirements:
- Language: Traditional Chinese (Taiwan)
- Format: Markdown
- The content must answer questions related to the keyword "%s"
- The content must reference the user search intent above`,
		keyword, paaContext(paa), instruction, keyword)
}

// streamPrompt is the single-stage prompt used by the streaming entry
// point: the GEO rules applied directly to the keyword instead of to a
// drafted text.
func streamPrompt(keyword string, paa []string) string {
	return fmt.Sprintf(`You are an expert in GEO (Generative Engine Optimization).
Write content for the keyword "%s" that AI search engines
(ChatGPT Search, Google AI Overviews, Perplexity) will favor.

User Search Intent:
%s

Strict Optimization Rules:
1. BLUF: start with a direct-answer summary of at most 80 characters.
2. Structure: use clear H2/H3 headings.
3. Visuals: you MUST include at least one Markdown comparison table (3+ columns).
4. Lists: use bullet points with **bold key terms**.
5. Language: Traditional Chinese (Taiwan), Markdown only.
6. Integrity: if concrete product data is missing, compare conceptually; never fabricate details.`,
		keyword, paaContext(paa))
}

// refinementPrompt applies a user's manual edit request to previously
// generated content.
func refinementPrompt(original, instruction string) string {
	return fmt.Sprintf(`You are a professional content optimization expert.
Adjust the original content according to the user's edit request.

Original Content:
%s

User's Edit Request:
%s

Output Requirements:
1. Keep Traditional Chinese (Taiwan).
2. Keep Markdown formatting.
3. Keep the content accurate.
4. Keep the AI-search-friendly format (bold key terms, bullet points, tables).

Output the full revised content:`, original, instruction)
}
