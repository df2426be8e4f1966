package summarizer

import "strings"

const (
	systemInstruction = "You are an AI assistant that summarizes transcripts accurately and concisely."
	userInstruction   = "Please summarize the following transcript in about 250 words:"
)

// truncate cuts text to maxChars characters and appends the marker.
// Text of exactly maxChars characters is returned unchanged.
func truncate(text string, maxChars int) (string, bool) {
	if maxChars <= 0 {
		return text, false
	}
	n := 0
	for i := range text {
		if n == maxChars {
			return text[:i] + TruncationMarker, true
		}
		n++
	}
	return text, false
}

// buildPrompt lays out the system, user and empty assistant turns.
func buildPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("<|system|>\n")
	b.WriteString(systemInstruction)
	b.WriteString("\n</s>\n<|user|>\n")
	b.WriteString(userInstruction)
	b.WriteString("\n\n")
	b.WriteString(transcript)
	b.WriteString("\n</s>\n")
	b.WriteString(AssistantTag)
	b.WriteString("\n")
	return b.String()
}

// extractResponse keeps the text after the last assistant tag.
func extractResponse(stdout string) string {
	parts := strings.Split(stdout, AssistantTag)
	return strings.TrimSpace(parts[len(parts)-1])
}
