package ideas

import (
	"fmt"
	"strings"
)

// DefaultCount is the batch size requested from the provider.
const DefaultCount = 20

// BuildPrompt constructs the instruction asking for count content ideas for
// the given niche and audience. Inputs are used verbatim.
func BuildPrompt(niche, targetAudience string, count int) string {
	if count <= 0 {
		count = DefaultCount
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(
		"Generate %d unique content ideas for a %s creator targeting %s.\n",
		count, niche, targetAudience))

	sb.WriteString("For each idea, provide:\n")
	sb.WriteString("1. A catchy title\n")
	sb.WriteString("2. Content type (blog, video, or tweet)\n")
	sb.WriteString("3. A brief description\n\n")

	sb.WriteString("IMPORTANT: Return ONLY a valid JSON array with no additional text or explanation.\n\n")
	sb.WriteString(fmt.Sprintf(`Format:
[
  {"title": "string", "type": "blog|video|tweet", "description": "string"}
]

Return an array of %d ideas.`, count))

	return sb.String()
}
