package prompts

import (
	"fmt"
	"strings"

	"github.com/boonchuay-ai/boonchuay/pkg/azure/search"
)

// DefaultSystemPrompt is the fixed instruction for the loan assistant.
const DefaultSystemPrompt = "You are a helpful Loan agent that responds in Thai language"

// WithContext appends retrieved document snippets to the system
// instruction so the model grounds its answer in the indexed documents.
func WithContext(systemPrompt string, docs []search.Document) string {
	if len(docs) == 0 {
		return systemPrompt
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nUse the following retrieved documents to answer. ")
	b.WriteString("If they do not contain the answer, say so.\n")
	for i, doc := range docs {
		fmt.Fprintf(&b, "\n[%d] %s\n%s\n", i+1, doc.Title, doc.Snippet)
	}
	return b.String()
}
