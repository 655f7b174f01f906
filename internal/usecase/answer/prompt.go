package answer

import "fmt"

const promptTemplate = "You are a helpful assistant that answers questions based on Reddit discussions. " +
	"Use the provided Reddit posts to answer the user's question. Be conversational and mention " +
	"when information comes from highly upvoted posts or active discussions. " +
	"If the context doesn't contain enough information, say so politely.\n\n" +
	"Question: %s\n\nRelevant Reddit posts:\n%s\n\n" +
	"Please provide a helpful answer based on this Reddit content:"

func buildPrompt(query, contextText string) string {
	return fmt.Sprintf(promptTemplate, query, contextText)
}
