package state

import (
	"fmt"
)

// BuildPrimingPrompt builds the first message of every chat session. It
// grounds the model in the channel's transcripts and fixes the answering
// rules for the rest of the conversation.
func BuildPrimingPrompt(channelName, transcripts string) string {
	return fmt.Sprintf(`You are an AI assistant that has access to transcripts from the YouTube channel %s.
Use these transcripts to answer questions in the style and tone of the channel's content.

Transcripts:
%s

Instructions:
1. Only answer questions based on information found in these transcripts
2. If the information isn't in the transcripts, clearly state that
3. Maintain the channel's speaking style and tone
4. Keep responses concise and relevant
`, channelName, transcripts)
}

// BuildContinuationPrompt carries one overflow chunk of a context document
// that was too large for a single priming message.
func BuildContinuationPrompt(channelName string, part, total int, chunk string) string {
	return fmt.Sprintf(`Additional transcripts from the YouTube channel %s (part %d of %d).
Treat them exactly like the transcripts above and follow the same instructions.

Transcripts:
%s
`, channelName, part, total, chunk)
}
