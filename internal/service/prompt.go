package service

import (
	"fmt"
	"strings"

	"github.com/retoneapp/api/internal/model"
)

// Tolerance window around the target length: a rewrite whose rune count
// lands in [target-2, target+4] is accepted without another attempt.
const (
	toleranceBelow = 2
	toleranceAbove = 4
)

func withinTolerance(length, target int) bool {
	return length >= target-toleranceBelow && length <= target+toleranceAbove
}

// BuildRewritePrompt renders the rewrite instruction for one attempt.
// previousLength < 0 means there is no prior attempt to correct for.
func BuildRewritePrompt(baseText string, targetLength, previousLength int, targetEmotion, targetLanguage string) string {
	if targetLength < 1 {
		targetLength = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite the following text so that its total character count is as close as possible to %d characters (acceptable range: %d to %d characters).\n",
		targetLength, targetLength-toleranceBelow, targetLength+toleranceAbove)

	if previousLength >= 0 && !withinTolerance(previousLength, targetLength) {
		if previousLength < targetLength-toleranceBelow {
			fmt.Fprintf(&b, "Your previous attempt was %d characters, which is too short. Expand the text to land between %d and %d characters; if in doubt, make it longer rather than shorter.\n",
				previousLength, targetLength-toleranceBelow, targetLength+toleranceAbove)
		} else {
			fmt.Fprintf(&b, "Your previous attempt was %d characters, which is too long. Tighten the text to land between %d and %d characters, aiming for the upper end of that range rather than overshooting the cut.\n",
				previousLength, targetLength-toleranceBelow, targetLength+toleranceAbove)
		}
	}

	if targetEmotion != "" {
		fmt.Fprintf(&b, "Amplify the emotion of %s in the rewritten text while keeping the original meaning.\n", targetEmotion)
	}
	if targetLanguage != "" {
		fmt.Fprintf(&b, "Write the rewritten text in %s.\n", targetLanguage)
	}

	b.WriteString("Preserve the register and intensity of the original. Do not pad with filler words and do not use emoji. Return only the rewritten text, nothing else.\n")
	fmt.Fprintf(&b, "\nText:\n%s", baseText)

	return b.String()
}

// BuildEmotionPrompt renders a forced-choice classification instruction
// over the emotion vocabulary.
func BuildEmotionPrompt(text string) string {
	return fmt.Sprintf(`Classify the dominant emotion of the following text.
Answer with exactly one of: %s.
Reply with the emotion name only, no explanation.

Text:
%s`, strings.Join(model.Emotions, ", "), text)
}

// BuildLanguagePrompt renders a forced-choice classification instruction
// over the language vocabulary.
func BuildLanguagePrompt(text string) string {
	return fmt.Sprintf(`Identify the language the following text is written in.
Answer with exactly one of: %s.
Reply with the language name only, no explanation.

Text:
%s`, strings.Join(model.Languages, ", "), text)
}
