package transcript

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	boldRE       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRE     = regexp.MustCompile(`\*(.*?)\*`)
	inlineCodeRE = regexp.MustCompile("`(.*?)`")
	listItemRE   = regexp.MustCompile(`\n\s*(\d+\.|\*|\-)\s+`)
	sentenceEnds = ".!?"
)

// CleanForSpeech strips formatting that shouldn't be read aloud and
// rejects text that is code, JSON, or mostly paths. Returns "" when
// there is nothing speakable.
func CleanForSpeech(text string) string {
	// Keep only what precedes the first code fence.
	if strings.Contains(text, "```") {
		text = strings.TrimSpace(strings.SplitN(text, "```", 2)[0])
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return ""
	}
	if strings.Count(trimmed, "/") > 5 || strings.Count(trimmed, `\`) > 5 {
		return ""
	}

	text = strings.Join(strings.Fields(trimmed), " ")
	text = boldRE.ReplaceAllString(text, "$1")
	text = italicRE.ReplaceAllString(text, "$1")
	text = inlineCodeRE.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// Summarize extracts a speakable summary of at most maxLen characters,
// aiming for at least minLen. Numbered and bulleted lists get special
// handling so items are never cut mid-way.
func Summarize(text string, maxLen, minLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if listItemRE.MatchString(text) {
		return summarizeList(text, maxLen)
	}
	return summarizeSentences(text, maxLen, minLen)
}

// summarizeSentences accumulates whole sentences up to ~90% of maxLen.
func summarizeSentences(text string, maxLen, minLen int) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return truncate(text, maxLen)
	}

	target := maxLen * 9 / 10
	var b strings.Builder
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.ContainsRune(sentenceEnds, rune(s[len(s)-1])) {
			s += "."
		}
		add := len(s)
		if b.Len() > 0 {
			add++
		}
		if b.Len()+add > target {
			if b.Len() == 0 {
				return truncateAtBreak(s, maxLen)
			}
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
		if b.Len() >= minLen && b.Len() >= target*6/10 {
			break
		}
	}
	if b.Len() == 0 {
		return truncate(text, maxLen)
	}
	return b.String()
}

// summarizeList speaks the list intro plus the first couple of items,
// then "and N more" when space allows.
func summarizeList(text string, maxLen int) string {
	intro := ""
	listText := text
	if loc := listItemRE.FindStringIndex(text); loc != nil {
		intro = strings.TrimSpace(text[:loc[0]])
		listText = text[loc[0]:]
	}

	var items []string
	for _, raw := range listItemRE.Split("\n"+listText, -1) {
		item := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(raw), "."))
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return truncate(text, maxLen)
	}

	var b strings.Builder
	if intro != "" {
		b.WriteString(intro)
		if !strings.HasSuffix(intro, ":") {
			b.WriteByte(':')
		}
	}

	included := 0
	for _, item := range items {
		if included >= 2 {
			break
		}
		if included > 0 {
			b.WriteString(", ")
			item = strings.ToLower(item[:1]) + item[1:]
		} else if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item)
		included++
	}

	if remaining := len(items) - included; remaining > 0 {
		more := " and " + strconv.Itoa(remaining) + " more"
		if b.Len()+len(more) <= maxLen {
			b.WriteString(more)
		}
	}

	out := b.String()
	if out == "" {
		return truncate(text, maxLen)
	}
	if !strings.ContainsRune(sentenceEnds, rune(out[len(out)-1])) {
		out += "."
	}
	return out
}

// splitSentences splits text at sentence boundaries (. ! ?) keeping the
// punctuation attached to the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if strings.ContainsRune(sentenceEnds, runes[i]) {
			for i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t') {
				i++
			}
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

// truncateAtBreak cuts an over-long sentence at a natural break point,
// falling back to a hard truncation.
func truncateAtBreak(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	window := s[:maxLen*9/10]
	for _, bp := range []string{". ", ", ", " - ", ": "} {
		if pos := strings.LastIndex(window, bp); pos > 0 {
			return s[:pos+1]
		}
	}
	return truncate(s, maxLen)
}

// truncate hard-cuts to the budget, backing up to a rune boundary so a
// multibyte character is never split.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
