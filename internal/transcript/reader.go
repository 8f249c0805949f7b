// Package transcript incrementally reads the host's append-only
// conversation log. The log is JSONL: one structured record per line,
// each tagged with a role and content body. A reader resumes from a
// byte offset, consumes only complete newly appended records, and
// reports the offset just past the last record it consumed, so no text
// is ever announced twice.
package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/markhilton/claude-code-voice-handler/internal/logger"
)

// entry is one raw JSONL record of the transcript.
type entry struct {
	Type      string        `json:"type"`
	Timestamp string        `json:"timestamp"`
	UUID      string        `json:"uuid"`
	Message   *entryMessage `json:"message"`
}

type entryMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Message is one assistant utterance extracted from the transcript.
type Message struct {
	Text      string
	UUID      string
	Timestamp string
	// Approval is set when the text looks like a permission or
	// confirmation request; the pipeline escalates those past the
	// deduplicator and rate limiter.
	Approval bool
}

// Result is the outcome of one incremental read.
type Result struct {
	Messages []Message
	// Offset is the byte position immediately after the last complete
	// record consumed. A trailing partial record is never included.
	Offset int64
	// Rotated is set when the file was shorter than the prior offset;
	// the read restarted from the beginning.
	Rotated bool
}

// Reader incrementally extracts assistant messages from a transcript.
type Reader struct {
	log *logger.Logger
}

// NewReader creates a transcript reader.
func NewReader(log *logger.Logger) *Reader {
	return &Reader{log: log}
}

// ReadNew returns the assistant messages appended since offset, plus
// the new offset. If the file has been rotated or truncated below the
// prior offset, the whole file is treated as new and the offset resets.
// A trailing record without its newline (the writer may still be
// appending it) is left for the next read. Malformed complete lines
// are skipped but still consumed.
func (r *Reader) ReadNew(path string, offset int64) (Result, error) {
	res := Result{Offset: offset}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return res, nil
		}
		return res, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return res, fmt.Errorf("stat transcript: %w", err)
	}
	if info.Size() < offset {
		r.log.Debug("transcript: %s shrank below offset %d, treating as rotated", path, offset)
		res.Rotated = true
		offset = 0
		res.Offset = 0
	}

	if offset > 0 {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return res, fmt.Errorf("seek transcript: %w", err)
		}
	}

	br := bufio.NewReader(f)
	pos := offset
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			// A partial tail (no trailing newline) stays unconsumed so
			// the next read picks it up once the writer finishes it.
			if err == io.EOF {
				if len(line) > 0 {
					r.log.Debug("transcript: leaving %d-byte partial record for next read", len(line))
				}
				break
			}
			return res, fmt.Errorf("read transcript: %w", err)
		}

		pos += int64(len(line))
		res.Offset = pos

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		var e entry
		if err := json.Unmarshal([]byte(trimmed), &e); err != nil {
			// Malformed but complete record: skip it, keep going.
			r.log.Debug("transcript: skipping unparseable record at offset %d: %v", pos, err)
			continue
		}

		for _, text := range assistantTexts(&e) {
			res.Messages = append(res.Messages, Message{
				Text:      text,
				UUID:      e.UUID,
				Timestamp: e.Timestamp,
				Approval:  DetectApprovalRequest(text),
			})
		}
	}

	return res, nil
}

// LastMessage reads the whole transcript and returns the most recent
// assistant message cleaned and trimmed for speech, or "" if there is
// none worth speaking.
func (r *Reader) LastMessage(path string, maxLen, minLen int) string {
	res, err := r.ReadNew(path, 0)
	if err != nil {
		r.log.Error("transcript: reading %s: %v", path, err)
		return ""
	}
	for i := len(res.Messages) - 1; i >= 0; i-- {
		cleaned := CleanForSpeech(res.Messages[i].Text)
		if cleaned == "" {
			continue
		}
		if len(cleaned) <= maxLen {
			return cleaned
		}
		return Summarize(cleaned, maxLen, minLen)
	}
	return ""
}

// assistantTexts pulls the text blocks out of an assistant record.
func assistantTexts(e *entry) []string {
	if e.Type != "assistant" || e.Message == nil || e.Message.Role != "assistant" {
		return nil
	}
	var texts []string
	for _, block := range e.Message.Content {
		if block.Type != "text" {
			continue
		}
		if text := strings.TrimSpace(block.Text); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}
