package services

import (
	"errors"
	"fmt"
	"strings"
)

// Formatting errors surfaced on the image-generation path.
var (
	ErrNoCandidates   = errors.New("no response candidates from Gemini")
	ErrNoContentParts = errors.New("no content parts found")
)

// parts returns the first candidate's segments, nil when absent.
func (r *GenerateResult) parts() []Part {
	if r == nil || len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return nil
	}
	return r.Candidates[0].Content.Parts
}

// JoinText concatenates the answer text of the first candidate, skipping
// thought segments. Used for plain chat, reasoning and captioning replies.
func JoinText(r *GenerateResult) string {
	var b strings.Builder
	for _, p := range r.parts() {
		if p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// SplitThoughts separates the first candidate's segments into internal
// reasoning and the visible answer, each newline-joined in original order.
func SplitThoughts(r *GenerateResult) (thoughts, reply string) {
	var thoughtParts, answerParts []string
	for _, p := range r.parts() {
		if p.Text == "" {
			continue
		}
		if p.Thought {
			thoughtParts = append(thoughtParts, p.Text)
		} else {
			answerParts = append(answerParts, p.Text)
		}
	}
	return strings.Join(thoughtParts, "\n"), strings.Join(answerParts, "\n")
}

// FormatImage extracts the caption and the first inline image from an
// image-generation result. The image is returned as a data URI; any
// further image segments are discarded. The caption is trimmed, which the
// other modes deliberately do not do.
func FormatImage(r *GenerateResult) (reply, image string, err error) {
	if r == nil || len(r.Candidates) == 0 {
		return "", "", ErrNoCandidates
	}
	parts := r.parts()
	if len(parts) == 0 {
		return "", "", ErrNoContentParts
	}

	var replyText strings.Builder
	for _, p := range parts {
		if p.Text != "" {
			replyText.WriteString(p.Text)
			replyText.WriteString("\n")
		} else if p.InlineData != nil && p.InlineData.Data != "" && image == "" {
			mimeType := p.InlineData.MimeType
			if mimeType == "" {
				mimeType = "image/png"
			}
			image = fmt.Sprintf("data:%s;base64,%s", mimeType, p.InlineData.Data)
		}
	}

	return strings.TrimSpace(replyText.String()), image, nil
}
