package services

import (
	"errors"
	"testing"
)

func resultWithParts(parts ...Part) *GenerateResult {
	return &GenerateResult{
		Candidates: []Candidate{
			{Content: &Content{Parts: parts}},
		},
	}
}

func TestJoinText(t *testing.T) {
	tests := []struct {
		name   string
		result *GenerateResult
		want   string
	}{
		{
			name:   "single text part",
			result: resultWithParts(Part{Text: "hello"}),
			want:   "hello",
		},
		{
			name:   "multiple text parts concatenated without separator",
			result: resultWithParts(Part{Text: "foo"}, Part{Text: "bar"}),
			want:   "foobar",
		},
		{
			name:   "thought parts are skipped",
			result: resultWithParts(Part{Text: "hidden", Thought: true}, Part{Text: "visible"}),
			want:   "visible",
		},
		{
			name:   "no candidates",
			result: &GenerateResult{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinText(tt.result); got != tt.want {
				t.Errorf("JoinText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitThoughts(t *testing.T) {
	tests := []struct {
		name         string
		result       *GenerateResult
		wantThoughts string
		wantReply    string
	}{
		{
			name: "thought and answer separated",
			result: resultWithParts(
				Part{Text: "A", Thought: true},
				Part{Text: "B"},
			),
			wantThoughts: "A",
			wantReply:    "B",
		},
		{
			name: "order preserved within each stream",
			result: resultWithParts(
				Part{Text: "t1", Thought: true},
				Part{Text: "a1"},
				Part{Text: "t2", Thought: true},
				Part{Text: "a2"},
			),
			wantThoughts: "t1\nt2",
			wantReply:    "a1\na2",
		},
		{
			name: "empty text parts ignored",
			result: resultWithParts(
				Part{Text: ""},
				Part{Text: "answer"},
			),
			wantThoughts: "",
			wantReply:    "answer",
		},
		{
			name:         "no reply is not trimmed or padded",
			result:       resultWithParts(Part{Text: "only thoughts", Thought: true}),
			wantThoughts: "only thoughts",
			wantReply:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thoughts, reply := SplitThoughts(tt.result)
			if thoughts != tt.wantThoughts {
				t.Errorf("SplitThoughts() thoughts = %q, want %q", thoughts, tt.wantThoughts)
			}
			if reply != tt.wantReply {
				t.Errorf("SplitThoughts() reply = %q, want %q", reply, tt.wantReply)
			}
		})
	}
}

func TestFormatImage(t *testing.T) {
	tests := []struct {
		name      string
		result    *GenerateResult
		wantReply string
		wantImage string
		wantErr   error
	}{
		{
			name: "caption and first image",
			result: resultWithParts(
				Part{Text: "caption"},
				Part{InlineData: &Blob{MimeType: "image/png", Data: "Ynl0ZXMx"}},
				Part{InlineData: &Blob{MimeType: "image/png", Data: "Ynl0ZXMy"}},
			),
			wantReply: "caption",
			wantImage: "data:image/png;base64,Ynl0ZXMx",
		},
		{
			name: "multiple text parts newline joined and trimmed",
			result: resultWithParts(
				Part{Text: "line one"},
				Part{Text: "line two"},
			),
			wantReply: "line one\nline two",
		},
		{
			name: "mime type falls back to png",
			result: resultWithParts(
				Part{InlineData: &Blob{Data: "aW1n"}},
			),
			wantImage: "data:image/png;base64,aW1n",
		},
		{
			name: "reported mime type is kept",
			result: resultWithParts(
				Part{InlineData: &Blob{MimeType: "image/jpeg", Data: "aW1n"}},
			),
			wantImage: "data:image/jpeg;base64,aW1n",
		},
		{
			name:    "zero candidates",
			result:  &GenerateResult{},
			wantErr: ErrNoCandidates,
		},
		{
			name: "candidate with zero content parts",
			result: &GenerateResult{
				Candidates: []Candidate{{Content: &Content{}}},
			},
			wantErr: ErrNoContentParts,
		},
		{
			name: "candidate with nil content",
			result: &GenerateResult{
				Candidates: []Candidate{{}},
			},
			wantErr: ErrNoContentParts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, image, err := FormatImage(tt.result)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FormatImage() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatImage() unexpected error: %v", err)
			}
			if reply != tt.wantReply {
				t.Errorf("FormatImage() reply = %q, want %q", reply, tt.wantReply)
			}
			if image != tt.wantImage {
				t.Errorf("FormatImage() image = %q, want %q", image, tt.wantImage)
			}
		})
	}
}
