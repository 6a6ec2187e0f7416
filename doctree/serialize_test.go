package doctree

import (
	"strings"
	"testing"
)

func TestMarshalLeaf_Wire(t *testing.T) {
	data, err := MarshalLeaf(NewFlaggedLeaf("docuument", Flag{Suggestions: []string{"document"}}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"type":"spell-check"`, `"text":"docuument"`, `"suggestions":["document"]`, `"version":1`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("wire form %s missing %s", data, want)
		}
	}
}

func TestLeafRoundTrip_Flagged(t *testing.T) {
	in := NewFlaggedLeaf("mispelled", Flag{Suggestions: []string{"misspelled", "dispelled"}})
	data, err := MarshalLeaf(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := UnmarshalLeaf(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Text() != "mispelled" {
		t.Fatalf("text: got %q", out.Text())
	}
	f, ok := out.Flag()
	if !ok {
		t.Fatalf("expected flagged leaf")
	}
	if len(f.Suggestions) != 2 || f.Suggestions[0] != "misspelled" {
		t.Fatalf("suggestions: got %v", f.Suggestions)
	}
}

func TestLeafRoundTrip_Plain(t *testing.T) {
	data, err := MarshalLeaf(NewLeaf("fine"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := UnmarshalLeaf(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Flagged() {
		t.Fatalf("plain leaf came back flagged")
	}
	if out.Text() != "fine" {
		t.Fatalf("text: got %q", out.Text())
	}
}

func TestUnmarshalLeaf_Rejects(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{name: "wrong type", data: `{"type":"paragraph","text":"x","suggestions":[],"version":1}`},
		{name: "wrong version", data: `{"type":"spell-check","text":"x","suggestions":[],"version":2}`},
		{name: "not json", data: `{{`},
	}
	for _, tc := range cases {
		if _, err := UnmarshalLeaf([]byte(tc.data)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
