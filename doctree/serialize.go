package doctree

import (
	"encoding/json"
	"fmt"
)

const (
	serializedType    = "spell-check"
	serializedVersion = 1
)

type serializedLeaf struct {
	Type        string   `json:"type"`
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions"`
	Version     int      `json:"version"`
}

// MarshalLeaf serializes a leaf in the spell-check node wire format.
// Plain leaves carry an empty suggestion list.
func MarshalLeaf(l *Leaf) ([]byte, error) {
	s := serializedLeaf{
		Type:        serializedType,
		Text:        l.text,
		Suggestions: []string{},
		Version:     serializedVersion,
	}
	if l.flag != nil {
		s.Suggestions = append([]string{}, l.flag.Suggestions...)
	}
	return json.Marshal(s)
}

// UnmarshalLeaf parses the spell-check node wire format. A non-empty
// suggestion list restores the flagged state; the checker message is not
// part of the format and does not survive the round trip.
func UnmarshalLeaf(data []byte) (*Leaf, error) {
	var s serializedLeaf
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("doctree: unmarshal leaf: %w", err)
	}
	if s.Type != serializedType {
		return nil, fmt.Errorf("doctree: unexpected node type %q", s.Type)
	}
	if s.Version != serializedVersion {
		return nil, fmt.Errorf("doctree: unsupported node version %d", s.Version)
	}
	if len(s.Suggestions) == 0 {
		return NewLeaf(s.Text), nil
	}
	return NewFlaggedLeaf(s.Text, Flag{Suggestions: s.Suggestions}), nil
}
