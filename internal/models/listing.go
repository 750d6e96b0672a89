package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ListingType selects the portal section being searched.
type ListingType string

const (
	Internship ListingType = "internship"
	Job        ListingType = "job"
)

func (t ListingType) Valid() bool {
	return t == Internship || t == Job
}

// Credentials are supplied per request and never persisted or logged.
type Credentials struct {
	Email    string
	Password string
}

// SearchCriteria is fixed for the duration of one request.
type SearchCriteria struct {
	Role       string
	Location   string
	MinStipend int
	MaxStipend int
	Duration   string
	Type       ListingType
}

// Listing is a single internship/job posting normalized across sources.
// DetailURL is the identity key within one extraction pass.
type Listing struct {
	Title        string      `json:"title"`
	Company      string      `json:"company"`
	Location     string      `json:"location,omitempty"`
	Stipend      string      `json:"salary,omitempty"`
	StipendValue float64     `json:"stipendValue"`
	Duration     string      `json:"duration,omitempty"`
	Department   string      `json:"department,omitempty"`
	DetailURL    string      `json:"url"`
	Source       string      `json:"source"`
	DatePosted   string      `json:"datePosted,omitempty"`
	Description  Description `json:"description,omitempty"`
	// Placeholder marks generated or mock records so consumers can tell them
	// apart from real listings.
	Placeholder bool `json:"placeholder"`
}

// ScoredListing carries a score in [0,100] and the listing's extraction order.
type ScoredListing struct {
	Listing
	Score float64 `json:"score"`
	Index int     `json:"index"`
}

// Block is one paragraph or bullet list inside a description section.
type Block struct {
	Type  string   `json:"type"`
	Text  string   `json:"text,omitempty"`
	Items []string `json:"items,omitempty"`
}

func TextBlock(text string) Block {
	return Block{Type: "text", Text: text}
}

func ListBlock(items ...string) Block {
	return Block{Type: "list", Items: items}
}

type Section struct {
	Heading string  `json:"heading"`
	Content []Block `json:"content"`
}

// Description is an ordered list of sections. On the wire it is an object
// keyed by heading, in section order.
type Description []Section

// Section returns the section with the given heading, if any.
func (d Description) Section(heading string) (Section, bool) {
	for _, s := range d {
		if s.Heading == heading {
			return s, true
		}
	}
	return Section{}, false
}

func (d Description) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Heading)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Description) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("description: expected object, got %v", tok)
	}

	var out Description
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		heading, _ := keyTok.(string)

		var s Section
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("description section %q: %w", heading, err)
		}
		if s.Heading == "" {
			s.Heading = heading
		}
		out = append(out, s)
	}
	*d = out
	return nil
}
