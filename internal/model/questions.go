package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// Question is one entry of a personality test questionnaire.
type Question struct {
	Key  string
	Text string
}

// QuestionSet is the ordered questions_json mapping of a personality test.
//
// Keys are ordered the way the stored object enumerates them: integer-like
// keys ascending, then every other key in document order.
type QuestionSet []Question

// Texts returns the question texts in order.
func (q QuestionSet) Texts() []string {
	texts := make([]string, len(q))
	for i, question := range q {
		texts[i] = question.Text
	}
	return texts
}

// UnmarshalJSON decodes a JSON object of key to question text, keeping key order.
func (q *QuestionSet) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*q = nil
		return nil
	}
	// Some backends store the column as a JSON-encoded string.
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return err
		}
		return q.UnmarshalJSON([]byte(inner))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("questions_json: expected object")
	}

	var indexed, named []Question
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("questions_json: unexpected key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("questions_json: key %q: %w", key, err)
		}
		text, err := questionText(raw)
		if err != nil {
			return fmt.Errorf("questions_json: key %q: %w", key, err)
		}

		// Duplicate keys keep their first position and the last value.
		if pos, dup := seen[key]; dup {
			if isArrayIndex(key) {
				indexed[pos].Text = text
			} else {
				named[pos].Text = text
			}
			continue
		}
		if isArrayIndex(key) {
			seen[key] = len(indexed)
			indexed = append(indexed, Question{Key: key, Text: text})
		} else {
			seen[key] = len(named)
			named = append(named, Question{Key: key, Text: text})
		}
	}

	sort.SliceStable(indexed, func(i, j int) bool {
		a, _ := strconv.ParseUint(indexed[i].Key, 10, 32)
		b, _ := strconv.ParseUint(indexed[j].Key, 10, 32)
		return a < b
	})

	*q = append(indexed, named...)
	return nil
}

// MarshalJSON encodes the set back to an object in its current order.
func (q QuestionSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, question := range q {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(question.Key)
		if err != nil {
			return nil, err
		}
		text, err := json.Marshal(question.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(text)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// questionText accepts a string value or any other scalar, rendered as text.
func questionText(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch v.(type) {
	case map[string]any, []any:
		return "", errors.New("question must be a scalar")
	}
	return fmt.Sprint(v), nil
}

// isArrayIndex reports whether key is a canonical unsigned 32-bit integer
// below 2^32-1, which object enumeration places first in ascending order.
func isArrayIndex(key string) bool {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return false
	}
	return n < 1<<32-1
}

// PersonalityTestQuestions is the question record attached to a
// personality-test article.
type PersonalityTestQuestions struct {
	ID        int         `json:"id"`
	ArticleID int         `json:"article_id"`
	Questions QuestionSet `json:"questions_json"`
	CreatedAt string      `json:"created_at,omitempty"`
}
