// Package extract pulls the OCR text out of a chat-completion response
// body. OpenAI-compatible servers return choices[0].message.content
// either as a bare string or as a list of typed parts; both shapes are
// handled, and anything else yields "absent" rather than an error.
package extract

import (
	"encoding/json"

	"golang.org/x/text/unicode/norm"
)

type contentKind int

const (
	contentInvalid contentKind = iota
	contentText
	contentParts
)

// messageContent is the tagged union behind the content field:
// Text(string) | Parts([]part). Unrecognized shapes decode to the
// invalid variant instead of failing the surrounding unmarshal.
type messageContent struct {
	kind  contentKind
	text  string
	parts []json.RawMessage
}

func (m *messageContent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		m.kind = contentInvalid
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.kind = contentText
		m.text = s
		return nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err == nil {
		m.kind = contentParts
		m.parts = parts
		return nil
	}

	m.kind = contentInvalid
	return nil
}

// firstText resolves the union to a text value: the string itself, or
// the text field of the first part that carries one.
func (m *messageContent) firstText() (string, bool) {
	switch m.kind {
	case contentText:
		return m.text, true
	case contentParts:
		for _, raw := range m.parts {
			var part struct {
				Text json.RawMessage `json:"text"`
			}
			if err := json.Unmarshal(raw, &part); err != nil {
				continue
			}
			var text string
			if err := json.Unmarshal(part.Text, &text); err == nil {
				return text, true
			}
		}
	}
	return "", false
}

type responseEnvelope struct {
	Choices []struct {
		Message struct {
			Content messageContent `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Text extracts the OCR text from a response body. The second return
// value is false when the body does not carry a recognizable content
// field; a shape mismatch is never an error. The result is
// NFC-normalized.
func Text(raw json.RawMessage) (string, bool) {
	var envelope responseEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", false
	}
	if len(envelope.Choices) == 0 {
		return "", false
	}

	text, ok := envelope.Choices[0].Message.Content.firstText()
	if !ok {
		return "", false
	}
	return norm.NFC.String(text), true
}
