package llm

import (
	"encoding/json"
	"strings"
)

// ReplyKind tags which wire shape a generation response arrived in.
// Ollama-style endpoints answer with a flat "response" field; OpenAI-style
// ones answer with a "choices" list. Anything else degrades to the raw
// payload rather than failing the turn.
type ReplyKind int

const (
	// ReplyResponse is the flat {"response": "..."} shape.
	ReplyResponse ReplyKind = iota
	// ReplyChoices is the {"choices": [...]} shape; fragments are joined.
	ReplyChoices
	// ReplyRaw means the payload matched no known shape and its string
	// form is used verbatim.
	ReplyRaw
)

// Reply is a decoded generation response.
type Reply struct {
	Kind ReplyKind
	Text string
}

type choice struct {
	Message *struct {
		Content string `json:"content"`
	} `json:"message"`
	Text string `json:"text"`
}

type replyEnvelope struct {
	Response *string  `json:"response"`
	Choices  []choice `json:"choices"`
}

// DecodeReply parses a generation response body into one of the known
// shapes. It never fails: an unrecognized or malformed payload comes back
// as ReplyRaw with the body's trimmed string form.
func DecodeReply(body []byte) Reply {
	var env replyEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Response != nil {
			return Reply{Kind: ReplyResponse, Text: *env.Response}
		}

		if len(env.Choices) > 0 {
			fragments := make([]string, 0, len(env.Choices))
			for _, c := range env.Choices {
				switch {
				case c.Message != nil:
					fragments = append(fragments, c.Message.Content)
				case c.Text != "":
					fragments = append(fragments, c.Text)
				}
			}
			if len(fragments) > 0 {
				return Reply{Kind: ReplyChoices, Text: strings.TrimSpace(strings.Join(fragments, "\n"))}
			}
		}
	}

	return Reply{Kind: ReplyRaw, Text: strings.TrimSpace(string(body))}
}
