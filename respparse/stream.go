package respparse

import (
	"github.com/onagent/onagent/arena"
	"github.com/onagent/onagent/jsonval"
	"github.com/onagent/onagent/strutil"
)

// StreamState is one state of the streaming parser's state machine.
type StreamState int

const (
	StateText StreamState = iota
	StateTagOpen
	StateToolCall
	StateThink
	StateTagClose
)

// StreamParser incrementally classifies a token stream into plain
// text, a thinking region, or a completed tool call, without waiting
// for the full response. Feed drives the state machine one chunk at a
// time; Flush delivers whatever is left buffered once generation ends.
//
// StateTagClose exists in the state enum for symmetry with the
// design's five named states, but this machine folds close-tag
// detection into StateToolCall/StateThink (matching the closing-suffix
// check the source parser performs) rather than routing through a
// distinct state.
type StreamParser struct {
	arena *arena.Arena

	state      StreamState
	textBuf    *strutil.Builder
	tagBuf     *strutil.Builder
	contentBuf *strutil.Builder
	inToolCall bool
	inThink    bool

	OnText     func(text string)
	OnToolCall func(name string, arguments *jsonval.Value)
	OnThinking func(text string)
}

// NewStreamParser constructs a parser that allocates tool-call
// argument JSON out of a.
func NewStreamParser(a *arena.Arena) *StreamParser {
	return &StreamParser{
		arena:      a,
		state:      StateText,
		textBuf:    strutil.NewBuilder(256),
		tagBuf:     strutil.NewBuilder(32),
		contentBuf: strutil.NewBuilder(256),
	}
}

// Reset returns the parser to its initial state, clearing all
// buffers.
func (p *StreamParser) Reset() {
	p.state = StateText
	p.textBuf.Reset()
	p.tagBuf.Reset()
	p.contentBuf.Reset()
	p.inToolCall = false
	p.inThink = false
}

// InToolCall reports whether the parser is currently inside a
// <tool_call> frame. A host uses this to suppress forwarding tokens
// to the user while a tool call is being assembled.
func (p *StreamParser) InToolCall() bool {
	return p.inToolCall
}

func (p *StreamParser) emitText(s string) {
	if s != "" && p.OnText != nil {
		p.OnText(s)
	}
}

// Feed advances the state machine by the bytes in chunk.
func (p *StreamParser) Feed(chunk []byte) {
	for _, c := range chunk {
		switch p.state {
		case StateText:
			if c == '<' {
				p.state = StateTagOpen
				p.tagBuf.Reset()
				p.tagBuf.WriteByte(c)
			} else {
				p.textBuf.WriteByte(c)
			}

		case StateTagOpen:
			p.tagBuf.WriteByte(c)
			if c == '>' {
				tag := p.tagBuf.String()
				switch tag {
				case tagToolCallOpen:
					p.emitText(p.textBuf.String())
					p.textBuf.Reset()
					p.state = StateToolCall
					p.inToolCall = true
					p.contentBuf.Reset()
				case tagThinkOpen, tagThinkingOpen:
					p.emitText(p.textBuf.String())
					p.textBuf.Reset()
					p.state = StateThink
					p.inThink = true
					p.contentBuf.Reset()
				default:
					p.textBuf.WriteString(tag)
					p.state = StateText
				}
				p.tagBuf.Reset()
			} else if p.tagBuf.Len() > maxTagBufferBytes {
				p.textBuf.Write(p.tagBuf.Bytes())
				p.tagBuf.Reset()
				p.state = StateText
			}

		case StateToolCall:
			p.contentBuf.WriteByte(c)
			if p.contentBuf.HasSuffix([]byte(tagToolCallClose)) {
				jsonLen := p.contentBuf.Len() - len(tagToolCallClose)
				raw := append([]byte(nil), p.contentBuf.Bytes()[:jsonLen]...)
				tc := parseToolCallJSON(p.arena, raw)
				if tc != nil && p.OnToolCall != nil {
					p.OnToolCall(tc.Name, tc.Arguments)
				}
				p.contentBuf.Reset()
				p.state = StateText
				p.inToolCall = false
			}

		case StateThink:
			p.contentBuf.WriteByte(c)
			closed := false
			if p.contentBuf.HasSuffix([]byte(tagThinkClose)) {
				thinkLen := p.contentBuf.Len() - len(tagThinkClose)
				if p.OnThinking != nil {
					p.OnThinking(string(p.contentBuf.Bytes()[:thinkLen]))
				}
				closed = true
			} else if p.contentBuf.HasSuffix([]byte(tagThinkingClose)) {
				thinkLen := p.contentBuf.Len() - len(tagThinkingClose)
				if p.OnThinking != nil {
					p.OnThinking(string(p.contentBuf.Bytes()[:thinkLen]))
				}
				closed = true
			}
			if closed {
				p.contentBuf.Reset()
				p.state = StateText
				p.inThink = false
			}

		default:
			p.state = StateText
		}
	}

	if p.state == StateText && p.textBuf.Len() > 0 {
		p.emitText(p.textBuf.String())
		p.textBuf.Reset()
	}
}

// Flush delivers any buffered text (and a pending tag_buf as literal
// text, defensive against a trailing '<' that never became a tag).
func (p *StreamParser) Flush() {
	if p.textBuf.Len() > 0 {
		p.emitText(p.textBuf.String())
		p.textBuf.Reset()
	}
	if p.tagBuf.Len() > 0 {
		p.emitText(p.tagBuf.String())
		p.tagBuf.Reset()
	}
}

