package respparse

import (
	"bytes"

	"github.com/onagent/onagent/arena"
)

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

func trimASCIISpace(b []byte) []byte {
	for len(b) > 0 && isASCIISpace(b[0]) {
		b = b[1:]
	}
	for len(b) > 0 && isASCIISpace(b[len(b)-1]) {
		b = b[:len(b)-1]
	}
	return b
}

// findMatchingBrace returns the index within buf of the '}' that
// closes the '{' at buf[0], respecting string literals and
// backslash-escapes, or -1 if buf doesn't start with '{' or no match
// is found.
func findMatchingBrace(buf []byte) int {
	if len(buf) == 0 || buf[0] != '{' {
		return -1
	}

	depth := 0
	inString := false
	escape := false

	for i, c := range buf {
		if escape {
			escape = false
			continue
		}
		if c == '\\' && inString {
			escape = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if !inString {
			if c == '{' {
				depth++
			} else if c == '}' {
				depth--
				if depth == 0 {
					return i
				}
			}
		}
	}
	return -1
}

// findBareJSON looks for a `{"name":..., "arguments":...}` object not
// wrapped in a <tool_call> tag. Only whitespace may sit between the
// opening brace and the "name" key; the bytes before the brace are not
// checked, so text may precede the object. It is not a general JSON
// scanner.
func findBareJSON(a *arena.Arena, buf []byte) (tc *parsedToolCall, before, after []byte) {
	namePattern := []byte(`"name"`)
	foundIdx := bytes.Index(buf, namePattern)
	if foundIdx == -1 {
		return nil, nil, nil
	}

	jsonStart := -1
	for p := foundIdx - 1; p >= 0; p-- {
		if buf[p] == '{' {
			jsonStart = p
			break
		}
		if !isASCIISpace(buf[p]) {
			break
		}
	}
	if jsonStart == -1 {
		return nil, nil, nil
	}

	closeOffset := findMatchingBrace(buf[jsonStart:])
	if closeOffset == -1 {
		return nil, nil, nil
	}
	jsonEnd := jsonStart + closeOffset // index of matching '}'
	jsonBytes := buf[jsonStart : jsonEnd+1]

	if !bytes.Contains(jsonBytes, []byte(`"arguments"`)) {
		return nil, nil, nil
	}

	parsed := parseToolCallJSON(a, jsonBytes)
	if parsed == nil {
		return nil, nil, nil
	}

	return parsed, buf[:jsonStart], buf[jsonEnd+1:]
}

// HasToolCall reports whether response contains a complete
// <tool_call>...</tool_call> frame.
func HasToolCall(response []byte) bool {
	openIdx := bytes.Index(response, []byte(tagToolCallOpen))
	if openIdx == -1 {
		return false
	}
	return bytes.Contains(response[openIdx:], []byte(tagToolCallClose))
}

// HasIncompleteToolCall reports whether response contains an opening
// <tool_call> tag with no matching close.
func HasIncompleteToolCall(response []byte) bool {
	openIdx := bytes.Index(response, []byte(tagToolCallOpen))
	if openIdx == -1 {
		return false
	}
	return !bytes.Contains(response[openIdx:], []byte(tagToolCallClose))
}

// TextBeforeToolCall returns the trimmed text preceding the first
// <tool_call> tag, or the whole (trimmed) response if none is present.
func TextBeforeToolCall(response []byte) string {
	openIdx := bytes.Index(response, []byte(tagToolCallOpen))
	if openIdx == -1 {
		return string(trimASCIISpace(response))
	}
	return string(trimASCIISpace(response[:openIdx]))
}

// TextAfterToolCall returns the trimmed text following the first
// </tool_call> close tag, or empty if none is present.
func TextAfterToolCall(response []byte) string {
	closeIdx := bytes.Index(response, []byte(tagToolCallClose))
	if closeIdx == -1 {
		return ""
	}
	after := response[closeIdx+len(tagToolCallClose):]
	return string(trimASCIISpace(after))
}

// ExtractThinking splits response into a reasoning region and the
// remaining content. <think> is tried before <thinking>; if only a
// closing tag is present (the opener having lived in the system
// prompt instead), everything before that close tag is thinking.
func ExtractThinking(response []byte) (thinking, content string) {
	openTag, openLen, closeTag, closeLen := -1, 0, -1, 0

	if idx := bytes.Index(response, []byte(tagThinkOpen)); idx != -1 {
		openTag, openLen = idx, len(tagThinkOpen)
		if cidx := bytes.Index(response[openTag:], []byte(tagThinkClose)); cidx != -1 {
			closeTag, closeLen = openTag+cidx, len(tagThinkClose)
		}
	}

	if openTag == -1 {
		if idx := bytes.Index(response, []byte(tagThinkingOpen)); idx != -1 {
			openTag, openLen = idx, len(tagThinkingOpen)
			if cidx := bytes.Index(response[openTag:], []byte(tagThinkingClose)); cidx != -1 {
				closeTag, closeLen = openTag+cidx, len(tagThinkingClose)
			}
		}
	}

	if openTag == -1 {
		closeTag, closeLen = -1, len(tagThinkClose)
		if idx := bytes.Index(response, []byte(tagThinkClose)); idx != -1 {
			closeTag = idx
		} else if idx := bytes.Index(response, []byte(tagThinkingClose)); idx != -1 {
			closeTag, closeLen = idx, len(tagThinkingClose)
		} else {
			closeTag = -1
		}

		if closeTag != -1 {
			thinking = string(trimASCIISpace(response[:closeTag]))
			content = string(trimASCIISpace(response[closeTag+closeLen:]))
			return thinking, content
		}
	}

	if openTag != -1 && closeTag != -1 {
		thinkStart := openTag + openLen
		thinking = string(trimASCIISpace(response[thinkStart:closeTag]))

		before := response[:openTag]
		after := response[closeTag+closeLen:]
		merged := make([]byte, 0, len(before)+len(after))
		merged = append(merged, before...)
		merged = append(merged, after...)
		content = string(trimASCIISpace(merged))
		return thinking, content
	}

	return "", string(trimASCIISpace(response))
}

// ParseBatch parses a complete model response into an ordered segment
// list, recognizing <tool_call> frames, a bare-JSON tool call in the
// text after the last tag, and <think>/<thinking> reasoning regions
// folded out of the resulting text segments. An unterminated
// <tool_call> ends the scan; the region after it is dropped.
func ParseBatch(a *arena.Arena, response []byte) []Segment {
	if a == nil || len(response) == 0 {
		return nil
	}

	var segments []Segment
	pos := 0

	for pos < len(response) {
		remaining := response[pos:]
		openIdx := bytes.Index(remaining, []byte(tagToolCallOpen))

		if openIdx == -1 {
			tc, before, after := findBareJSON(a, remaining)
			if tc != nil {
				if t := trimASCIISpace(before); len(t) > 0 {
					segments = append(segments, Segment{Kind: SegmentText, Text: string(t)})
				}
				segments = append(segments, Segment{Kind: SegmentToolCall, ToolName: tc.Name, ToolArguments: tc.Arguments})
				if t := trimASCIISpace(after); len(t) > 0 {
					segments = append(segments, Segment{Kind: SegmentText, Text: string(t)})
				}
			} else if t := trimASCIISpace(remaining); len(t) > 0 {
				segments = append(segments, Segment{Kind: SegmentText, Text: string(t)})
			}
			break
		}

		if t := trimASCIISpace(remaining[:openIdx]); len(t) > 0 {
			segments = append(segments, Segment{Kind: SegmentText, Text: string(t)})
		}

		contentStart := pos + openIdx + len(tagToolCallOpen)
		closeIdx := bytes.Index(response[contentStart:], []byte(tagToolCallClose))
		if closeIdx == -1 {
			// Unterminated <tool_call>: the trailing region is dropped,
			// matching the source parser's behavior exactly.
			break
		}

		toolClose := contentStart + closeIdx
		if tc := parseToolCallJSON(a, response[contentStart:toolClose]); tc != nil {
			segments = append(segments, Segment{Kind: SegmentToolCall, ToolName: tc.Name, ToolArguments: tc.Arguments})
		}

		pos = toolClose + len(tagToolCallClose)
	}

	return splitThinkingSegments(segments)
}

// splitThinkingSegments walks the text segments produced by the main
// scan and peels off any <think>/<thinking> region into its own
// SegmentThinking entry immediately before the remaining text.
func splitThinkingSegments(in []Segment) []Segment {
	out := make([]Segment, 0, len(in))
	for _, seg := range in {
		if seg.Kind != SegmentText {
			out = append(out, seg)
			continue
		}
		thinking, content := ExtractThinking([]byte(seg.Text))
		if thinking != "" {
			out = append(out, Segment{Kind: SegmentThinking, Text: thinking})
		}
		if content != "" {
			out = append(out, Segment{Kind: SegmentText, Text: content})
		}
	}
	return out
}
