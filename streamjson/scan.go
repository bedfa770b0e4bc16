package streamjson

import "github.com/buger/jsonparser"

// scanTextBlocks walks the conventional content paths of a freshly parsed
// record and logs a warning for any text payload over MaxTextBlockSize.
// Advisory only: an oversized payload is delivered unchanged.
//
// jsonparser operates on the raw buffer bytes, so the scan costs no
// re-marshal and no extra allocation of the large payload.
func (r *Reconstructor) scanTextBlocks(data []byte) {
	// Assistant messages: message.content[*].text.
	_, _ = jsonparser.ArrayEach(data, func(block []byte, _ jsonparser.ValueType, _ int, _ error) {
		text, err := jsonparser.GetString(block, "text")
		if err != nil {
			return
		}
		r.warnOversized("message.content.text", text)
	}, "message", "content")

	// Result messages: top-level result string.
	if result, err := jsonparser.GetString(data, "result"); err == nil {
		r.warnOversized("result", result)
	}
}

func (r *Reconstructor) warnOversized(path, text string) {
	if r.limits.TextBlockOK(len(text)) {
		return
	}
	r.log.Warn("text block exceeds size limit",
		"path", path,
		"size_bytes", len(text),
		"limit_bytes", r.limits.MaxTextBlockSize,
		"preview", r.limits.Preview(text))
}
