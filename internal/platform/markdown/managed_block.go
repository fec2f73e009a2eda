package markdown

import "strings"

// Block is a generated region of a markdown document delimited by HTML
// comment markers. Text outside the markers belongs to the user.
type Block struct {
	Start string
	End   string
}

func NewBlock(name string) Block {
	return Block{
		Start: "<!-- pmdrill:" + name + ":start -->",
		End:   "<!-- pmdrill:" + name + ":end -->",
	}
}

// Wrap returns generated enclosed in the block markers.
func (b Block) Wrap(generated string) string {
	return b.Start + "\n" + strings.TrimRight(generated, "\n") + "\n" + b.End
}

// Replace swaps the block inside body for generated, appending the block when
// body has none.
func (b Block) Replace(body, generated string) string {
	block := b.Wrap(generated)
	start := strings.Index(body, b.Start)
	end := strings.Index(body, b.End)
	if start >= 0 && end > start {
		return body[:start] + block + body[end+len(b.End):]
	}

	if strings.TrimSpace(body) == "" {
		return block + "\n"
	}
	if strings.HasSuffix(body, "\n") {
		return body + "\n" + block + "\n"
	}
	return body + "\n\n" + block + "\n"
}

// Extract returns the text between the markers.
func (b Block) Extract(body string) (string, bool) {
	start := strings.Index(body, b.Start)
	end := strings.Index(body, b.End)
	if start < 0 || end <= start {
		return "", false
	}
	inner := body[start+len(b.Start) : end]
	return strings.Trim(inner, "\n"), true
}
