package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Media struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

type ContentBlock struct {
	ID      string  `json:"id,omitempty"`
	Content string  `json:"content"`
	Image   []Media `json:"image,omitempty"`
}

// Content is stored either as an array of blocks, a single block object or a
// bare string. It is normalized into Blocks as soon as it is read.
type Content struct {
	Blocks []ContentBlock
}

func NewContent(blocks ...ContentBlock) Content {
	return Content{Blocks: blocks}
}

// Text joins the text of every block, one block per line.
func (c Content) Text() string {
	var buf bytes.Buffer
	for i, b := range c.Blocks {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(b.Content)
	}
	return buf.String()
}

func (c *Content) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		c.Blocks = nil
		return nil
	case []byte:
		c.Blocks = parseBlocks(v)
		return nil
	case string:
		c.Blocks = parseBlocks([]byte(v))
		return nil
	default:
		return fmt.Errorf("content: unsupported type %T", src)
	}
}

func (c Content) Value() (driver.Value, error) {
	data, err := json.Marshal(c.blocks())
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.blocks())
}

func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		c.Blocks = parseBlocks([]byte(s))
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		c.Blocks = nil
		return nil
	}
	blocks, ok := decodeBlocks(data)
	if !ok {
		return fmt.Errorf("content: expected array of blocks, block or string")
	}
	c.Blocks = blocks
	return nil
}

func (c Content) blocks() []ContentBlock {
	if c.Blocks == nil {
		return []ContentBlock{}
	}
	return c.Blocks
}

func parseBlocks(raw []byte) []ContentBlock {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return parseBlocks([]byte(s))
		}
	}
	if blocks, ok := decodeBlocks(trimmed); ok {
		return blocks
	}
	return []ContentBlock{{Content: string(raw)}}
}

func decodeBlocks(data []byte) ([]ContentBlock, bool) {
	switch data[0] {
	case '[':
		var blocks []ContentBlock
		if err := json.Unmarshal(data, &blocks); err != nil {
			return nil, false
		}
		return blocks, true
	case '{':
		var block ContentBlock
		if err := json.Unmarshal(data, &block); err != nil {
			return nil, false
		}
		return []ContentBlock{block}, true
	}
	return nil, false
}

// MediaList is the JSON encoded image column of a post.
type MediaList []Media

func (m *MediaList) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("image: unsupported type %T", src)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*m = nil
		return nil
	}

	var list []Media
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("image: %w", err)
	}
	*m = list
	return nil
}

func (m MediaList) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]Media(m))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
