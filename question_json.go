package tasksolver

import (
	"encoding/json"
	"fmt"
)

type itemJSON struct {
	Type string   `json:"type"`
	Text string   `json:"text,omitempty"`
	Path string   `json:"path,omitempty"`
	URL  string   `json:"url,omitempty"`
	Data []byte   `json:"data,omitempty"`
	Tags []string `json:"tags,omitempty"`
}

const (
	itemText      = "text"
	itemImagePath = "image_path"
	itemImageURL  = "image_url"
	itemImage     = "image"
)

// MarshalJSON encodes the question's items with their tags. In-memory images
// are stored PNG encoded; answers are stored as their text rendering.
func (q *Question) MarshalJSON() ([]byte, error) {
	items := make([]itemJSON, 0, q.Len())
	for i, it := range q.Eval() {
		out := itemJSON{Tags: it.Tags}
		switch v := it.Content.(type) {
		case Text:
			out.Type, out.Text = itemText, string(v)
		case ImagePath:
			out.Type, out.Path = itemImagePath, string(v)
		case ImageURL:
			out.Type, out.URL = itemImageURL, string(v)
		case ImageBytes:
			out.Type, out.Data = itemImage, v
		case Image, *Image:
			p, err := contentPart(v)
			if err != nil {
				return nil, fmt.Errorf("question item %d: %w", i, err)
			}
			out.Type, out.Data = itemImage, p.Data
		case nil:
			return nil, fmt.Errorf("question item %d: %w: nil content", i, ErrUnsupportedContent)
		default:
			out.Type, out.Text = itemText, v.String()
		}
		items = append(items, out)
	}
	return json.Marshal(items)
}

// UnmarshalJSON restores a question encoded by MarshalJSON. Images come back
// as ImageBytes.
func (q *Question) UnmarshalJSON(data []byte) error {
	var items []itemJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	q.items = make([]Item, 0, len(items))
	for i, it := range items {
		var c Content
		switch it.Type {
		case itemText:
			c = Text(it.Text)
		case itemImagePath:
			c = ImagePath(it.Path)
		case itemImageURL:
			c = ImageURL(it.URL)
		case itemImage:
			c = ImageBytes(it.Data)
		default:
			return fmt.Errorf("question item %d: %w: type %q", i, ErrUnsupportedContent, it.Type)
		}
		q.items = append(q.items, Item{Content: c, Tags: it.Tags})
	}
	return nil
}
