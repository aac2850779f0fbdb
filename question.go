package tasksolver

import (
	"fmt"
	"image"
	"os"
	"strings"
)

// Content is a single component of a Question.
//
// Recognized implementations are [Text], [ImagePath], [ImageURL], [Image],
// [ImageBytes], any [ParsedAnswer] (rendered as text) and *[Question]
// (flattened when embedded). Anything else fails serialization with
// [ErrUnsupportedContent].
type Content interface {
	String() string
}

// Text is a plain text component.
type Text string

func (t Text) String() string { return string(t) }

// ImagePath is a local image file. The file is read when the Question is
// serialized.
type ImagePath string

func (p ImagePath) String() string { return string(p) }

// ImageURL is a remote image reference. It is passed to providers as a URL and
// never downloaded.
type ImageURL string

func (u ImageURL) String() string { return string(u) }

// Image is an in-memory image. It is PNG encoded when the Question is
// serialized.
type Image struct {
	image.Image
}

func (i Image) String() string {
	if i.Image == nil {
		return "<image>"
	}
	b := i.Bounds()
	return fmt.Sprintf("<image %dx%d>", b.Dx(), b.Dy())
}

// ImageBytes is an already encoded image (JPEG, PNG, GIF or WEBP).
type ImageBytes []byte

func (b ImageBytes) String() string {
	return fmt.Sprintf("<image %d bytes>", len(b))
}

// Item is one (content, tags) pair of a Question. A nil Tags slice means the
// item is untagged.
type Item struct {
	Content Content
	Tags    []string
}

// T creates an untagged text item.
func T(text string) Item {
	return Item{Content: Text(text)}
}

// Untagged creates an untagged item.
func Untagged(c Content) Item {
	return Item{Content: c}
}

// Tagged creates an item carrying the given tags.
func Tagged(c Content, tags ...string) Item {
	return Item{Content: c, Tags: append([]string(nil), tags...)}
}

// HasAnyTag reports whether the item's tag set intersects filter.
func (it Item) HasAnyTag(filter []string) bool {
	for _, t := range it.Tags {
		for _, f := range filter {
			if t == f {
				return true
			}
		}
	}
	return false
}

// Question is an ordered, taggable collection of prompt content.
//
// Construction flattens embedded questions: each inner item keeps its own tags
// merged with the outer item's tags, or takes the outer tags when it has none.
//
//	examples := tasksolver.NewQuestion(tasksolver.T("a cat"), tasksolver.Untagged(tasksolver.ImagePath("cat.jpg")))
//	q := tasksolver.NewQuestion(
//	    tasksolver.Tagged(tasksolver.Text("# Examples"), "EXAMPLES_TITLE"),
//	    tasksolver.Tagged(examples, "EXAMPLES_CONTENT"),
//	)
//
// Questions behave as values: Concat, Subquestion and Eval never modify the
// receiver. Append and Prepend are the only mutators.
type Question struct {
	items []Item
}

// NewQuestion builds a Question from items, flattening embedded questions.
func NewQuestion(items ...Item) *Question {
	q := &Question{items: make([]Item, 0, len(items))}
	for _, it := range items {
		sub, ok := it.Content.(*Question)
		if !ok {
			q.items = append(q.items, Item{Content: it.Content, Tags: copyTags(it.Tags)})
			continue
		}
		if sub == nil {
			continue
		}
		for _, inner := range sub.items {
			q.items = append(q.items, Item{
				Content: inner.Content,
				Tags:    mergeTags(inner.Tags, it.Tags),
			})
		}
	}
	return q
}

// Texts builds an untagged Question from plain strings.
func Texts(texts ...string) *Question {
	items := make([]Item, len(texts))
	for i, t := range texts {
		items[i] = T(t)
	}
	return NewQuestion(items...)
}

func mergeTags(inner, outer []string) []string {
	if inner == nil {
		return copyTags(outer)
	}
	if outer == nil {
		return copyTags(inner)
	}
	merged := make([]string, 0, len(inner)+len(outer))
	merged = append(merged, inner...)
	merged = append(merged, outer...)
	return merged
}

func copyTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return append([]string(nil), tags...)
}

// Len returns the number of items.
func (q *Question) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Eval returns the items whose tags intersect filter. With no filter every
// item is returned. The returned slice is a copy.
func (q *Question) Eval(filter ...string) []Item {
	if q == nil {
		return nil
	}
	out := make([]Item, 0, len(q.items))
	for _, it := range q.items {
		if len(filter) == 0 || it.HasAnyTag(filter) {
			out = append(out, Item{Content: it.Content, Tags: copyTags(it.Tags)})
		}
	}
	return out
}

// Subquestion returns a new Question holding only the items matching filter.
func (q *Question) Subquestion(filter ...string) *Question {
	return &Question{items: q.Eval(filter...)}
}

// Append adds other's items to the end of q and returns q.
func (q *Question) Append(other *Question) *Question {
	q.items = append(q.items, other.Eval()...)
	return q
}

// Prepend adds other's items to the front of q and returns q.
func (q *Question) Prepend(other *Question) *Question {
	q.items = append(other.Eval(), q.items...)
	return q
}

// Concat returns a new Question holding q's items followed by other's.
func (q *Question) Concat(other *Question) *Question {
	return (&Question{items: q.Eval()}).Append(other)
}

// Concat joins any number of questions into a new Question.
func Concat(questions ...*Question) *Question {
	out := &Question{}
	for _, q := range questions {
		out.Append(q)
	}
	return out
}

// Components returns the content of every item, without tags.
func (q *Question) Components() []Content {
	if q == nil {
		return nil
	}
	out := make([]Content, len(q.items))
	for i, it := range q.items {
		out[i] = it.Content
	}
	return out
}

// Images returns the image components of the question.
func (q *Question) Images() []Content {
	var out []Content
	for _, c := range q.Components() {
		switch c.(type) {
		case ImagePath, ImageURL, Image, *Image, ImageBytes:
			out = append(out, c)
		}
	}
	return out
}

// String joins every component's text form with newlines.
func (q *Question) String() string {
	if q == nil {
		return ""
	}
	parts := make([]string, len(q.items))
	for i, it := range q.items {
		if it.Content == nil {
			continue
		}
		parts[i] = it.Content.String()
	}
	return strings.Join(parts, "\n")
}

// PartType discriminates serialized question parts.
type PartType string

const (
	PartText  PartType = "text"
	PartImage PartType = "image_url"
)

// Part is the provider-neutral serialization of one question component.
type Part struct {
	Type PartType

	// Text is set for PartText.
	Text string

	// URL is set for PartImage. It is a base64 data URL for local and
	// in-memory images, and the remote address for ImageURL.
	URL string

	// Data holds the encoded image bytes. Nil for remote images.
	Data []byte

	// MIMEType is the detected media type of Data, empty when unknown.
	MIMEType string
}

// IsRemote reports whether the part references an image by URL only.
func (p Part) IsRemote() bool {
	return p.Type == PartImage && p.Data == nil
}

// Parts serializes the question into provider-neutral parts, one per item,
// in order.
func (q *Question) Parts() ([]Part, error) {
	parts := make([]Part, 0, q.Len())
	for i, c := range q.Components() {
		p, err := contentPart(c)
		if err != nil {
			return nil, fmt.Errorf("question item %d: %w", i, err)
		}
		parts = append(parts, p)
	}
	return parts, nil
}

func contentPart(c Content) (Part, error) {
	switch v := c.(type) {
	case Text:
		return Part{Type: PartText, Text: string(v)}, nil
	case ImagePath:
		data, err := os.ReadFile(string(v))
		if err != nil {
			return Part{}, fmt.Errorf("read image %s: %w", v, err)
		}
		return imagePart(data), nil
	case ImageURL:
		return Part{Type: PartImage, URL: string(v)}, nil
	case ImageBytes:
		return imagePart(v), nil
	case Image:
		return encodedImagePart(v.Image)
	case *Image:
		if v == nil {
			return Part{}, fmt.Errorf("%w: nil image", ErrUnsupportedContent)
		}
		return encodedImagePart(v.Image)
	case *Question:
		// NewQuestion flattens sub-questions; only a raw Item can smuggle one in.
		return Part{Type: PartText, Text: v.String()}, nil
	case ParsedAnswer:
		return Part{Type: PartText, Text: v.String()}, nil
	case nil:
		return Part{}, fmt.Errorf("%w: nil content", ErrUnsupportedContent)
	default:
		return Part{}, fmt.Errorf("%w: %T", ErrUnsupportedContent, c)
	}
}

func encodedImagePart(img image.Image) (Part, error) {
	if img == nil {
		return Part{}, fmt.Errorf("%w: nil image", ErrUnsupportedContent)
	}
	data, err := EncodePNG(img)
	if err != nil {
		return Part{}, err
	}
	return imagePart(data), nil
}

func imagePart(data []byte) Part {
	mime, _ := DetectMIMEType(data)
	return Part{
		Type:     PartImage,
		URL:      DataURL(data),
		Data:     data,
		MIMEType: mime,
	}
}
