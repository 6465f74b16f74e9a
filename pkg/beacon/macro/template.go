package macro

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind identifies the variant held by a Template.
type Kind int

const (
	// KindInvalid marks an entry that carries no URL (null, numbers,
	// objects without a url). It is the zero value.
	KindInvalid Kind = iota

	// KindRaw is a plain URL string.
	KindRaw

	// KindRecord is an {id, url} object. The id is optional.
	KindRecord
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindRecord:
		return "record"
	default:
		return "invalid"
	}
}

// Template is a tracking URL template: either a raw URL string or a record
// with an optional id and a url.
//
// Only the url takes part in resolution. The id is used by Equal, Contains
// and Union to tell records apart.
type Template struct {
	kind  Kind
	id    string
	hasID bool
	url   string
}

// Raw returns a plain URL template.
func Raw(url string) Template {
	return Template{kind: KindRaw, url: url}
}

// Record returns a record template without an id.
func Record(url string) Template {
	return Template{kind: KindRecord, url: url}
}

// Named returns a record template with an id.
func Named(id, url string) Template {
	return Template{kind: KindRecord, id: id, hasID: true, url: url}
}

// Strings converts plain URLs into Raw templates.
func Strings(urls ...string) []Template {
	out := make([]Template, len(urls))
	for i, u := range urls {
		out[i] = Raw(u)
	}
	return out
}

// Kind reports which variant t holds.
func (t Template) Kind() Kind { return t.kind }

// URL returns the URL of a Raw or Record template, and false for Invalid ones.
func (t Template) URL() (string, bool) {
	if t.kind == KindInvalid {
		return "", false
	}
	return t.url, true
}

// ID returns the record id and whether one is set.
func (t Template) ID() (string, bool) {
	return t.id, t.hasID
}

// String implements fmt.Stringer.
func (t Template) String() string {
	switch t.kind {
	case KindRaw:
		return t.url
	case KindRecord:
		if t.hasID {
			return fmt.Sprintf("{id:%s url:%s}", t.id, t.url)
		}
		return fmt.Sprintf("{url:%s}", t.url)
	default:
		return "<invalid>"
	}
}

// Extract returns the URL carried by each template, in order.
//
// Raw templates yield their string, records yield their url. Invalid entries
// have no URL and are skipped, so they produce no resolved output.
func Extract(templates []Template) []string {
	urls := make([]string, 0, len(templates))
	for _, t := range templates {
		if u, ok := t.URL(); ok {
			urls = append(urls, u)
		}
	}
	return urls
}

// Templates is a decodable template list.
//
// Decoding YAML into a plain []Template drops null items, because yaml.v3
// never hands them to Template.UnmarshalYAML. Templates keeps them as
// Invalid entries, matching what encoding/json does for []Template.
type Templates []Template

// UnmarshalYAML decodes a sequence item by item. Any other node decodes to
// a single-element list.
func (ts *Templates) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.SequenceNode {
		var t Template
		if err := decodeNode(node, &t); err != nil {
			return err
		}
		*ts = Templates{t}
		return nil
	}

	out := make(Templates, len(node.Content))
	for i, child := range node.Content {
		if err := decodeNode(child, &out[i]); err != nil {
			return err
		}
	}
	*ts = out
	return nil
}

func decodeNode(node *yaml.Node, t *Template) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.ShortTag() == "!!null" {
		*t = Template{}
		return nil
	}
	return t.UnmarshalYAML(node)
}

// UnmarshalJSON decodes a string as Raw and an object with a string "url"
// as a record. Anything else decodes to an Invalid template without error.
func (t *Template) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*t = Template{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Raw(s)
	case '{':
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*t = FromValue(m)
	default:
		*t = Template{}
	}
	return nil
}

// UnmarshalYAML follows the same rules as UnmarshalJSON.
func (t *Template) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() != "!!str" {
			*t = Template{}
			return nil
		}
		*t = Raw(node.Value)
	case yaml.MappingNode:
		var m map[string]any
		if err := node.Decode(&m); err != nil {
			return err
		}
		*t = FromValue(m)
	default:
		*t = Template{}
	}
	return nil
}

// FromValue converts a decoded JSON or YAML value into a Template.
// Strings become Raw templates and maps with a string "url" become records.
// Anything else yields an Invalid template.
func FromValue(v any) Template {
	switch val := v.(type) {
	case string:
		return Raw(val)
	case map[string]any:
		return fromMap(val)
	case Template:
		return val
	default:
		return Template{}
	}
}

func fromMap(m map[string]any) Template {
	u, ok := m["url"].(string)
	if !ok {
		return Template{}
	}
	id, hasID := m["id"]
	if !hasID {
		return Record(u)
	}
	return Named(scalarString(id), u)
}

// scalarString formats a decoded scalar the way it would appear in a URL.
func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	default:
		return fmt.Sprint(val)
	}
}
