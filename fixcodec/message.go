package fixcodec

import (
	"sort"
	"strconv"
)

// Message is a tag=value FIX-style message. Field order on the wire
// is fixed for header/trailer tags and implementation-defined for the
// rest; Message itself stores fields unordered and Serialize decides
// the order.
type Message struct {
	fields map[int]string
}

// NewMessage returns an empty message.
func NewMessage() *Message {
	return &Message{fields: make(map[int]string)}
}

// Set stores value under tag, overwriting any existing value — parse
// treats a repeated tag as "last one wins".
func (m *Message) Set(tag int, value string) {
	m.fields[tag] = value
}

// SetInt stores the decimal string form of value under tag.
func (m *Message) SetInt(tag int, value int64) {
	m.Set(tag, strconv.FormatInt(value, 10))
}

// SetUint stores the decimal string form of value under tag.
func (m *Message) SetUint(tag int, value uint64) {
	m.Set(tag, strconv.FormatUint(value, 10))
}

// Get returns the raw string value stored under tag.
func (m *Message) Get(tag int) (string, bool) {
	v, ok := m.fields[tag]
	return v, ok
}

// GetInt parses the value under tag as a base-10 integer.
func (m *Message) GetInt(tag int) (int64, bool) {
	v, ok := m.fields[tag]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// GetUint parses the value under tag as a base-10 unsigned integer.
func (m *Message) GetUint(tag int) (uint64, bool) {
	v, ok := m.fields[tag]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// GetFloat parses the value under tag as a decimal float.
func (m *Message) GetFloat(tag int) (float64, bool) {
	v, ok := m.fields[tag]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Has reports whether tag was set.
func (m *Message) Has(tag int) bool {
	_, ok := m.fields[tag]
	return ok
}

// Type returns the message-type tag's first byte, or 0 if unset.
func (m *Message) Type() byte {
	v, ok := m.fields[TagMsgType]
	if !ok || len(v) == 0 {
		return 0
	}
	return v[0]
}

// SetType sets the message-type tag.
func (m *Message) SetType(t byte) {
	m.Set(TagMsgType, string(t))
}

// Equal reports whether two messages carry the same set of fields,
// ignoring the header/trailer auto-fields (protocol version, body
// length, checksum) that Serialize recomputes — used by the
// round-trip codec property test.
func (m *Message) Equal(other *Message) bool {
	return fieldsEqualExcluding(m.fields, other.fields, TagBeginString, TagBodyLength, TagCheckSum)
}

func fieldsEqualExcluding(a, b map[int]string, exclude ...int) bool {
	skip := make(map[int]bool, len(exclude))
	for _, t := range exclude {
		skip[t] = true
	}
	count := func(fields map[int]string) map[int]string {
		out := make(map[int]string)
		for tag, value := range fields {
			if skip[tag] {
				continue
			}
			out[tag] = value
		}
		return out
	}
	aa, bb := count(a), count(b)
	if len(aa) != len(bb) {
		return false
	}
	for tag, value := range aa {
		if bb[tag] != value {
			return false
		}
	}
	return true
}

// bodyTags returns every field tag except the header/trailer
// auto-fields, sorted for deterministic serialization order.
func (m *Message) bodyTags() []int {
	tags := make([]int, 0, len(m.fields))
	for tag := range m.fields {
		if tag == TagBeginString || tag == TagBodyLength || tag == TagCheckSum {
			continue
		}
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	return tags
}
