package server

import (
	"net/url"
	"strconv"
	"strings"
)

// Form is an ordered set of form fields. Entries keep their insertion order
// when encoded so request bodies are deterministic.
type Form struct {
	keys   []string
	values map[string]string
}

func NewForm() *Form {
	return &Form{values: map[string]string{}}
}

// Set adds or replaces key. A replaced key keeps its original position.
func (f *Form) Set(key, value string) *Form {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
	return f
}

// SetBool adds key only when v is non-nil. false is a value and is sent.
func (f *Form) SetBool(key string, v *bool) *Form {
	if v != nil {
		f.Set(key, strconv.FormatBool(*v))
	}
	return f
}

// SetInt adds key only when v is non-nil. 0 is a value and is sent.
func (f *Form) SetInt(key string, v *int) *Form {
	if v != nil {
		f.Set(key, strconv.Itoa(*v))
	}
	return f
}

func (f *Form) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *Form) Keys() []string {
	return append([]string(nil), f.keys...)
}

func (f *Form) Len() int {
	return len(f.keys)
}

// Encode serializes the form as application/x-www-form-urlencoded.
func (f *Form) Encode() string {
	var b strings.Builder
	for i, k := range f.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.values[k]))
	}
	return b.String()
}
