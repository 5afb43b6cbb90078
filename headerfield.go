package h2session

import "sync"

// HeaderField is a single name/value pair as carried through HPACK.
//
// Use AcquireHeaderField/ReleaseHeaderField to recycle instances.
type HeaderField struct {
	key, value []byte
	sensitive  bool
}

var headerFieldPool = sync.Pool{
	New: func() interface{} { return &HeaderField{} },
}

// AcquireHeaderField returns a pooled, reset HeaderField.
func AcquireHeaderField() *HeaderField {
	hf := headerFieldPool.Get().(*HeaderField)
	hf.Reset()
	return hf
}

// ReleaseHeaderField returns hf to the pool.
func ReleaseHeaderField(hf *HeaderField) {
	hf.Reset()
	headerFieldPool.Put(hf)
}

// Reset clears hf's key, value and sensitivity.
func (hf *HeaderField) Reset() {
	hf.key = hf.key[:0]
	hf.value = hf.value[:0]
	hf.sensitive = false
}

// Empty reports whether hf carries neither a key nor a value.
func (hf *HeaderField) Empty() bool {
	return len(hf.key) == 0 && len(hf.value) == 0
}

// CopyTo copies hf's fields into other.
func (hf *HeaderField) CopyTo(other *HeaderField) {
	other.key = append(other.key[:0], hf.key...)
	other.value = append(other.value[:0], hf.value...)
	other.sensitive = hf.sensitive
}

// Key returns the field's name.
func (hf *HeaderField) Key() string { return string(hf.key) }

// Value returns the field's value.
func (hf *HeaderField) Value() string { return string(hf.value) }

// KeyBytes returns the field's name as a byte slice.
func (hf *HeaderField) KeyBytes() []byte { return hf.key }

// ValueBytes returns the field's value as a byte slice.
func (hf *HeaderField) ValueBytes() []byte { return hf.value }

// SetKey sets the field's name.
func (hf *HeaderField) SetKey(key string) { hf.key = append(hf.key[:0], key...) }

// SetValue sets the field's value.
func (hf *HeaderField) SetValue(value string) { hf.value = append(hf.value[:0], value...) }

// Set sets both name and value.
func (hf *HeaderField) Set(key, value string) {
	hf.SetKey(key)
	hf.SetValue(value)
}

// SetSensitive marks the field as never-indexed, for HPACK purposes.
func (hf *HeaderField) SetSensitive(v bool) { hf.sensitive = v }

// IsSensitive reports whether the field was marked never-indexed.
func (hf *HeaderField) IsSensitive() bool { return hf.sensitive }

// IsPseudo reports whether the field's key starts with ':' (e.g. :path).
func (hf *HeaderField) IsPseudo() bool {
	return len(hf.key) > 0 && hf.key[0] == ':'
}

// Size returns the field's HPACK dynamic-table size contribution.
//
// https://tools.ietf.org/html/rfc7541#section-4.1
func (hf *HeaderField) Size() int {
	return len(hf.key) + len(hf.value) + 32
}
