package utils

import (
	"bytes"
	"encoding/json"
	"sort"
)

type orderedEntry[T any] struct {
	value T
	order int
}

// OrderedMap is a string keyed map that marshals as a JSON object with its
// keys in insertion order unless an explicit order is given.
type OrderedMap[T any] struct {
	entries map[string]orderedEntry[T]
	next    int
}

func NewOrderedMap[T any]() *OrderedMap[T] {
	return &OrderedMap[T]{entries: map[string]orderedEntry[T]{}}
}

// Set stores value under key at the end of the order. Setting an existing
// key replaces its value and keeps its position.
func (om *OrderedMap[T]) Set(key string, value T) {
	if e, ok := om.entries[key]; ok {
		e.value = value
		om.entries[key] = e
		return
	}
	om.entries[key] = orderedEntry[T]{value: value, order: om.next}
	om.next++
}

func (om *OrderedMap[T]) Get(key string) (T, bool) {
	e, ok := om.entries[key]
	return e.value, ok
}

func (om *OrderedMap[T]) Len() int {
	return len(om.entries)
}

// Keys returns the keys in order.
func (om *OrderedMap[T]) Keys() []string {
	keys := make([]string, 0, len(om.entries))
	for k := range om.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return om.entries[keys[i]].order < om.entries[keys[j]].order
	})
	return keys
}

func (om *OrderedMap[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range om.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valueBytes, err := json.Marshal(om.entries[k].value)
		if err != nil {
			return nil, err
		}
		buf.Write(valueBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON keeps the key order of the document.
func (om *OrderedMap[T]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	om.entries = map[string]orderedEntry[T]{}
	om.next = 0
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var value T
		if err := dec.Decode(&value); err != nil {
			return err
		}
		om.Set(key, value)
	}
	_, err := dec.Token()
	return err
}
