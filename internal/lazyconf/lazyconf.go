// SPDX-License-Identifier: MPL-2.0

// Package lazyconf is a key-value configuration store whose fields may be
// declared as deferred: the producer runs only when the field is first read,
// and the result is memoized. Interactive prompts registered as producers
// therefore fire only for fields a given run actually consumes, and a later
// field's producer may read the resolved values of other fields.
package lazyconf

import "fmt"

type (
	// Producer computes a field's value on first read. Producers may read
	// other fields of the same Store, which resolve on demand; a producer
	// must not read its own field, directly or through other producers.
	Producer func() (any, error)

	// UnknownFieldError reports a read of a key that was never declared.
	UnknownFieldError struct {
		Key string
	}

	// field is the tagged state of one entry: pending (producer set) or
	// resolved (value set). The transition happens at most once.
	field struct {
		resolved bool
		value    any
		produce  Producer
	}

	// Store owns all fields declared on it. It is created empty, populated
	// during a declaration phase, and discarded after the run; there is no
	// persistence. Not safe for concurrent use.
	Store struct {
		fields map[string]*field
	}
)

// Error implements the error interface.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("configuration field %q is not declared", e.Key)
}

// New creates an empty Store.
func New() *Store {
	return &Store{fields: make(map[string]*field)}
}

// Set declares key with a concrete value, immediately resolved. Re-declaring
// a key replaces its previous state.
func (s *Store) Set(key string, value any) {
	s.fields[key] = &field{resolved: true, value: value}
}

// SetDeferred declares key with a producer. The producer is not invoked here.
func (s *Store) SetDeferred(key string, produce Producer) {
	s.fields[key] = &field{produce: produce}
}

// Has reports whether key has been declared.
func (s *Store) Has(key string) bool {
	_, ok := s.fields[key]
	return ok
}

// Get returns the value of key, invoking its producer first if the field is
// still pending. A successful production is memoized; the producer never runs
// again for this key. If the producer fails, the field stays pending and the
// error propagates, so a later Get retries.
func (s *Store) Get(key string) (any, error) {
	f, ok := s.fields[key]
	if !ok {
		return nil, &UnknownFieldError{Key: key}
	}
	if f.resolved {
		return f.value, nil
	}

	value, err := f.produce()
	if err != nil {
		return nil, err
	}

	f.value = value
	f.resolved = true
	f.produce = nil
	return value, nil
}

// GetString reads key and asserts the value is a string.
func (s *Store) GetString(key string) (string, error) {
	value, err := s.Get(key)
	if err != nil {
		return "", err
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %q holds %T, not string", key, value)
	}
	return str, nil
}

// GetInt reads key and asserts the value is an int.
func (s *Store) GetInt(key string) (int, error) {
	value, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	n, ok := value.(int)
	if !ok {
		return 0, fmt.Errorf("field %q holds %T, not int", key, value)
	}
	return n, nil
}

// GetBool reads key and asserts the value is a bool.
func (s *Store) GetBool(key string) (bool, error) {
	value, err := s.Get(key)
	if err != nil {
		return false, err
	}
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("field %q holds %T, not bool", key, value)
	}
	return b, nil
}
