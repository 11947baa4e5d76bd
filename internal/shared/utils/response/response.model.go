package response

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Status is a named code/message pair applied to an envelope in one step
type Status struct {
	Code    int
	Message string
}

var (
	StatusSuccess = Status{Code: 0, Message: "succeeded"}
	StatusFailure = Status{Code: -1, Message: "failed"}
)

// Payload holds the data of an envelope: unset, a single value, or an
// ordered list of values accumulated through WithData.
type Payload[T any] struct {
	items []T
	many  bool
}

// IsSet reports whether any value has been attached
func (p Payload[T]) IsSet() bool {
	return p.many || len(p.items) > 0
}

// IsMany reports whether the payload is a list
func (p Payload[T]) IsMany() bool {
	return p.many
}

func (p Payload[T]) Len() int {
	return len(p.items)
}

// Single returns the value when the payload holds exactly one non-list value
func (p Payload[T]) Single() (T, bool) {
	if p.many || len(p.items) != 1 {
		var zero T
		return zero, false
	}
	return p.items[0], true
}

// Items returns a copy of the attached values in insertion order
func (p Payload[T]) Items() []T {
	if len(p.items) == 0 {
		return nil
	}
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

func (p Payload[T]) value() any {
	switch {
	case p.many:
		out := make([]T, len(p.items))
		copy(out, p.items)
		return out
	case len(p.items) == 1:
		return p.items[0]
	default:
		return nil
	}
}

// isNil reports whether v is a nil interface, pointer, map, slice, func or chan
func isNil[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// single returns a payload holding v, or an unset payload when v is nil
func single[T any](v T) Payload[T] {
	if isNil(v) {
		return Payload[T]{}
	}
	return Payload[T]{items: []T{v}}
}

func (p Payload[T]) append(v T) Payload[T] {
	if !p.IsSet() {
		return single(v)
	}
	items := make([]T, 0, len(p.items)+1)
	items = append(items, p.items...)
	items = append(items, v)
	return Payload[T]{items: items, many: true}
}

// Envelope is the standard response body: a status code, a message and a payload
type Envelope[T any] struct {
	code    int
	message string
	data    Payload[T]
}

// Success returns an envelope with the success preset and no payload
func Success[T any]() *Envelope[T] {
	return new(Envelope[T]).WithStatus(StatusSuccess)
}

// SuccessWith returns an envelope with the success preset carrying data
func SuccessWith[T any](data T) *Envelope[T] {
	e := Success[T]()
	e.SetData(data)
	return e
}

// Failure returns an envelope with the failure preset and no payload
func Failure[T any]() *Envelope[T] {
	return new(Envelope[T]).WithStatus(StatusFailure)
}

// WithCode overwrites the code only. The message is left untouched even if
// it no longer matches.
func (e *Envelope[T]) WithCode(code int) *Envelope[T] {
	e.code = code
	return e
}

// WithMessage overwrites the message only
func (e *Envelope[T]) WithMessage(message string) *Envelope[T] {
	e.message = message
	return e
}

// WithStatus applies both fields of a preset
func (e *Envelope[T]) WithStatus(s Status) *Envelope[T] {
	e.code = s.Code
	e.message = s.Message
	return e
}

// WithData attaches a value. The first non-nil value is stored as is; every
// later value turns the payload into a list that keeps insertion order.
func (e *Envelope[T]) WithData(v T) *Envelope[T] {
	e.data = e.data.append(v)
	return e
}

func (e *Envelope[T]) Code() int {
	return e.code
}

func (e *Envelope[T]) SetCode(code int) {
	e.code = code
}

func (e *Envelope[T]) Message() string {
	return e.message
}

func (e *Envelope[T]) SetMessage(message string) {
	e.message = message
}

func (e *Envelope[T]) Payload() Payload[T] {
	return e.data
}

// Data returns nil, the single value, or a []T depending on what was attached
func (e *Envelope[T]) Data() any {
	return e.data.value()
}

// SetData replaces the payload with a single value. A nil value clears it.
func (e *Envelope[T]) SetData(v T) {
	e.data = single(v)
}

// SetItems replaces the payload with a list
func (e *Envelope[T]) SetItems(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)
	e.data = Payload[T]{items: cp, many: true}
}

func (e *Envelope[T]) ClearData() {
	e.data = Payload[T]{}
}

func (e Envelope[T]) String() string {
	return fmt.Sprintf("Response{code=%d, message='%s', data=%s}", e.code, e.message, e.data.format())
}

func (p Payload[T]) format() string {
	switch {
	case p.many:
		parts := make([]string, len(p.items))
		for i, item := range p.items {
			parts[i] = fmt.Sprintf("%v", item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case len(p.items) == 1:
		return fmt.Sprintf("%v", p.items[0])
	default:
		return "null"
	}
}

type wireEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(e.data.value())
	if err != nil {
		return nil, fmt.Errorf("marshal envelope data: %w", err)
	}
	return json.Marshal(wireEnvelope{
		Code:    e.code,
		Message: e.message,
		Data:    data,
	})
}

// UnmarshalJSON accepts null, a single T, or an array of T as data. An array
// that decodes as T itself is kept as a single value.
func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var w wireEnvelope
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}

	e.code = w.Code
	e.message = w.Message
	e.data = Payload[T]{}

	raw := strings.TrimSpace(string(w.Data))
	if raw == "" || raw == "null" {
		return nil
	}

	var one T
	singleErr := json.Unmarshal(w.Data, &one)
	if singleErr == nil {
		e.SetData(one)
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var items []T
		if err := json.Unmarshal(w.Data, &items); err != nil {
			return fmt.Errorf("unmarshal envelope data: %w", err)
		}
		e.data = Payload[T]{items: items, many: true}
		return nil
	}

	return fmt.Errorf("unmarshal envelope data: %w", singleErr)
}
