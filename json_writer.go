package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// jsonObjectWriter builds a JSON object whose fields keep their insertion order.
// Its zero value is an empty object. The first marshalling error is kept and
// returned by MarshalJSON.
type jsonObjectWriter struct {
	buf bytes.Buffer
	err error
}

// Append adds the field key with the JSON encoding of value.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	raw, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot encode %q: %w", key, err)
		return w
	}
	if w.buf.Len() > 0 {
		w.buf.WriteByte(',')
	}
	k, _ := json.Marshal(key)
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(raw)
	return w
}

// Money adds the amount under key and its currency code under "currency".
func (w *jsonObjectWriter) Money(key string, m Money) *jsonObjectWriter {
	return w.Append(key, m.value).Append("currency", m.cur)
}

func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.buf.Len()+2)
	out = append(out, '{')
	out = append(out, w.buf.Bytes()...)
	return append(out, '}'), nil
}
