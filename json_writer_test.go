package tracker

import (
	"testing"
)

func TestJSONObjectWriter(t *testing.T) {
	testCases := []struct {
		name  string
		build func(w *jsonObjectWriter)
		want  string
	}{
		{"empty", func(*jsonObjectWriter) {}, `{}`},
		{"keeps order", func(w *jsonObjectWriter) {
			w.Append("z", 1).Append("a", "x")
		}, `{"z":1,"a":"x"}`},
		{"escapes keys", func(w *jsonObjectWriter) {
			w.Append(`a"b`, true)
		}, `{"a\"b":true}`},
		{"money", func(w *jsonObjectWriter) {
			w.Append("id", "A").Money("balance", M(82.45, "EUR"))
		}, `{"id":"A","balance":"82.45","currency":"EUR"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var w jsonObjectWriter
			tc.build(&w)
			got, err := w.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("MarshalJSON() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestJSONObjectWriter_Error(t *testing.T) {
	var w jsonObjectWriter
	w.Append("a", make(chan int)).Append("b", 1)
	if _, err := w.MarshalJSON(); err == nil {
		t.Error("MarshalJSON() succeeded, want an error")
	}
}
