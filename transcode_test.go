package metaform

import (
	"bytes"
	"io"
	"strings"
	"testing"

	metaerrors "github.com/wippyai/metaform/errors"
)

func TestTranscode(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"scalar_pairs", `{"to":"1234567890","type":"text"}`, "to=1234567890&type=text"},
		{"nested_object", `{"message":{"text":"hello world"}}`, "message=%7B%22text%22%3A%22hello%20world%22%7D"},
		{"array_value", `{"tags":["a","b c"]}`, "tags=%5B%22a%22%2C%22b%20c%22%5D"},
		{"numbers", `{"n":42,"f":1.5}`, "n=42&f=1.5"},
		{"null_member_dropped", `{"a":true,"b":null,"c":false}`, "a=true&c=false"},
		{"nested_null_dropped", `{"obj":{"gone":null,"kept":1}}`, "obj=%7B%22kept%22%3A1%7D"},
		{"unicode_escape_decoded", `{"s":"é"}`, "s=%C3%A9"},
		{"newline_escape_decoded", `{"memo":"l1\nl2"}`, "memo=l1%0Al2"},
		{"structural_bytes_encoded", `{"q":"a=b&c"}`, "q=a%3Db%26c"},
		{"nested_quotes_escaped", `{"nested":{"q":"say \"hi\""}}`, "nested=%7B%22q%22%3A%22say%20%5C%22hi%5C%22%22%7D"},
		{"empty_object", `{}`, ""},
		{"null_document", `null`, ""},
		{"surrounding_whitespace", " { \"a\" : 1 } ", "a=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Transcode(&buf, []byte(tt.src)); err != nil {
				t.Fatalf("Transcode failed: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestTranscode_MalformedInput(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"truncated_object", `{"a":`},
		{"mismatched_close", `{]`},
		{"bare_token", `{"a":tru}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Transcode(&bytes.Buffer{}, []byte(tt.src))
			assertKind(t, err, metaerrors.KindSyntax)
			if !strings.Contains(err.Error(), "parsing JSON input") {
				t.Errorf("error %q does not name the parse stage", err)
			}
		})
	}
}

// Shape errors raised by the encoding layer keep their own kind instead of
// being reported as syntax failures.
func TestTranscode_ShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"top_level_array", `[1,2]`},
		{"top_level_string", `"hi"`},
		{"top_level_number", `42`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Transcode(&buf, []byte(tt.src))
			assertKind(t, err, metaerrors.KindTopLevel)
			if buf.Len() != 0 {
				t.Errorf("rejected document leaked %q", buf.String())
			}
		})
	}
}

func TestTranscode_SinkError(t *testing.T) {
	src := []byte(`{"blob":"` + strings.Repeat("x", 96<<10) + `"}`)
	err := Transcode(errWriter{}, src)
	assertKind(t, err, metaerrors.KindSink)
}

func BenchmarkTranscode(b *testing.B) {
	src := []byte(`{"messaging_product":"whatsapp","recipient_type":"individual",` +
		`"to":"phone_number","type":"interactive","interactive":{"type":"list",` +
		`"header":{"type":"text","text":"<HEADER_TEXT>"},"body":{"text":"<BODY_TEXT>"},` +
		`"footer":{"text":"<FOOTER_TEXT>"},"action":{"button":"<BUTTON_TEXT>",` +
		`"sections":[{"title":"<LIST_SECTION_1_TITLE>","rows":[` +
		`{"id":"<LIST_SECTION_1_ROW_1_ID>","title":"<SECTION_1_ROW_1_TITLE>","description":"<SECTION_1_ROW_1_DESC>"},` +
		`{"id":"<LIST_SECTION_1_ROW_2_ID>","title":"<SECTION_1_ROW_2_TITLE>","description":"<SECTION_1_ROW_2_DESC>"}]},` +
		`{"title":"<LIST_SECTION_2_TITLE>","rows":[` +
		`{"id":"<LIST_SECTION_2_ROW_1_ID>","title":"<SECTION_2_ROW_1_TITLE>","description":"<SECTION_2_ROW_1_DESC>"},` +
		`{"id":"<LIST_SECTION_2_ROW_2_ID>","title":"<SECTION_2_ROW_2_TITLE>","description":"<SECTION_2_ROW_2_DESC>"}]}]}}}`)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = Transcode(io.Discard, src)
	}
}
