package literal

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFragment_JS(t *testing.T) {
	ranges := Ranges([]Range{{From: 3, To: 5}, {From: 7, To: 7}})
	tests := []struct {
		name     string
		fragment Fragment
		want     string
	}{
		{
			name:     "import declaration",
			fragment: Import("CodeSnippet", "@/components/code-snippet"),
			want:     `import { CodeSnippet } from "@/components/code-snippet";`,
		},
		{
			name:     "bool true",
			fragment: Bool(true),
			want:     "true",
		},
		{
			name:     "bool false",
			fragment: Bool(false),
			want:     "false",
		},
		{
			name:     "ranges preserve order",
			fragment: ranges,
			want:     "[[3, 5], [7, 7]]",
		},
		{
			name:     "empty ranges",
			fragment: Ranges(nil),
			want:     "[]",
		},
		{
			name:     "zero value renders nothing",
			fragment: Fragment{},
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fragment.JS(); got != tt.want {
				t.Errorf("JS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSONParse_Escaping(t *testing.T) {
	payload := map[string]any{
		"text":  "a \"quoted\" line\nwith newline",
		"count": 2,
	}
	fragment, err := JSONParse(payload)
	if err != nil {
		t.Fatalf("JSONParse: %v", err)
	}
	js := fragment.JS()
	if !strings.HasPrefix(js, "JSON.parse(") || !strings.HasSuffix(js, ")") {
		t.Fatalf("unexpected shape: %q", js)
	}

	// Внешний литерал — валидная JSON-строка; внутри — исходный объект.
	var inner string
	if err := json.Unmarshal([]byte(js[len("JSON.parse("):len(js)-1]), &inner); err != nil {
		t.Fatalf("outer literal is not a valid string: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(inner), &decoded); err != nil {
		t.Fatalf("inner payload does not round-trip: %v", err)
	}
	if decoded["text"] != payload["text"] {
		t.Errorf("text = %q, want %q", decoded["text"], payload["text"])
	}
}

func TestJSONParse_UnencodableValue(t *testing.T) {
	if _, err := JSONParse(func() {}); err == nil {
		t.Error("expected error for unencodable value")
	}
}

func TestRanges_CopiesInput(t *testing.T) {
	pairs := []Range{{From: 1, To: 2}}
	fragment := Ranges(pairs)
	pairs[0] = Range{From: 9, To: 9}
	if got := fragment.JS(); got != "[[1, 2]]" {
		t.Errorf("JS() = %q, want [[1, 2]] (input mutation leaked)", got)
	}
}

func TestKindString(t *testing.T) {
	if KindImport.String() != "import" || KindJSONParse.String() != "json-parse" {
		t.Error("kind names changed")
	}
}
