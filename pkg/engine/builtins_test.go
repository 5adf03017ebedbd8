package engine

import (
	"testing"

	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(mass "a" :typology :u)`,
			expect: `(mass "a" "__kw_typology" "__kw_u")`,
		},
		{
			name:   "multiple keywords",
			input:  `(mass "a" :length 40 :width 30)`,
			expect: `(mass "a" "__kw_length" 40 "__kw_width" 30)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(top-plane podium)`,
			expect: `(top_plane podium)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:target-area`,
			expect: `"__kw_target-area"`,
		},
		{
			name:   "hyphen in string name preserved",
			input:  `(mass "tower-a" :depth 8)`,
			expect: `(mass "tower-a" "__kw_depth" 8)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Argument parsing tests
// ---------------------------------------------------------------------------

func TestParseArgsSeparatesKeywordsFromPositionals(t *testing.T) {
	args := []zygo.Sexp{
		&zygo.SexpStr{S: "podium"},
		&zygo.SexpStr{S: kwPrefix + "length"},
		&zygo.SexpInt{Val: 40},
		&zygo.SexpStr{S: kwPrefix + "target-area"},
		&zygo.SexpFloat{Val: 2400},
	}
	pa := parseArgs(args)

	if len(pa.positional) != 1 {
		t.Fatalf("positional = %d args, want 1", len(pa.positional))
	}
	if len(pa.kw) != 2 {
		t.Fatalf("kw = %d entries, want 2", len(pa.kw))
	}
	if _, ok := pa.kw["length"]; !ok {
		t.Error("missing length keyword")
	}
	if v, ok := pa.kw["target-area"]; !ok {
		t.Error("missing target-area keyword")
	} else if f, err := toFloat64(v); err != nil || f != 2400 {
		t.Errorf("target-area = %v (%v), want 2400", f, err)
	}
}

func TestParseArgsTrailingKeywordBecomesFlag(t *testing.T) {
	args := []zygo.Sexp{&zygo.SexpStr{S: kwPrefix + "core"}}
	pa := parseArgs(args)
	if v, ok := pa.kw["core"]; !ok || v != zygo.SexpNull {
		t.Errorf("trailing keyword = %v, want SexpNull flag", v)
	}
}

func TestToTypology(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{kwPrefix + "u", "U", false},
		{kwPrefix + "i", "I", false},
		{"O", "O", false},
		{kwPrefix + "q", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			typ, err := toTypology(&zygo.SexpStr{S: tt.in})
			if (err != nil) != tt.wantErr {
				t.Fatalf("toTypology error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && typ.String() != tt.want {
				t.Errorf("toTypology = %s, want %s", typ, tt.want)
			}
		})
	}
}

func TestToFloat64RejectsStrings(t *testing.T) {
	if _, err := toFloat64(&zygo.SexpStr{S: "40"}); err == nil {
		t.Error("toFloat64 accepted a string")
	}
}
