package normalize

import (
	"reflect"
	"strings"
	"testing"

	perr "oraflow/internal/platform/errors"
)

func TestClean(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{"identity", "Ifit1", "Ifit1"},
		{"case preserved", "IFIT1", "IFIT1"},
		{"trim", "  Sts\t", "Sts"},
		{"utf8 repair", string([]byte{0xff, 'S', 't', 's', 0x80}), "Sts"},
		{"zero width", "If\u200bit1", "Ifit1"},
		{"bom", "\ufeffIfit1", "Ifit1"},
		{"fullwidth", "\uff29\uff26\uff29\uff34\uff11", "IFIT1"},
		{"nbsp collapses", "steroid sulfatase,\u00a0 mouse", "steroid sulfatase, mouse"},
		{"control chars", "Sts\x00\x07", "Sts"},
		{"blank", "   ", ""},
		{"empty", "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			if got := Clean(c.in); got != c.out {
				t.Fatalf("Clean(%q) = %q, want %q", c.in, got, c.out)
			}
		})
	}
}

func TestRewriter(t *testing.T) {
	t.Parallel()
	rw := NewRewriter(
		Rule{From: "steroid sulfatase, mouse", To: "Sts"},
		Rule{From: "", To: "ignored"},
		Rule{From: " (predicted)", To: ""},
	)
	if len(rw.Rules()) != 2 {
		t.Fatalf("rules = %v", rw.Rules())
	}
	cases := map[string]string{
		"steroid sulfatase, mouse": "Sts",
		"Gm123 (predicted)":        "Gm123",
		"Ifit1":                    "Ifit1",
	}
	for in, want := range cases {
		if got := rw.Apply(in); got != want {
			t.Fatalf("Apply(%q) = %q, want %q", in, got, want)
		}
	}
	var nilRW *Rewriter
	if nilRW.Apply("x") != "x" || nilRW.Rules() != nil {
		t.Fatalf("nil rewriter must be identity")
	}
}

func TestReadRules(t *testing.T) {
	t.Parallel()
	rules, err := ReadRules(strings.NewReader("# comment\n\nsteroid sulfatase, mouse\tSts\r\n"))
	if err != nil {
		t.Fatalf("ReadRules: %v", err)
	}
	if !reflect.DeepEqual(rules, []Rule{{From: "steroid sulfatase, mouse", To: "Sts"}}) {
		t.Fatalf("rules = %v", rules)
	}
	if _, err := ReadRules(strings.NewReader("no tab here\n")); !perr.IsCode(err, perr.ErrorCodeInput) {
		t.Fatalf("want input error, got %v", err)
	}
}

func TestRead_EndToEndExample(t *testing.T) {
	t.Parallel()
	rw := NewRewriter(Rule{From: "steroid sulfatase, mouse", To: "Sts"})
	gl, err := Read(strings.NewReader("Ifit1\nIfit1\n\nsteroid sulfatase, mouse\n"), rw)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(gl, GeneList{"Ifit1", "Sts"}) {
		t.Fatalf("gene list = %v", gl)
	}
}

func TestRead_CommentsAndDedupAfterRewrite(t *testing.T) {
	t.Parallel()
	rw := NewRewriter(Rule{From: "steroid sulfatase, mouse", To: "Sts"})
	gl, err := Read(strings.NewReader("# header\nSts\n  steroid sulfatase, mouse  \nIrf7\r\n"), rw)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(gl, GeneList{"Sts", "Irf7"}) {
		t.Fatalf("gene list = %v", gl)
	}
}

func TestRead_EmptyIsInputError(t *testing.T) {
	t.Parallel()
	cases := []string{"", "\n\n", "# only comments\n", " \u200b \n"}
	for _, in := range cases {
		_, err := Read(strings.NewReader(in), nil)
		if !perr.IsCode(err, perr.ErrorCodeInput) {
			t.Fatalf("Read(%q) err = %v, want input", in, err)
		}
		if e, _ := perr.As(err); e.Op() != "input" {
			t.Fatalf("op = %q", e.Op())
		}
	}
}

func TestBuild_NeverEmitsBlanks(t *testing.T) {
	t.Parallel()
	rw := NewRewriter(Rule{From: "drop-me", To: ""})
	gl := Build([]string{"drop-me", "", "A", "A", "B"}, rw)
	if !reflect.DeepEqual(gl, GeneList{"A", "B"}) {
		t.Fatalf("gene list = %v", gl)
	}
}
