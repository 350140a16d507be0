package gmt

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	perr "oraflow/internal/platform/errors"
)

const sample = "# demo library\n" +
	"GO:0051607\tdefense response to virus\tIfit1\tIrf7\tIfit1\t \tIsg15\n" +
	"\n" +
	"GO:0006694\tsteroid biosynthetic process\tSts\r\n" +
	"EMPTY_SET\tno members\n"

func TestParse(t *testing.T) {
	t.Parallel()
	sets, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []Set{
		{Name: "GO:0051607", Description: "defense response to virus", Genes: []string{"Ifit1", "Irf7", "Isg15"}},
		{Name: "GO:0006694", Description: "steroid biosynthetic process", Genes: []string{"Sts"}},
		{Name: "EMPTY_SET", Description: "no members", Genes: []string{}},
	}
	if !reflect.DeepEqual(sets, want) {
		t.Fatalf("sets = %#v", sets)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		frag string
	}{
		{"no description", "ONLY_NAME\n", "line 1"},
		{"empty name", " \tdesc\tA\n", "empty set name"},
		{"duplicate", "A\td\tx\nB\td\ty\nA\td\tz\n", "already defined on line 1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(c.in))
			if !perr.IsCode(err, perr.ErrorCodeInput) || !strings.Contains(err.Error(), c.frag) {
				t.Fatalf("err = %v, want input error containing %q", err, c.frag)
			}
		})
	}
}

func TestWriteThenParse(t *testing.T) {
	t.Parallel()
	sets, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, sets); err != nil {
		t.Fatalf("Write: %v", err)
	}
	again, err := Parse(&buf)
	if err != nil || !reflect.DeepEqual(again, sets) {
		t.Fatalf("round trip mismatch: %v %#v", err, again)
	}
}
