package module

import (
	"strings"
	"testing"

	phttp "oraflow/internal/platform/net/http"
)

type LibraryLister interface{ Libraries() []string }

type lister []string

func (l lister) Libraries() []string { return l }

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string             { return m.name }
func (m fakeModule) Ports() any               { return m.ports }
func (m fakeModule) MountRoutes(phttp.Router) {}

func TestPortsOf(t *testing.T) {
	t.Parallel()
	type bundle struct {
		Lister LibraryLister
		Count  int
	}
	type hidden struct {
		lister LibraryLister
	}
	cases := []struct {
		name   string
		ports  any
		wantOK bool
	}{
		{name: "nil ports", ports: nil},
		{name: "direct", ports: lister{"GO"}, wantOK: true},
		{name: "exported field", ports: bundle{Lister: lister{"GO"}, Count: 1}, wantOK: true},
		{name: "unexported field ignored", ports: hidden{lister: lister{"GO"}}},
		{name: "unrelated", ports: 42},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			got, ok := PortsOf[LibraryLister](fakeModule{name: c.name, ports: c.ports})
			if ok != c.wantOK {
				t.Fatalf("ok = %v, want %v", ok, c.wantOK)
			}
			if ok && got.Libraries()[0] != "GO" {
				t.Fatalf("got %v", got.Libraries())
			}
		})
	}
}

func TestMustPortsOf(t *testing.T) {
	t.Parallel()
	got := MustPortsOf[LibraryLister](fakeModule{name: "genesets", ports: lister{"KEGG"}})
	if got.Libraries()[0] != "KEGG" {
		t.Fatalf("got %v", got.Libraries())
	}

	defer func() {
		msg, _ := recover().(string)
		if !strings.Contains(msg, "genesets") || !strings.Contains(msg, "requested port not found") {
			t.Fatalf("panic = %q", msg)
		}
	}()
	_ = MustPortsOf[LibraryLister](fakeModule{name: "genesets"})
}

func TestHasPorts(t *testing.T) {
	t.Parallel()
	if HasPorts(nil) || HasPorts(fakeModule{}) || !HasPorts(fakeModule{ports: 1}) {
		t.Fatalf("HasPorts mismatch")
	}
}

// registry tests share global state so they run serially
func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("genesets", lister{"GO", "KEGG"})
	got, ok := PortsAs[LibraryLister]("genesets")
	if !ok || len(got.Libraries()) != 2 {
		t.Fatalf("PortsAs = %v %v", got, ok)
	}
	if _, ok := PortsAs[int]("genesets"); ok {
		t.Fatalf("type mismatch should fail")
	}
	if _, ok := PortsAs[LibraryLister]("missing"); ok {
		t.Fatalf("missing should fail")
	}
	Reset()
	if _, ok := PortsAs[LibraryLister]("genesets"); ok {
		t.Fatalf("Reset did not clear")
	}
}
