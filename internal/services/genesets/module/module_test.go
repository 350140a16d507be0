package module

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"oraflow/internal/modkit"
	"oraflow/internal/platform/config"
	perr "oraflow/internal/platform/errors"
	kit "oraflow/internal/platform/testkit"
	"oraflow/internal/services/genesets/domain"
	idmaprepo "oraflow/internal/services/idmap/repo"
	idmapsvc "oraflow/internal/services/idmap/service"
)

func TestFromConfig(t *testing.T) {
	t.Setenv("ORA_GENESETS_LIBRARIES", "GO, KEGG")
	t.Setenv("ORA_GENESETS_FOCUS_A_TERMS", "GO:0051607;response to virus, type I")
	t.Setenv("ORA_GENESETS_FOCUS_B_TERMS", "")
	o := FromConfig(config.New())
	if o.Driver != "gmt" || o.Dir != "genesets" {
		t.Fatalf("options = %+v", o)
	}
	if !reflect.DeepEqual(o.Libraries, []string{"GO", "KEGG"}) {
		t.Fatalf("libraries = %q", o.Libraries)
	}
	if !reflect.DeepEqual(o.FocusA, []string{"GO:0051607", "response to virus, type I"}) {
		t.Fatalf("focus a = %q", o.FocusA)
	}
	if got := domain.Tags(o.Specs()); !reflect.DeepEqual(got, []string{"GO", "KEGG", "FOCUS_A"}) {
		t.Fatalf("tags = %v", got)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	genes, err := idmaprepo.ReadGenes(strings.NewReader(kit.AnnotationTSV))
	if err != nil {
		t.Fatalf("ReadGenes: %v", err)
	}
	mapper := idmapsvc.New(idmaprepo.NewMemory(genes))
	dir := t.TempDir()
	kit.WriteFile(t, dir, "GO.gmt", kit.LibraryGMT)

	m, err := New(modkit.Deps{}, mapper, nil, Options{Driver: "gmt", Dir: dir, Libraries: []string{"GO"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := m.Ports().(Ports)
	lib, err := p.Catalog.Load(context.Background(), p.Catalog.Specs()[0])
	if err != nil || lib.Len() != 4 {
		t.Fatalf("load = %v, %v", lib, err)
	}
	if m.Name() != "genesets" {
		t.Fatalf("name = %s", m.Name())
	}

	bad := []Options{
		{Driver: "gmt"},
		{Driver: "pg", Libraries: []string{"GO"}},
		{Driver: "gmt", Dir: dir},
	}
	for _, o := range bad {
		if _, err := New(modkit.Deps{}, mapper, nil, o); !perr.IsCode(err, perr.ErrorCodeConfiguration) {
			t.Fatalf("%+v: err = %v", o, err)
		}
	}
}
