package dto_test

import (
	"testing"
	"time"

	"github.com/objkit/dto"
)

func TestDefine_NilSchema(t *testing.T) {
	if _, err := dto.Define[any]("Doc", nil); err == nil {
		t.Fatalf("expected error for nil schema")
	}
}

func TestMustDefine_PanicsOnNilSchema(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	dto.MustDefine[any]("Doc", nil)
}

func TestDefine_InjectedServices(t *testing.T) {
	at := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	def := dto.MustDefine[any]("Doc", passthrough{}, dto.DefineOpt{
		NewID: func() string { return "fixed-id" },
		Now:   func() time.Time { return at },
	})
	u := def.New(map[string]any{})
	if u.ID() != "fixed-id" {
		t.Fatalf("ID = %s", u.ID())
	}
	if !u.CreatedAt().Equal(at) {
		t.Fatalf("CreatedAt = %v", u.CreatedAt())
	}
	if u.Definition() != def {
		t.Fatalf("instances must share the type-level definition")
	}
}

func TestNew_UniqueIdentities(t *testing.T) {
	def := anyDef("Doc")
	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		id := def.New(map[string]any{}).ID()
		if id == "" || seen[id] {
			t.Fatalf("identity not unique: %q", id)
		}
		seen[id] = true
	}
}

func TestDefine_DefaultName(t *testing.T) {
	def := dto.MustDefine[any]("", passthrough{})
	if def.Name() != "DTO" {
		t.Fatalf("Name = %s", def.Name())
	}
}
