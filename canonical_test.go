package dto_test

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/objkit/dto"
)

// passthrough accepts any value unchanged.
type passthrough struct{}

func (passthrough) Parse(ctx context.Context, raw any) (any, error) { return raw, nil }

func anyDef(name string) *dto.Definition[any] {
	return dto.MustDefine[any](name, passthrough{})
}

func TestJSON_CanonicalOrdering(t *testing.T) {
	ctx := context.Background()
	def := anyDef("Doc")
	u := def.New(map[string]any{
		"zeta":  1,
		"alpha": map[string]any{"y": true, "x": nil},
		"mid":   []any{map[string]any{"b": 2, "a": 1}, "s"},
	})
	text, err := u.JSON(ctx)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	want := `{"alpha":{"x":null,"y":true},"mid":[{"a":1,"b":2},"s"],"zeta":1}`
	if text != want {
		t.Fatalf("canonical text:\n got %s\nwant %s", text, want)
	}
}

func TestJSON_StructAndMapAgree(t *testing.T) {
	ctx := context.Background()
	type person struct {
		First string `json:"first"`
		Age   int    `json:"age"`
	}
	def := anyDef("Doc")
	fromStruct := def.New(person{First: "Ada", Age: 36})
	fromMap := def.New(map[string]any{"age": 36, "first": "Ada"})

	a, err := fromStruct.JSON(ctx)
	if err != nil {
		t.Fatalf("JSON(struct): %v", err)
	}
	b, err := fromMap.JSON(ctx)
	if err != nil {
		t.Fatalf("JSON(map): %v", err)
	}
	if a != b {
		t.Fatalf("representations disagree: %s vs %s", a, b)
	}
	ha, _ := fromStruct.Hash(ctx)
	hb, _ := fromMap.Hash(ctx)
	if ha != hb {
		t.Fatalf("hashes disagree: %s vs %s", ha, hb)
	}
}

func TestJSON_PrettyAffectsWhitespaceOnly(t *testing.T) {
	ctx := context.Background()
	def := anyDef("Doc")
	u := def.New(map[string]any{"b": []any{1, 2}, "a": "x"})

	compact, err := u.JSON(ctx)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	pretty, err := u.JSON(ctx, dto.JSONOpt{Pretty: true})
	if err != nil {
		t.Fatalf("JSON pretty: %v", err)
	}
	if pretty == compact {
		t.Fatalf("pretty output should differ in whitespace")
	}
	strip := func(s string) string {
		return strings.NewReplacer("\n", "", " ", "").Replace(s)
	}
	if strip(pretty) != strip(compact) {
		t.Fatalf("pretty changed content:\n%s\nvs\n%s", pretty, compact)
	}
	if !strings.Contains(pretty, "\n  \"a\"") {
		t.Fatalf("expected 2-space indent, got:\n%s", pretty)
	}
}

func TestHash_DefaultSHA1(t *testing.T) {
	ctx := context.Background()
	def := anyDef("Doc")
	u := def.New(map[string]any{"a": 1})

	text, err := u.JSON(ctx)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	sum := sha1.Sum([]byte(text))
	want := hex.EncodeToString(sum[:])
	got, err := u.Hash(ctx)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if got != want {
		t.Fatalf("Hash = %s, want sha1(%s) = %s", got, text, want)
	}
}

func TestHash_Algorithms(t *testing.T) {
	ctx := context.Background()
	def := anyDef("Doc")
	u := def.New(map[string]any{"a": 1})

	lengths := map[dto.HashAlgorithm]int{dto.SHA1: 40, dto.MD5: 32, dto.SHA256: 64}
	for algo, n := range lengths {
		got, err := u.Hash(ctx, algo)
		if err != nil {
			t.Fatalf("Hash(%s): %v", algo, err)
		}
		if len(got) != n {
			t.Fatalf("Hash(%s) length = %d, want %d", algo, len(got), n)
		}
		if got != strings.ToLower(got) {
			t.Fatalf("Hash(%s) not lowercase: %s", algo, got)
		}
	}
	if _, err := u.Hash(ctx, dto.HashAlgorithm("whirlpool")); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
}

func TestHash_DiffersForDifferentData(t *testing.T) {
	ctx := context.Background()
	def := anyDef("Doc")
	a, _ := def.New(map[string]any{"a": 1}).Hash(ctx)
	b, _ := def.New(map[string]any{"a": 2}).Hash(ctx)
	if a == b {
		t.Fatalf("distinct data hashed identically: %s", a)
	}
}

func TestSearchParams(t *testing.T) {
	ctx := context.Background()
	def := anyDef("Doc")
	u := def.New(map[string]any{
		"last":   "Lovelace",
		"first":  "Ada Marie",
		"active": true,
		"tags":   []any{"x"},
		"age":    36,
	})
	ps, err := u.SearchParams(ctx)
	if err != nil {
		t.Fatalf("SearchParams: %v", err)
	}
	wantKeys := []string{"active", "age", "first", "last", "tags"}
	if len(ps) != len(wantKeys) {
		t.Fatalf("got %d params, want %d", len(ps), len(wantKeys))
	}
	for i, k := range wantKeys {
		if ps[i].Key != k {
			t.Fatalf("param %d key = %s, want %s (canonical order)", i, ps[i].Key, k)
		}
	}
	enc := ps.Encode()
	want := `active=true&age=36&first=Ada+Marie&last=Lovelace&tags=%5B%22x%22%5D`
	if enc != want {
		t.Fatalf("Encode:\n got %s\nwant %s", enc, want)
	}
}

func TestSearchParams_NonObject(t *testing.T) {
	ctx := context.Background()
	def := anyDef("Doc")
	if _, err := def.New("just a string").SearchParams(ctx); err == nil {
		t.Fatalf("expected invalid_type for non-object data")
	}
}

func TestYAML_SortedKeys(t *testing.T) {
	ctx := context.Background()
	def := anyDef("Doc")
	u := def.New(map[string]any{"b": 1, "a": "x", "n": "123"})
	out, err := u.YAML(ctx)
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	ia := strings.Index(out, "a:")
	ib := strings.Index(out, "b:")
	in := strings.Index(out, "n:")
	if ia < 0 || ib < 0 || in < 0 || !(ia < ib && ib < in) {
		t.Fatalf("keys not in canonical order:\n%s", out)
	}
	// numeric-looking string must stay a string
	if !strings.Contains(out, `"123"`) {
		t.Fatalf("string value lost its type:\n%s", out)
	}
}

func TestDerivedForms_PropagateValidationFailure(t *testing.T) {
	ctx := context.Background()
	def := dto.MustDefine[map[string]any]("User", newFailingSchema())
	u := def.New(map[string]any{})

	if _, err := u.JSON(ctx); err == nil {
		t.Fatalf("JSON must raise validation failures")
	}
	if _, err := u.Hash(ctx); err == nil {
		t.Fatalf("Hash must raise validation failures")
	}
	if _, err := u.SearchParams(ctx); err == nil {
		t.Fatalf("SearchParams must raise validation failures")
	}
	if _, err := u.YAML(ctx); err == nil {
		t.Fatalf("YAML must raise validation failures")
	}
	if _, err := u.Describe(ctx); err == nil {
		t.Fatalf("Describe must raise validation failures")
	}
}
