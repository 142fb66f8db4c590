// Package dto provides:
//
// - Immutable transfer objects bound to a type-level schema contract (Define/New)
// - Lazy, memoized validation with a stable error model via Issues (JSON Pointer, code, message)
// - Deterministic derived forms: canonical JSON, content digests, query params, YAML
// - Value semantics: structural equality, deep-copying Clone, non-destructive With
//
// Design policy:
// - Keep only public APIs in the root package; put the canonicalization engine under internal/.
// - Place contract implementations under schema/ (builder) and jsonschema/ (JSON Schema adapter).
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	User := dto.MustDefine("User", userSchema)
//	u := User.New(map[string]any{"first": "Ada", "last": "Lovelace", "email": "ada@example.com"})
//
//	data, err := u.Data(ctx)           // validated once, cached afterwards
//	text, err := u.JSON(ctx)           // canonical, key-sorted
//	sum, err := u.Hash(ctx)            // sha-1 over the canonical text
//	v, err := u.With(map[string]any{}) // derived instance, new identity
package dto
