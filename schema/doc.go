// Package schema provides small builder-style implementations of the
// dto.Schema contract: primitive rules (String, Number, Bool, Enum) and an
// Object builder with required fields and an unknown-key policy. It exists
// so DTO definitions can be written without an external validator; richer
// needs are served by the jsonschema adapter or any other contract
// implementation.
package schema
