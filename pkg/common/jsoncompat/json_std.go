//go:build !sonicjson

package jsoncompat

import "encoding/json"

// Marshal proxies to the standard library json.Marshal when the sonicjson build tag is absent.
func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal proxies to the standard library json.Unmarshal when the sonicjson build tag is absent.
func Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Valid reports whether data is syntactically valid JSON.
func Valid(data []byte) bool { return json.Valid(data) }
