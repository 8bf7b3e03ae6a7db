//go:build sonicjson

package jsoncompat

import "github.com/bytedance/sonic"

// Marshal proxies to sonic.Marshal when the sonicjson build tag is present.
func Marshal(v any) ([]byte, error) { return sonic.Marshal(v) }

// Unmarshal proxies to sonic.Unmarshal when the sonicjson build tag is present.
func Unmarshal(data []byte, v any) error { return sonic.Unmarshal(data, v) }

// Valid reports whether data is syntactically valid JSON.
func Valid(data []byte) bool { return sonic.Valid(data) }
