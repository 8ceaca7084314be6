// Package utils provides loose type conversion helpers for decoding third-party
// payloads that encode numbers as either JSON numbers or strings.
package utils
