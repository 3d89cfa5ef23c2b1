/*
Copyright 2026 the Stockroom Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package smoke

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseStatus says how far best-effort body parsing got.
type ParseStatus int

const (
	ParseOK ParseStatus = iota
	ParseBodyEmpty
	ParseBodyMalformed
	ParseFieldMissing
)

func (s ParseStatus) String() string {
	switch s {
	case ParseOK:
		return "ok"
	case ParseBodyEmpty:
		return "body empty"
	case ParseBodyMalformed:
		return "body malformed"
	case ParseFieldMissing:
		return "field missing"
	}

	return "unknown"
}

// ParseAttempt is the result of pulling a field out of a response body.
// Value is only meaningful when Status is ParseOK, otherwise Reason says
// what went wrong.
type ParseAttempt[T any] struct {
	Value  T
	Status ParseStatus
	Reason string
}

// OK reports whether the field was found with the requested type.
func (p ParseAttempt[T]) OK() bool {
	return p.Status == ParseOK
}

func parseFailed[T any](status ParseStatus, format string, args ...any) ParseAttempt[T] {
	return ParseAttempt[T]{
		Status: status,
		Reason: fmt.Sprintf(format, args...),
	}
}

// ParseField decodes a JSON body and walks path through nested objects.
// A null value counts as missing.
func ParseField[T any](body []byte, path ...string) ParseAttempt[T] {
	if len(bytes.TrimSpace(body)) == 0 {
		return parseFailed[T](ParseBodyEmpty, "response body is empty")
	}

	var current any

	if err := json.Unmarshal(body, &current); err != nil {
		return parseFailed[T](ParseBodyMalformed, "response body is not valid JSON: %v", err)
	}

	for i, key := range path {
		object, ok := current.(map[string]any)
		if !ok {
			if i == 0 {
				return parseFailed[T](ParseFieldMissing, "response body is not an object")
			}

			return parseFailed[T](ParseFieldMissing, "%s is not an object", strings.Join(path[:i], "."))
		}

		value, ok := object[key]
		if !ok || value == nil {
			return parseFailed[T](ParseFieldMissing, "%s not found", strings.Join(path[:i+1], "."))
		}

		current = value
	}

	value, ok := current.(T)
	if !ok {
		return parseFailed[T](ParseFieldMissing, "%s has unexpected type %T", strings.Join(path, "."), current)
	}

	return ParseAttempt[T]{
		Value:  value,
		Status: ParseOK,
	}
}
