/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: literal.go
Description: Literal rendering for emitted modules. Serializes plan structures
as source-code literals with sorted object keys, in JSON form for JavaScript
and with None/True/False spellings for Python.
*/

package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// JSLiteral renders v as a JavaScript literal with sorted object keys
func JSLiteral(v interface{}) (string, error) {
	decoded, err := roundTrip(v)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	writeLiteral(&b, decoded, false)
	return b.String(), nil
}

// PyLiteral renders v as a Python literal: JSON shape with sorted keys, with
// null, true, and false spelled as None, True, and False
func PyLiteral(v interface{}) (string, error) {
	decoded, err := roundTrip(v)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	writeLiteral(&b, decoded, true)
	return b.String(), nil
}

// roundTrip pushes v through its JSON encoding so custom marshalers apply and
// numbers keep their source spelling
func roundTrip(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode literal: %w", err)
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode literal: %w", err)
	}
	return decoded, nil
}

func writeLiteral(b *strings.Builder, v interface{}, python bool) {
	switch t := v.(type) {
	case nil:
		if python {
			b.WriteString("None")
		} else {
			b.WriteString("null")
		}
	case bool:
		switch {
		case python && t:
			b.WriteString("True")
		case python:
			b.WriteString("False")
		case t:
			b.WriteString("true")
		default:
			b.WriteString("false")
		}
	case json.Number:
		b.WriteString(t.String())
	case string:
		quoted, _ := json.Marshal(t)
		b.Write(quoted)
	case []interface{}:
		b.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				b.WriteString(", ")
			}
			writeLiteral(b, item, python)
		}
		b.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			quoted, _ := json.Marshal(k)
			b.Write(quoted)
			b.WriteString(": ")
			writeLiteral(b, t[k], python)
		}
		b.WriteByte('}')
	default:
		fmt.Fprintf(b, "%v", t)
	}
}
