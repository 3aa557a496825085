package tableparse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// orderedObject preserves the key order of a JSON object, which
// encoding/json's map decoding otherwise discards.
type orderedObject struct {
	keys   []string
	values map[string]interface{}
}

func (o *orderedObject) set(key string, val interface{}) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = val
}

// tryParseJSON implements spec §4.5 strategy 1. Returns ok=false if the
// trimmed text doesn't look like JSON or fails to parse.
func tryParseJSON(text string) (Records, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Records{}, false
	}
	first := trimmed[0]
	if first != '{' && first != '[' {
		return Records{}, false
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	val, err := decodeOrderedValue(dec)
	if err != nil {
		return Records{}, false
	}

	var objects []*orderedObject
	switch v := val.(type) {
	case []interface{}:
		for _, elem := range v {
			obj, ok := elem.(*orderedObject)
			if !ok {
				// A JSON array of non-objects: each scalar becomes its own
				// single-field record.
				obj = &orderedObject{values: map[string]interface{}{}}
				obj.set("value", elem)
			}
			objects = append(objects, obj)
		}
	case *orderedObject:
		objects = append(objects, v)
	default:
		return Records{}, false
	}

	return objectsToRecords(objects), true
}

func objectsToRecords(objects []*orderedObject) Records {
	var headers []string
	seen := map[string]bool{}
	for _, obj := range objects {
		for _, k := range obj.keys {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}

	rows := make([]map[string]string, 0, len(objects))
	for _, obj := range objects {
		row := make(map[string]string, len(headers))
		for _, h := range headers {
			if v, ok := obj.values[h]; ok {
				row[h] = stringifyJSONValue(v)
			} else {
				row[h] = "-"
			}
		}
		rows = append(rows, row)
	}
	return Records{Headers: headers, Rows: rows}
}

func stringifyJSONValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case *orderedObject, []interface{}:
		raw, err := json.Marshal(reconstruct(v))
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes.TrimSpace(raw))
	default:
		return fmt.Sprintf("%v", t)
	}
}

// reconstruct converts our ordered-object tree back into something
// encoding/json can marshal (a plain map), for display purposes only —
// key order is not preserved in this nested case since it is only used
// to render a compact inline value.
func reconstruct(v interface{}) interface{} {
	switch t := v.(type) {
	case *orderedObject:
		m := make(map[string]interface{}, len(t.keys))
		for _, k := range t.keys {
			m[k] = reconstruct(t.values[k])
		}
		return m
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = reconstruct(e)
		}
		return out
	default:
		return t
	}
}

// decodeOrderedValue walks one JSON value from dec, preserving object key
// order via orderedObject.
func decodeOrderedValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeOrderedFromToken(dec, tok)
}

func decodeOrderedFromToken(dec *json.Decoder, tok json.Token) (interface{}, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := &orderedObject{values: map[string]interface{}{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				valTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := decodeOrderedFromToken(dec, valTok)
				if err != nil {
					return nil, err
				}
				obj.set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			var arr []interface{}
			for dec.More() {
				valTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := decodeOrderedFromToken(dec, valTok)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		}
	}
	return tok, nil
}
