package cache

import (
	jsoniter "github.com/json-iterator/go"
)

// codec mirrors encoding/json, except that fields unknown to the target type fail decoding.
var codec = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

var jsonNull = []byte("null")
