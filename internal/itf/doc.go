// Package itf decodes and re-encodes values in the Informal Trace Format.
//
// ITF is the JSON convention model checkers use to serialize traces. Plain
// JSON cannot carry every model value, so ITF tags them with reserved keys:
//
//	{"#bigint": "-42"}                  arbitrary precision integer
//	{"#map": [[k1, v1], [k2, v2]]}      map as an ordered list of pairs
//	{"#set": [v1, v2]}                  set
//	{"#tup": [v1, v2]}                  tuple
//	{"#unserializable": "..."}          value the producer could not encode
//
// Any other object is a record. Decode turns a document into a sealed Value
// tree; the rest of the module works on Values and never looks at the tags.
//
// MarshalCanonical writes a Value back out with the same tags, using
// RFC 8785 key ordering so the bytes are stable enough to hash and to keep
// in golden files.
package itf
