// Package trace turns ITF trace documents and YAML scenarios into a uniform
// step model, and converts ITF bank states to and from bank.State.
//
// Decoding is lazy: Parse checks the document shape, while each step's
// expected state and expected error are decoded on demand. A malformed
// step therefore fails only from that step onward, and every failure is a
// *DecodeError naming the JSON path of the offending value.
package trace
