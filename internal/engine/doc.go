// Package engine turns a trace step's action tag and nondeterministic
// picks into a call on the bank state machine.
//
// Picks arrive as ITF option records ({"tag": "Some", "value": v}). A
// missing pick, a None pick or a value of the wrong type is a decode
// error for the step, not a bank outcome. An action tag the bank does not
// know is a bank outcome: it yields ErrCodeUnknownAction and leaves the
// state alone.
//
// The dispatcher holds no state between calls; the caller owns the
// running bank state and passes it to every Dispatch.
package engine
