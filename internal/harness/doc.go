// Package harness replays traces against the bank and reports where the
// implementation diverges from them.
//
// A Runner loads each trace source in turn, seeds a bank.State from the
// first step's expected state, and then for every step:
//
//  1. dispatches the step's action with its picks
//  2. decodes the step's expected state and expected error
//  3. compares both against what the bank produced
//
// Mismatches never stop a run. A trace that cannot be decoded is recorded
// as failed at the step where decoding broke, and the run moves on to the
// next trace.
//
// # State policy
//
// By default the running state is carried from step to step exactly as the
// bank produced it, so one mismatch can cascade into later steps. With
// Runner.Resync set, the running state is re-seeded from the expected state
// after every state mismatch, which isolates each divergence to the step
// that caused it.
package harness
