// Package testutil builds ITF traces and deterministic run ids for tests.
package testutil
