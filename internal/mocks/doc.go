// Package mocks provides centralized mock implementations for testing.
//
// Mocks follow one pattern: a struct with optional function fields for each
// interface method, default return values used when the function field is
// nil, and call tracking guarded by a mutex so the mock can be shared by
// concurrent requests.
//
// Usage:
//
//	client := mocks.NewScriptedTaskClient("t1",
//	    mocks.Respond(mocks.StatusPayload("ENHANCING")),
//	    mocks.Respond(mocks.CompletedPayload("PROCESSED", "out/1.png")),
//	)
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks
