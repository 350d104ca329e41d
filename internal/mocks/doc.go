// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of the store and service
// interfaces used throughout the application, facilitating consistent
// testing across the codebase. Instead of defining inline mocks in
// individual test files, these standardized implementations can be
// reused.
//
// Usage:
//
//	import "github.com/minsuk-dev/account-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    accountStore := mocks.NewMockAccountStore()
//	    accountStore.GetByNumberFn = func(ctx context.Context, number string) (*domain.Account, error) {
//	        return nil, store.ErrAccountNotFound
//	    }
//
//	    // Use the mock in your test...
//	}
//
// Each mock exposes a Fn field per interface method for custom
// behavior, with a reasonable map-backed default when the field is
// left nil.
package mocks
