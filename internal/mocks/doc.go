// Package mocks provides testify mocks of the domain interfaces.
//
// Every constructor registers a cleanup that asserts the mock's expectations.
package mocks

import "github.com/stretchr/testify/mock"

// testingT is the subset of *testing.T the constructors need.
type testingT interface {
	mock.TestingT
	Cleanup(func())
}
