// Package outputtest provides a recording output.Driver for tests.
package outputtest
