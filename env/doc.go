// SPDX-License-Identifier: Apache-2.0

/*
Package env provides an interface-based abstraction for environment variable
access, enabling dependency injection and testing isolation.

# Basic Usage

Use OSReader to read environment variables via the standard os package:

	reader := &env.OSReader{}
	value := reader.Getenv("MY_VAR")

# Testing

The Reader interface lets tests substitute a fake instead of touching
real environment variables:

	type fakeReader map[string]string

	func (f fakeReader) Getenv(key string) string { return f[key] }

	result := myFunc(fakeReader{"MY_VAR": "test-value"})

# Design

Production code accepts an env.Reader; tests substitute a fake. logger
uses this to decide its output format without calling os.Getenv directly.
*/
package env
