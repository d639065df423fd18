// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It defines error types that carry remediation steps plus a catalog of
// Markdown-formatted guidance rendered in the terminal when provisioning or
// build invocation fails.
package issue
