// Package otp issues and verifies single-use numeric codes bound to an
// email address or E.164 phone number.
//
// A challenge is usable while consumed_at is null and the current time is
// before expires_at. Consumption is a conditional update, so concurrent
// verifications of the same code succeed at most once. Successful
// verification finds or creates the user behind the target and issues a
// session, making it the passwordless entry point into the system.
package otp
