// Package repository defines sentinel error values shared across the
// repositories so handlers can map storage outcomes onto HTTP statuses
// without inspecting driver errors. ErrNotFound covers absent products,
// users and OTP records alike; the *Exists values signal unique-key
// conflicts on create.
package repository

import "errors"

// ErrNotFound is returned when a point lookup matches no row, and by the
// counter updates when the target product has disappeared. Handlers
// translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a create or profile update collides with
// another account's email.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is the username counterpart of ErrEmailExists.
var ErrUsernameExists = errors.New("username already exists")

// ErrURLExists is returned when an explicit product create collides with
// the unique url key. The upsert path never returns it.
var ErrURLExists = errors.New("product url already exists")

// ErrOTPStoreDown is returned by the OTP repository when no Redis client
// is available. Handlers translate it into HTTP 500 like any other
// upstream failure.
var ErrOTPStoreDown = errors.New("otp store unavailable")
