package repository

import "errors"

// This file defines custom errors specific to the repository layer.
// This allows the repository to communicate outcomes in a database-agnostic way.

// ErrNotFound is returned when a query for a single entity finds no rows, or
// when a guarded write (e.g. AppendTurn) finds no live, owned conversation.
//
// The service layer translates it into `app_errors.ErrNotFound`, which keeps
// driver errors such as `sql.ErrNoRows` or `redis.Nil` out of business logic.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicate is returned when an insert or update violates a uniqueness
// constraint (e.g. a second account with the same email).
var ErrDuplicate = errors.New("repository: duplicate")
