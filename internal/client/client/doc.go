// Package client contains client-side building blocks for profilekeeper.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the credential server: Ping, GetSalt, Register, Login, GetProfile
//     and PresignAvatar.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects the access token obtained at Login via an
//     interceptor, and maps gRPC status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) opening the
//     SQLite file and applying embedded goose migrations.
//
// # Error Handling
//
// Transport conditions are exposed as sentinel errors matched with
// errors.Is: ErrUnavailable, ErrUnauthorized, plus common.ErrorAlreadyExists
// and common.ErrorNotFound for the matching status codes.
//
// All operations accept context.Context and honor cancellation/timeouts.
package client
