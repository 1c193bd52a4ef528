package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SaltSize is the number of random bytes used as a per-user password salt.
const SaltSize = 32
