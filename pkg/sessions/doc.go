// Package sessions tracks issued refresh credentials. Each refresh token
// carries a unique token ID (jti) that keys a server-side session row;
// deleting the row revokes the token regardless of its signature.
package sessions
