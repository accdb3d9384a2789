// Package auth holds the account table, row-level visibility rules, signed
// access tokens and the session store that lets tokens be revoked.
package auth
