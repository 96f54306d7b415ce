// Package akeneo is a minimal client for the PIM REST API: OAuth2 password
// authentication and the measurement family endpoints.
package akeneo
