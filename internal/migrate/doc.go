// Package migrate runs one migration: it loads the legacy file, maps it,
// asks for confirmation, upserts the families and reconciles the reply.
package migrate
