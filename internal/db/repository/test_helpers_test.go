package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// pgID returns a stable uuid whose last byte is b.
func pgID(b byte) pgtype.UUID {
	return PGUUID(uuid.UUID{15: b})
}
