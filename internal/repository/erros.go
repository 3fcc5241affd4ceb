package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrCotaExcedida marks a store failure caused by exhausted resources (Postgres
// SQLSTATE class 53). The pipelines surface it to the caller as a distinct
// outcome from a generic ingestion failure.
var ErrCotaExcedida = errors.New("cota do armazenamento excedida")

// ClassificarErro wraps resource-exhaustion store errors with ErrCotaExcedida
// and passes everything else through unchanged.
func ClassificarErro(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "53") {
		return fmt.Errorf("%w: %v", ErrCotaExcedida, err)
	}
	return err
}
