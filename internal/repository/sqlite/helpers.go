package sqlite

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
	"github.com/prepdeck/prepdeck/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// mapConstraintErr converts a unique/primary-key violation into the
// repository's conflict sentinel so services can run their retry path.
// Two first reviews racing on the same (learner, item) land here.
func mapConstraintErr(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return repository.ErrVersionConflict
	}
	return err
}
