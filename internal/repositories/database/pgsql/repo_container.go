package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/easyfibu/kassenbuch-service/internal/core/ports/repositories"
)

// NewRepositoryContainer wires all pgsql repositories over one pool. The
// closing and transit repositories get the concrete entry repository so the
// totals fold and linked ledger entries share their transactions.
func NewRepositoryContainer(dbPool *pgxpool.Pool) *portsrepo.RepositoryContainer {
	entryRepo := &PgxEntryRepository{BaseRepository{Pool: dbPool}}

	return &portsrepo.RepositoryContainer{
		Account:  newPgxAccountRepository(dbPool),
		Entry:    entryRepo,
		Closing:  newPgxClosingRepository(dbPool, entryRepo),
		Transit:  newPgxTransitRepository(dbPool, entryRepo),
		Donation: newPgxDonationRepository(dbPool),
	}
}
