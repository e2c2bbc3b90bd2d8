package services

import (
	portsrepo "github.com/easyfibu/kassenbuch-service/internal/core/ports/repositories"
	portssvc "github.com/easyfibu/kassenbuch-service/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized
// dependencies. The publisher may be nil; posting then works without events.
func NewServiceContainer(repos *portsrepo.RepositoryContainer, publisher portssvc.EventPublisherSvc) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account service first since posting paths validate against it.
	container.Account = NewAccountService(repos.Account, repos.Entry)

	container.Ledger = NewLedgerService(repos.Entry, repos.Closing, container.Account, publisher)

	// The closing figures are folded by the repository under the scope lock.
	container.Closing = NewClosingService(repos.Closing, publisher)
	container.Transit = NewTransitService(repos.Transit, container.Account)
	container.Donation = NewDonationService(repos.Donation)

	return container
}

// Compile-time checks that the implementations satisfy their facades.
var (
	_ portssvc.AccountSvcFacade  = (*AccountService)(nil)
	_ portssvc.LedgerSvcFacade   = (*LedgerService)(nil)
	_ portssvc.ClosingSvcFacade  = (*ClosingService)(nil)
	_ portssvc.TransitSvcFacade  = (*TransitService)(nil)
	_ portssvc.DonationSvcFacade = (*DonationService)(nil)
)
