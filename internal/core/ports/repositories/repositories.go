package repositories

// RepositoryContainer bundles all repository facades for wiring at startup.
type RepositoryContainer struct {
	Account  AccountRepositoryFacade
	Entry    EntryRepositoryFacade
	Closing  ClosingRepositoryFacade
	Transit  TransitRepositoryFacade
	Donation DonationRepositoryFacade
}
