package interfaces

import "market-dashboard/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger defines the interface for pushing dashboard updates to clients.
// -----------------------------------------------------------------------------

type IDataExchanger interface {

	// Broadcast queues an update for every subscriber of its topic and
	// remembers it as the topic's latest state.
	Broadcast(update models.MDashboardUpdate)

	// Start the server
	Start() error

	// Stop the server gracefully
	Stop() error
}
