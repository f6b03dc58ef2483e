package washapi

import (
	"context"

	"washlog/internal/core"
)

// Ports for the remote wash-center backend.
type (
	Authenticator interface {
		// Login exchanges credentials for the user's identity.
		Login(ctx context.Context, req core.LoginRequest) (core.Session, error)

		// Register creates a new account. The backend does not return an
		// identity; callers log in afterwards or store the known fields.
		Register(ctx context.Context, req core.SignupRequest) error
	}

	VehicleLister interface {
		// ListVehicles returns all entries owned by the user.
		ListVehicles(ctx context.Context, userID string) ([]core.VehicleEntry, error)
	}

	VehicleWriter interface {
		// AddVehicle creates an entry for the user. When the backend echoes
		// the created record, echoed is true and the returned entry carries
		// the authoritative id and timestamp.
		AddVehicle(ctx context.Context, userID string, e core.VehicleEntry) (created core.VehicleEntry, echoed bool, err error)
	}

	VehicleDeleter interface {
		DeleteEntry(ctx context.Context, id string) error
	}

	// Backend bundles every remote operation the app needs.
	Backend interface {
		Authenticator
		VehicleLister
		VehicleWriter
		VehicleDeleter
	}
)
