package model

// Rejection is the reason a placement request failed. It implements error so
// callers can compare with errors.Is.
type Rejection int

const (
	RejectNone Rejection = iota
	RejectInvalidRoomGeometry
	RejectGridNotFound
	RejectDegenerateFootprint
	RejectOutOfBounds
	RejectCellOccupied
	RejectWallAdjacencyUnmet
	RejectConnectivityViolated
	RejectNoPlacementFound
	RejectItemNotFound
	RejectAlreadyPlaced
	RejectNotPlaced
	RejectInvalidRotation
)

func (r Rejection) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectInvalidRoomGeometry:
		return "invalid room geometry"
	case RejectGridNotFound:
		return "grid not found"
	case RejectDegenerateFootprint:
		return "degenerate footprint"
	case RejectOutOfBounds:
		return "out of bounds"
	case RejectCellOccupied:
		return "cell occupied"
	case RejectWallAdjacencyUnmet:
		return "wall adjacency unmet"
	case RejectConnectivityViolated:
		return "connectivity violated"
	case RejectNoPlacementFound:
		return "no placement found"
	case RejectItemNotFound:
		return "item not found"
	case RejectAlreadyPlaced:
		return "item already placed"
	case RejectNotPlaced:
		return "item not placed"
	case RejectInvalidRotation:
		return "rotation is not a multiple of 90 degrees"
	default:
		return "unknown rejection"
	}
}

func (r Rejection) Error() string {
	return r.String()
}
